package runner

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/lapwatch/internal/logfields"
)

// Autosave flushes the session on a fixed interval so a crash between
// mutations loses at most one interval of wall time.
type Autosave struct {
	scheduler gocron.Scheduler
}

// NewAutosave schedules flush every interval and starts the scheduler.
func NewAutosave(interval time.Duration, flush func() error) (*Autosave, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	job, err := scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if err := flush(); err != nil {
				slog.Warn("autosave failed", logfields.Error(err))
			}
		}),
		gocron.WithName("session-autosave"),
	)
	if err != nil {
		return nil, fmt.Errorf("schedule autosave: %w", err)
	}
	scheduler.Start()
	slog.Debug("autosave scheduled",
		slog.String("job", job.ID().String()),
		slog.Duration("interval", interval))
	return &Autosave{scheduler: scheduler}, nil
}

// Stop shuts the scheduler down, waiting for a running flush to finish.
func (a *Autosave) Stop() error {
	if err := a.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("stop autosave scheduler: %w", err)
	}
	return nil
}

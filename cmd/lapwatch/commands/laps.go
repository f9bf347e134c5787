package commands

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"git.home.luguber.info/inful/lapwatch/internal/session"
	"git.home.luguber.info/inful/lapwatch/internal/stopwatch"
)

// LapsCmd implements the 'laps' command.
type LapsCmd struct{}

func (l *LapsCmd) Run(_ *Global, root *CLI) error {
	return withSession(root, false, func(sess *session.Session) error {
		laps := sess.Laps()
		if len(laps) == 0 {
			fmt.Println("no laps saved")
			return nil
		}
		for i, lap := range laps {
			fmt.Printf("%3d  %s  %-16s %s  %s\n",
				i, stopwatch.FormatElapsed(lap.Elapsed), lap.DisplayName(), lap.ID, humanize.Time(lap.CreatedAt))
		}
		return nil
	})
}

// RenameCmd implements the 'rename' command.
type RenameCmd struct {
	ID   string   `arg:"" help:"Lap id to rename"`
	Name []string `arg:"" help:"New name"`
}

func (r *RenameCmd) Run(_ *Global, root *CLI) error {
	name := strings.Join(r.Name, " ")
	return withSession(root, true, func(sess *session.Session) error {
		if !sess.Rename(r.ID, name) {
			return fmt.Errorf("no lap with id %s", r.ID)
		}
		fmt.Printf("renamed %s to %q\n", r.ID, name)
		return nil
	})
}

// DeleteCmd implements the 'delete' command.
type DeleteCmd struct {
	Positions []int `arg:"" help:"Lap positions to delete, 0 is the newest"`
}

func (d *DeleteCmd) Run(_ *Global, root *CLI) error {
	return withSession(root, true, func(sess *session.Session) error {
		removed := sess.DeleteLaps(d.Positions)
		fmt.Printf("removed %d of %d\n", removed, len(d.Positions))
		return nil
	})
}

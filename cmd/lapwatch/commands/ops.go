package commands

import (
	"errors"
	"fmt"

	"git.home.luguber.info/inful/lapwatch/internal/session"
	"git.home.luguber.info/inful/lapwatch/internal/stopwatch"
)

// StartCmd implements the 'start' command.
type StartCmd struct{}

func (s *StartCmd) Run(_ *Global, root *CLI) error {
	return withSession(root, true, func(sess *session.Session) error {
		if sess.Running() {
			fmt.Println("already running")
			return nil
		}
		sess.Start()
		fmt.Printf("started at %s\n", stopwatch.FormatElapsed(sess.Elapsed()))
		return nil
	})
}

// StopCmd implements the 'stop' command.
type StopCmd struct{}

func (s *StopCmd) Run(_ *Global, root *CLI) error {
	return withSession(root, true, func(sess *session.Session) error {
		if !sess.Running() {
			fmt.Println("already stopped")
			return nil
		}
		sess.Stop()
		fmt.Printf("stopped at %s\n", stopwatch.FormatElapsed(sess.Elapsed()))
		return nil
	})
}

// ToggleCmd implements the 'toggle' command.
type ToggleCmd struct{}

func (t *ToggleCmd) Run(_ *Global, root *CLI) error {
	return withSession(root, true, func(sess *session.Session) error {
		if sess.Toggle() {
			fmt.Printf("started at %s\n", stopwatch.FormatElapsed(sess.Elapsed()))
		} else {
			fmt.Printf("stopped at %s\n", stopwatch.FormatElapsed(sess.Elapsed()))
		}
		return nil
	})
}

// LapCmd implements the 'lap' command.
type LapCmd struct{}

func (l *LapCmd) Run(_ *Global, root *CLI) error {
	return withSession(root, true, func(sess *session.Session) error {
		lap := sess.SaveLap()
		fmt.Printf("saved %s at %s\n", lap.Name, stopwatch.FormatElapsed(lap.Elapsed))
		return nil
	})
}

// ResetCmd implements the 'reset' command.
type ResetCmd struct {
	Yes bool `help:"Reset without asking"`
}

func (r *ResetCmd) Run(_ *Global, root *CLI) error {
	if !r.Yes {
		return errors.New("refusing to reset without --yes")
	}
	return withSession(root, true, func(sess *session.Session) error {
		sess.Reset()
		fmt.Println("clock reset to 00:00:00, laps kept")
		return nil
	})
}

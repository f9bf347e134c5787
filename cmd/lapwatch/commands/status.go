package commands

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/lapwatch/internal/session"
	"git.home.luguber.info/inful/lapwatch/internal/stopwatch"
)

// StatusCmd implements the 'status' command.
type StatusCmd struct{}

func (s *StatusCmd) Run(_ *Global, root *CLI) error {
	return withSession(root, false, func(sess *session.Session) error {
		fmt.Println(statusLine(sess.Snapshot()))
		return nil
	})
}

// TotalCmd implements the 'total' command.
type TotalCmd struct{}

func (t *TotalCmd) Run(_ *Global, root *CLI) error {
	return withSession(root, false, func(sess *session.Session) error {
		laps := sess.Laps()
		var total time.Duration
		for _, lap := range laps {
			total += lap.Elapsed
		}
		fmt.Printf("%d laps, total %s\n", len(laps), stopwatch.FormatElapsed(total))
		return nil
	})
}

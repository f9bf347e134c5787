package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"git.home.luguber.info/inful/lapwatch/internal/session"
	"git.home.luguber.info/inful/lapwatch/internal/stopwatch"
)

const consoleHelp = `commands:
  start             start the clock
  stop              stop the clock
  toggle            start if stopped, stop if running
  lap               save the current time as a lap
  laps              list saved laps, newest first
  rename <id> <name>  rename a lap
  delete <pos>...   delete laps by list position
  total             show lap count and summed lap time
  reset             zero the clock, laps are kept
  status            show the current state
  help              show this help
  quit              exit`

// Console is the interactive command loop for a foreground run. It reads
// whitespace-separated commands line by line and prints results to out.
type Console struct {
	sess *session.Session
	in   io.Reader
	out  io.Writer
}

// NewConsole returns a console bound to the given streams.
func NewConsole(sess *session.Session, in io.Reader, out io.Writer) *Console {
	return &Console{sess: sess, in: in, out: out}
}

// Run processes commands until EOF, a quit command, or context cancellation.
// Shutting down via context is not an error.
func (c *Console) Run(ctx context.Context) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(c.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Fprintln(c.out, `lapwatch console, type "help" for commands`)
	c.prompt()
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if c.dispatch(line) {
				return nil
			}
			c.prompt()
		}
	}
}

func (c *Console) prompt() {
	fmt.Fprint(c.out, "> ")
}

// dispatch runs one command line and reports whether the console should
// exit.
func (c *Console) dispatch(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "start":
		c.sess.Start()
		c.printStatus()
	case "stop":
		c.sess.Stop()
		c.printStatus()
	case "toggle":
		c.sess.Toggle()
		c.printStatus()
	case "lap":
		lap := c.sess.SaveLap()
		fmt.Fprintf(c.out, "saved %s at %s\n", lap.Name, stopwatch.FormatElapsed(lap.Elapsed))
	case "laps":
		c.printLaps()
	case "rename":
		if len(args) < 2 {
			fmt.Fprintln(c.out, "usage: rename <id> <name>")
			return false
		}
		id, name := args[0], strings.Join(args[1:], " ")
		if c.sess.Rename(id, name) {
			fmt.Fprintf(c.out, "renamed %s to %q\n", id, name)
		} else {
			fmt.Fprintf(c.out, "no lap with id %s\n", id)
		}
	case "delete":
		c.deleteLaps(args)
	case "total":
		snap := c.sess.Snapshot()
		var total time.Duration
		for _, lap := range snap.Laps {
			total += lap.Elapsed
		}
		fmt.Fprintf(c.out, "%d laps, total %s\n", len(snap.Laps), stopwatch.FormatElapsed(total))
	case "reset":
		c.sess.Reset()
		c.printStatus()
	case "status":
		c.printStatus()
	case "help":
		fmt.Fprintln(c.out, consoleHelp)
	case "quit", "exit":
		return true
	default:
		fmt.Fprintf(c.out, "unknown command %q, type \"help\"\n", cmd)
	}
	return false
}

func (c *Console) deleteLaps(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(c.out, "usage: delete <pos>...")
		return
	}
	indices := make([]int, 0, len(args))
	for _, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			fmt.Fprintf(c.out, "not a lap position: %s\n", arg)
			return
		}
		indices = append(indices, n)
	}
	removed := c.sess.DeleteLaps(indices)
	fmt.Fprintf(c.out, "removed %d of %d\n", removed, len(indices))
}

func (c *Console) printStatus() {
	snap := c.sess.Snapshot()
	state := "stopped"
	if snap.Running {
		state = "running"
	}
	fmt.Fprintf(c.out, "%s  %s  %d laps\n", stopwatch.FormatElapsed(snap.Elapsed), state, len(snap.Laps))
}

func (c *Console) printLaps() {
	laps := c.sess.Laps()
	if len(laps) == 0 {
		fmt.Fprintln(c.out, "no laps saved")
		return
	}
	for i, lap := range laps {
		fmt.Fprintf(c.out, "%3d  %s  %-16s %s  %s\n",
			i, stopwatch.FormatElapsed(lap.Elapsed), lap.DisplayName(), lap.ID, humanize.Time(lap.CreatedAt))
	}
}

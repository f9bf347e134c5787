package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/lapwatch/internal/runner"
)

// RunCmd implements the 'run' command.
type RunCmd struct {
	Ephemeral bool `help:"Keep the session in memory only, nothing is persisted"`
	NoConsole bool `help:"Disable the interactive console and serve HTTP until interrupted"`
}

func (r *RunCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	run := runner.New(cfg, runner.Options{
		ConfigPath: root.Config,
		Ephemeral:  r.Ephemeral,
		NoConsole:  r.NoConsole,
	})
	if err := run.Run(ctx); err != nil {
		return fmt.Errorf("run session: %w", err)
	}
	return nil
}

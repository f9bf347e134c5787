package commands

import (
	"fmt"

	"git.home.luguber.info/inful/lapwatch/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	// Provide friendly user-facing messages on stdout for CLI integration tests.
	fmt.Printf("Writing configuration to %s\n", root.Config)
	if err := config.WriteDefault(root.Config, i.Force); err != nil {
		fmt.Println("Initialization failed")
		return err
	}
	fmt.Println("initialized successfully")
	return nil
}

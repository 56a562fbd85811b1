package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/tinypub/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Output string `short:"o" name:"output" help:"Output directory for generated config file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	if i.Output != "" {
		return RunInit(filepath.Join(i.Output, "tinypub.yaml"), i.Force)
	}
	return RunInit(root.Config, i.Force)
}

func RunInit(configPath string, force bool) error {
	fmt.Fprintln(stdout, "Initializing tinypub project")
	fmt.Fprintf(stdout, "Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		fmt.Fprintln(stdout, "Initialization failed")
		return err
	}
	fmt.Fprintln(stdout, "initialized successfully")
	fmt.Fprintln(stdout, "Set TINYPUB_KEYPEM to the actor's public key before building")
	return nil
}

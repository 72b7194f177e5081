package commands

import (
	"fmt"

	"github.com/sys27/garden/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	return RunInit(g, root.Config, i.Force)
}

// RunInit writes the example configuration to configPath.
func RunInit(g *Global, configPath string, force bool) error {
	out := g.out()
	_, _ = fmt.Fprintln(out, "Initializing garden project")
	_, _ = fmt.Fprintf(out, "Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		_, _ = fmt.Fprintln(out, "Initialization failed")
		return err
	}
	_, _ = fmt.Fprintln(out, "initialized successfully")
	return nil
}

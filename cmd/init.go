package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rubiojr/dataplans/pkg/config"
	"github.com/urfave/cli/v3"
)

// InitCommand creates the init command
func InitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a sample configuration file",
		Flags: []cli.Flag{
			dataFlag(),
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing configuration file",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return initConfig(c.String("config"), c.String("data"), c.Bool("force"))
		},
	}
}

// initConfig writes the sample configuration, refusing to replace an
// existing file unless force is set.
func initConfig(configPath, dataFile string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", configPath)
	}
	cfg := config.GetDefaultConfig()
	if dataFile != "" {
		cfg.DataFile = dataFile
	}
	if err := cfg.SaveTemplateConfig(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("Configuration initialized at %s\n", configPath)
	return nil
}

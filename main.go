package main

import (
	"context"
	stdlog "log"
	"os"

	"github.com/joho/godotenv"
	"github.com/rubiojr/dataplans/cmd"
	"github.com/rubiojr/dataplans/pkg/config"
	"github.com/rubiojr/dataplans/pkg/log"
	"github.com/urfave/cli/v3"
)

func main() {
	// Optional .env with DATAPLANS_* overrides.
	_ = godotenv.Load()

	app := &cli.Command{
		Name:  "dataplans",
		Usage: "Search, filter and export telecom data plan packages",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
				Value: false,
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file path",
				Value: getDefaultConfigPathOrExit(),
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if c.Bool("debug") {
				log.SetGlobalDebug(true)
			}
			log.EnableDebugList(os.Getenv(log.EnvDebug))
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmd.InitCommand(),
			cmd.WebCommand(),
			cmd.SearchCommand(),
			cmd.StatsCommand(),
			cmd.ExportCommand(),
			cmd.VersionCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		stdlog.Fatal(err)
	}
}

func getDefaultConfigPathOrExit() string {
	path, err := config.GetDefaultConfigPath()
	if err != nil {
		stdlog.Fatalf("Failed to get default config path: %v", err)
	}
	return path
}

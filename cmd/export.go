package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rubiojr/dataplans/pkg/core"
	"github.com/rubiojr/dataplans/pkg/log"
	"github.com/rubiojr/dataplans/pkg/report"
	"github.com/urfave/cli/v3"
)

// ExportCommand creates the export command
func ExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export search results or the filtered catalogue to xlsx, csv or a text summary",
		Flags: append(queryFlags(),
			dataFlag(),
			&cli.StringFlag{
				Name:     "format",
				Aliases:  []string{"f"},
				Usage:    "Export format: xlsx, csv or summary",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file or directory (default: timestamped name in the current directory)",
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			f, err := report.ParseFormat(c.String("format"))
			if err != nil {
				return err
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			_, records, err := openStore(cfg)
			if err != nil {
				return err
			}
			rs, err := runQuery(cfg, records, queryValues(c))
			if err != nil {
				return err
			}

			path, err := exportResults(report.New(), f, rs, c.String("output"))
			if err != nil {
				return err
			}
			fmt.Fprintf(c.Root().Writer, "Exported %d packages to %s\n", rs.Len(), path)
			return nil
		},
	}
}

// exportResults writes rs in format f. An empty output or a directory gets
// the timestamped default file name.
func exportResults(gen *report.Generator, f report.Format, rs core.ResultSet, output string) (string, error) {
	data, err := gen.Generate(f, rs)
	if err != nil {
		return "", err
	}

	name := report.Filename(f, gen.Now())
	path := output
	switch {
	case path == "":
		path = name
	case isDir(path):
		path = filepath.Join(path, name)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	log.ForService("report").Debugf("wrote %d bytes to %s", len(data), path)
	return path, nil
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

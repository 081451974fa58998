package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rubiojr/dataplans/pkg/core"
	"github.com/urfave/cli/v3"
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search packages by code or name",
		Flags: append(queryFlags(),
			dataFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print results as JSON",
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.String("query") == "" {
				return fmt.Errorf("--query is required")
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
			return writeResults(c.Root().Writer, rs, c.Bool("json"))
		},
	}
}

func writeResults(w io.Writer, rs core.ResultSet, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rs); err != nil {
			return fmt.Errorf("encoding results: %w", err)
		}
		return nil
	}
	printResults(w, rs)
	return nil
}

package cmd

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/rubiojr/dataplans/pkg/config"
	"github.com/rubiojr/dataplans/pkg/core"
	"github.com/rubiojr/dataplans/pkg/filter"
	"github.com/rubiojr/dataplans/pkg/search"
	"github.com/rubiojr/dataplans/pkg/store"
	"github.com/urfave/cli/v3"
)

func dataFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "data",
		Usage: "CSV file with the package catalogue (default from config)",
	}
}

// loadConfig reads the config file, then applies environment variables and
// finally any flags set on the command line.
func loadConfig(c *cli.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	applyFlags(cfg, c)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags copies the flags the user set onto cfg. Commands that do not
// define a flag leave the value alone.
func applyFlags(cfg *config.Config, c *cli.Command) {
	if c.IsSet("data") {
		cfg.DataFile = c.String("data")
	}
	if c.IsSet("host") {
		cfg.Web.Host = c.String("host")
	}
	if c.IsSet("port") {
		cfg.Web.Port = c.String("port")
	}
	if c.IsSet("threshold") {
		cfg.Search.Threshold = c.Float("threshold")
	}
}

// openStore loads the dataset named by cfg, failing fast on any data source
// error.
func openStore(cfg *config.Config) (*store.Store, []core.Record, error) {
	st := store.New(cfg.DataFile)
	records, err := st.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading dataset: %w", err)
	}
	return st, records, nil
}

func codeBoost(cfg *config.Config) search.CodeBoost {
	return search.CodeBoost{
		Prefix:    cfg.Search.CodePrefixScore,
		Substring: cfg.Search.CodeSubstringScore,
	}
}

// searchDefaults are the parameters used for values a request omits.
func searchDefaults(cfg *config.Config) search.Params {
	p := search.DefaultParams()
	p.Threshold = cfg.Search.Threshold
	p.Limit = cfg.Search.MaxResults
	p.Size = cfg.Web.PageSize
	return p
}

// keepFunc returns the record predicate for criteria, nil when no
// criterion is set.
func keepFunc(criteria filter.Criteria) func(*core.Record) bool {
	if criteria.IsZero() {
		return nil
	}
	return criteria.Match
}

// queryFlags are the search and filter flags shared by the search and
// export commands.
func queryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "query",
			Aliases: []string{"q"},
			Usage:   "Search query or regular expression",
		},
		&cli.StringFlag{
			Name:  "mode",
			Usage: "Search mode: fuzzy or regex",
			Value: string(search.ModeFuzzy),
		},
		&cli.FloatFlag{
			Name:  "threshold",
			Usage: "Minimum similarity score, 0-100 (default from config)",
		},
		&cli.StringFlag{
			Name:  "fields",
			Usage: "Fuzzy fields: code, name or both",
		},
		&cli.StringFlag{
			Name:  "scope",
			Usage: "Regex scope: code, name, both, description or all",
		},
		&cli.BoolFlag{
			Name:  "case-sensitive",
			Usage: "Case sensitive regex matching",
		},
		&cli.StringSliceFlag{
			Name:  "source",
			Usage: "Only packages from these sources (myvnpt, vinaphone, digishop)",
		},
		&cli.FloatFlag{Name: "price-min", Usage: "Minimum price"},
		&cli.FloatFlag{Name: "price-max", Usage: "Maximum price"},
		&cli.FloatFlag{Name: "data-min", Usage: "Minimum data in GB"},
		&cli.FloatFlag{Name: "data-max", Usage: "Maximum data in GB"},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "Maximum number of results (0 for the configured default)",
		},
	}
}

// queryValues converts the query flags to the same values the HTTP
// handlers parse, so every front end shares one parsing path.
func queryValues(c *cli.Command) url.Values {
	v := url.Values{}
	v.Set("q", c.String("query"))
	v.Set("mode", c.String("mode"))
	if c.IsSet("threshold") {
		v.Set("threshold", strconv.FormatFloat(c.Float("threshold"), 'f', -1, 64))
	}
	if c.IsSet("fields") {
		v.Set("fields", c.String("fields"))
	}
	if c.IsSet("scope") {
		v.Set("scope", c.String("scope"))
	}
	if c.Bool("case-sensitive") {
		v.Set("case", "true")
	}
	if c.Int("limit") > 0 {
		v.Set("limit", strconv.Itoa(c.Int("limit")))
	}
	for _, s := range c.StringSlice("source") {
		v.Add("source", s)
	}
	for _, name := range []string{"price-min", "price-max", "data-min", "data-max"} {
		if c.IsSet(name) {
			v.Set(flagToParam(name), strconv.FormatFloat(c.Float(name), 'f', -1, 64))
		}
	}
	return v
}

func flagToParam(name string) string {
	switch name {
	case "price-min":
		return "price_min"
	case "price-max":
		return "price_max"
	case "data-min":
		return "data_min"
	case "data-max":
		return "data_max"
	}
	return name
}

// runQuery executes the query described by values against records. A
// blank query browses the filtered dataset.
func runQuery(cfg *config.Config, records []core.Record, values url.Values) (core.ResultSet, error) {
	params, err := search.ParseParamsFrom(searchDefaults(cfg), values)
	if err != nil {
		return core.ResultSet{}, err
	}
	criteria, err := filter.Parse(values)
	if err != nil {
		return core.ResultSet{}, err
	}
	engine := search.NewEngine(records, codeBoost(cfg))
	if params.Query == "" {
		return engine.Browse(keepFunc(criteria)), nil
	}
	return engine.Run(params, keepFunc(criteria))
}

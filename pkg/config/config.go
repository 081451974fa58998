package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

//go:embed config.toml.sample
var configTemplate string

// Environment variables that override the config file.
const (
	EnvDataFile  = "DATAPLANS_DATA_FILE"
	EnvPageSize  = "DATAPLANS_PAGE_SIZE"
	EnvThreshold = "DATAPLANS_THRESHOLD"
	EnvHost      = "DATAPLANS_HOST"
	EnvPort      = "DATAPLANS_PORT"
)

type Config struct {
	DataFile string       `toml:"data_file" validate:"required"`
	Search   SearchConfig `toml:"search"`
	Web      WebConfig    `toml:"web"`
}

type SearchConfig struct {
	// Threshold is the default minimum similarity score.
	Threshold float64 `toml:"threshold" validate:"gte=0,lte=100"`
	// MaxResults caps fuzzy results; 0 means unlimited.
	MaxResults         int     `toml:"max_results" validate:"gte=0"`
	CodePrefixScore    float64 `toml:"code_prefix_score" validate:"gte=0,lte=100"`
	CodeSubstringScore float64 `toml:"code_substring_score" validate:"gte=0,lte=100"`
}

type WebConfig struct {
	Host        string   `toml:"host" validate:"required"`
	Port        string   `toml:"port" validate:"required,numeric"`
	PageSize    int      `toml:"page_size" validate:"oneof=50 100 200 500"`
	SessionTTL  Duration `toml:"session_ttl"`
	MaxSessions int      `toml:"max_sessions" validate:"gte=0"`
}

type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// Addr returns host:port for the web server.
func (w WebConfig) Addr() string {
	return w.Host + ":" + w.Port
}

func GetDefaultConfig() *Config {
	return &Config{
		DataFile: "unified_packages_clean.csv",
		Search: SearchConfig{
			Threshold:          60,
			MaxResults:         0,
			CodePrefixScore:    95,
			CodeSubstringScore: 90,
		},
		Web: WebConfig{
			Host:        "localhost",
			Port:        "8501",
			PageSize:    50,
			SessionTTL:  Duration{2 * time.Hour},
			MaxSessions: 1000,
		},
	}
}

// LoadConfig reads configPath on top of the defaults. A missing file yields
// the defaults. Keys absent from the file keep their default values.
func LoadConfig(configPath string) (*Config, error) {
	config := GetDefaultConfig()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if config.Web.SessionTTL.Duration == 0 {
		config.Web.SessionTTL = Duration{2 * time.Hour}
	}

	return config, nil
}

// ApplyEnv overrides settings from environment variables. getenv is
// usually os.Getenv; unset variables are skipped.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvDataFile); v != "" {
		c.DataFile = v
	}
	if v := getenv(EnvHost); v != "" {
		c.Web.Host = v
	}
	if v := getenv(EnvPort); v != "" {
		c.Web.Port = v
	}
	if v := getenv(EnvPageSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvPageSize, err)
		}
		c.Web.PageSize = n
	}
	if v := getenv(EnvThreshold); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvThreshold, err)
		}
		c.Search.Threshold = f
	}
	return nil
}

// Validate rejects out-of-range settings, naming the offending TOML key.
func (c *Config) Validate() error {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("toml")
	})
	err := v.Struct(c)
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		key := strings.TrimPrefix(fe.Namespace(), "Config.")
		return fmt.Errorf("invalid config value for %s: %v (%s %s)", key, fe.Value(), fe.Tag(), fe.Param())
	}
	return fmt.Errorf("validating config: %w", err)
}

func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// SaveTemplateConfig writes the commented sample config, pointing data_file
// at the configured dataset.
func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	template := strings.Replace(configTemplate, "unified_packages_clean.csv", c.DataFile, 1)
	return os.WriteFile(configPath, []byte(template), 0644)
}

// GetConfigDir returns the configuration directory for dataplans
func GetConfigDir() (string, error) {
	// Use XDG_CONFIG_HOME if set, otherwise use ~/.config
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "dataplans"), nil
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Driver   string `yaml:"driver"` // "mysql" or "sqlite"
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	Path     string `yaml:"path"` // sqlite database file
	DSN      string `yaml:"dsn"`  // used verbatim when set
}

// DataSourceName returns the DSN for sql.Open with the configured driver.
func (c DatabaseConfig) DataSourceName() string {
	if c.DSN != "" {
		return c.DSN
	}
	if c.Driver == DriverSQLite {
		return c.Path
	}
	// DSN: username:password@protocol(address)/dbname?param=value
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.DBName,
	)
}

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type PortalConfig struct {
	LandingURL        string        `yaml:"landing_url"`
	SubmitURL         string        `yaml:"submit_url"`
	UserAgent         string        `yaml:"user_agent"`
	RequestTimeoutStr string        `yaml:"request_timeout"`
	SubmitIntervalStr string        `yaml:"submit_interval"`
	RequestTimeout    time.Duration `yaml:"-"` // Parsed duration
	SubmitInterval    time.Duration `yaml:"-"` // Parsed duration, 0 disables pacing
}

type OutputConfig struct {
	DataDir string `yaml:"data_dir"`
	Format  string `yaml:"format"` // "csv" or "json"
}

type RefreshConfig struct {
	Schedule      string   `yaml:"schedule"` // cron spec, empty disables scheduled refresh
	Pairs         []string `yaml:"pairs"`    // "DL-ATL"
	International bool     `yaml:"international"`
	Metrics       []string `yaml:"metrics"`
	Concurrency   int      `yaml:"concurrency"`
}

type CacheConfig struct {
	TTLStr string        `yaml:"ttl"`
	TTL    time.Duration `yaml:"-"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Portal   PortalConfig   `yaml:"portal"`
	Output   OutputConfig   `yaml:"output"`
	Codes    CodeTables     `yaml:"codes"`
	Refresh  RefreshConfig  `yaml:"refresh"`
	Cache    CacheConfig    `yaml:"cache"`
}

// Environment variables that take precedence over the yaml files.
const (
	EnvDBPassword = "AIRTRAFFIC_DB_PASSWORD"
	EnvDBDSN      = "AIRTRAFFIC_DB_DSN"
	EnvDataDir    = "AIRTRAFFIC_DATA_DIR"
)

// LoadConfig builds the configuration from the built-in defaults, the yaml file at
// configPath, an optional "<name>.local.yaml" next to it, a sibling .env file and
// the process environment, in increasing order of precedence.
// An empty configPath searches the usual locations and falls back to defaults.
func LoadConfig(configPath string) (*Config, error) {
	cfg := Default()

	if configPath == "" {
		potentialPaths := []string{
			"config.yaml",
			"config/config.yaml",
			"../config/config.yaml",
		}
		for _, p := range potentialPaths {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
	}

	if configPath != "" {
		log.Printf("Config: Loading configuration from %s\n", configPath)
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		defaults := cfg.Codes
		cfg.Codes.Airlines = nil
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
		if cfg.Codes.Airlines == nil {
			cfg.Codes.Airlines = defaults.Airlines
		}

		if err := mergeLocalOverride(cfg, configPath); err != nil {
			return nil, err
		}
		if err := loadDotEnv(filepath.Join(filepath.Dir(configPath), ".env")); err != nil {
			return nil, err
		}
	} else {
		log.Println("Config: No config file found, using built-in defaults")
		if err := loadDotEnv(".env"); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeLocalOverride overlays config.local.yaml (same directory, same base name) when present.
func mergeLocalOverride(cfg *Config, configPath string) error {
	ext := filepath.Ext(configPath)
	localPath := strings.TrimSuffix(configPath, ext) + ".local" + ext

	file, err := os.ReadFile(localPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read local config %s: %w", localPath, err)
	}

	var override Config
	if err := yaml.Unmarshal(file, &override); err != nil {
		return fmt.Errorf("failed to unmarshal local config %s: %w", localPath, err)
	}
	// A code table in the override replaces the loaded one instead of adding to it.
	if override.Codes.Airlines != nil {
		cfg.Codes.Airlines = override.Codes.Airlines
	}
	if err := mergo.Merge(cfg, override, mergo.WithOverride); err != nil {
		return fmt.Errorf("failed to merge local config %s: %w", localPath, err)
	}
	log.Printf("Config: Merged local overrides from %s\n", localPath)
	return nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	log.Printf("Config: Loaded environment from %s\n", path)
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvDBPassword); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv(EnvDBDSN); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.Output.DataDir = v
	}
}

// finalize parses durations and checks the values the pipeline cannot run without.
func (c *Config) finalize() error {
	var err error

	// Parse durations
	if c.Portal.RequestTimeoutStr != "" {
		c.Portal.RequestTimeout, err = time.ParseDuration(c.Portal.RequestTimeoutStr)
		if err != nil {
			return fmt.Errorf("failed to parse portal request_timeout: %w", err)
		}
	}
	if c.Portal.RequestTimeout <= 0 {
		c.Portal.RequestTimeout = 30 * time.Second // Default
	}
	if c.Portal.SubmitIntervalStr != "" {
		c.Portal.SubmitInterval, err = time.ParseDuration(c.Portal.SubmitIntervalStr)
		if err != nil {
			return fmt.Errorf("failed to parse portal submit_interval: %w", err)
		}
	}
	if c.Cache.TTLStr != "" {
		c.Cache.TTL, err = time.ParseDuration(c.Cache.TTLStr)
		if err != nil {
			return fmt.Errorf("failed to parse cache ttl: %w", err)
		}
	}

	if c.Portal.LandingURL == "" || c.Portal.SubmitURL == "" {
		return fmt.Errorf("portal landing_url and submit_url must be configured")
	}
	switch c.Output.Format {
	case "csv", "json":
	default:
		return fmt.Errorf("unknown output format %q, use csv or json", c.Output.Format)
	}
	if c.Database.Enabled {
		switch c.Database.Driver {
		case DriverMySQL, DriverSQLite:
		default:
			return fmt.Errorf("unknown database driver %q, use %s or %s", c.Database.Driver, DriverMySQL, DriverSQLite)
		}
	}
	if len(c.Codes.Airlines) == 0 || len(c.Codes.Airports) == 0 {
		return fmt.Errorf("airline and airport code tables must not be empty")
	}
	if c.Refresh.Concurrency <= 0 {
		c.Refresh.Concurrency = 1
	}
	return nil
}

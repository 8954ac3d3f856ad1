package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv    = "FGDC_MIGRATOR_CONFIG"
	databaseDSNEnv   = "DATABASE_DSN"
	zenodoTokenEnv   = "ZENODO_TOKEN"
	zenodoSandboxEnv = "ZENODO_SANDBOX"
	reportDirEnv     = "REPORT_DIR"
)

// Config holds high-level settings required across the application.
type Config struct {
	Database    DatabaseConfig     `yaml:"database"`
	Zenodo      ZenodoConfig       `yaml:"zenodo"`
	Report      ReportConfig       `yaml:"report"`
	Pipeline    PipelineConfig     `yaml:"pipeline"`
	Logging     LoggingConfig      `yaml:"logging"`
	Collections []CollectionConfig `yaml:"collections"`
}

// DatabaseConfig describes Postgres connection details. An empty DSN
// disables persistence and reruns reprocess everything.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// ZenodoConfig wires the deposition API. Upload stays off unless a token is
// configured; Publish additionally requires an explicit opt-in because
// published records cannot be deleted.
type ZenodoConfig struct {
	Token   string `yaml:"token"`
	Sandbox bool   `yaml:"sandbox"`
	Upload  bool   `yaml:"upload"`
	Publish bool   `yaml:"publish"`
}

// ReportConfig controls where per-record outcomes and the run summary land.
type ReportConfig struct {
	Dir string `yaml:"dir"`
}

// PipelineConfig tunes batch execution.
type PipelineConfig struct {
	Workers int `yaml:"workers"`
}

// LoggingConfig selects the log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// CollectionConfig describes a single metadata collection with its source
// strategy (catalogue crawl or local directory).
type CollectionConfig struct {
	Name     string            `yaml:"name"`
	Source   string            `yaml:"source"`
	Location string            `yaml:"location"`
	Options  map[string]string `yaml:"options"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Collections) == 0 {
		cfg.Collections = defaultConfig().Collections
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(zenodoTokenEnv); v != "" {
		c.Zenodo.Token = v
	}

	if v := os.Getenv(zenodoSandboxEnv); v != "" {
		if sandbox, err := strconv.ParseBool(v); err == nil {
			c.Zenodo.Sandbox = sandbox
		} else {
			log.Printf("config: invalid %s value %q, keeping %v", zenodoSandboxEnv, v, c.Zenodo.Sandbox)
		}
	}

	if v := os.Getenv(reportDirEnv); v != "" {
		c.Report.Dir = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Zenodo.Token != "" {
		base.Zenodo.Token = override.Zenodo.Token
	}
	if override.Zenodo.Sandbox {
		base.Zenodo.Sandbox = true
	}
	if override.Zenodo.Upload {
		base.Zenodo.Upload = true
	}
	if override.Zenodo.Publish {
		base.Zenodo.Publish = true
	}

	if override.Report.Dir != "" {
		base.Report.Dir = override.Report.Dir
	}

	if override.Pipeline.Workers > 0 {
		base.Pipeline.Workers = override.Pipeline.Workers
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if len(override.Collections) > 0 {
		base.Collections = override.Collections
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Database: DatabaseConfig{DSN: ""},
		Zenodo:   ZenodoConfig{Sandbox: true},
		Report:   ReportConfig{Dir: "reports"},
		Pipeline: PipelineConfig{Workers: 4},
		Logging:  LoggingConfig{Level: "info"},
		Collections: []CollectionConfig{
			{
				Name:     "local-fgdc",
				Source:   "directory",
				Location: "metadata",
			},
		},
	}
}

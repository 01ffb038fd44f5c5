package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/salescrub/internal/utils"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	DataDir     string `mapstructure:"data_dir" yaml:"data_dir"`
	RawDir      string `mapstructure:"raw_dir" yaml:"raw_dir"`
	PreparedDir string `mapstructure:"prepared_dir" yaml:"prepared_dir"`
	// RulesFile points at a pipeline rules YAML; empty uses the built-in rules.
	RulesFile string `mapstructure:"rules_file" yaml:"rules_file"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

func defaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".salescrub"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.salescrub/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := defaultConfigDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c.persisted())
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SALESCRUB")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data_dir", "data")
	v.SetDefault("raw_dir", "")
	v.SetDefault("prepared_dir", "")
	v.SetDefault("rules_file", "")
	v.SetDefault("delimiter", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := defaultConfigDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read; an explicit --config must exist
	if err := v.ReadInConfig(); err != nil && cfgFile != "" {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.resolve(); err != nil {
		return nil, err
	}
	return &c, nil
}

// resolve expands "~" and derives raw/prepared directories from data_dir.
func (c *Global) resolve() error {
	var err error
	if c.DataDir, err = utils.ExpandHome(c.DataDir); err != nil {
		return err
	}
	raw, prepared := c.derivedDirs()
	if c.RawDir == "" {
		c.RawDir = raw
	} else if c.RawDir, err = utils.ExpandHome(c.RawDir); err != nil {
		return err
	}
	if c.PreparedDir == "" {
		c.PreparedDir = prepared
	} else if c.PreparedDir, err = utils.ExpandHome(c.PreparedDir); err != nil {
		return err
	}
	if c.RulesFile != "" {
		if c.RulesFile, err = utils.ExpandHome(c.RulesFile); err != nil {
			return err
		}
	}
	return nil
}

// SetDataDir changes data_dir. Raw and prepared directories that were derived
// from the previous data_dir follow it; explicitly configured ones stay put.
func (c *Global) SetDataDir(dir string) error {
	oldRaw, oldPrepared := c.derivedDirs()
	d, err := utils.ExpandHome(dir)
	if err != nil {
		return err
	}
	c.DataDir = d
	raw, prepared := c.derivedDirs()
	if c.RawDir == "" || c.RawDir == oldRaw {
		c.RawDir = raw
	}
	if c.PreparedDir == "" || c.PreparedDir == oldPrepared {
		c.PreparedDir = prepared
	}
	return nil
}

func (c *Global) derivedDirs() (raw, prepared string) {
	return filepath.Join(c.DataDir, "raw"), filepath.Join(c.DataDir, "prepared")
}

// persisted returns the values worth writing to disk: directories that merely
// follow data_dir are left empty so they keep following it on the next load.
func (c *Global) persisted() Global {
	out := *c
	raw, prepared := c.derivedDirs()
	if out.RawDir == raw {
		out.RawDir = ""
	}
	if out.PreparedDir == prepared {
		out.PreparedDir = ""
	}
	return out
}

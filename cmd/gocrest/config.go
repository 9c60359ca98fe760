package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of the gocrest tool. Values from the command line
// take precedence over the config file.
type Config struct {
	// LogLevel is one of zerolog's level names.
	LogLevel string `yaml:"logLevel"`

	// Backend names the decision procedure used by solve.
	Backend string `yaml:"backend"`

	// Output is the file solve writes the next inputs to.
	Output string `yaml:"output"`
}

func defaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Backend:  "z3",
		Output:   "input",
	}
}

func readConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return errors.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.Output == "" {
		return errors.New("output file must not be empty")
	}
	return nil
}

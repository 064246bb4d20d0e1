// Package config handles the nodeskema CLI configuration file.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/reoring/nodeskema"
	"github.com/reoring/nodeskema/validators"
)

// CurrentConfigVersion is the current version of the config file format.
const CurrentConfigVersion = 1

const (
	// DefaultFileName is used when neither --config nor the environment names a file.
	DefaultFileName = "nodeskema.yaml"
	// EnvPath names the environment variable holding the config path.
	EnvPath = "NODESKEMA_CONFIG"
)

// Config represents the nodeskema.yaml configuration file.
type Config struct {
	Version  int    `yaml:"version" json:"version"`
	Schema   string `yaml:"schema,omitempty" json:"schema"`
	Format   string `yaml:"format,omitempty" json:"format"`
	Output   string `yaml:"output,omitempty" json:"output"`
	Language string `yaml:"language,omitempty" json:"language"`
	Verbose  bool   `yaml:"verbose,omitempty" json:"verbose"`
}

// fileSchema describes the accepted document; unknown keys are rejected.
var fileSchema = nodeskema.MustBuild("Config", []nodeskema.Binding{
	nodeskema.Bind("version", nodeskema.IntegerNode(nodeskema.Default(CurrentConfigVersion))),
	nodeskema.Bind("schema", nodeskema.StringNode(nodeskema.Default(""))),
	nodeskema.Bind("format", nodeskema.StringNode(nodeskema.Default("json"), nodeskema.Validators(validators.OneOf("json", "yaml", "yml")))),
	nodeskema.Bind("output", nodeskema.StringNode(nodeskema.Default("json"), nodeskema.Validators(validators.OneOf("json", "yaml", "yml")))),
	nodeskema.Bind("language", nodeskema.StringNode(nodeskema.Default("en"), nodeskema.Validators(validators.OneOf("en", "ja")))),
	nodeskema.Bind("verbose", nodeskema.BooleanNode(nodeskema.Default(false))),
})

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{Version: CurrentConfigVersion, Format: "json", Output: "json", Language: "en"}
}

// Load reads a Config from a file path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return nil, err
	}
	inst, err := nodeskema.InstantiateYAML(context.Background(), fileSchema, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	var cfg Config
	if err := inst.Into(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Resolve picks the config path (flag, then environment, then
// DefaultFileName) and loads it. Only the implicit default may be absent.
func Resolve(flagPath string, getenv func(string) string) (*Config, string, error) {
	path, explicit := flagPath, flagPath != ""
	if !explicit && getenv != nil {
		path = getenv(EnvPath)
		explicit = path != ""
	}
	if path == "" {
		path = DefaultFileName
	}
	cfg, err := Load(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), path, nil
		}
		return nil, path, err
	}
	return cfg, path, nil
}

// Save writes the Config to a file path.
func (c *Config) Save(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	return enc.Encode(c)
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	if c.Version != CurrentConfigVersion {
		return errors.New("unsupported config version")
	}
	for _, f := range []string{c.Format, c.Output} {
		if f == "" {
			continue
		}
		if _, err := nodeskema.ParseFormat(f); err != nil {
			return err
		}
	}
	return nil
}

package project

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"github.com/vyPal/cmmc/util"
	"gopkg.in/yaml.v3"
)

const (
	YAMLFileName = "cmmconf.yaml"
	TOMLFileName = "cmmconf.toml"
)

// ErrNoConfig is returned by Load when the directory holds no config file.
var ErrNoConfig = errors.New("no cmmconf.yaml or cmmconf.toml found")

type Config struct {
	Name        string         `yaml:"name" toml:"name"`
	Description string         `yaml:"description" toml:"description"`
	Version     string         `yaml:"version" toml:"version"`
	SourceDir   string         `yaml:"source" toml:"source"`
	Cmmc        string         `yaml:"cmmc,omitempty" toml:"cmmc,omitempty"`
	Analysis    AnalysisConfig `yaml:"analysis" toml:"analysis"`
}

type AnalysisConfig struct {
	MaxErrors   int  `yaml:"maxErrors" toml:"maxErrors"`
	WarnShadow  bool `yaml:"warnShadow" toml:"warnShadow"`
	DumpSymbols bool `yaml:"dumpSymbols" toml:"dumpSymbols"`
}

func (c *Config) CreateDefault(name string) {
	if name == "." || name == "" {
		name = "NewProject"
	}
	c.Name = name
	c.Description = "A new C-- project"
	c.Version = "1.0.0"
	c.SourceDir = "ast"
	c.Analysis.MaxErrors = 50
}

// Save writes the config as YAML, or TOML when the path ends in .toml. An
// existing file is only replaced when overwrite is set or the user agrees;
// the result reports whether the file was written.
func (c *Config) Save(path string, overwrite bool) (bool, error) {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		if !overwrite && !util.PromptYN(path+" already exists. Overwrite?", false) {
			return false, nil
		}
	}

	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(path, ".toml") {
		data, err = toml.Marshal(*c)
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return false, errors.Wrap(err, "encode config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return false, errors.Wrap(err, "write config")
	}
	return true, nil
}

// CheckToolVersion verifies the running tool version against the cmmc
// constraint, if the project sets one.
func (c *Config) CheckToolVersion(version string) error {
	if c.Cmmc == "" {
		return nil
	}
	v, err := util.Parse(version)
	if err != nil {
		return errors.Wrap(err, "tool version")
	}
	ok, err := v.Satisfies(c.Cmmc)
	if err != nil {
		return errors.Wrap(err, "cmmc constraint")
	}
	if !ok {
		return errors.Errorf("project requires cmmc %s, running %s", c.Cmmc, version)
	}
	return nil
}

// Load reads cmmconf.yaml from dir, falling back to cmmconf.toml. The path
// of the file that was read is returned with the config.
func Load(dir string) (*Config, string, error) {
	path := filepath.Join(dir, YAMLFileName)
	data, err := os.ReadFile(path)
	if err == nil {
		conf := &Config{}
		if err := yaml.Unmarshal(data, conf); err != nil {
			return nil, path, errors.Wrapf(err, "parse %s", path)
		}
		return conf, path, nil
	}
	if !os.IsNotExist(err) {
		return nil, path, errors.Wrapf(err, "read %s", path)
	}

	path = filepath.Join(dir, TOMLFileName)
	data, err = os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, "", ErrNoConfig
	}
	if err != nil {
		return nil, path, errors.Wrapf(err, "read %s", path)
	}
	conf := &Config{}
	if err := toml.Unmarshal(data, conf); err != nil {
		return nil, path, errors.Wrapf(err, "parse %s", path)
	}
	return conf, path, nil
}

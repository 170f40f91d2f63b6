// Package config loads the modpublish configuration file and turns the
// layered option sources into per-platform publish requests.
//
// Options are looked up, per field, in this order: command-line flags,
// the platform section of the config file, the "defaults" section, and
// finally the metadata embedded in the primary file. Tokens not found in
// any layer fall back to the MODRINTH_TOKEN, CURSEFORGE_TOKEN and
// GITHUB_TOKEN environment variables.
package config

import (
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/modpublish/pkg/errors"
	"github.com/matzehuels/modpublish/pkg/publish"
)

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = ".modpublish.yml"

// Config is the parsed config file.
type Config struct {
	Defaults   Options `yaml:"defaults"`
	Modrinth   Options `yaml:"modrinth"`
	CurseForge Options `yaml:"curseforge"`
	GitHub     Options `yaml:"github"`

	// Targets lists the platforms published to when none are given on
	// the command line.
	Targets []string `yaml:"targets,omitempty"`
}

// Options is the option set shared by the defaults and platform sections.
type Options struct {
	ID            string        `yaml:"id,omitempty"`
	Token         string        `yaml:"token,omitempty"`
	Name          string        `yaml:"name,omitempty"`
	Version       string        `yaml:"version,omitempty"`
	Channel       string        `yaml:"channel,omitempty"`
	Changelog     string        `yaml:"changelog,omitempty"`
	ChangelogFile string        `yaml:"changelog-file,omitempty"`
	Loaders       []string      `yaml:"loaders,omitempty"`
	GameVersions  []string      `yaml:"game-versions,omitempty"`
	Java          []string      `yaml:"java,omitempty"`
	Dependencies  []string      `yaml:"dependencies,omitempty"`
	RetryAttempts int           `yaml:"retry-attempts,omitempty"`
	RetryDelay    time.Duration `yaml:"retry-delay,omitempty"`

	Featured          *bool  `yaml:"featured,omitempty"`
	UnfeatureMode     string `yaml:"unfeature-mode,omitempty"`
	Tag               string `yaml:"tag,omitempty"`
	Commitish         string `yaml:"commitish,omitempty"`
	Draft             *bool  `yaml:"draft,omitempty"`
	Prerelease        *bool  `yaml:"prerelease,omitempty"`
	GenerateChangelog *bool  `yaml:"generate-changelog,omitempty"`
}

// Load reads the config file at path. A missing file yields an empty
// config.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "empty config path")
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open config %s", path)
	}
	defer func() { _ = f.Close() }()

	return LoadFromReader(f)
}

// LoadFromReader parses a config file from r and validates it.
func LoadFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that can be checked without a platform:
// channels, dependency strings, retry settings and target names.
func (c *Config) Validate() error {
	if _, err := publish.ParsePlatforms(strings.Join(c.Targets, ",")); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "targets")
	}
	sections := map[string]Options{
		"defaults":   c.Defaults,
		"modrinth":   c.Modrinth,
		"curseforge": c.CurseForge,
		"github":     c.GitHub,
	}
	for name, o := range sections {
		if err := o.validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "section %s", name)
		}
	}
	return nil
}

func (o Options) validate() error {
	if o.Channel != "" {
		if _, err := publish.ParseChannel(o.Channel); err != nil {
			return err
		}
	}
	if _, err := publish.ParseDependencies(o.Dependencies); err != nil {
		return err
	}
	if o.RetryAttempts < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "retry-attempts must not be negative")
	}
	if o.RetryDelay < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "retry-delay must not be negative")
	}
	return nil
}

// Platform returns the section for p.
func (c *Config) Platform(p publish.Platform) Options {
	switch p {
	case publish.Modrinth:
		return c.Modrinth
	case publish.CurseForge:
		return c.CurseForge
	case publish.GitHub:
		return c.GitHub
	}
	return Options{}
}

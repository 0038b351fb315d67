package driver

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/goccy/go-yaml"
)

const (
	DefaultPattern    = "**/*.jack"
	DefaultConfigFile = "jackc.yaml"
)

// Config of a compilation run. It can be read from a yaml file like:
//
//	root: src
//	pattern: "**/*.jack"
//	xml: true
//	out_dir: build
//	log_level: debug
//	verify: true
type Config struct {
	// Root is a jack file or a directory searched for files matching Pattern.
	Root    string `yaml:"root"`
	Pattern string `yaml:"pattern"`
	// EmitXML also writes the parse tree of every class to a .xml file.
	EmitXML bool `yaml:"xml"`
	// OutDir receives the outputs, they are written next to their source when empty.
	OutDir   string `yaml:"out_dir"`
	LogLevel string `yaml:"log_level"`
	// Verify parses the generated vm code again before writing it.
	Verify bool `yaml:"verify"`
}

func DefaultConfig() Config {
	return Config{Root: ".", Pattern: DefaultPattern, LogLevel: "info"}
}

// ParseConfig reads yaml on top of the default config. Unknown keys are errors.
func ParseConfig(data []byte) (Config, error) {
	config := DefaultConfig()
	err := yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	if config.Pattern == "" {
		config.Pattern = DefaultPattern
	}
	return config, nil
}

// LoadConfig reads the config file at path. A missing file gives the default config and
// found is false.
func LoadConfig(fs billy.Filesystem, path string) (config Config, found bool, err error) {
	data, err := util.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), false, nil
	}
	if err != nil {
		return Config{}, false, err
	}
	config, err = ParseConfig(data)
	if err != nil {
		return Config{}, true, fmt.Errorf("%s: %w", path, err)
	}
	return config, true, nil
}

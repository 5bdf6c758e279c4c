package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the parsed contents of a wr.yml project configuration file.
//   - ProjectName: identifies the project and selects the setup profile.
//     Optional; an empty or unrecognized name falls back to the default profile.
//   - Commands: named shell command lines runnable via `wr run <name>`.
type Config struct {
	ProjectName string            `yaml:"project_name"`
	Commands    map[string]string `yaml:"commands"`
}

// Load reads and parses the wr.yml file at the given path.
// It returns an error if the file cannot be read or is not valid YAML.
// An empty file yields a zero Config, not an error.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

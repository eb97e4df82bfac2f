package iofs

import (
	_ "embed"
	"os"

	"github.com/edstats/rmpdb/pkg/config"
	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var ConfigYAML string

func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

func EnsureConfigFile(homeDir string) error {
	configPath := config.ConfigFilePath(homeDir)

	// Check if config file already exists
	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	// Write embedded config.yaml to the config directory
	if err := os.WriteFile(configPath, []byte(ConfigYAML), 0644); err != nil {
		return CopyFileError(configPath, err)
	}

	return ValidateConfigFile(configPath)
}

// ValidateConfigFile checks that a config file is well-formed YAML
// matching the Config shape. A hand-edited file with a typo fails
// here, before viper merges it with defaults.
func ValidateConfigFile(configPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return ReadFileError(configPath, err)
	}

	var cfg config.Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return ReadFileError(configPath, err)
	}

	return nil
}

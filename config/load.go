package config

import (
	"os"
	"path"
	"path/filepath"

	"github.com/pkg/errors"
)

// configNames are the file names searched for in each directory, in order of preference
var configNames = []string{
	".vampire.yaml", ".vampire.yml", ".vampire.json", ".vampire.toml",
	"vampire.yaml", "vampire.yml", "vampire.json", "vampire.toml",
}

// GetConfigPathFromWorkingDirectory identifies the config file to use when
// running from the current working directory.
func GetConfigPathFromWorkingDirectory(homeDir string) (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", errors.WithStack(err)
	}
	return GetConfigPath(homeDir, wd)
}

// GetConfigPath identifies the location of a vampire config file, if any exists.
// The working directory and its parents are checked before the vampire home dir.
// An empty path is returned when no file is found.
func GetConfigPath(homeDir string, wd string) (string, error) {
	var dirOptions []string

	dirOptions = append(dirOptions, wd)
	for path.Dir(wd) != wd {
		wd = path.Dir(wd)
		dirOptions = append(dirOptions, wd)
	}
	if homeDir != "" {
		dirOptions = append(dirOptions, homeDir)
	}

	for _, dir := range dirOptions {
		for _, name := range configNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err != nil {
				continue
			}
			absfp, err := filepath.Abs(candidate)
			if err != nil {
				return "", errors.WithMessage(err, "resolving config file")
			}
			return absfp, nil
		}
	}

	return "", nil
}

package home

import (
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
)

// VampireConfiguration defines the on-disk locations used by vampire
type VampireConfiguration struct {
	Dir    string
	LogDir string
}

// NewConfiguration creates a VampireConfiguration rooted at homeDir.
// If homeDir is empty, ~/.vampire is used.
func NewConfiguration(homeDir string) (*VampireConfiguration, error) {
	cfg := &VampireConfiguration{Dir: homeDir}
	if err := cfg.Initialize(); err != nil {
		return nil, errors.WithStack(err)
	}
	return cfg, nil
}

func createDirIfNeeded(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return errors.WithStack(os.MkdirAll(path, 0777))
	}
	return nil
}

// Initialize fills in any unset directories and creates them as needed
func (v *VampireConfiguration) Initialize() error {
	if v.Dir == "" {
		userHome, err := homedir.Dir()
		if err != nil {
			return errors.WithMessage(err, "finding home directory")
		}
		v.Dir = filepath.Join(userHome, ".vampire")
	}
	if err := createDirIfNeeded(v.Dir); err != nil {
		return err
	}
	v.LogDir = filepath.Join(v.Dir, "logs")
	return createDirIfNeeded(v.LogDir)
}

// LogFile returns the path of the log file shared by all generations
func (v *VampireConfiguration) LogFile(name string) string {
	return filepath.Join(v.LogDir, name)
}

package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Keys used to look up settings in viper. Environment variables use the
// VAMPIRE_ prefix with the key in upper case, e.g. VAMPIRE_CONTENT_FILE.
const (
	KeyAddress         = "address"
	KeyPort            = "port"
	KeyBacklog         = "backlog"
	KeyContentFile     = "content_file"
	KeyExecutable      = "executable"
	KeyInheritListener = "inherit_listener"
)

// Defaults match the behavior of the original vampire server.
const (
	DefaultAddress     = "127.0.0.1"
	DefaultPort        = 8000
	DefaultBacklog     = 5
	DefaultContentFile = "vampire.html"
)

// EnvPrefix is the prefix for environment variable overrides
const EnvPrefix = "vampire"

// Config holds the settings for one generation of the listener
type Config struct {
	// Address to bind the listening socket to
	Address string
	// Port to listen on
	Port int
	// Depth of the pending connection queue
	Backlog int
	// Content file, relative to the working directory, served to every request
	ContentFile string
	// Executable to launch as the successor. If empty, the running program is used.
	Executable string
	// Pass the bound listener to the successor instead of closing it before it binds
	InheritListener bool
}

// New creates a viper instance with vampire defaults and environment overrides.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyAddress, DefaultAddress)
	v.SetDefault(KeyPort, DefaultPort)
	v.SetDefault(KeyBacklog, DefaultBacklog)
	v.SetDefault(KeyContentFile, DefaultContentFile)
	v.SetDefault(KeyExecutable, "")
	v.SetDefault(KeyInheritListener, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile merges the config file at path into v. An empty path is ignored.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	return errors.WithMessage(v.ReadInConfig(), fmt.Sprintf("reading config file %v", path))
}

// Load builds a validated Config from v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Address:         v.GetString(KeyAddress),
		Port:            v.GetInt(KeyPort),
		Backlog:         v.GetInt(KeyBacklog),
		ContentFile:     v.GetString(KeyContentFile),
		Executable:      v.GetString(KeyExecutable),
		InheritListener: v.GetBool(KeyInheritListener),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.WithStack(err)
	}
	return cfg, nil
}

// Validate checks that the config describes a usable listener.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Address) == "" {
		return errors.New("address is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.Backlog < 1 {
		return fmt.Errorf("backlog must be positive: %d", c.Backlog)
	}
	if c.ContentFile == "" {
		return errors.New("content file is required")
	}
	return nil
}

// HostPort returns the address and port joined for use with net functions
func (c Config) HostPort() string {
	return net.JoinHostPort(c.Address, strconv.Itoa(c.Port))
}

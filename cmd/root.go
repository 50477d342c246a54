package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/yext/vampire/common"
	"github.com/yext/vampire/config"
	"github.com/yext/vampire/home"
	"github.com/yext/vampire/listener"
)

// Exit codes for the fatal listener errors
const (
	exitError       = 1
	exitBindError   = 2
	exitAcceptError = 3
)

var dirConfig *home.VampireConfiguration

var cfg config.Config

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "vampire",
	Short: "A single-connection HTTP server that respawns itself for every request",
	Long: `Vampire serves one HTTP request per process. After each response it launches
a fresh copy of itself with the same arguments and exits, so every request is
answered by a new generation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		dirConfig, err = home.NewConfiguration(vampireHome)
		if err != nil {
			return errors.WithStack(err)
		}

		prefix := fmt.Sprintf("vampire %s > ", cmd.Name())
		if redirectLogs {
			common.ConfigureLogging(os.Stdout, prefix)
		} else {
			common.ConfigureLogging(common.LogOutput(dirConfig.LogDir), prefix)
		}

		// Begin logging
		log.Printf("=== Vampire v%v ===\n", common.VampireVersion)
		log.Printf("Args: %v\n", os.Args)

		if configPath == "" {
			configPath, err = config.GetConfigPathFromWorkingDirectory(dirConfig.Dir)
			if err != nil {
				return errors.WithStack(err)
			}
		}

		v := config.New()
		for key, name := range flagKeys {
			if flag := cmd.Flags().Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return errors.WithStack(err)
				}
			}
		}
		if configPath != "" {
			log.Printf("Using config file: %v\n", configPath)
		}
		if err := config.ReadFile(v, configPath); err != nil {
			return errors.WithStack(err)
		}
		cfg, err = config.Load(v)
		return errors.WithStack(err)
	},
}

// flagKeys maps config keys to the flags that can set them
var flagKeys = map[string]string{
	config.KeyAddress:         "address",
	config.KeyPort:            "port",
	config.KeyBacklog:         "backlog",
	config.KeyContentFile:     "content",
	config.KeyExecutable:      "executable",
	config.KeyInheritListener: "inherit",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.Printf("Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch errors.Cause(err).(type) {
	case *listener.BindError:
		return exitBindError
	case *listener.AcceptError:
		return exitAcceptError
	}
	return exitError
}

// executableName is matched against command lines to recognize generations
func executableName() string {
	if cfg.Executable != "" {
		return filepath.Base(cfg.Executable)
	}
	return filepath.Base(os.Args[0])
}

var configPath string
var redirectLogs bool
var vampireHome string

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Use configuration file at `PATH`")
	RootCmd.PersistentFlags().BoolVar(&redirectLogs, "redirect_logs", false, "Redirect vampire logs to the console")
	RootCmd.PersistentFlags().StringVar(&vampireHome, "vampire_home", "", "")
	RootCmd.PersistentFlags().String("address", config.DefaultAddress, "Bind to `ADDRESS`")
	RootCmd.PersistentFlags().IntP("port", "p", config.DefaultPort, "Listen on `PORT`")
	err := RootCmd.PersistentFlags().MarkHidden("redirect_logs")
	if err != nil {
		panic(err)
	}
	err = RootCmd.PersistentFlags().MarkHidden("vampire_home")
	if err != nil {
		panic(err)
	}
}

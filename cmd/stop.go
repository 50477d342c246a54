package cmd

import (
	"fmt"
	"log"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/yext/vampire/instance"
	"github.com/yext/vampire/instance/processes"
)

// stopCmd represents the stop command
var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the chain of generations on the port",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := log.New(log.Writer(), log.Prefix(), log.Flags())
		stopped, err := instance.Stop(&processes.Processes{}, cfg.Port, executableName(), instance.DefaultStopConfig, logger)
		if err != nil {
			printResult("Failed", color.FgRed)
			return errors.WithStack(err)
		}
		if len(stopped) == 0 {
			fmt.Printf("No vampire generation listening on port %d\n", cfg.Port)
			return nil
		}
		for _, pid := range stopped {
			fmt.Printf("%-50s", fmt.Sprintf("Stopping pid %d...", pid))
			printResult("OK", color.FgGreen)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(stopCmd)
}

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/yext/vampire/common"
	"github.com/yext/vampire/logs"
)

// tailCmd represents the log command
var tailCmd = &cobra.Command{
	Use:     "log",
	Short:   "Show the log written by every generation",
	Aliases: []string{"tail"},
	RunE: func(cmd *cobra.Command, args []string) error {
		follower := logs.NewLogFollower(dirConfig.LogFile(common.LogFileName), *tailFlags.follow)
		lines, err := follower.Start()
		if err != nil {
			return errors.WithStack(err)
		}

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(interrupt)
		go func() {
			<-interrupt
			follower.Stop()
		}()

		for line := range lines {
			printMessage(line)
		}
		return nil
	},
}

func printMessage(line logs.LogLine) {
	message := strings.TrimSpace(line.Message)
	if len(message) == 0 {
		return
	}

	if line.Command != "" {
		fmt.Print("[")
		color.Set(color.FgHiYellow)
		fmt.Print(line.Command)
		color.Unset()
		fmt.Print("] ", line.Time.Format("15:04:05.000"), " ")
	}

	if strings.Contains(message, "could not") || strings.HasPrefix(message, "Error") {
		color.Set(color.FgRed)
	}
	fmt.Printf("%v\n", message)
	color.Unset()
}

var tailFlags struct {
	follow *bool
}

func init() {
	RootCmd.AddCommand(tailCmd)

	tailFlags.follow = tailCmd.Flags().BoolP("follow", "f", false, "Keep printing as generations write to the log")
}

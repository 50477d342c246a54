package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/yext/vampire/common"
	"github.com/yext/vampire/config"
	"github.com/yext/vampire/listener"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve one request, then hand over to a fresh copy of vampire",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("🧛 Vampire HTTP Server starting on %v...\n", cfg.HostPort())

		l, err := listener.Listen(cfg.Address, cfg.Port, cfg.Backlog)
		if err != nil {
			printResult("Failed to bind", color.FgRed)
			return errors.WithStack(err)
		}

		if !l.Inherited() {
			fmt.Printf("🌐 Vampire server listening on http://%v\n", l.Addr())
			fmt.Println("⚡ Self-killing fork structure active...")
		}

		logger := log.New(log.Writer(), log.Prefix(), log.Flags())
		generation := listener.NewGeneration(
			l,
			listener.NewResponder(cfg.ContentFile),
			listener.NewProcessSpawner(cfg.Executable),
			logger,
		)
		generation.InheritListener = cfg.InheritListener
		generation.Exit = func(code int) {
			printResult(fmt.Sprintf("pid %d -> %d", os.Getpid(), generation.Successor()), color.FgGreen)
			log.Printf("=== Exiting ===\n")
			os.Exit(code)
		}

		state, err := generation.Serve()
		if err != nil {
			printResult("Failed to accept", color.FgRed)
			return errors.WithStack(err)
		}
		if state == listener.StateSpawnFailed {
			printResult("Failed to spawn new server", color.FgRed)
		}
		log.Printf("=== Exiting (%v) ===\n", state)
		return nil
	},
}

func printResult(message string, c color.Attribute) {
	fmt.Print("[")
	color.Set(c)
	fmt.Print(message)
	color.Unset()
	fmt.Println("]")
}

var _ common.Logger = &log.Logger{}

func init() {
	RootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("backlog", config.DefaultBacklog, "Pending connection queue `DEPTH`")
	serveCmd.Flags().String("content", config.DefaultContentFile, "Serve `FILE` from the working directory")
	serveCmd.Flags().String("executable", "", "Launch `PATH` as the successor instead of this program")
	serveCmd.Flags().Bool("inherit", false, "Pass the listening socket to the successor")
	err := serveCmd.Flags().MarkHidden("executable")
	if err != nil {
		panic(err)
	}
}

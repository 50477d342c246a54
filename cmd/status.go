package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	humanize "github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/yext/vampire/instance"
	"github.com/yext/vampire/instance/processes"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display the generation currently holding the port",
	RunE: func(cmd *cobra.Command, args []string) error {
		instances, err := instance.Find(&processes.Processes{}, cfg.Port, executableName())
		if err != nil {
			return errors.WithStack(err)
		}
		if len(instances) == 0 {
			fmt.Printf("No vampire generation listening on port %d\n", cfg.Port)
			return nil
		}
		renderStatus(os.Stdout, instances)
		return nil
	},
}

func renderStatus(out io.Writer, instances []instance.Instance) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{
		"PID",
		"Parent",
		"Port",
		"RSS",
		"VMS",
		"Started",
		"Command",
	})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, i := range instances {
		table.Append([]string{
			strconv.Itoa(i.Pid),
			strconv.Itoa(i.Ppid),
			strconv.Itoa(i.Port),
			humanize.Bytes(i.RSS),
			humanize.Bytes(i.VMS),
			humanize.Time(i.StartTime),
			i.Cmdline,
		})
	}
	table.Render()
}

func init() {
	RootCmd.AddCommand(statusCmd)
}

package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"

	"github.com/jaffee/commandeer"
	"github.com/pilosa/relkit/datasets"
	"github.com/spf13/cobra"
)

// AllMain is the datasets.Main the all command fills from its flags.
var AllMain *datasets.Main

// NewAllCommand returns the command which loads every dataset at once.
func NewAllCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	AllMain = datasets.NewMain()
	allCommand := &cobra.Command{
		Use:   "all",
		Short: "all - load every dataset, each into its own SQLite store",
		Long: `Load every dataset found in --dir concurrently. Each one
goes into its own store under --store-dir. The first failure
cancels the loads still running.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if AllMain.LogOut == nil {
				AllMain.LogOut = stderr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			stats, err := AllMain.RunContext(ctx)
			names := make([]string, 0, len(stats))
			for name, rs := range stats {
				if rs != nil && rs.Inserted != nil {
					names = append(names, name)
				}
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintln(stdout, describe(stats[name]))
			}
			return err
		},
	}
	err := commandeer.Flags(allCommand.Flags(), AllMain)
	if err != nil {
		panic(err)
	}
	return allCommand
}

func init() {
	subcommandFns["all"] = NewAllCommand
}

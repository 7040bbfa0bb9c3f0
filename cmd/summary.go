package cmd

import (
	"io"

	"github.com/jaffee/commandeer"
	"github.com/pilosa/relkit/report"
	"github.com/spf13/cobra"
)

// SummaryMain is the report.Main the summary command fills from its flags.
var SummaryMain *report.Main

// NewSummaryCommand returns the command which reports on a loaded store.
func NewSummaryCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	SummaryMain = report.NewMain()
	summaryCommand := &cobra.Command{
		Use:   "summary",
		Short: "summary - print row counts and statistics of a loaded store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if SummaryMain.Out == nil {
				SummaryMain.Out = stdout
			}
			return SummaryMain.RunContext(cmd.Context())
		},
	}
	err := commandeer.Flags(summaryCommand.Flags(), SummaryMain)
	if err != nil {
		panic(err)
	}
	return summaryCommand
}

func init() {
	subcommandFns["summary"] = NewSummaryCommand
}

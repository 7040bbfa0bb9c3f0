package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/jaffee/commandeer"
	"github.com/pilosa/relkit"
	"github.com/pilosa/relkit/ecommerce"
	"github.com/pilosa/relkit/ingest"
	"github.com/pilosa/relkit/movies"
	"github.com/pilosa/relkit/supermarket"
	"github.com/pilosa/relkit/userbehavior"
	"github.com/spf13/cobra"
)

// LoadMains holds the Main of each load command created by the last call to
// NewRootCommand, by command name.
var LoadMains = map[string]*ingest.Main{}

// newLoadCommand returns a subcommand constructor which loads one dataset
// with the Main built by newMain.
func newLoadCommand(name, short string, newMain func() *ingest.Main) func(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	return func(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
		m := newMain()
		LoadMains[name] = m
		c := &cobra.Command{
			Use:   name,
			Short: short,
			Long: short + `

Rows are decoded and transformed in full before anything is
written. The load then runs in a single transaction, so a run
either commits every row or none of them.`,
			RunE: func(cmd *cobra.Command, args []string) error {
				if m.LogOut == nil && m.LogPath == "" {
					m.LogOut = stderr
				}
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
				defer stop()
				rs, err := m.RunContext(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(stdout, describe(rs))
				return nil
			},
		}
		if err := commandeer.Flags(c.Flags(), m); err != nil {
			panic(err)
		}
		return c
	}
}

// describe formats the outcome of a run on one line.
func describe(rs *relkit.RunStats) string {
	tables := make([]string, 0, len(rs.Inserted))
	for t := range rs.Inserted {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	counts := make([]string, len(tables))
	for i, t := range tables {
		counts[i] = fmt.Sprintf("%s=%d", t, rs.Inserted[t])
	}
	return fmt.Sprintf("%s: read %d rows, skipped %d, inserted %s in %v",
		rs.Domain, rs.Read, rs.Skipped, strings.Join(counts, " "), rs.Duration.Round(time.Millisecond))
}

func init() {
	subcommandFns[ecommerce.Name] = newLoadCommand(ecommerce.Name,
		"ecommerce - load the Pakistan e-commerce orders dataset", ecommerce.NewMain)
	subcommandFns[movies.Name] = newLoadCommand(movies.Name,
		"movies - load the processed Netflix catalogue", movies.NewMain)
	subcommandFns[supermarket.Name] = newLoadCommand(supermarket.Name,
		"supermarket - load the supermarket sales dataset", supermarket.NewMain)
	subcommandFns[userbehavior.Name] = newLoadCommand(userbehavior.Name,
		"userbehavior - load the mobile device usage dataset", userbehavior.NewMain)
}

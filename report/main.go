package report

import (
	"context"
	"io"
	"os"

	"github.com/pilosa/relkit/datasets"
	"github.com/pilosa/relkit/ecommerce"
	"github.com/pilosa/relkit/store"
	"github.com/pkg/errors"
)

// Main holds the config for summarizing one store.
type Main struct {
	DSN     string `flag:"dsn" help:"Store to read from."`
	Dataset string `help:"Dataset loaded into the store."`

	Out io.Writer `flag:"-"`
}

// NewMain returns a Main with defaults.
func NewMain() *Main {
	return &Main{
		Dataset: ecommerce.Name,
	}
}

// Run writes the summary of the store to Out. Every dataset gets row counts,
// and e-commerce also gets order statistics.
func (m *Main) Run() error {
	return m.RunContext(context.Background())
}

func (m *Main) RunContext(ctx context.Context) error {
	d, err := datasets.Lookup(m.Dataset)
	if err != nil {
		return err
	}
	dsn := m.DSN
	if dsn == "" {
		dsn = d.NewMain().DSN
	}
	out := m.Out
	if out == nil {
		out = os.Stdout
	}

	gw, err := store.Open(ctx, dsn)
	if err != nil {
		return errors.Wrap(err, "opening store")
	}
	defer gw.Close()

	counts, err := Counts(ctx, gw.DB(), d.Tables())
	if err != nil {
		return err
	}
	if err := WriteCounts(out, counts); err != nil {
		return errors.Wrap(err, "writing counts")
	}
	if d.Name != ecommerce.Name {
		return nil
	}
	s, err := EcommerceSummary(ctx, gw.DB())
	if err != nil {
		return err
	}
	if _, err := io.WriteString(out, "\n"); err != nil {
		return err
	}
	_, err = s.WriteTo(out)
	return errors.Wrap(err, "writing summary")
}

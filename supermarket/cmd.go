package supermarket

import (
	"github.com/pilosa/relkit"
	"github.com/pilosa/relkit/ingest"
)

// DefaultFile is the dataset's file name.
const DefaultFile = "supermarket_sales.csv"

// NewMain returns an ingest.Main for the supermarket dataset. Every run
// starts from empty tables and aborts on the first bad row.
func NewMain() *ingest.Main {
	m := ingest.NewMain()
	m.Path = "data/raw/" + DefaultFile
	m.DSN = "sqlite://supermarket.db"
	m.Reset = true
	m.OnRowError = relkit.Abort.String()
	m.DropColumns = []string{"gross margin percentage"}
	m.NewDomain = func(log relkit.Logger) relkit.Domain { return NewDomain(log) }
	return m
}

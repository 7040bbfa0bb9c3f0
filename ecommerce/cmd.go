package ecommerce

import (
	"github.com/pilosa/relkit"
	"github.com/pilosa/relkit/ingest"
)

// DefaultFile is the dataset's file name.
const DefaultFile = "Pakistan Largest Ecommerce Dataset.csv"

// NewMain returns an ingest.Main for the e-commerce dataset. The tables are
// created if missing and appended to, and bad rows are logged and skipped.
func NewMain() *ingest.Main {
	m := ingest.NewMain()
	m.Path = "data/raw/" + DefaultFile
	m.DSN = "sqlite://ecommerce.db"
	m.OnRowError = relkit.Skip.String()
	m.NewDomain = func(log relkit.Logger) relkit.Domain { return NewDomain(log) }
	return m
}

package movies

import (
	"github.com/pilosa/relkit"
	"github.com/pilosa/relkit/ingest"
)

// DefaultFile is the processed catalogue's file name.
const DefaultFile = "netflix_processed.csv"

// NewMain returns an ingest.Main for the Netflix catalogue.
func NewMain() *ingest.Main {
	m := ingest.NewMain()
	m.Path = "data/" + DefaultFile
	m.DSN = "sqlite://netflix.db"
	m.Reset = true
	m.OnRowError = relkit.Abort.String()
	m.NewDomain = func(log relkit.Logger) relkit.Domain { return NewDomain(log) }
	return m
}

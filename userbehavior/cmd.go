package userbehavior

import (
	"github.com/pilosa/relkit"
	"github.com/pilosa/relkit/ingest"
)

// DefaultFile is the dataset's file name.
const DefaultFile = "user_behavior_dataset.csv"

// NewMain returns an ingest.Main for the user behavior dataset.
func NewMain() *ingest.Main {
	m := ingest.NewMain()
	m.Path = "data/" + DefaultFile
	m.DSN = "sqlite://user_behavior.db"
	m.Reset = true
	m.OnRowError = relkit.Abort.String()
	m.NewDomain = func(log relkit.Logger) relkit.Domain { return NewDomain(log) }
	return m
}

package relkit

import (
	"context"
)

// Source produces the rows of one dataset. Next decodes the next non-blank
// row into v, which is a pointer to a domain's raw record struct, and returns
// the row's line number in the source. Next returns io.EOF after the last row.
type Source interface {
	Next(v interface{}) (line int, err error)
	Close() error
}

// Domain turns raw records of one dataset into a Graph of entities. A Domain
// holds the deduplication caches for a single run, so a fresh one must be used
// for every run.
type Domain interface {
	// Name is a short identifier like "ecommerce".
	Name() string

	// Tables returns the schema in dependency order (parents first).
	Tables() []*Table

	// NewRecord returns a pointer to an empty raw record for Source.Next.
	NewRecord() interface{}

	// Transform decodes rec and adds the resulting entities to the Graph. A
	// failing Transform must not have added anything.
	Transform(line int, rec interface{}) error

	// Graph returns everything produced so far.
	Graph() *Graph
}

// Tx is a transactional unit of work. Schema changes made through it commit
// or roll back together with the rows.
type Tx interface {
	// CreateSchema creates any of the tables which don't exist yet.
	CreateSchema(ctx context.Context, tables []*Table) error

	// ResetSchema drops the tables and creates them again, empty.
	ResetSchema(ctx context.Context, tables []*Table) error

	// InsertReturning inserts a single row into an AutoKey table and returns
	// the key storage assigned to it.
	InsertReturning(ctx context.Context, t *Table, values []interface{}) (int64, error)

	// InsertBatch inserts many rows at once. Each element of rows holds the
	// values of t.InsertColumns().
	InsertBatch(ctx context.Context, t *Table, rows [][]interface{}) error
}

// KeyReserver is implemented by a Tx which can hand out a block of n unused
// surrogate keys for an AutoKey table, first through first+n-1. The Loader
// uses it to batch keyed waves instead of inserting them row by row. Keys are
// only safe from other writers for the life of the Tx.
type KeyReserver interface {
	ReserveKeys(ctx context.Context, t *Table, n int) (first int64, err error)
}

// Storage is the relational store a run writes to.
type Storage interface {
	// InSession runs fn inside one transaction, committing if fn returns nil
	// and rolling back otherwise.
	InSession(ctx context.Context, fn func(tx Tx) error) error
}

package relkit

import (
	"context"

	"github.com/pkg/errors"
)

// Default limits for batched inserts. MaxParams stays below SQLite's default
// SQLITE_MAX_VARIABLE_NUMBER; Postgres allows more.
const (
	DefaultBatchSize = 1000
	DefaultMaxParams = 32000
)

// Loader writes a Graph to storage. Reference waves go first, then every
// reference row is checked for a surrogate key, then fact waves are written.
//
// Every wave is inserted in multi-row batches. For waves of Keyed rows in
// AutoKey tables the keys are first reserved through the Tx's KeyReserver and
// set on the rows, then inserted explicitly. A Tx which isn't a KeyReserver
// gets those waves one row at a time, reading each key back.
type Loader struct {
	batchSize int
	maxParams int
	stats     Statter
	log       Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(l *Loader)

// OptLoaderBatchSize sets the number of rows per batched INSERT.
func OptLoaderBatchSize(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.batchSize = n
		}
	}
}

// OptLoaderMaxParams caps the number of bind parameters in one statement.
func OptLoaderMaxParams(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.maxParams = n
		}
	}
}

// OptLoaderStatter sets the Statter which receives per-table insert counts.
func OptLoaderStatter(s Statter) LoaderOption {
	return func(l *Loader) {
		l.stats = s
	}
}

// OptLoaderLogger sets the Logger.
func OptLoaderLogger(log Logger) LoaderOption {
	return func(l *Loader) {
		l.log = log
	}
}

// NewLoader returns a Loader with the given options applied.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		batchSize: DefaultBatchSize,
		maxParams: DefaultMaxParams,
		stats:     NopStatter{},
		log:       NopLogger{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load writes every wave of g through tx: references, the key boundary, then
// facts.
func (l *Loader) Load(ctx context.Context, tx Tx, g *Graph) error {
	if err := l.LoadReferences(ctx, tx, g); err != nil {
		return err
	}
	if err := l.Flush(g); err != nil {
		return err
	}
	return l.LoadFacts(ctx, tx, g)
}

// LoadReferences writes the reference waves of g.
func (l *Loader) LoadReferences(ctx context.Context, tx Tx, g *Graph) error {
	return l.loadWaves(ctx, tx, g.Waves(Reference))
}

// Flush is the boundary between the reference and fact waves. It verifies
// that every keyed reference row has been assigned its surrogate key.
func (l *Loader) Flush(g *Graph) error {
	for _, w := range g.Waves(Reference) {
		for _, r := range w.Rows {
			k, ok := r.(Keyed)
			if !ok {
				continue
			}
			if _, err := KeyOf(k); err != nil {
				return errors.Wrap(err, "flushing references")
			}
		}
	}
	return nil
}

// LoadFacts writes the fact waves of g. It must be called after
// LoadReferences.
func (l *Loader) LoadFacts(ctx context.Context, tx Tx, g *Graph) error {
	return l.loadWaves(ctx, tx, g.Waves(Fact))
}

func (l *Loader) loadWaves(ctx context.Context, tx Tx, waves []*Wave) error {
	for _, w := range waves {
		var err error
		if !needsKeys(w) {
			err = l.insertBatched(ctx, tx, w.Table, w.Rows, Row.Values)
		} else if kr, ok := tx.(KeyReserver); ok {
			err = l.insertReserved(ctx, tx, kr, w)
		} else {
			err = l.insertKeyed(ctx, tx, w)
		}
		if err != nil {
			return errors.Wrapf(err, "loading %s", w.Table.Name)
		}
		l.stats.Count("rows_inserted", int64(len(w.Rows)), 1, "table:"+w.Table.Name)
		l.log.Debugf("loaded %d rows into %s", len(w.Rows), w.Table.Name)
	}
	return nil
}

func (l *Loader) insertKeyed(ctx context.Context, tx Tx, w *Wave) error {
	for i, r := range w.Rows {
		if err := bind(r); err != nil {
			return errors.Wrapf(err, "row %d", i)
		}
		k, ok := r.(Keyed)
		if !ok {
			return errors.Errorf("row %d of auto keyed table is %T, not Keyed", i, r)
		}
		id, err := tx.InsertReturning(ctx, w.Table, r.Values())
		if err != nil {
			return errors.Wrapf(err, "inserting row %d", i)
		}
		k.SetID(id)
	}
	return nil
}

// insertReserved sets reserved keys on every row of w and batch inserts them
// with the key column included.
func (l *Loader) insertReserved(ctx context.Context, tx Tx, kr KeyReserver, w *Wave) error {
	idx := w.Table.keyIndex()
	if idx < 0 {
		return errors.Errorf("key column %s not declared", w.Table.Key)
	}
	first, err := kr.ReserveKeys(ctx, w.Table, len(w.Rows))
	if err != nil {
		return errors.Wrap(err, "reserving keys")
	}
	for i, r := range w.Rows {
		k, ok := r.(Keyed)
		if !ok {
			return errors.Errorf("row %d of auto keyed table is %T, not Keyed", i, r)
		}
		k.SetID(first + int64(i))
	}
	return l.insertBatched(ctx, tx, w.Table.WithKey(), w.Rows, func(r Row) []interface{} {
		vals := r.Values()
		ret := make([]interface{}, 0, len(vals)+1)
		ret = append(ret, vals[:idx]...)
		ret = append(ret, r.(Keyed).ID())
		return append(ret, vals[idx:]...)
	})
}

func (l *Loader) insertBatched(ctx context.Context, tx Tx, t *Table, rows []Row, values func(Row) []interface{}) error {
	size := l.chunkSize(t)
	batch := make([][]interface{}, 0, size)
	for i, r := range rows {
		if err := bind(r); err != nil {
			return errors.Wrapf(err, "row %d", i)
		}
		batch = append(batch, values(r))
		if len(batch) == size {
			if err := tx.InsertBatch(ctx, t, batch); err != nil {
				return errors.Wrapf(err, "inserting batch ending at row %d", i)
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := tx.InsertBatch(ctx, t, batch); err != nil {
			return errors.Wrap(err, "inserting final batch")
		}
	}
	return nil
}

// chunkSize returns the number of rows of t which fit in one statement.
func (l *Loader) chunkSize(t *Table) int {
	cols := len(t.InsertColumns())
	if cols == 0 {
		return 1
	}
	n := l.maxParams / cols
	if n > l.batchSize {
		n = l.batchSize
	}
	if n < 1 {
		n = 1
	}
	return n
}

// needsKeys reports whether the rows of w want their surrogate keys back.
func needsKeys(w *Wave) bool {
	if !w.Table.AutoKey || len(w.Rows) == 0 {
		return false
	}
	_, ok := w.Rows[0].(Keyed)
	return ok
}

func bind(r Row) error {
	if b, ok := r.(Binder); ok {
		return b.BindKeys()
	}
	return nil
}

package relkit

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// RunStats summarizes one ingest run.
type RunStats struct {
	RunID  string
	Domain string
	// Read is the number of non-blank data rows read from the source.
	Read    int
	Blank   int
	Skipped int
	// Inserted is the number of rows written per table. It is only set when
	// the run committed.
	Inserted map[string]int
	Duration time.Duration
}

// BlankCounter is implemented by sources which skip blank rows.
type BlankCounter interface {
	Blank() int
}

// Ingester runs one CSV source through a Domain and into Storage. Every row is
// decoded and transformed before storage is touched, then the schema is
// prepared and the whole Graph written in a single session, so a failed run
// leaves the store as it was.
type Ingester struct {
	// Policy decides what happens to rows which fail to transform.
	Policy RowFailurePolicy
	// Reset drops and recreates the domain's tables before loading instead of
	// only creating missing ones.
	Reset bool

	Log   Logger
	Stats Statter

	storage Storage
	loader  *Loader
}

// NewIngester returns an Ingester writing to storage with loader. It aborts on
// the first bad row until Policy is changed.
func NewIngester(storage Storage, loader *Loader) *Ingester {
	return &Ingester{
		Policy:  Abort,
		Log:     NopLogger{},
		Stats:   NopStatter{},
		storage: storage,
		loader:  loader,
	}
}

// Run reads src to the end, transforming each row with d, then loads the
// result. The returned stats are valid even when err is not nil.
func (n *Ingester) Run(ctx context.Context, src Source, d Domain) (*RunStats, error) {
	start := time.Now()
	stats := &RunStats{
		RunID:  uuid.New().String(),
		Domain: d.Name(),
	}
	defer func() {
		stats.Duration = time.Since(start)
		n.Stats.Timing("run_duration", stats.Duration, 1, "domain:"+stats.Domain)
	}()
	log := WithPrefix(n.Log, "["+d.Name()+" "+stats.RunID[:8]+"] ")
	log.Printf("starting run, policy=%s reset=%v", n.Policy, n.Reset)

	if err := n.transform(ctx, src, d, stats, log); err != nil {
		log.Printf("run failed after %d rows: %v", stats.Read, err)
		return stats, err
	}

	g := d.Graph()
	log.Printf("read %d rows (%d blank, %d skipped), writing %d entities", stats.Read, stats.Blank, stats.Skipped, g.Len())
	if err := n.load(ctx, d, g); err != nil {
		log.Printf("load failed, rolled back: %v", err)
		return stats, err
	}
	stats.Inserted = g.Counts()
	log.Printf("committed %v", stats.Inserted)
	return stats, nil
}

func (n *Ingester) transform(ctx context.Context, src Source, d Domain, stats *RunStats, log Logger) error {
	defer func() {
		if bc, ok := src.(BlankCounter); ok {
			stats.Blank = bc.Blank()
		}
	}()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec := d.NewRecord()
		line, err := src.Next(rec)
		if err == io.EOF {
			return nil
		} else if err != nil {
			return errors.Wrap(err, "reading source")
		}
		stats.Read++
		n.Stats.Count("rows_read", 1, 1, "domain:"+d.Name())

		err = d.Transform(line, rec)
		if err == nil {
			continue
		}
		err = AtLine(line, err)
		if n.Policy != Skip {
			return errors.Wrap(err, "transforming")
		}
		stats.Skipped++
		n.Stats.Count("rows_skipped", 1, 1, "domain:"+d.Name())
		log.Printf("skipping row: %v", err)
	}
}

func (n *Ingester) load(ctx context.Context, d Domain, g *Graph) error {
	return n.storage.InSession(ctx, func(tx Tx) error {
		var err error
		if n.Reset {
			err = tx.ResetSchema(ctx, d.Tables())
		} else {
			err = tx.CreateSchema(ctx, d.Tables())
		}
		if err != nil {
			return errors.Wrap(err, "preparing schema")
		}
		return n.loader.Load(ctx, tx, g)
	})
}

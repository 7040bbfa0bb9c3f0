// Package datasets registers the bundled domains and loads them together.
package datasets

import (
	"context"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pilosa/relkit"
	"github.com/pilosa/relkit/ecommerce"
	"github.com/pilosa/relkit/ingest"
	"github.com/pilosa/relkit/movies"
	"github.com/pilosa/relkit/supermarket"
	"github.com/pilosa/relkit/userbehavior"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ErrUnknownDataset is returned by Lookup.
var ErrUnknownDataset = errors.New("unknown dataset")

// Dataset describes one bundled domain.
type Dataset struct {
	Name    string
	File    string
	Tables  func() []*relkit.Table
	NewMain func() *ingest.Main
}

var all = []Dataset{
	{Name: ecommerce.Name, File: ecommerce.DefaultFile, Tables: ecommerce.Tables, NewMain: ecommerce.NewMain},
	{Name: movies.Name, File: movies.DefaultFile, Tables: movies.Tables, NewMain: movies.NewMain},
	{Name: supermarket.Name, File: supermarket.DefaultFile, Tables: supermarket.Tables, NewMain: supermarket.NewMain},
	{Name: userbehavior.Name, File: userbehavior.DefaultFile, Tables: userbehavior.Tables, NewMain: userbehavior.NewMain},
}

// All returns every dataset.
func All() []Dataset {
	return append([]Dataset(nil), all...)
}

// Names returns the name of every dataset.
func Names() []string {
	names := make([]string, len(all))
	for i, d := range all {
		names[i] = d.Name
	}
	return names
}

// Lookup returns the dataset called name.
func Lookup(name string) (Dataset, error) {
	for _, d := range all {
		if d.Name == name {
			return d, nil
		}
	}
	return Dataset{}, errors.Wrapf(ErrUnknownDataset, "%q, want one of %s", name, strings.Join(Names(), ", "))
}

// Main loads several datasets concurrently, each into its own store.
type Main struct {
	Dir         string   `help:"Directory holding the dataset files."`
	StoreDir    string   `help:"Directory to create the SQLite stores in."`
	Only        []string `help:"Datasets to load. Empty means all of them."`
	Concurrency int      `help:"Number of datasets to load at once."`
	BatchSize   int      `help:"Number of rows per batched INSERT."`
	Verbose     bool     `help:"Enable verbose logging."`
	JSONLogs    bool     `flag:"json-logs" help:"Write logs as JSON lines."`

	LogOut io.Writer      `flag:"-"`
	Stats  relkit.Statter `flag:"-"`
}

// NewMain returns a Main with defaults.
func NewMain() *Main {
	return &Main{
		Dir:         "data",
		StoreDir:    ".",
		Concurrency: len(all),
		BatchSize:   relkit.DefaultBatchSize,
	}
}

// Run loads every selected dataset.
func (m *Main) Run() error {
	_, err := m.RunContext(context.Background())
	return err
}

// RunContext loads every selected dataset and returns their stats by name.
// The first failure cancels the runs which haven't finished. Runs which
// already committed stay committed.
func (m *Main) RunContext(ctx context.Context) (map[string]*relkit.RunStats, error) {
	sets, err := m.selected()
	if err != nil {
		return nil, err
	}
	if m.Concurrency < 1 {
		return nil, errors.Errorf("concurrency must be positive, got %d", m.Concurrency)
	}

	var (
		mu  sync.Mutex
		ret = make(map[string]*relkit.RunStats, len(sets))
		out = &lockedWriter{w: m.LogOut}
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(m.Concurrency)
	for _, d := range sets {
		im := m.configure(d, out)
		name := d.Name
		eg.Go(func() error {
			rs, err := im.RunContext(ctx)
			mu.Lock()
			ret[name] = rs
			mu.Unlock()
			return errors.Wrap(err, name)
		})
	}
	return ret, eg.Wait()
}

func (m *Main) selected() ([]Dataset, error) {
	if len(m.Only) == 0 {
		return All(), nil
	}
	sets := make([]Dataset, 0, len(m.Only))
	for _, name := range m.Only {
		d, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		sets = append(sets, d)
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i].Name < sets[j].Name })
	return sets, nil
}

func (m *Main) configure(d Dataset, out *lockedWriter) *ingest.Main {
	im := d.NewMain()
	im.Path = filepath.Join(m.Dir, d.File)
	if strings.HasPrefix(im.DSN, "sqlite://") {
		im.DSN = "sqlite://" + filepath.Join(m.StoreDir, strings.TrimPrefix(im.DSN, "sqlite://"))
	}
	im.BatchSize = m.BatchSize
	im.Verbose = m.Verbose
	im.JSONLogs = m.JSONLogs
	im.Stats = m.Stats
	if out.w != nil {
		im.LogOut = out
	}
	return im
}

// lockedWriter serializes writes from concurrent runs.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

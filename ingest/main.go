// Package ingest holds the configuration and wiring shared by every relkit
// command which loads one CSV file into a relational store.
package ingest

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/pilosa/relkit"
	"github.com/pilosa/relkit/aws/s3"
	"github.com/pilosa/relkit/csv"
	"github.com/pilosa/relkit/logger"
	"github.com/pilosa/relkit/metrics"
	"github.com/pilosa/relkit/store"
	"github.com/pilosa/relkit/termstat"
	"github.com/pkg/errors"
)

// Main holds all config for loading one dataset.
type Main struct {
	Path        string   `help:"CSV file to load. A local path, an http(s) URL, or s3://bucket/key."`
	DSN         string   `flag:"dsn" help:"Store to write to. sqlite://file.db, a bare path, :memory:, or postgres://..."`
	BatchSize   int      `help:"Number of rows per batched INSERT."`
	OnRowError  string   `help:"What to do with a row which fails to decode: abort or skip."`
	Reset       bool     `help:"Drop and recreate the tables before loading instead of only creating missing ones."`
	DropColumns []string `help:"Source columns to ignore."`
	DropUnnamed bool     `help:"Ignore blank and 'Unnamed: N' source columns."`
	AWSRegion   string   `flag:"aws-region" help:"AWS region for s3:// paths. Empty uses the environment's configuration."`
	LogPath     string   `help:"Log file to write to. Empty means stderr."`
	Verbose     bool     `help:"Enable verbose logging."`
	JSONLogs    bool     `flag:"json-logs" help:"Write logs as JSON lines."`
	MetricsFile string   `help:"If set, write Prometheus metrics to this file after the run."`
	Progress    bool     `help:"Print running counts to stderr while loading."`

	// NewDomain builds a fresh Domain for each run.
	NewDomain func(log relkit.Logger) relkit.Domain `flag:"-"`
	// Stats overrides the Statter, which is otherwise a metrics.PromStatter.
	Stats relkit.Statter `flag:"-"`
	// LogOut overrides LogPath.
	LogOut io.Writer `flag:"-"`

	log relkit.Logger
}

// NewMain returns a Main with defaults. The caller must set NewDomain.
func NewMain() *Main {
	return &Main{
		DSN:         ":memory:",
		BatchSize:   relkit.DefaultBatchSize,
		OnRowError:  relkit.Abort.String(),
		DropUnnamed: true,
	}
}

// Log returns the Logger set up by the last run.
func (m *Main) Log() relkit.Logger { return m.log }

// Run loads Path into DSN.
func (m *Main) Run() error {
	_, err := m.RunContext(context.Background())
	return err
}

// RunContext loads Path into DSN and returns the run's stats.
func (m *Main) RunContext(ctx context.Context) (*relkit.RunStats, error) {
	policy, err := m.validate()
	if err != nil {
		return nil, errors.Wrap(err, "validating configuration")
	}
	closeLog, err := m.setupLog()
	if err != nil {
		return nil, errors.Wrap(err, "setting up logging")
	}
	defer closeLog()

	var prom *metrics.PromStatter
	stats := m.Stats
	if stats == nil {
		prom = metrics.NewPromStatter()
		stats = prom
	}
	if m.Progress {
		progress := termstat.NewCollector(os.Stderr, 2*time.Second, stats)
		defer progress.Close()
		stats = progress
	}

	d := m.NewDomain(m.log)
	src, err := m.openSource(d)
	if err != nil {
		return nil, errors.Wrap(err, "opening source")
	}
	defer src.Close()

	gw, err := store.Open(ctx, m.DSN, store.OptGatewayLogger(m.log))
	if err != nil {
		return nil, errors.Wrap(err, "opening store")
	}
	defer gw.Close()

	loader := relkit.NewLoader(
		relkit.OptLoaderBatchSize(m.BatchSize),
		relkit.OptLoaderMaxParams(gw.MaxParams()),
		relkit.OptLoaderStatter(stats),
		relkit.OptLoaderLogger(m.log),
	)
	ingester := relkit.NewIngester(gw, loader)
	ingester.Policy = policy
	ingester.Reset = m.Reset
	ingester.Log = m.log
	ingester.Stats = stats

	start := time.Now()
	rs, err := ingester.Run(ctx, src, d)
	if prom != nil && m.MetricsFile != "" {
		if merr := prom.WriteTextfile(m.MetricsFile); merr != nil {
			m.log.Printf("%v", merr)
		}
	}
	if err != nil {
		return rs, errors.Wrapf(err, "loading %s into %s", m.Path, d.Name())
	}
	m.log.Printf("loaded %s in %v: %d rows read, %d blank, %d skipped", m.Path, time.Since(start), rs.Read, rs.Blank, rs.Skipped)
	return rs, nil
}

func (m *Main) validate() (relkit.RowFailurePolicy, error) {
	if m.NewDomain == nil {
		return relkit.Abort, errors.New("no domain")
	}
	if m.Path == "" {
		return relkit.Abort, errors.New("no path")
	}
	if m.DSN == "" {
		return relkit.Abort, errors.New("no dsn")
	}
	if m.BatchSize < 1 {
		return relkit.Abort, errors.Errorf("batch size must be positive, got %d", m.BatchSize)
	}
	return relkit.ParsePolicy(m.OnRowError)
}

func (m *Main) setupLog() (func(), error) {
	logOut := m.LogOut
	closer := func() {}
	if logOut == nil {
		logOut = os.Stderr
		if m.LogPath != "" {
			f, err := os.OpenFile(m.LogPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
			if err != nil {
				return nil, errors.Wrap(err, "opening log file")
			}
			logOut = f
			closer = func() { f.Close() }
		}
	}
	switch {
	case m.JSONLogs:
		z := logger.NewJSONLogger(logOut, m.Verbose)
		m.log = z
		c := closer
		closer = func() {
			_ = z.Sync()
			c()
		}
	case m.Verbose:
		m.log = logger.NewVerboseLogger(logOut)
	default:
		m.log = logger.NewStandardLogger(logOut)
	}
	return closer, nil
}

func (m *Main) openSource(d relkit.Domain) (*csv.Source, error) {
	var o csv.OpenStringer
	if s3.IsURI(m.Path) {
		obj, err := s3.NewObject(m.Path, s3.OptObjRegion(m.AWSRegion))
		if err != nil {
			return nil, err
		}
		o = obj
	} else {
		o = csv.URL(m.Path)
	}
	opts := []csv.Option{
		csv.OptDropColumns(m.DropColumns...),
		csv.OptRequireHeaderOf(d.NewRecord()),
	}
	if m.DropUnnamed {
		opts = append(opts, csv.OptDropUnnamed())
	}
	return csv.NewSource(o, opts...)
}

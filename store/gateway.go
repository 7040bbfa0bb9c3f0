// Package store is the relational storage side of relkit. A Gateway owns the
// connection pool for one database and hands out Sessions, each of which
// wraps a single transaction.
package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pilosa/relkit"
	"github.com/pkg/errors"

	// database/sql drivers
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Gateway is the Storage for one database.
type Gateway struct {
	db      *sqlx.DB
	dialect *dialect
	log     relkit.Logger
}

// GatewayOption configures a Gateway.
type GatewayOption func(g *Gateway)

// OptGatewayLogger sets the Logger used for schema changes and sessions.
func OptGatewayLogger(l relkit.Logger) GatewayOption {
	return func(g *Gateway) {
		g.log = l
	}
}

// Open connects to the database named by dsn. See parseDSN for the
// recognized forms.
func Open(ctx context.Context, dsn string, opts ...GatewayOption) (*Gateway, error) {
	d, driverDSN, err := parseDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open(d.driver, driverDSN)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", d.name)
	}
	if d == sqlite {
		// one writer, and :memory: databases are per connection
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "connecting to %s", d.name)
	}
	g := &Gateway{
		db:      db,
		dialect: d,
		log:     relkit.NopLogger{},
	}
	for _, opt := range opts {
		opt(g)
	}
	g.log.Debugf("opened %s store", d.name)
	return g, nil
}

// DB returns the underlying connection pool for read-only queries.
func (g *Gateway) DB() *sqlx.DB { return g.db }

// Dialect returns "sqlite" or "postgres".
func (g *Gateway) Dialect() string { return g.dialect.name }

// MaxParams is the largest number of bind parameters one statement may use.
func (g *Gateway) MaxParams() int { return g.dialect.maxParams }

// Close closes the connection pool.
func (g *Gateway) Close() error {
	return errors.Wrap(g.db.Close(), "closing store")
}

// CreateSchema creates the tables which don't exist yet, in the given order.
func (g *Gateway) CreateSchema(ctx context.Context, tables []*relkit.Table) error {
	return g.schema(ctx, func(s *Session) error {
		return s.CreateSchema(ctx, tables)
	})
}

// DropSchema drops the tables if they exist, in reverse order.
func (g *Gateway) DropSchema(ctx context.Context, tables []*relkit.Table) error {
	return g.schema(ctx, func(s *Session) error {
		return s.DropSchema(ctx, tables)
	})
}

// ResetSchema drops and recreates the tables in one transaction, leaving them
// empty.
func (g *Gateway) ResetSchema(ctx context.Context, tables []*relkit.Table) error {
	return g.schema(ctx, func(s *Session) error {
		return s.ResetSchema(ctx, tables)
	})
}

func (g *Gateway) schema(ctx context.Context, fn func(s *Session) error) error {
	return g.InSession(ctx, func(tx relkit.Tx) error {
		return fn(tx.(*Session))
	})
}

// Begin starts a Session. The caller must end it with Commit, Rollback or
// Close. InSession does all of that.
func (g *Gateway) Begin(ctx context.Context) (*Session, error) {
	tx, err := g.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "beginning session")
	}
	return &Session{tx: tx, dialect: g.dialect, log: g.log}, nil
}

// InSession runs fn in a new Session. The Session is committed if fn returns
// nil and rolled back if fn returns an error or panics. Errors from fn are
// returned as is, panics are re-raised after the rollback.
func (g *Gateway) InSession(ctx context.Context, fn func(tx relkit.Tx) error) (err error) {
	s, err := g.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			if rerr := s.Rollback(); rerr != nil {
				g.log.Printf("rolling back after panic: %v", rerr)
			}
			panic(p)
		}
	}()
	if err = fn(s); err != nil {
		if rerr := s.Rollback(); rerr != nil {
			g.log.Printf("rolling back: %v", rerr)
		}
		return err
	}
	return s.Commit()
}

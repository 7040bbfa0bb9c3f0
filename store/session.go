package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pilosa/relkit"
	"github.com/pkg/errors"
)

// ErrSessionClosed is returned when a Session is used after it ended.
const ErrSessionClosed = relkit.Error("session is closed")

// State is the lifecycle state of a Session.
type State int

// A Session starts in StateOpen and moves through exactly one of
// StateCommitting or StateRollingBack to StateClosed, which is terminal.
const (
	StateOpen State = iota
	StateCommitting
	StateRollingBack
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateCommitting:
		return "committing"
	case StateRollingBack:
		return "rolling back"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Session is a transactional unit of work. It implements relkit.Tx and
// relkit.KeyReserver. A Session is not safe for concurrent use.
type Session struct {
	tx      *sqlx.Tx
	dialect *dialect
	state   State
	log     relkit.Logger
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// CreateSchema creates the tables which don't exist yet, in the given order.
func (s *Session) CreateSchema(ctx context.Context, tables []*relkit.Table) error {
	if s.state != StateOpen {
		return ErrSessionClosed
	}
	for _, t := range tables {
		if err := t.Validate(); err != nil {
			return err
		}
		stmt, err := s.dialect.createTable(t)
		if err != nil {
			return err
		}
		if _, err := s.tx.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "creating %s", t.Name)
		}
		s.log.Debugf("ensured table %s", t.Name)
	}
	return nil
}

// DropSchema drops the tables if they exist, in reverse order.
func (s *Session) DropSchema(ctx context.Context, tables []*relkit.Table) error {
	if s.state != StateOpen {
		return ErrSessionClosed
	}
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := s.tx.ExecContext(ctx, s.dialect.dropTable(tables[i])); err != nil {
			return errors.Wrapf(err, "dropping %s", tables[i].Name)
		}
		s.log.Debugf("dropped table %s", tables[i].Name)
	}
	return nil
}

// ResetSchema drops and recreates the tables.
func (s *Session) ResetSchema(ctx context.Context, tables []*relkit.Table) error {
	if err := s.DropSchema(ctx, tables); err != nil {
		return errors.Wrap(err, "resetting schema")
	}
	return errors.Wrap(s.CreateSchema(ctx, tables), "resetting schema")
}

// ReserveKeys implements relkit.KeyReserver. The block starts after the
// largest key in t. On Postgres the identity sequence is moved past the
// block so later default keys don't collide with it.
func (s *Session) ReserveKeys(ctx context.Context, t *relkit.Table, n int) (int64, error) {
	if s.state != StateOpen {
		return 0, ErrSessionClosed
	}
	if n < 1 {
		return 0, errors.Errorf("can't reserve %d keys", n)
	}
	var max int64
	if err := s.tx.GetContext(ctx, &max, s.dialect.maxKey(t)); err != nil {
		return 0, errors.Wrapf(err, "reading largest key of %s", t.Name)
	}
	first := max + 1
	if s.dialect.syncKeys != "" {
		if _, err := s.tx.ExecContext(ctx, s.dialect.syncKeys, quote(t.Name), t.Key, first+int64(n)-1); err != nil {
			return 0, errors.Wrapf(err, "moving key sequence of %s", t.Name)
		}
	}
	return first, nil
}

// InsertReturning implements relkit.Tx.
func (s *Session) InsertReturning(ctx context.Context, t *relkit.Table, values []interface{}) (int64, error) {
	if s.state != StateOpen {
		return 0, ErrSessionClosed
	}
	var id int64
	err := s.tx.QueryRowxContext(ctx, s.dialect.insertReturning(t), values...).Scan(&id)
	if err != nil {
		return 0, errors.Wrapf(err, "inserting into %s", t.Name)
	}
	return id, nil
}

// InsertBatch implements relkit.Tx.
func (s *Session) InsertBatch(ctx context.Context, t *relkit.Table, rows [][]interface{}) error {
	if s.state != StateOpen {
		return ErrSessionClosed
	}
	if len(rows) == 0 {
		return nil
	}
	args := make([]interface{}, 0, len(rows)*len(rows[0]))
	for _, r := range rows {
		args = append(args, r...)
	}
	if _, err := s.tx.ExecContext(ctx, s.dialect.insertBatch(t, len(rows)), args...); err != nil {
		return errors.Wrapf(err, "inserting %d rows into %s", len(rows), t.Name)
	}
	return nil
}

// Commit commits the transaction and closes the Session.
func (s *Session) Commit() error {
	if s.state != StateOpen {
		return ErrSessionClosed
	}
	s.state = StateCommitting
	err := s.tx.Commit()
	s.state = StateClosed
	s.log.Debugf("session committed")
	return errors.Wrap(err, "committing session")
}

// Rollback rolls the transaction back and closes the Session.
func (s *Session) Rollback() error {
	if s.state != StateOpen {
		return ErrSessionClosed
	}
	s.state = StateRollingBack
	err := s.tx.Rollback()
	s.state = StateClosed
	s.log.Debugf("session rolled back")
	return errors.Wrap(err, "rolling back session")
}

// Close rolls back a Session which is still open. It is a no-op otherwise, so
// it is safe to defer.
func (s *Session) Close() error {
	if s.state == StateClosed {
		return nil
	}
	return s.Rollback()
}

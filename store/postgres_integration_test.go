//go:build integration

package store

import (
	"context"
	"testing"

	"github.com/pilosa/relkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func openPostgres(t *testing.T) *Gateway {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("relkit"),
		tcpostgres.WithUsername("relkit"),
		tcpostgres.WithPassword("relkit"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	g, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { g.Close() })
	assert.Equal(t, "postgres", g.Dialect())
	require.NoError(t, g.ResetSchema(ctx, schema))
	return g
}

func TestPostgresSession(t *testing.T) {
	ctx := context.Background()
	g := openPostgres(t)

	err := g.InSession(ctx, func(tx relkit.Tx) error {
		id, err := tx.InsertReturning(ctx, parents, []interface{}{"p1"})
		if err != nil {
			return err
		}
		return tx.InsertBatch(ctx, children, [][]interface{}{
			{"a", id, 1.5, "2019-03-08", true},
			{"b", id, 2.0, nil, nil},
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count(t, g, "children"))

	// a duplicate key rolls back the whole session
	err = g.InSession(ctx, func(tx relkit.Tx) error {
		if _, err := tx.InsertReturning(ctx, parents, []interface{}{"p2"}); err != nil {
			return err
		}
		return tx.InsertBatch(ctx, children, [][]interface{}{{"a", 1, 1.0, nil, nil}})
	})
	require.Error(t, err)
	assert.Equal(t, 1, count(t, g, "parents"))

	// reserved keys move the identity sequence past the block
	err = g.InSession(ctx, func(tx relkit.Tx) error {
		s := tx.(*Session)
		first, err := s.ReserveKeys(ctx, parents, 2)
		if err != nil {
			return err
		}
		assert.EqualValues(t, 2, first)
		if err := s.InsertBatch(ctx, parents.WithKey(), [][]interface{}{{first, "r1"}, {first + 1, "r2"}}); err != nil {
			return err
		}
		id, err := s.InsertReturning(ctx, parents, []interface{}{"after"})
		assert.EqualValues(t, 4, id)
		return err
	})
	require.NoError(t, err)

	require.NoError(t, g.ResetSchema(ctx, schema))
	assert.Equal(t, 0, count(t, g, "parents"))
}

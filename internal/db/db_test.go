package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bloomaccess/backend/internal/db/migrations"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDuplicateEntry(t *testing.T) {
	assert.True(t, IsDuplicateEntry(&mysql.MySQLError{Number: DuplicateEntry}))
	assert.False(t, IsDuplicateEntry(&mysql.MySQLError{Number: 1045}))
	assert.False(t, IsDuplicateEntry(errors.New("boom")))
}

func TestIsNoReferencedRow(t *testing.T) {
	assert.True(t, IsNoReferencedRow(&mysql.MySQLError{Number: NoReferencedRow}))
	assert.False(t, IsNoReferencedRow(&mysql.MySQLError{Number: DuplicateEntry}))
	assert.False(t, IsNoReferencedRow(errors.New("boom")))
}

func TestMigrate_RunsGoose(t *testing.T) {
	raw, _, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	conn := sqlx.NewDb(raw, "sqlmock")

	var called bool
	prev := gooseUp
	gooseUp = func(ctx context.Context, got *sqlx.DB) error {
		called = true
		assert.Same(t, conn, got)
		return nil
	}
	t.Cleanup(func() { gooseUp = prev })

	require.NoError(t, Migrate(context.Background(), conn))
	assert.True(t, called)
}

func TestMigrate_PropagatesError(t *testing.T) {
	raw, _, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()

	prev := gooseUp
	gooseUp = func(context.Context, *sqlx.DB) error { return errors.New("locked") }
	t.Cleanup(func() { gooseUp = prev })

	err = Migrate(context.Background(), sqlx.NewDb(raw, "sqlmock"))
	assert.ErrorContains(t, err, "locked")
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrations.FS.ReadDir(".")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "00001_create_user.sql")
	assert.Contains(t, names, "00002_create_user_verification.sql")
}

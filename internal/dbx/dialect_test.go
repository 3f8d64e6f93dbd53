package dbx

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebind(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		in      string
		want    string
	}{
		{"mysql untouched", MySQL, "SELECT * FROM a WHERE x=? AND y=?", "SELECT * FROM a WHERE x=? AND y=?"},
		{"sqlite untouched", SQLite, "UPDATE a SET x=? WHERE id=?", "UPDATE a SET x=? WHERE id=?"},
		{"postgres numbered", Postgres, "UPDATE a SET x=?, y=? WHERE id=?", "UPDATE a SET x=$1, y=$2 WHERE id=$3"},
		{"postgres quoted literal", Postgres, "SELECT '?' , x FROM a WHERE id=?", "SELECT '?' , x FROM a WHERE id=$1"},
		{"postgres no params", Postgres, "SELECT 1", "SELECT 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rebind(tt.dialect, tt.in))
		})
	}
}

func TestParseDialect(t *testing.T) {
	for in, want := range map[string]Dialect{
		"":           MySQL,
		"MySQL":      MySQL,
		"postgres":   Postgres,
		"pgx":        Postgres,
		"postgresql": Postgres,
		"sqlite3":    SQLite,
		" sqlite ":   SQLite,
	} {
		got, err := ParseDialect(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDialect("oracle")
	require.Error(t, err)
}

func TestBind_PostgresRewritesBeforeExecuting(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM a WHERE id=$1 AND owner=$2").
		WithArgs("a1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	b := Bind(db, Postgres)
	_, err = b.ExecContext(context.Background(), "DELETE FROM a WHERE id=? AND owner=?", "a1", "u1")
	require.NoError(t, err)

	// binding twice must not double-wrap
	require.Equal(t, b, Bind(b, Postgres))
	require.NoError(t, mock.ExpectationsWereMet())
}

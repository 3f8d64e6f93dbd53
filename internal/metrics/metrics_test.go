package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwarnimont/filmdb2/internal/backup"
)

func TestRecorder_Imports(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg)
	require.NoError(t, err)

	r.ImportFinished(backup.Summary{FilmRollsCreated: 2, PrintsUpdated: 3}, 40*time.Millisecond, nil)
	r.ImportFinished(backup.Summary{}, time.Millisecond, backup.ErrDanglingReference)
	r.ImportFinished(backup.Summary{}, time.Millisecond, errors.New("db down"))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.imports.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.imports.WithLabelValues("dangling_reference")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.imports.WithLabelValues("store_failure")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.records.WithLabelValues("film_roll", "created")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.records.WithLabelValues("print", "updated")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.records))

	count, err := testutil.GatherAndCount(reg, "filmdb_backup_import_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecorder_Exports(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg)
	require.NoError(t, err)

	r.ExportFinished(time.Millisecond, nil)
	r.ExportFinished(time.Millisecond, nil)
	r.ExportFinished(time.Millisecond, errors.New("boom"))

	expected := `
# HELP filmdb_backup_exports_total Backup exports by result.
# TYPE filmdb_backup_exports_total counter
filmdb_backup_exports_total{result="error"} 1
filmdb_backup_exports_total{result="ok"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "filmdb_backup_exports_total"))
}

func TestNewRecorder_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewRecorder(reg)
	require.NoError(t, err)
	_, err = NewRecorder(reg)
	require.Error(t, err)
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwarnimont/filmdb2/internal/backup"
	"github.com/pwarnimont/filmdb2/internal/config"
	"github.com/pwarnimont/filmdb2/internal/database"
	"github.com/pwarnimont/filmdb2/internal/model"
	"github.com/pwarnimont/filmdb2/internal/repository"
)

const rollJSON = `{
  "filmRolls": [{
    "id": "r1", "filmId": "K-1", "filmName": "Kodak Gold", "boxIso": 200,
    "filmFormat": "%s", "exposures": 36, "isDeveloped": false, "isScanned": false,
    "createdAt": "2024-04-01T10:00:00Z", "updatedAt": "2024-04-01T10:00:00Z",
    "userId": "u1", "prints": []
  }]
}`

// setup points the CLI at a fresh sqlite file, migrates it and seeds u1.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "")
	t.Setenv("DB_NAME", filepath.Join(dir, "catalog.db"))
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "error")

	out, err := execute(t, nil, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "schema at version")

	ctx := context.Background()
	db, dialect, err := database.Open(ctx, config.LoadDB())
	require.NoError(t, err)
	defer db.Close()
	now := time.Now().UTC()
	u := model.User{ID: "u1", Email: "u1@example.com", PasswordHash: "x", Role: model.RoleUser,
		IsActive: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repository.NewManager(dialect).Users(db).Insert(ctx, &u))
	return dir
}

func execute(t *testing.T, stdin []byte, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(bytes.NewReader(stdin), &out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env")}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestImportThenExport(t *testing.T) {
	dir := setup(t)
	file := filepath.Join(dir, "in.json")
	require.NoError(t, os.WriteFile(file, []byte(strings.Replace(rollJSON, "%s", "35mm", 1)), 0o600))

	out, err := execute(t, nil, "import", "--file", file, "--user", "u1")
	require.NoError(t, err)
	var sum backup.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &sum))
	assert.Equal(t, backup.Summary{FilmRollsCreated: 1}, sum)

	// same snapshot again through stdin: everything is an update
	payload, err := os.ReadFile(file)
	require.NoError(t, err)
	out, err = execute(t, payload, "import", "--file", "-", "--user", "u1")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &sum))
	assert.Equal(t, backup.Summary{FilmRollsUpdated: 1}, sum)

	exported := filepath.Join(dir, "out.json")
	_, err = execute(t, nil, "export", "--user", "u1", "--out", exported)
	require.NoError(t, err)

	raw, err := os.ReadFile(exported)
	require.NoError(t, err)
	var snap backup.Snapshot
	require.NoError(t, json.Unmarshal(raw, &snap))
	require.Len(t, snap.FilmRolls, 1)
	assert.Equal(t, "r1", snap.FilmRolls[0].ID)
	assert.Equal(t, "35mm", snap.FilmRolls[0].FilmFormat)
	assert.Empty(t, snap.Users)
}

func TestImport_ExitCodes(t *testing.T) {
	dir := setup(t)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(strings.Replace(rollJSON, "%s", "9x12", 1)), 0o600))
	_, err := execute(t, nil, "import", "--file", bad, "--user", "u1")
	require.ErrorIs(t, err, backup.ErrInvalidFormat)
	assert.Equal(t, exitRejected, exitCode(err))

	_, err = execute(t, nil, "import", "--file", filepath.Join(dir, "missing.json"), "--user", "u1")
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCode(err))

	_, err = execute(t, []byte("{not json"), "import", "--file", "-", "--user", "u1")
	require.Error(t, err)
	assert.Equal(t, exitRejected, exitCode(err))
}

func TestExitCode_PlainErrorIsFailure(t *testing.T) {
	assert.Equal(t, exitFailure, exitCode(assert.AnError))
	assert.NoError(t, withCode(exitUsage, nil))
}

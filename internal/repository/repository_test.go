package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwarnimont/filmdb2/internal/dbx"
	"github.com/pwarnimont/filmdb2/internal/model"
	"github.com/pwarnimont/filmdb2/internal/testutil"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func strp(s string) *string { return &s }

func seedUser(t *testing.T, m *Manager, db *sql.DB, id string) {
	t.Helper()
	u := model.User{ID: id, Email: id + "@Example.com", PasswordHash: "h", Role: model.RoleUser,
		IsActive: true, CreatedAt: t0, UpdatedAt: t0}
	require.NoError(t, m.Users(db).Insert(context.Background(), &u))
	assert.Equal(t, id+"@example.com", u.Email)
}

func seedRoll(t *testing.T, m *Manager, db *sql.DB, id, owner string) {
	t.Helper()
	f := model.FilmRoll{ID: id, UserID: owner, FilmID: "K", FilmName: "Kodak", BoxISO: 400,
		FilmFormat: model.FilmFormat35mm, Exposures: 36, CreatedAt: t0, UpdatedAt: t0}
	require.NoError(t, m.FilmRolls(db).Insert(context.Background(), &f))
}

func TestCameraRepo_RoundTrip(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	m := NewManager(dbx.SQLite)
	ctx := context.Background()
	seedUser(t, m, db, "u1")

	released := time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)
	c := model.Camera{ID: "c1", UserID: "u1", Manufacturer: "Nikon", Model: "F3", FilmType: "35mm",
		ReleaseDate: &released, CreatedAt: t0, UpdatedAt: t0}
	require.NoError(t, m.Cameras(db).Insert(ctx, &c))

	got, err := m.Cameras(db).GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{}, got.Lenses)
	assert.Nil(t, got.PurchaseDate)
	assert.Nil(t, got.Notes)
	require.NotNil(t, got.ReleaseDate)
	assert.True(t, released.Equal(*got.ReleaseDate))
	assert.True(t, t0.Equal(got.CreatedAt))

	got.Lenses = []string{"50mm"}
	got.Notes = strp("mint")
	require.NoError(t, m.Cameras(db).Update(ctx, &got))
	again, err := m.Cameras(db).GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"50mm"}, again.Lenses)
	assert.Equal(t, "mint", *again.Notes)

	owner, err := m.Cameras(db).OwnerOf(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "u1", owner)
	_, err = m.Cameras(db).OwnerOf(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPrintRepo_StepsAndOwner(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	m := NewManager(dbx.SQLite)
	ctx := context.Background()
	seedUser(t, m, db, "u1")
	seedRoll(t, m, db, "r1", "u1")

	plain := model.Print{ID: "p1", FilmRollID: "r1", FrameNumber: 1, CreatedAt: t0, UpdatedAt: t0}
	split := model.Print{ID: "p2", FilmRollID: "r1", FrameNumber: 2, CreatedAt: t0, UpdatedAt: t0,
		SplitGradeSteps: []model.SplitGradeStep{{Filter: "00", ExposureSeconds: 8}}}
	require.NoError(t, m.Prints(db).Insert(ctx, &plain))
	require.NoError(t, m.Prints(db).Insert(ctx, &split))

	var raw sql.NullString
	require.NoError(t, db.QueryRow("SELECT split_grade_steps FROM prints WHERE id='p1'").Scan(&raw))
	assert.False(t, raw.Valid, "empty steps are stored as NULL")

	got, err := m.Prints(db).GetByID(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, split.SplitGradeSteps, got.SplitGradeSteps)

	owner, err := m.Prints(db).OwnerOf(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "u1", owner)
	_, err = m.Prints(db).OwnerOf(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDevelopmentRepo_UpsertKeepsID(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	m := NewManager(dbx.SQLite)
	ctx := context.Background()
	seedUser(t, m, db, "u1")
	seedRoll(t, m, db, "r1", "u1")
	repo := m.Developments(db)

	d := model.Development{ID: "d1", FilmRollID: "r1", Developer: "HC-110", DateDeveloped: t0}
	created, err := repo.UpsertByFilmRollID(ctx, &d)
	require.NoError(t, err)
	assert.True(t, created)

	again := model.Development{ID: "other", FilmRollID: "r1", Developer: "Rodinal", DateDeveloped: t0}
	created, err = repo.UpsertByFilmRollID(ctx, &again)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "d1", again.ID)

	got, err := repo.GetByFilmRollID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "d1", got.ID)
	assert.Equal(t, "Rodinal", got.Developer)

	gone, err := repo.DeleteByFilmRollID(ctx, "r1")
	require.NoError(t, err)
	assert.True(t, gone)
	gone, err = repo.DeleteByFilmRollID(ctx, "r1")
	require.NoError(t, err)
	assert.False(t, gone)
}

func TestUserRepo_DuplicateEmail(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	m := NewManager(dbx.SQLite)
	seedUser(t, m, db, "u1")

	dup := model.User{ID: "u2", Email: "U1@example.com", PasswordHash: "h", Role: model.RoleUser,
		CreatedAt: t0, UpdatedAt: t0}
	err := m.Users(db).Insert(context.Background(), &dup)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestDevelopmentRepo_DeleteMock(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM developments WHERE film_roll_id=$1").
		WithArgs("r9").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM developments WHERE film_roll_id=$1").
		WithArgs("r9").
		WillReturnError(errors.New("boom"))

	repo := NewManager(dbx.Postgres).Developments(db)
	gone, err := repo.DeleteByFilmRollID(context.Background(), "r9")
	require.NoError(t, err)
	assert.False(t, gone)

	_, err = repo.DeleteByFilmRollID(context.Background(), "r9")
	assert.EqualError(t, err, "boom")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFilmRollRepo_OwnerOfNotFoundMock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT user_id FROM film_rolls").
		WithArgs("r1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	_, err = NewManager(dbx.MySQL).FilmRolls(db).OwnerOf(context.Background(), "r1")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		hints []string
		want  bool
	}{
		{"nil", nil, nil, false},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry for key 'users.email'"}, []string{"email"}, true},
		{"mysql other", &mysql.MySQLError{Number: 1452, Message: "foreign key"}, nil, false},
		{"postgres duplicate", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key", Message: "duplicate key"}, nil, true},
		{"sqlite wrong column", errors.New("UNIQUE constraint failed: cameras.id"), []string{"email"}, false},
		{"sqlite email", errors.New("UNIQUE constraint failed: users.email"), []string{"email"}, true},
		{"other", errors.New("disk full"), nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueViolation(tt.err, tt.hints...))
		})
	}
}

func TestDBTime_Scan(t *testing.T) {
	want := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	for _, src := range []any{
		want.In(time.FixedZone("CEST", 2*3600)),
		"2024-05-01T12:30:00Z",
		[]byte("2024-05-01 12:30:00"),
		"2024-05-01 14:30:00+02:00",
	} {
		var d dbTime
		require.NoError(t, d.Scan(src), "%v", src)
		assert.True(t, d.Valid)
		assert.True(t, want.Equal(d.Time), "%v -> %v", src, d.Time)
		assert.Equal(t, time.UTC, d.Time.Location())
	}

	var d dbTime
	require.NoError(t, d.Scan(nil))
	assert.Nil(t, d.Ptr())
	assert.Error(t, d.Scan("yesterday"))
	assert.Error(t, d.Scan(42))
}

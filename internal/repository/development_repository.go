package repository

import (
	"context"
	"errors"

	"github.com/pwarnimont/filmdb2/internal/dbx"
	"github.com/pwarnimont/filmdb2/internal/model"
)

const developmentColumns = "id,film_roll_id,developer,temperature_c,dilution,time_seconds,date_developed,agitation_scheme"

// DevelopmentRepo reads and writes the 'developments' table.  A film
// roll has at most one development, so most operations are keyed by
// film_roll_id rather than by the row id.
type DevelopmentRepo struct{ DB dbx.DBTX }

func NewDevelopmentRepo(db dbx.DBTX) *DevelopmentRepo { return &DevelopmentRepo{DB: db} }

func scanDevelopment(row rowScanner) (model.Development, error) {
	var (
		d    model.Development
		date dbTime
	)
	err := row.Scan(&d.ID, &d.FilmRollID, &d.Developer, &d.TemperatureC, &d.Dilution,
		&d.TimeSeconds, &date, &d.AgitationScheme)
	if err != nil {
		return model.Development{}, err
	}
	d.DateDeveloped = date.Time
	return d, nil
}

// GetByFilmRollID returns the development of a roll, or ErrNotFound.
func (r *DevelopmentRepo) GetByFilmRollID(ctx context.Context, filmRollID string) (model.Development, error) {
	d, err := scanDevelopment(r.DB.QueryRowContext(ctx,
		"SELECT "+developmentColumns+" FROM developments WHERE film_roll_id=?", filmRollID))
	return d, notFound(err)
}

// UpsertByFilmRollID creates the development of d.FilmRollID or, when one
// already exists, overwrites its fields while keeping the existing row id.
// d.ID is only used on create and must be set by the caller.
func (r *DevelopmentRepo) UpsertByFilmRollID(ctx context.Context, d *model.Development) (created bool, err error) {
	existing, err := r.GetByFilmRollID(ctx, d.FilmRollID)
	switch {
	case errors.Is(err, ErrNotFound):
		_, err = r.DB.ExecContext(ctx,
			"INSERT INTO developments ("+developmentColumns+") VALUES (?,?,?,?,?,?,?,?)",
			d.ID, d.FilmRollID, d.Developer, d.TemperatureC, d.Dilution, d.TimeSeconds,
			timeArg(d.DateDeveloped), d.AgitationScheme)
		return err == nil, err
	case err != nil:
		return false, err
	}

	d.ID = existing.ID
	_, err = r.DB.ExecContext(ctx,
		`UPDATE developments SET developer=?, temperature_c=?, dilution=?, time_seconds=?,
		 date_developed=?, agitation_scheme=? WHERE film_roll_id=?`,
		d.Developer, d.TemperatureC, d.Dilution, d.TimeSeconds, timeArg(d.DateDeveloped),
		d.AgitationScheme, d.FilmRollID)
	return false, err
}

// DeleteByFilmRollID removes the development of a roll if there is one and
// reports whether a row was deleted.  Deleting nothing is not an error.
func (r *DevelopmentRepo) DeleteByFilmRollID(ctx context.Context, filmRollID string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM developments WHERE film_roll_id=?", filmRollID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListByOwner returns the developments of every roll owned by userID.
func (r *DevelopmentRepo) ListByOwner(ctx context.Context, userID string) ([]model.Development, error) {
	return r.list(ctx,
		`SELECT d.id,d.film_roll_id,d.developer,d.temperature_c,d.dilution,d.time_seconds,d.date_developed,d.agitation_scheme
		 FROM developments d JOIN film_rolls fr ON fr.id = d.film_roll_id
		 WHERE fr.user_id=? ORDER BY d.film_roll_id`, userID)
}

// ListAll returns every development.
func (r *DevelopmentRepo) ListAll(ctx context.Context) ([]model.Development, error) {
	return r.list(ctx, "SELECT "+developmentColumns+" FROM developments ORDER BY film_roll_id")
}

func (r *DevelopmentRepo) list(ctx context.Context, query string, args ...any) ([]model.Development, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Development{}
	for rows.Next() {
		d, err := scanDevelopment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

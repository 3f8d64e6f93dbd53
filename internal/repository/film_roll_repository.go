package repository

import (
	"context"
	"database/sql"

	"github.com/pwarnimont/filmdb2/internal/dbx"
	"github.com/pwarnimont/filmdb2/internal/model"
)

const filmRollColumns = "id,user_id,film_id,film_name,box_iso,shot_iso,date_shot,camera_name,camera_id," +
	"film_format,exposures,is_developed,is_scanned,scan_folder,created_at,updated_at"

// FilmRollRepo reads and writes the 'film_rolls' table.
type FilmRollRepo struct{ DB dbx.DBTX }

func NewFilmRollRepo(db dbx.DBTX) *FilmRollRepo { return &FilmRollRepo{DB: db} }

func scanFilmRoll(row rowScanner) (model.FilmRoll, error) {
	var (
		f                  model.FilmRoll
		shotISO            sql.NullInt64
		dateShot           dbTime
		format             string
		createdAt, updated dbTime
	)
	err := row.Scan(&f.ID, &f.UserID, &f.FilmID, &f.FilmName, &f.BoxISO, &shotISO, &dateShot,
		&f.CameraName, &f.CameraID, &format, &f.Exposures, &f.IsDeveloped, &f.IsScanned,
		&f.ScanFolder, &createdAt, &updated)
	if err != nil {
		return model.FilmRoll{}, err
	}
	if shotISO.Valid {
		v := int(shotISO.Int64)
		f.ShotISO = &v
	}
	f.DateShot = dateShot.Ptr()
	f.FilmFormat = model.FilmFormat(format)
	f.CreatedAt = createdAt.Time
	f.UpdatedAt = updated.Time
	return f, nil
}

// OwnerOf returns the owning user id of film roll id, or ErrNotFound.
func (r *FilmRollRepo) OwnerOf(ctx context.Context, id string) (string, error) {
	var owner string
	err := r.DB.QueryRowContext(ctx, "SELECT user_id FROM film_rolls WHERE id=?", id).Scan(&owner)
	return owner, notFound(err)
}

// GetByID fetches a single film roll.
func (r *FilmRollRepo) GetByID(ctx context.Context, id string) (model.FilmRoll, error) {
	f, err := scanFilmRoll(r.DB.QueryRowContext(ctx, "SELECT "+filmRollColumns+" FROM film_rolls WHERE id=?", id))
	return f, notFound(err)
}

// Insert creates f with the id and created_at it carries.
func (r *FilmRollRepo) Insert(ctx context.Context, f *model.FilmRoll) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO film_rolls ("+filmRollColumns+") VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)",
		f.ID, f.UserID, f.FilmID, f.FilmName, f.BoxISO, nullIntArg(f.ShotISO), nullTimeArg(f.DateShot),
		nullStringArg(f.CameraName), nullStringArg(f.CameraID), string(f.FilmFormat), f.Exposures,
		f.IsDeveloped, f.IsScanned, nullStringArg(f.ScanFolder), timeArg(f.CreatedAt), timeArg(f.UpdatedAt))
	return err
}

// Update overwrites every column except id and created_at, including
// the owner and the camera link.
func (r *FilmRollRepo) Update(ctx context.Context, f *model.FilmRoll) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE film_rolls SET user_id=?, film_id=?, film_name=?, box_iso=?, shot_iso=?, date_shot=?,
		 camera_name=?, camera_id=?, film_format=?, exposures=?, is_developed=?, is_scanned=?,
		 scan_folder=?, updated_at=? WHERE id=?`,
		f.UserID, f.FilmID, f.FilmName, f.BoxISO, nullIntArg(f.ShotISO), nullTimeArg(f.DateShot),
		nullStringArg(f.CameraName), nullStringArg(f.CameraID), string(f.FilmFormat), f.Exposures,
		f.IsDeveloped, f.IsScanned, nullStringArg(f.ScanFolder), timeArg(f.UpdatedAt), f.ID)
	return err
}

// ListByOwner returns the rolls of one user ordered by creation time.
func (r *FilmRollRepo) ListByOwner(ctx context.Context, userID string) ([]model.FilmRoll, error) {
	return r.list(ctx, "SELECT "+filmRollColumns+" FROM film_rolls WHERE user_id=? ORDER BY created_at, id", userID)
}

// ListAll returns every roll ordered by creation time.
func (r *FilmRollRepo) ListAll(ctx context.Context) ([]model.FilmRoll, error) {
	return r.list(ctx, "SELECT "+filmRollColumns+" FROM film_rolls ORDER BY created_at, id")
}

func (r *FilmRollRepo) list(ctx context.Context, query string, args ...any) ([]model.FilmRoll, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.FilmRoll{}
	for rows.Next() {
		f, err := scanFilmRoll(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

package repository

import (
	"context"

	"github.com/pwarnimont/filmdb2/internal/dbx"
	"github.com/pwarnimont/filmdb2/internal/model"
)

const cameraColumns = "id,user_id,manufacturer,model,release_date,purchase_date,film_type,lenses,notes,created_at,updated_at"

// CameraRepo reads and writes the 'cameras' table.
type CameraRepo struct{ DB dbx.DBTX }

func NewCameraRepo(db dbx.DBTX) *CameraRepo { return &CameraRepo{DB: db} }

func scanCamera(row rowScanner) (model.Camera, error) {
	var (
		c                  model.Camera
		releaseDate        dbTime
		purchaseDate       dbTime
		lenses             []byte
		createdAt, updated dbTime
	)
	err := row.Scan(&c.ID, &c.UserID, &c.Manufacturer, &c.Model, &releaseDate, &purchaseDate,
		&c.FilmType, &lenses, &c.Notes, &createdAt, &updated)
	if err != nil {
		return model.Camera{}, err
	}
	if c.Lenses, err = decodeLenses(lenses); err != nil {
		return model.Camera{}, err
	}
	c.ReleaseDate = releaseDate.Ptr()
	c.PurchaseDate = purchaseDate.Ptr()
	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updated.Time
	return c, nil
}

// OwnerOf returns the owning user id of camera id, or ErrNotFound.
func (r *CameraRepo) OwnerOf(ctx context.Context, id string) (string, error) {
	var owner string
	err := r.DB.QueryRowContext(ctx, "SELECT user_id FROM cameras WHERE id=?", id).Scan(&owner)
	return owner, notFound(err)
}

// GetByID fetches a single camera.
func (r *CameraRepo) GetByID(ctx context.Context, id string) (model.Camera, error) {
	c, err := scanCamera(r.DB.QueryRowContext(ctx, "SELECT "+cameraColumns+" FROM cameras WHERE id=?", id))
	return c, notFound(err)
}

// Insert creates c with the id and created_at it carries.
func (r *CameraRepo) Insert(ctx context.Context, c *model.Camera) error {
	lenses, err := encodeLenses(c.Lenses)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO cameras ("+cameraColumns+") VALUES (?,?,?,?,?,?,?,?,?,?,?)",
		c.ID, c.UserID, c.Manufacturer, c.Model, nullTimeArg(c.ReleaseDate), nullTimeArg(c.PurchaseDate),
		c.FilmType, lenses, nullStringArg(c.Notes), timeArg(c.CreatedAt), timeArg(c.UpdatedAt))
	return err
}

// Update overwrites every column except id and created_at, including
// the owner.
func (r *CameraRepo) Update(ctx context.Context, c *model.Camera) error {
	lenses, err := encodeLenses(c.Lenses)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE cameras SET user_id=?, manufacturer=?, model=?, release_date=?, purchase_date=?,
		 film_type=?, lenses=?, notes=?, updated_at=? WHERE id=?`,
		c.UserID, c.Manufacturer, c.Model, nullTimeArg(c.ReleaseDate), nullTimeArg(c.PurchaseDate),
		c.FilmType, lenses, nullStringArg(c.Notes), timeArg(c.UpdatedAt), c.ID)
	return err
}

// ListByOwner returns the cameras of one user ordered by creation time.
func (r *CameraRepo) ListByOwner(ctx context.Context, userID string) ([]model.Camera, error) {
	return r.list(ctx, "SELECT "+cameraColumns+" FROM cameras WHERE user_id=? ORDER BY created_at, id", userID)
}

// ListAll returns every camera ordered by creation time.
func (r *CameraRepo) ListAll(ctx context.Context) ([]model.Camera, error) {
	return r.list(ctx, "SELECT "+cameraColumns+" FROM cameras ORDER BY created_at, id")
}

func (r *CameraRepo) list(ctx context.Context, query string, args ...any) ([]model.Camera, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Camera{}
	for rows.Next() {
		c, err := scanCamera(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

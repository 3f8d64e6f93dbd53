package repository

import (
	"context"

	"github.com/pwarnimont/filmdb2/internal/dbx"
	"github.com/pwarnimont/filmdb2/internal/model"
)

const printColumns = "id,film_roll_id,frame_number,paper_type,paper_size,paper_manufacturer," +
	"development_time_seconds,fixing_time_seconds,washing_time_seconds," +
	"split_grade_instructions,split_grade_steps,created_at,updated_at"

// printColumnsP is printColumns qualified with the "p" alias for joins.
const printColumnsP = "p.id,p.film_roll_id,p.frame_number,p.paper_type,p.paper_size,p.paper_manufacturer," +
	"p.development_time_seconds,p.fixing_time_seconds,p.washing_time_seconds," +
	"p.split_grade_instructions,p.split_grade_steps,p.created_at,p.updated_at"

// PrintRepo reads and writes the 'prints' table.  Prints have no owner
// column; ownership is always that of the referenced film roll.
type PrintRepo struct{ DB dbx.DBTX }

func NewPrintRepo(db dbx.DBTX) *PrintRepo { return &PrintRepo{DB: db} }

func scanPrint(row rowScanner) (model.Print, error) {
	var (
		p                  model.Print
		steps              []byte
		createdAt, updated dbTime
	)
	err := row.Scan(&p.ID, &p.FilmRollID, &p.FrameNumber, &p.PaperType, &p.PaperSize, &p.PaperManufacturer,
		&p.DevelopmentTimeSeconds, &p.FixingTimeSeconds, &p.WashingTimeSeconds,
		&p.SplitGradeInstructions, &steps, &createdAt, &updated)
	if err != nil {
		return model.Print{}, err
	}
	if p.SplitGradeSteps, err = decodeSteps(steps); err != nil {
		return model.Print{}, err
	}
	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updated.Time
	return p, nil
}

// OwnerOf returns the owner of the film roll print id belongs to, or
// ErrNotFound when the print does not exist.
func (r *PrintRepo) OwnerOf(ctx context.Context, id string) (string, error) {
	var owner string
	err := r.DB.QueryRowContext(ctx,
		"SELECT fr.user_id FROM prints p JOIN film_rolls fr ON fr.id = p.film_roll_id WHERE p.id=?", id).Scan(&owner)
	return owner, notFound(err)
}

// GetByID fetches a single print.
func (r *PrintRepo) GetByID(ctx context.Context, id string) (model.Print, error) {
	p, err := scanPrint(r.DB.QueryRowContext(ctx, "SELECT "+printColumns+" FROM prints WHERE id=?", id))
	return p, notFound(err)
}

// Insert creates p with the id and created_at it carries.
func (r *PrintRepo) Insert(ctx context.Context, p *model.Print) error {
	steps, err := encodeSteps(p.SplitGradeSteps)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO prints ("+printColumns+") VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)",
		p.ID, p.FilmRollID, p.FrameNumber, p.PaperType, p.PaperSize, p.PaperManufacturer,
		p.DevelopmentTimeSeconds, p.FixingTimeSeconds, p.WashingTimeSeconds,
		nullStringArg(p.SplitGradeInstructions), steps, timeArg(p.CreatedAt), timeArg(p.UpdatedAt))
	return err
}

// Update overwrites every column except id and created_at.  A print may
// move to another roll.
func (r *PrintRepo) Update(ctx context.Context, p *model.Print) error {
	steps, err := encodeSteps(p.SplitGradeSteps)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE prints SET film_roll_id=?, frame_number=?, paper_type=?, paper_size=?, paper_manufacturer=?,
		 development_time_seconds=?, fixing_time_seconds=?, washing_time_seconds=?,
		 split_grade_instructions=?, split_grade_steps=?, updated_at=? WHERE id=?`,
		p.FilmRollID, p.FrameNumber, p.PaperType, p.PaperSize, p.PaperManufacturer,
		p.DevelopmentTimeSeconds, p.FixingTimeSeconds, p.WashingTimeSeconds,
		nullStringArg(p.SplitGradeInstructions), steps, timeArg(p.UpdatedAt), p.ID)
	return err
}

// ListByOwner returns the prints of every roll owned by userID, oldest first.
func (r *PrintRepo) ListByOwner(ctx context.Context, userID string) ([]model.Print, error) {
	return r.list(ctx,
		"SELECT "+printColumnsP+" FROM prints p JOIN film_rolls fr ON fr.id = p.film_roll_id "+
			"WHERE fr.user_id=? ORDER BY p.created_at, p.id", userID)
}

// ListAll returns every print, oldest first.
func (r *PrintRepo) ListAll(ctx context.Context) ([]model.Print, error) {
	return r.list(ctx, "SELECT "+printColumns+" FROM prints ORDER BY created_at, id")
}

func (r *PrintRepo) list(ctx context.Context, query string, args ...any) ([]model.Print, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Print{}
	for rows.Next() {
		p, err := scanPrint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

package repository

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pwarnimont/filmdb2/internal/model"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// dbTime scans a timestamp column however the driver reports it.  MySQL
// (parseTime) and pgx hand back time.Time, SQLite may hand back text.
type dbTime struct {
	Time  time.Time
	Valid bool
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time, t.Valid = time.Time{}, false
		return nil
	case time.Time:
		t.Time, t.Valid = v.UTC(), true
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	}
	return fmt.Errorf("cannot scan %T into timestamp", src)
}

func (t *dbTime) parse(s string) error {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if p, err := time.Parse(layout, s); err == nil {
			t.Time, t.Valid = p.UTC(), true
			return nil
		}
	}
	return fmt.Errorf("cannot parse timestamp %q", s)
}

// Ptr returns nil for NULL and a pointer to the UTC time otherwise.
func (t dbTime) Ptr() *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// timeArg normalises a time for writing.  Every driver receives UTC.
func timeArg(t time.Time) time.Time { return t.UTC() }

// nullTimeArg writes NULL for a nil pointer.
func nullTimeArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

// nullStringArg writes NULL for a nil pointer.
func nullStringArg(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullIntArg(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

// encodeLenses stores the lens list as a JSON array; nil becomes "[]".
func encodeLenses(lenses []string) (string, error) {
	if lenses == nil {
		lenses = []string{}
	}
	b, err := json.Marshal(lenses)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeLenses(raw []byte) ([]string, error) {
	lenses := []string{}
	if len(raw) == 0 {
		return lenses, nil
	}
	if err := json.Unmarshal(raw, &lenses); err != nil {
		return nil, fmt.Errorf("decode lenses: %w", err)
	}
	if lenses == nil {
		lenses = []string{}
	}
	return lenses, nil
}

// encodeSteps returns NULL for an empty step list; NULL is the stored
// marker for "no split-grade steps".
func encodeSteps(steps []model.SplitGradeStep) (any, error) {
	if len(steps) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(steps)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func decodeSteps(raw []byte) ([]model.SplitGradeStep, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return nil, nil
	}
	var steps []model.SplitGradeStep
	if err := json.Unmarshal([]byte(s), &steps); err != nil {
		return nil, fmt.Errorf("decode split grade steps: %w", err)
	}
	if len(steps) == 0 {
		return nil, nil
	}
	return steps, nil
}

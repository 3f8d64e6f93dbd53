package model

import (
	"errors"
	"strings"
	"time"
)

// FilmFormat is the stored film format of a roll.  The stored values
// differ from the strings used on the wire; use ParseFilmFormat and
// FilmFormat.Wire to translate.
type FilmFormat string

const (
	FilmFormat35mm  FilmFormat = "format35mm"
	FilmFormat6x6   FilmFormat = "format6x6"
	FilmFormat6x4_5 FilmFormat = "format6x4_5"
	FilmFormat6x7   FilmFormat = "format6x7"
	FilmFormat6x9   FilmFormat = "format6x9"
	FilmFormatOther FilmFormat = "other"
)

// ErrUnknownFilmFormat is returned by ParseFilmFormat for strings
// that match no known format.
var ErrUnknownFilmFormat = errors.New("unknown film format")

var wireFormats = map[string]FilmFormat{
	"35mm":  FilmFormat35mm,
	"6x6":   FilmFormat6x6,
	"6x4_5": FilmFormat6x4_5,
	"6x4.5": FilmFormat6x4_5, // accepted on input, never emitted
	"6x7":   FilmFormat6x7,
	"6x9":   FilmFormat6x9,
	"other": FilmFormatOther,
}

// ParseFilmFormat maps a wire-format string (e.g. "35mm") to a
// FilmFormat.  Matching ignores surrounding whitespace and case.
func ParseFilmFormat(s string) (FilmFormat, error) {
	if f, ok := wireFormats[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f, nil
	}
	return "", ErrUnknownFilmFormat
}

// Wire returns the wire-format string for f.  Unknown stored values
// are reported as "other".
func (f FilmFormat) Wire() string {
	switch f {
	case FilmFormat35mm:
		return "35mm"
	case FilmFormat6x6:
		return "6x6"
	case FilmFormat6x4_5:
		return "6x4_5"
	case FilmFormat6x7:
		return "6x7"
	case FilmFormat6x9:
		return "6x9"
	default:
		return "other"
	}
}

// FilmRoll is a single roll of film shot by a user.  A roll has at
// most one Development and any number of Prints.
type FilmRoll struct {
	ID          string     // film_rolls.id
	UserID      string     // film_rolls.user_id
	FilmID      string     // film_rolls.film_id, the owner's own roll label
	FilmName    string     // film_rolls.film_name
	BoxISO      int        // film_rolls.box_iso
	ShotISO     *int       // film_rolls.shot_iso (nullable, push/pull)
	DateShot    *time.Time // film_rolls.date_shot (nullable)
	CameraName  *string    // film_rolls.camera_name (nullable, free text)
	CameraID    *string    // film_rolls.camera_id (nullable, FK cameras.id)
	FilmFormat  FilmFormat // film_rolls.film_format
	Exposures   int        // film_rolls.exposures
	IsDeveloped bool       // film_rolls.is_developed
	IsScanned   bool       // film_rolls.is_scanned
	ScanFolder  *string    // film_rolls.scan_folder (nullable)
	CreatedAt   time.Time  // film_rolls.created_at
	UpdatedAt   time.Time  // film_rolls.updated_at
}

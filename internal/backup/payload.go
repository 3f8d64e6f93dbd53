package backup

import (
	"strings"
	"time"

	"github.com/pwarnimont/filmdb2/internal/model"
)

// Payload is the document accepted by Import.  FilmRolls is required;
// the other lists are optional.  Prints may appear nested under their roll,
// in the flat Prints list, or both.
type Payload struct {
	FilmRolls []FilmRollBackup `json:"filmRolls"`
	Prints    []PrintBackup    `json:"prints,omitempty"`
	Cameras   []CameraBackup   `json:"cameras,omitempty"`
	Users     []UserBackup     `json:"users,omitempty"`
}

// Snapshot is the document produced by Export.  Every print appears twice:
// nested under its roll and in the flat list.  Users is present only for
// administrators.
type Snapshot struct {
	GeneratedAt time.Time        `json:"generatedAt"`
	FilmRolls   []FilmRollBackup `json:"filmRolls"`
	Prints      []PrintBackup    `json:"prints"`
	Cameras     []CameraBackup   `json:"cameras"`
	Users       []UserBackup     `json:"users,omitempty"`
}

// Payload converts a snapshot into an importable payload.  Export output
// is accepted by Import as is; this only drops the export-only fields.
func (s *Snapshot) Payload() Payload {
	return Payload{FilmRolls: s.FilmRolls, Prints: s.Prints, Cameras: s.Cameras, Users: s.Users}
}

// Summary counts what an import created and updated.  Users are written
// but not counted.
type Summary struct {
	FilmRollsCreated int `json:"filmRollsCreated"`
	FilmRollsUpdated int `json:"filmRollsUpdated"`
	CamerasCreated   int `json:"camerasCreated"`
	CamerasUpdated   int `json:"camerasUpdated"`
	PrintsCreated    int `json:"printsCreated"`
	PrintsUpdated    int `json:"printsUpdated"`
}

// Total is the number of counted records written.
func (s Summary) Total() int {
	return s.FilmRollsCreated + s.FilmRollsUpdated + s.CamerasCreated + s.CamerasUpdated +
		s.PrintsCreated + s.PrintsUpdated
}

type SplitGradeStep struct {
	Filter          string `json:"filter"`
	ExposureSeconds int    `json:"exposureSeconds"`
}

type PrintBackup struct {
	ID                     string           `json:"id"`
	FilmRollID             string           `json:"filmRollId"`
	FrameNumber            int              `json:"frameNumber"`
	PaperType              string           `json:"paperType"`
	PaperSize              string           `json:"paperSize"`
	PaperManufacturer      string           `json:"paperManufacturer"`
	DevelopmentTimeSeconds int              `json:"developmentTimeSeconds"`
	FixingTimeSeconds      int              `json:"fixingTimeSeconds"`
	WashingTimeSeconds     int              `json:"washingTimeSeconds"`
	SplitGradeInstructions *string          `json:"splitGradeInstructions"`
	SplitGradeSteps        []SplitGradeStep `json:"splitGradeSteps"`
	CreatedAt              time.Time        `json:"createdAt"`
	UpdatedAt              time.Time        `json:"updatedAt"`
}

type DevelopmentBackup struct {
	ID              string    `json:"id"`
	FilmRollID      string    `json:"filmRollId"`
	Developer       string    `json:"developer"`
	TemperatureC    float64   `json:"temperatureC"`
	Dilution        string    `json:"dilution"`
	TimeSeconds     int       `json:"timeSeconds"`
	DateDeveloped   time.Time `json:"dateDeveloped"`
	AgitationScheme string    `json:"agitationScheme"`
}

// FilmRollCamera is the camera summary attached to exported rolls.
type FilmRollCamera struct {
	ID           string `json:"id"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
}

type FilmRollBackup struct {
	ID          string             `json:"id"`
	FilmID      string             `json:"filmId"`
	FilmName    string             `json:"filmName"`
	BoxISO      int                `json:"boxIso"`
	ShotISO     *int               `json:"shotIso"`
	DateShot    *time.Time         `json:"dateShot"`
	CameraName  *string            `json:"cameraName"`
	CameraID    *string            `json:"cameraId"`
	FilmFormat  string             `json:"filmFormat"`
	Exposures   int                `json:"exposures"`
	IsDeveloped bool               `json:"isDeveloped"`
	IsScanned   bool               `json:"isScanned"`
	ScanFolder  *string            `json:"scanFolder"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
	UserID      string             `json:"userId"`
	Development *DevelopmentBackup `json:"development,omitempty"`
	Prints      []PrintBackup      `json:"prints"`
	Camera      *FilmRollCamera    `json:"camera,omitempty"` // export only
}

// LinkedFilmRoll is the per-camera roll summary in exports.
type LinkedFilmRoll struct {
	ID       string     `json:"id"`
	FilmID   string     `json:"filmId"`
	FilmName string     `json:"filmName"`
	DateShot *time.Time `json:"dateShot"`
}

type CameraBackup struct {
	ID           string     `json:"id"`
	Manufacturer string     `json:"manufacturer"`
	Model        string     `json:"model"`
	ReleaseDate  *time.Time `json:"releaseDate"`
	PurchaseDate *time.Time `json:"purchaseDate"`
	FilmType     string     `json:"filmType"`
	Lenses       []string   `json:"lenses"`
	Notes        *string    `json:"notes"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	UserID       string     `json:"userId"`

	// export only, ignored by Import
	LinkedFilmRolls      []LinkedFilmRoll `json:"linkedFilmRolls"`
	LinkedFilmRollsCount int              `json:"linkedFilmRollsCount"`
}

type UserBackup struct {
	ID                  string     `json:"id"`
	Email               string     `json:"email"`
	FirstName           string     `json:"firstName"`
	LastName            string     `json:"lastName"`
	Role                model.Role `json:"role"`
	IsActive            bool       `json:"isActive"`
	PasswordHash        string     `json:"passwordHash"`
	FailedLoginAttempts int        `json:"failedLoginAttempts"`
	LockoutUntil        *time.Time `json:"lockoutUntil"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// Validate checks the payload structure: required lists and ids, known
// roles, and creation timestamps.  Field-level business rules belong to
// the CRUD layer; film formats are checked while importing.
func (p *Payload) Validate() error {
	if p.FilmRolls == nil {
		return invalid("filmRolls is required")
	}
	for i, u := range p.Users {
		switch {
		case blank(u.ID):
			return invalid("users[%d]: id is required", i)
		case blank(u.Email) || !strings.Contains(u.Email, "@"):
			return invalid("user %s: a valid email is required", u.ID)
		case !u.Role.Valid():
			return invalid("user %s: unknown role %q", u.ID, u.Role)
		case u.PasswordHash == "":
			return invalid("user %s: passwordHash is required", u.ID)
		case u.CreatedAt.IsZero():
			return invalid("user %s: createdAt is required", u.ID)
		}
	}
	for i, c := range p.Cameras {
		switch {
		case blank(c.ID):
			return invalid("cameras[%d]: id is required", i)
		case c.CreatedAt.IsZero():
			return invalid("camera %s: createdAt is required", c.ID)
		}
	}
	for i, r := range p.FilmRolls {
		switch {
		case blank(r.ID):
			return invalid("filmRolls[%d]: id is required", i)
		case r.CreatedAt.IsZero():
			return invalid("film roll %s: createdAt is required", r.ID)
		case r.Development != nil && r.Development.DateDeveloped.IsZero():
			return invalid("film roll %s: development dateDeveloped is required", r.ID)
		}
		for j, pr := range r.Prints {
			if err := validatePrint(pr, false); err != nil {
				return invalid("filmRolls[%d].prints[%d]: %v", i, j, err)
			}
		}
	}
	for i, pr := range p.Prints {
		if err := validatePrint(pr, true); err != nil {
			return invalid("prints[%d]: %v", i, err)
		}
	}
	return nil
}

// validatePrint checks one print.  Nested prints may leave filmRollId
// empty; they belong to the enclosing roll.
func validatePrint(p PrintBackup, needRoll bool) error {
	switch {
	case blank(p.ID):
		return errString("id is required")
	case needRoll && blank(p.FilmRollID):
		return errString("print " + p.ID + ": filmRollId is required")
	case p.CreatedAt.IsZero():
		return errString("print " + p.ID + ": createdAt is required")
	}
	return nil
}

type errString string

func (e errString) Error() string { return string(e) }

func blank(s string) bool { return strings.TrimSpace(s) == "" }

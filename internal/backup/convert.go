package backup

import (
	"fmt"
	"strings"

	"github.com/pwarnimont/filmdb2/internal/model"
)

// trimmed returns nil for a nil or blank string and the trimmed value
// otherwise.  Nullable text columns never hold empty strings.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func cameraFromBackup(c CameraBackup, owner string) model.Camera {
	lenses := c.Lenses
	if lenses == nil {
		lenses = []string{}
	}
	return model.Camera{
		ID:           c.ID,
		UserID:       owner,
		Manufacturer: c.Manufacturer,
		Model:        c.Model,
		ReleaseDate:  c.ReleaseDate,
		PurchaseDate: c.PurchaseDate,
		FilmType:     c.FilmType,
		Lenses:       lenses,
		Notes:        trimmed(c.Notes),
		CreatedAt:    c.CreatedAt,
	}
}

func cameraToBackup(c model.Camera) CameraBackup {
	lenses := c.Lenses
	if lenses == nil {
		lenses = []string{}
	}
	return CameraBackup{
		ID:           c.ID,
		Manufacturer: c.Manufacturer,
		Model:        c.Model,
		ReleaseDate:  c.ReleaseDate,
		PurchaseDate: c.PurchaseDate,
		FilmType:     c.FilmType,
		Lenses:       lenses,
		Notes:        c.Notes,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		UserID:       c.UserID,
	}
}

func filmRollFromBackup(r FilmRollBackup, owner string, cameraID *string) (model.FilmRoll, error) {
	format, err := model.ParseFilmFormat(r.FilmFormat)
	if err != nil {
		return model.FilmRoll{}, fmt.Errorf("%w: film roll %s has unknown film format %q", ErrInvalidFormat, r.ID, r.FilmFormat)
	}
	return model.FilmRoll{
		ID:          r.ID,
		UserID:      owner,
		FilmID:      r.FilmID,
		FilmName:    r.FilmName,
		BoxISO:      r.BoxISO,
		ShotISO:     r.ShotISO,
		DateShot:    r.DateShot,
		CameraName:  trimmed(r.CameraName),
		CameraID:    cameraID,
		FilmFormat:  format,
		Exposures:   r.Exposures,
		IsDeveloped: r.IsDeveloped,
		IsScanned:   r.IsScanned,
		ScanFolder:  trimmed(r.ScanFolder),
		CreatedAt:   r.CreatedAt,
	}, nil
}

func filmRollToBackup(r model.FilmRoll) FilmRollBackup {
	return FilmRollBackup{
		ID:          r.ID,
		FilmID:      r.FilmID,
		FilmName:    r.FilmName,
		BoxISO:      r.BoxISO,
		ShotISO:     r.ShotISO,
		DateShot:    r.DateShot,
		CameraName:  r.CameraName,
		CameraID:    r.CameraID,
		FilmFormat:  r.FilmFormat.Wire(),
		Exposures:   r.Exposures,
		IsDeveloped: r.IsDeveloped,
		IsScanned:   r.IsScanned,
		ScanFolder:  r.ScanFolder,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		UserID:      r.UserID,
		Prints:      []PrintBackup{},
	}
}

func developmentFromBackup(d DevelopmentBackup, filmRollID string) model.Development {
	return model.Development{
		ID:              strings.TrimSpace(d.ID),
		FilmRollID:      filmRollID,
		Developer:       d.Developer,
		TemperatureC:    d.TemperatureC,
		Dilution:        d.Dilution,
		TimeSeconds:     d.TimeSeconds,
		DateDeveloped:   d.DateDeveloped,
		AgitationScheme: d.AgitationScheme,
	}
}

func developmentToBackup(d model.Development) *DevelopmentBackup {
	return &DevelopmentBackup{
		ID:              d.ID,
		FilmRollID:      d.FilmRollID,
		Developer:       d.Developer,
		TemperatureC:    d.TemperatureC,
		Dilution:        d.Dilution,
		TimeSeconds:     d.TimeSeconds,
		DateDeveloped:   d.DateDeveloped,
		AgitationScheme: d.AgitationScheme,
	}
}

func printFromBackup(p PrintBackup) model.Print {
	var steps []model.SplitGradeStep
	for _, s := range p.SplitGradeSteps {
		steps = append(steps, model.SplitGradeStep{Filter: s.Filter, ExposureSeconds: s.ExposureSeconds})
	}
	return model.Print{
		ID:                     p.ID,
		FilmRollID:             p.FilmRollID,
		FrameNumber:            p.FrameNumber,
		PaperType:              p.PaperType,
		PaperSize:              p.PaperSize,
		PaperManufacturer:      p.PaperManufacturer,
		DevelopmentTimeSeconds: p.DevelopmentTimeSeconds,
		FixingTimeSeconds:      p.FixingTimeSeconds,
		WashingTimeSeconds:     p.WashingTimeSeconds,
		SplitGradeInstructions: trimmed(p.SplitGradeInstructions),
		SplitGradeSteps:        steps,
		CreatedAt:              p.CreatedAt,
	}
}

func printToBackup(p model.Print) PrintBackup {
	var steps []SplitGradeStep
	for _, s := range p.SplitGradeSteps {
		steps = append(steps, SplitGradeStep{Filter: s.Filter, ExposureSeconds: s.ExposureSeconds})
	}
	return PrintBackup{
		ID:                     p.ID,
		FilmRollID:             p.FilmRollID,
		FrameNumber:            p.FrameNumber,
		PaperType:              p.PaperType,
		PaperSize:              p.PaperSize,
		PaperManufacturer:      p.PaperManufacturer,
		DevelopmentTimeSeconds: p.DevelopmentTimeSeconds,
		FixingTimeSeconds:      p.FixingTimeSeconds,
		WashingTimeSeconds:     p.WashingTimeSeconds,
		SplitGradeInstructions: p.SplitGradeInstructions,
		SplitGradeSteps:        steps,
		CreatedAt:              p.CreatedAt,
		UpdatedAt:              p.UpdatedAt,
	}
}

func userFromBackup(u UserBackup) model.User {
	return model.User{
		ID:                  u.ID,
		Email:               strings.ToLower(strings.TrimSpace(u.Email)),
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		PasswordHash:        u.PasswordHash,
		Role:                u.Role,
		IsActive:            u.IsActive,
		FailedLoginAttempts: u.FailedLoginAttempts,
		LockoutUntil:        u.LockoutUntil,
		CreatedAt:           u.CreatedAt,
	}
}

func userToBackup(u model.User) UserBackup {
	return UserBackup{
		ID:                  u.ID,
		Email:               u.Email,
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		Role:                u.Role,
		IsActive:            u.IsActive,
		PasswordHash:        u.PasswordHash,
		FailedLoginAttempts: u.FailedLoginAttempts,
		LockoutUntil:        u.LockoutUntil,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
}

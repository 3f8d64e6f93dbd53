package model

import "time"

// Development records how a film roll was developed.  There is at
// most one development per roll; film_roll_id is unique.
type Development struct {
	ID              string    // developments.id
	FilmRollID      string    // developments.film_roll_id
	Developer       string    // developments.developer
	TemperatureC    float64   // developments.temperature_c
	Dilution        string    // developments.dilution
	TimeSeconds     int       // developments.time_seconds
	DateDeveloped   time.Time // developments.date_developed
	AgitationScheme string    // developments.agitation_scheme
}

package model

import "time"

// Camera is a camera body owned by a user.  Film rolls may point at a
// camera through FilmRoll.CameraID; the link is always to a camera of
// the same owner.
//
// Fields:
//
//	ID           – opaque string identifier.
//	UserID       – owner of the camera.
//	Manufacturer – e.g. Nikon.
//	Model        – e.g. F3.
//	ReleaseDate  – optional release date of the model.
//	PurchaseDate – optional date the owner bought it.
//	FilmType     – free text, typically the format the body takes.
//	Lenses       – ordered list of lens descriptions, stored as JSON.
//	Notes        – optional free text.
type Camera struct {
	ID           string     // cameras.id
	UserID       string     // cameras.user_id
	Manufacturer string     // cameras.manufacturer
	Model        string     // cameras.model
	ReleaseDate  *time.Time // cameras.release_date (nullable)
	PurchaseDate *time.Time // cameras.purchase_date (nullable)
	FilmType     string     // cameras.film_type
	Lenses       []string   // cameras.lenses (JSON array)
	Notes        *string    // cameras.notes (nullable)
	CreatedAt    time.Time  // cameras.created_at
	UpdatedAt    time.Time  // cameras.updated_at
}

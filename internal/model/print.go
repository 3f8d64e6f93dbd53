package model

import "time"

// SplitGradeStep is one exposure of a split-grade print.
type SplitGradeStep struct {
	Filter          string `json:"filter"`
	ExposureSeconds int    `json:"exposureSeconds"`
}

// Print is a darkroom print made from a frame of a film roll.  A
// print has no owner column of its own; it belongs to whoever owns
// its film roll.
//
// SplitGradeSteps is nil when the print has no split-grade steps, in
// which case the column holds NULL rather than an empty array.
type Print struct {
	ID                     string           // prints.id
	FilmRollID             string           // prints.film_roll_id
	FrameNumber            int              // prints.frame_number
	PaperType              string           // prints.paper_type
	PaperSize              string           // prints.paper_size
	PaperManufacturer      string           // prints.paper_manufacturer
	DevelopmentTimeSeconds int              // prints.development_time_seconds
	FixingTimeSeconds      int              // prints.fixing_time_seconds
	WashingTimeSeconds     int              // prints.washing_time_seconds
	SplitGradeInstructions *string          // prints.split_grade_instructions (nullable)
	SplitGradeSteps        []SplitGradeStep // prints.split_grade_steps (JSON, nullable)
	CreatedAt              time.Time        // prints.created_at
	UpdatedAt              time.Time        // prints.updated_at
}

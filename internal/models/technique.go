package models

import "time"

// SpecialTechnique is a reusable intensity-technique template (drop sets,
// rest-pause, myo-reps, clusters) referenced by id from prescriptions.
// Templates are shared; non-templates belong to a single author.
type SpecialTechnique struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsTemplate  bool      `json:"is_template"`
	OwnerID     string    `json:"owner_id,omitempty"` // Empty for shared templates.
	CreatedAt   time.Time `json:"created_at"`
}

//
// For TOML parsing only
//

type TechniqueDefTOML struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
	IsTemplate  bool   `toml:"is_template"`
}

type TechniqueImport struct {
	Techniques []TechniqueDefTOML `toml:"technique"`
}

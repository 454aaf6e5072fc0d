package models

import "time"

// Exercise is a catalog entry: a flat reference definition looked up by id
// (or unique name on import), never owned by any program.
type Exercise struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	PrimaryMuscle string    `json:"primary_muscle"`
	MuscleGroups  []string  `json:"muscle_groups,omitempty"`
	Equipment     string    `json:"equipment,omitempty"`
	Difficulty    string    `json:"difficulty,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

//
// For TOML parsing only
//

type ExerciseDefTOML struct {
	Name          string   `toml:"name"`
	Description   string   `toml:"description"`
	PrimaryMuscle string   `toml:"primary_muscle"`
	MuscleGroups  []string `toml:"muscle_groups,omitempty"`
	Equipment     string   `toml:"equipment,omitempty"`
	Difficulty    string   `toml:"difficulty,omitempty"`
}

type ExerciseImport struct {
	Exercises []ExerciseDefTOML `toml:"exercise"`
}

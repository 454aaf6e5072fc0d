package models

import "time"

type PeriodizationType string

const (
	PeriodizationLinear     PeriodizationType = "linear"
	PeriodizationUndulating PeriodizationType = "undulating"
	PeriodizationBlock      PeriodizationType = "block"
	PeriodizationConjugate  PeriodizationType = "conjugate"
	PeriodizationDUP        PeriodizationType = "dup"
	PeriodizationWUP        PeriodizationType = "wup"
)

type TrainingGoal string

const (
	GoalStrength    TrainingGoal = "strength"
	GoalHypertrophy TrainingGoal = "hypertrophy"
	GoalEndurance   TrainingGoal = "endurance"
	GoalPower       TrainingGoal = "power"
	GoalAthletic    TrainingGoal = "athletic"
)

type TrainingLevel string

const (
	LevelIntermediate TrainingLevel = "intermediate"
	LevelAdvanced     TrainingLevel = "advanced"
	LevelElite        TrainingLevel = "elite"
)

type TrainingPhase string

const (
	PhaseHypertrophy TrainingPhase = "hypertrophy"
	PhaseStrength    TrainingPhase = "strength"
	PhasePower       TrainingPhase = "power"
	PhaseEndurance   TrainingPhase = "endurance"
	PhaseDeload      TrainingPhase = "deload"
)

type DeloadStrategy string

const (
	DeloadVolumeDrop    DeloadStrategy = "volume_drop"
	DeloadIntensityDrop DeloadStrategy = "intensity_drop"
	DeloadFrequencyDrop DeloadStrategy = "frequency_drop"
	DeloadCompleteRest  DeloadStrategy = "complete_rest"
)

func (p PeriodizationType) Valid() bool {
	switch p {
	case PeriodizationLinear, PeriodizationUndulating, PeriodizationBlock,
		PeriodizationConjugate, PeriodizationDUP, PeriodizationWUP:
		return true
	}
	return false
}

func (g TrainingGoal) Valid() bool {
	switch g {
	case GoalStrength, GoalHypertrophy, GoalEndurance, GoalPower, GoalAthletic:
		return true
	}
	return false
}

func (l TrainingLevel) Valid() bool {
	switch l {
	case LevelIntermediate, LevelAdvanced, LevelElite:
		return true
	}
	return false
}

func (p TrainingPhase) Valid() bool {
	switch p {
	case PhaseHypertrophy, PhaseStrength, PhasePower, PhaseEndurance, PhaseDeload:
		return true
	}
	return false
}

func (d DeloadStrategy) Valid() bool {
	switch d {
	case DeloadVolumeDrop, DeloadIntensityDrop, DeloadFrequencyDrop, DeloadCompleteRest:
		return true
	}
	return false
}

// Program is the root of the periodization hierarchy. It exclusively owns its
// mesocycles, and deleting a program cascades down to the prescriptions.
type Program struct {
	ID                string            `json:"id"`
	OwnerID           string            `json:"owner_id"`
	Name              string            `json:"name"`
	Description       string            `json:"description,omitempty"`
	PeriodizationType PeriodizationType `json:"periodization_type"`
	Goal              TrainingGoal      `json:"goal"`
	TrainingLevel     TrainingLevel     `json:"training_level"`
	Frequency         int               `json:"frequency"` // Sessions per week, 1-7.
	StartDate         *time.Time        `json:"start_date,omitempty"`
	EndDate           *time.Time        `json:"end_date,omitempty"`
	Mesocycles        []Mesocycle       `json:"mesocycles"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

type Mesocycle struct {
	ID             string         `json:"id"`
	Phase          TrainingPhase  `json:"phase"`
	DurationWeeks  int            `json:"duration_weeks"`
	Position       int            `json:"position"`        // Unique within the program.
	VolumeLevel    int            `json:"volume_level"`    // 1-10.
	IntensityLevel int            `json:"intensity_level"` // 1-10.
	IncludesDeload bool           `json:"includes_deload"`
	DeloadStrategy DeloadStrategy `json:"deload_strategy,omitempty"`
	Microcycles    []Microcycle   `json:"microcycles"`
}

type Microcycle struct {
	ID                  string              `json:"id"`
	WeekNumber          int                 `json:"week_number"` // 1-based, unique within the mesocycle.
	VolumeMultiplier    float32             `json:"volume_multiplier"`
	IntensityMultiplier float32             `json:"intensity_multiplier"`
	IsDeload            bool                `json:"is_deload"`
	Sessions            []PeriodizedSession `json:"sessions"`
}

type PeriodizedSession struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	DayOfWeek int                  `json:"day_of_week"` // 1-7, Monday = 1. AM/PM splits share a day.
	Focus     []string             `json:"focus,omitempty"`
	RPETarget *float32             `json:"rpe_target,omitempty"`
	RIRTarget *float32             `json:"rir_target,omitempty"`
	Exercises []PeriodizedExercise `json:"exercises"`
}

// PeriodizedExercise is one prescription inside a session. ExerciseID is a weak
// reference into the catalog, never owned by the hierarchy.
type PeriodizedExercise struct {
	ID                 string   `json:"id"`
	ExerciseID         string   `json:"exercise_id"`
	Sets               int      `json:"sets"`
	Reps               string   `json:"reps"` // Allows ranges like "8-12".
	RIR                *float32 `json:"rir,omitempty"`
	RPE                *float32 `json:"rpe,omitempty"`
	RestSeconds        int      `json:"rest_seconds,omitempty"`
	Tempo              string   `json:"tempo,omitempty"` // 4-part, e.g. "3-1-1-0".
	SupersetGroupID    string   `json:"superset_group_id,omitempty"`
	SpecialTechniqueID string   `json:"special_technique_id,omitempty"`
	ExerciseOrder      int      `json:"exercise_order"`
	Notes              string   `json:"notes,omitempty"`
}

//
// For TOML parsing only
//

type ProgramTOML struct {
	Name              string          `toml:"name"`
	Description       string          `toml:"description"`
	PeriodizationType string          `toml:"periodization_type"`
	Goal              string          `toml:"goal"`
	TrainingLevel     string          `toml:"training_level"`
	Frequency         int             `toml:"frequency"`
	Mesocycles        []MesocycleTOML `toml:"mesocycle"`
}

type MesocycleTOML struct {
	Phase          string           `toml:"phase"`
	DurationWeeks  int              `toml:"duration_weeks"`
	VolumeLevel    int              `toml:"volume_level,omitempty"`
	IntensityLevel int              `toml:"intensity_level,omitempty"`
	IncludesDeload bool             `toml:"includes_deload,omitempty"`
	DeloadStrategy string           `toml:"deload_strategy,omitempty"`
	Microcycles    []MicrocycleTOML `toml:"microcycle"`
}

type MicrocycleTOML struct {
	WeekNumber          int           `toml:"week"`
	VolumeMultiplier    float32       `toml:"volume_multiplier,omitempty"`
	IntensityMultiplier float32       `toml:"intensity_multiplier,omitempty"`
	IsDeload            bool          `toml:"is_deload,omitempty"`
	Sessions            []SessionTOML `toml:"session"`
}

type SessionTOML struct {
	Name      string         `toml:"name"`
	DayOfWeek int            `toml:"day"`
	Focus     []string       `toml:"focus,omitempty"`
	RPETarget *float32       `toml:"rpe_target,omitempty"`
	RIRTarget *float32       `toml:"rir_target,omitempty"`
	Exercises []ExerciseTOML `toml:"exercise"`
}

type ExerciseTOML struct {
	Name             string   `toml:"name"` // Catalog exercise name, resolved to an id on import.
	Sets             int      `toml:"sets"`
	Reps             string   `toml:"reps"`
	RIR              *float32 `toml:"rir,omitempty"`
	RPE              *float32 `toml:"rpe,omitempty"`
	RestSeconds      int      `toml:"rest_seconds,omitempty"`
	Tempo            string   `toml:"tempo,omitempty"`
	SupersetGroup    string   `toml:"superset_group,omitempty"`
	SpecialTechnique string   `toml:"special_technique,omitempty"` // Technique name, resolved to an id on import.
	Notes            string   `toml:"notes,omitempty"`
}

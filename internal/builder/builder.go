// Package builder assembles program trees in memory and enforces the
// structural invariants before anything touches storage. No side effects
// beyond tree mutation; persistence is an explicit separate step.
package builder

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/misterclayt0n/periodize/internal/errs"
	"github.com/misterclayt0n/periodize/internal/models"
)

// CatalogResolver answers whether a catalog exercise id resolves. The storage
// layer implements it; tests use a map.
type CatalogResolver interface {
	ExerciseExists(ctx context.Context, exerciseID string) (bool, error)
}

// AppendPosition makes AddMesocycle pick the next free position.
const AppendPosition = -1

func NewProgram(
	ownerID, name string,
	ptype models.PeriodizationType,
	goal models.TrainingGoal,
	level models.TrainingLevel,
	frequency int,
) (*models.Program, error) {
	if ownerID == "" {
		return nil, errs.Validation("owner id is required")
	}
	if name == "" {
		return nil, errs.Validation("program name must not be empty")
	}
	if !ptype.Valid() {
		return nil, errs.Validation("unknown periodization type %q", ptype)
	}
	if !goal.Valid() {
		return nil, errs.Validation("unknown training goal %q", goal)
	}
	if !level.Valid() {
		return nil, errs.Validation("unknown training level %q", level)
	}
	if frequency < 1 || frequency > 7 {
		return nil, errs.Validation("frequency must be between 1 and 7, got %d", frequency)
	}

	now := time.Now().UTC()
	return &models.Program{
		ID:                uuid.New().String(),
		OwnerID:           ownerID,
		Name:              name,
		PeriodizationType: ptype,
		Goal:              goal,
		TrainingLevel:     level,
		Frequency:         frequency,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// SetDates validates start <= end before attaching either date.
func SetDates(p *models.Program, start, end *time.Time) error {
	if start != nil && end != nil && start.After(*end) {
		return errs.Validation("start date must not be after end date")
	}
	p.StartDate = start
	p.EndDate = end
	return nil
}

// AddMesocycle appends or inserts a mesocycle. Pass AppendPosition to place it
// after the current last one; explicit positions must not collide.
func AddMesocycle(
	p *models.Program,
	phase models.TrainingPhase,
	durationWeeks, position int,
	includesDeload bool,
	strategy models.DeloadStrategy,
) (*models.Mesocycle, error) {
	if !phase.Valid() {
		return nil, errs.Validation("unknown training phase %q", phase)
	}
	if durationWeeks < 1 {
		return nil, errs.Validation("duration_weeks must be positive, got %d", durationWeeks)
	}
	if includesDeload && !strategy.Valid() {
		return nil, errs.Validation("deload strategy is required when includes_deload is set")
	}

	if position == AppendPosition {
		position = 0
		for _, m := range p.Mesocycles {
			if m.Position >= position {
				position = m.Position + 1
			}
		}
	} else {
		for _, m := range p.Mesocycles {
			if m.Position == position {
				return nil, errs.Conflict("mesocycle position %d is already taken", position)
			}
		}
	}

	meso := models.Mesocycle{
		ID:             uuid.New().String(),
		Phase:          phase,
		DurationWeeks:  durationWeeks,
		Position:       position,
		VolumeLevel:    5,
		IntensityLevel: 5,
		IncludesDeload: includesDeload,
	}
	if includesDeload {
		meso.DeloadStrategy = strategy
	}

	p.Mesocycles = append(p.Mesocycles, meso)
	p.UpdatedAt = time.Now().UTC()
	return &p.Mesocycles[len(p.Mesocycles)-1], nil
}

func AddMicrocycle(m *models.Mesocycle, weekNumber int, volMult, intMult float32, isDeload bool) (*models.Microcycle, error) {
	if weekNumber < 1 || weekNumber > m.DurationWeeks {
		return nil, errs.Validation(
			"week number %d is outside the mesocycle's %d weeks", weekNumber, m.DurationWeeks)
	}
	if volMult <= 0 || intMult <= 0 {
		return nil, errs.Validation("multipliers must be positive")
	}
	for _, mc := range m.Microcycles {
		if mc.WeekNumber == weekNumber {
			return nil, errs.Conflict("week %d already exists in this mesocycle", weekNumber)
		}
	}

	m.Microcycles = append(m.Microcycles, models.Microcycle{
		ID:                  uuid.New().String(),
		WeekNumber:          weekNumber,
		VolumeMultiplier:    volMult,
		IntensityMultiplier: intMult,
		IsDeload:            isDeload || m.Phase == models.PhaseDeload,
	})
	return &m.Microcycles[len(m.Microcycles)-1], nil
}

// AddSession attaches a training day. There is deliberately no uniqueness
// constraint on day_of_week: AM/PM splits are two sessions on the same day.
func AddSession(mc *models.Microcycle, name string, dayOfWeek int, focus []string) (*models.PeriodizedSession, error) {
	if dayOfWeek < 1 || dayOfWeek > 7 {
		return nil, errs.Validation("day_of_week must be between 1 (Monday) and 7, got %d", dayOfWeek)
	}

	mc.Sessions = append(mc.Sessions, models.PeriodizedSession{
		ID:        uuid.New().String(),
		Name:      name,
		DayOfWeek: dayOfWeek,
		Focus:     focus,
	})
	return &mc.Sessions[len(mc.Sessions)-1], nil
}

// Prescription carries the per-exercise dose for AddExercise.
type Prescription struct {
	Sets               int
	Reps               string
	RIR                *float32
	RPE                *float32
	RestSeconds        int
	Tempo              string
	SupersetGroupID    string
	SpecialTechniqueID string
	Notes              string
}

// AddExercise appends a prescription after resolving the catalog reference.
// A dangling exercise id is a NotFound, never a silent nil.
func AddExercise(
	ctx context.Context,
	session *models.PeriodizedSession,
	catalogExerciseID string,
	rx Prescription,
	resolver CatalogResolver,
) (*models.PeriodizedExercise, error) {
	if rx.Sets < 1 {
		return nil, errs.Validation("sets must be positive, got %d", rx.Sets)
	}
	if rx.Reps == "" {
		return nil, errs.Validation("reps must not be empty")
	}

	ok, err := resolver.ExerciseExists(ctx, catalogExerciseID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.NotFound("exercise %q not found in catalog", catalogExerciseID)
	}

	session.Exercises = append(session.Exercises, models.PeriodizedExercise{
		ID:                 uuid.New().String(),
		ExerciseID:         catalogExerciseID,
		Sets:               rx.Sets,
		Reps:               rx.Reps,
		RIR:                rx.RIR,
		RPE:                rx.RPE,
		RestSeconds:        rx.RestSeconds,
		Tempo:              rx.Tempo,
		SupersetGroupID:    rx.SupersetGroupID,
		SpecialTechniqueID: rx.SpecialTechniqueID,
		ExerciseOrder:      len(session.Exercises),
		Notes:              rx.Notes,
	})
	return &session.Exercises[len(session.Exercises)-1], nil
}

package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/misterclayt0n/periodize/internal/errs"
	"github.com/misterclayt0n/periodize/internal/models"
)

const sampleProgramTOML = `
name = "Strength Block"
description = "Three-week intro block"
periodization_type = "block"
goal = "strength"
training_level = "intermediate"
frequency = 3

[[mesocycle]]
phase = "strength"
duration_weeks = 3
volume_level = 6
intensity_level = 8
includes_deload = true
deload_strategy = "volume_drop"

[[mesocycle.microcycle]]
week = 1

[[mesocycle.microcycle.session]]
name = "Heavy Lower"
day = 1
focus = ["quads", "posterior chain"]

[[mesocycle.microcycle.session.exercise]]
name = "Squat"
sets = 5
reps = "3-5"
rest_seconds = 180
special_technique = "Cluster sets"

[[mesocycle.microcycle.session.exercise]]
name = "Deadlift"
sets = 3
reps = "5"

[[mesocycle.microcycle]]
week = 3
volume_multiplier = 0.5
is_deload = true
`

func TestCreateProgramFromTOML(t *testing.T) {
	st := newTestStorage(t)
	seedCatalog(t, st)
	ctx := context.Background()

	require.NoError(t, st.CreateTechnique(ctx, models.SpecialTechnique{
		ID: "tech-cluster", Name: "Cluster sets", IsTemplate: true, CreatedAt: time.Now().UTC(),
	}))

	p, err := st.CreateProgramFromTOML(ctx, "user-a", []byte(sampleProgramTOML))
	require.NoError(t, err)

	loaded, err := st.LoadProgram(ctx, p.ID, "user-a")
	require.NoError(t, err)

	assert.Equal(t, "Strength Block", loaded.Name)
	assert.Equal(t, 3, loaded.Frequency)

	require.Len(t, loaded.Mesocycles, 1)
	meso := loaded.Mesocycles[0]
	assert.True(t, meso.IncludesDeload)
	assert.Equal(t, 6, meso.VolumeLevel)

	require.Len(t, meso.Microcycles, 2)
	assert.Equal(t, 1, meso.Microcycles[0].WeekNumber)
	// Omitted multipliers default to 1.0.
	assert.InDelta(t, 1.0, float64(meso.Microcycles[0].VolumeMultiplier), 0.001)
	assert.True(t, meso.Microcycles[1].IsDeload)
	assert.InDelta(t, 0.5, float64(meso.Microcycles[1].VolumeMultiplier), 0.001)

	sess := meso.Microcycles[0].Sessions[0]
	require.Len(t, sess.Exercises, 2)
	assert.Equal(t, "squat", sess.Exercises[0].ExerciseID)
	assert.Equal(t, 5, sess.Exercises[0].Sets)
	// Technique names resolve to ids the same way exercise names do.
	assert.Equal(t, "tech-cluster", sess.Exercises[0].SpecialTechniqueID)
	assert.Equal(t, "deadlift", sess.Exercises[1].ExerciseID)
}

func TestCreateProgramFromTOML_UnknownTechnique(t *testing.T) {
	st := newTestStorage(t)
	seedCatalog(t, st)
	ctx := context.Background()

	data := `
name = "Bad Technique"
periodization_type = "linear"
goal = "strength"
training_level = "intermediate"
frequency = 3

[[mesocycle]]
phase = "strength"
duration_weeks = 2

[[mesocycle.microcycle]]
week = 1

[[mesocycle.microcycle.session]]
name = "Day 1"
day = 1

[[mesocycle.microcycle.session.exercise]]
name = "Squat"
sets = 3
reps = "5"
special_technique = "Nonexistent"
`
	_, err := st.CreateProgramFromTOML(ctx, "user-a", []byte(data))
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))

	programs, listErr := st.ListPrograms(ctx, "user-a")
	require.NoError(t, listErr)
	assert.Empty(t, programs)
}

func TestTechniqueImportTOML(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()

	var importData models.TechniqueImport
	require.NoError(t, toml.Unmarshal([]byte(`
[[technique]]
name = "Drop set"
description = "Strip weight and keep going"
is_template = true

[[technique]]
name = "My clusters"
`), &importData))
	require.Len(t, importData.Techniques, 2)

	for i, tTOML := range importData.Techniques {
		technique := models.SpecialTechnique{
			ID:          fmt.Sprintf("tech-%d", i+1),
			Name:        tTOML.Name,
			Description: tTOML.Description,
			IsTemplate:  tTOML.IsTemplate,
			CreatedAt:   time.Now().UTC(),
		}
		if !technique.IsTemplate {
			technique.OwnerID = "user-a"
		}
		require.NoError(t, st.CreateTechnique(ctx, technique))
	}

	id, err := st.TechniqueIDByName(ctx, "Drop set")
	require.NoError(t, err)
	assert.Equal(t, "tech-1", id)

	_, err = st.TechniqueIDByName(ctx, "Nope")
	assert.True(t, errs.IsNotFound(err))

	// user-a sees the shared template plus their own technique.
	techniques, err := st.ListTechniques(ctx, "user-a")
	require.NoError(t, err)
	assert.Len(t, techniques, 2)
}

func TestCreateProgramFromTOML_UnknownExercise(t *testing.T) {
	st := newTestStorage(t)
	seedCatalog(t, st)
	ctx := context.Background()

	data := `
name = "Bad Program"
periodization_type = "linear"
goal = "strength"
training_level = "intermediate"
frequency = 3

[[mesocycle]]
phase = "strength"
duration_weeks = 2

[[mesocycle.microcycle]]
week = 1

[[mesocycle.microcycle.session]]
name = "Day 1"
day = 1

[[mesocycle.microcycle.session.exercise]]
name = "Zercher Squat"
sets = 3
reps = "5"
`
	_, err := st.CreateProgramFromTOML(ctx, "user-a", []byte(data))
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))

	// Nothing was persisted.
	programs, listErr := st.ListPrograms(ctx, "user-a")
	require.NoError(t, listErr)
	assert.Empty(t, programs)
}

func TestCreateProgramFromTOML_Invalid(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()

	_, err := st.CreateProgramFromTOML(ctx, "user-a", []byte("not = [valid"))
	assert.True(t, errs.IsValidation(err))

	// Structural invariants still apply to imported files.
	_, err = st.CreateProgramFromTOML(ctx, "user-a", []byte(`
name = "No Days"
periodization_type = "linear"
goal = "strength"
training_level = "intermediate"
frequency = 9
`))
	assert.True(t, errs.IsValidation(err))
}

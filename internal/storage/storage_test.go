package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/misterclayt0n/periodize/internal/builder"
	"github.com/misterclayt0n/periodize/internal/errs"
	"github.com/misterclayt0n/periodize/internal/models"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database.
	db.SetMaxOpenConns(1)

	st, err := NewWithDB(db)
	require.NoError(t, err)

	t.Cleanup(func() { st.Close() })
	return st
}

func seedCatalog(t *testing.T, st *Storage) {
	t.Helper()
	ctx := context.Background()

	for id, name := range map[string]string{
		"bench-press": "Bench Press",
		"squat":       "Squat",
		"deadlift":    "Deadlift",
	} {
		err := st.CreateExercise(ctx, models.Exercise{
			ID:            id,
			Name:          name,
			PrimaryMuscle: "various",
			CreatedAt:     time.Now().UTC(),
		})
		require.NoError(t, err)
	}
}

func buildTestProgram(t *testing.T, st *Storage, owner string) *models.Program {
	t.Helper()
	ctx := context.Background()

	p, err := builder.NewProgram(owner, "Hypertrophy Base", models.PeriodizationBlock,
		models.GoalHypertrophy, models.LevelIntermediate, 4)
	require.NoError(t, err)

	meso, err := builder.AddMesocycle(p, models.PhaseHypertrophy, 4, 0, false, "")
	require.NoError(t, err)

	mc, err := builder.AddMicrocycle(meso, 1, 1.0, 1.0, false)
	require.NoError(t, err)

	sess, err := builder.AddSession(mc, "Push A", 1, []string{"chest", "triceps"})
	require.NoError(t, err)

	_, err = builder.AddExercise(ctx, sess, "bench-press",
		builder.Prescription{Sets: 4, Reps: "8-12", RestSeconds: 120, Tempo: "3-1-1-0"}, st)
	require.NoError(t, err)

	return p
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st := newTestStorage(t)
	seedCatalog(t, st)
	ctx := context.Background()

	p := buildTestProgram(t, st, "user-a")
	require.NoError(t, st.SaveProgram(ctx, p))

	loaded, err := st.LoadProgram(ctx, p.ID, "user-a")
	require.NoError(t, err)

	assert.Equal(t, p.Name, loaded.Name)
	assert.Equal(t, models.PeriodizationBlock, loaded.PeriodizationType)
	assert.Equal(t, models.GoalHypertrophy, loaded.Goal)
	assert.Equal(t, 4, loaded.Frequency)

	require.Len(t, loaded.Mesocycles, 1)
	meso := loaded.Mesocycles[0]
	assert.Equal(t, models.PhaseHypertrophy, meso.Phase)
	assert.Equal(t, 4, meso.DurationWeeks)

	require.Len(t, meso.Microcycles, 1)
	mc := meso.Microcycles[0]
	assert.Equal(t, 1, mc.WeekNumber)
	assert.InDelta(t, 1.0, float64(mc.VolumeMultiplier), 0.001)

	require.Len(t, mc.Sessions, 1)
	sess := mc.Sessions[0]
	assert.Equal(t, "Push A", sess.Name)
	assert.Equal(t, 1, sess.DayOfWeek)
	assert.Equal(t, []string{"chest", "triceps"}, sess.Focus)

	require.Len(t, sess.Exercises, 1)
	ex := sess.Exercises[0]
	assert.Equal(t, "bench-press", ex.ExerciseID)
	assert.Equal(t, 4, ex.Sets)
	assert.Equal(t, "8-12", ex.Reps)
	assert.Equal(t, 120, ex.RestSeconds)
	assert.Equal(t, "3-1-1-0", ex.Tempo)
}

func TestLoadProgram_Ownership(t *testing.T) {
	st := newTestStorage(t)
	seedCatalog(t, st)
	ctx := context.Background()

	p := buildTestProgram(t, st, "user-a")
	require.NoError(t, st.SaveProgram(ctx, p))

	loaded, err := st.LoadProgram(ctx, p.ID, "user-b")
	require.Error(t, err)
	assert.True(t, errs.IsPermission(err))
	assert.Nil(t, loaded)

	_, err = st.LoadProgram(ctx, "no-such-program", "user-a")
	assert.True(t, errs.IsNotFound(err))
}

func TestSaveProgram_OptimisticLock(t *testing.T) {
	st := newTestStorage(t)
	seedCatalog(t, st)
	ctx := context.Background()

	p := buildTestProgram(t, st, "user-a")
	require.NoError(t, st.SaveProgram(ctx, p))

	stale := *p

	p.Name = "Renamed"
	require.NoError(t, st.SaveProgram(ctx, p))

	stale.Name = "Stale rename"
	err := st.SaveProgram(ctx, &stale)
	require.Error(t, err)
	assert.True(t, errs.IsConflict(err))

	loaded, err := st.LoadProgram(ctx, p.ID, "user-a")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", loaded.Name)
}

func TestSaveProgram_OwnerImmutable(t *testing.T) {
	st := newTestStorage(t)
	seedCatalog(t, st)
	ctx := context.Background()

	p := buildTestProgram(t, st, "user-a")
	require.NoError(t, st.SaveProgram(ctx, p))

	hijacked := *p
	hijacked.OwnerID = "user-b"
	err := st.SaveProgram(ctx, &hijacked)
	require.Error(t, err)
	assert.True(t, errs.IsPermission(err))
}

func TestSaveProgram_PrunesOrphans(t *testing.T) {
	st := newTestStorage(t)
	seedCatalog(t, st)
	ctx := context.Background()

	p := buildTestProgram(t, st, "user-a")

	// Second session that will be dropped on the next save.
	mc := &p.Mesocycles[0].Microcycles[0]
	sess, err := builder.AddSession(mc, "Pull B", 3, nil)
	require.NoError(t, err)
	_, err = builder.AddExercise(ctx, sess, "deadlift", builder.Prescription{Sets: 3, Reps: "5"}, st)
	require.NoError(t, err)

	require.NoError(t, st.SaveProgram(ctx, p))

	loaded, err := st.LoadProgram(ctx, p.ID, "user-a")
	require.NoError(t, err)
	require.Len(t, loaded.Mesocycles[0].Microcycles[0].Sessions, 2)

	loaded.Mesocycles[0].Microcycles[0].Sessions = loaded.Mesocycles[0].Microcycles[0].Sessions[:1]
	require.NoError(t, st.SaveProgram(ctx, loaded))

	reloaded, err := st.LoadProgram(ctx, p.ID, "user-a")
	require.NoError(t, err)
	require.Len(t, reloaded.Mesocycles[0].Microcycles[0].Sessions, 1)
	assert.Equal(t, "Push A", reloaded.Mesocycles[0].Microcycles[0].Sessions[0].Name)

	// The dropped session's prescriptions are gone too.
	var count int
	err = st.DB.QueryRow(`SELECT COUNT(*) FROM periodized_exercises`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDeleteProgram_Cascades(t *testing.T) {
	st := newTestStorage(t)
	seedCatalog(t, st)
	ctx := context.Background()

	p := buildTestProgram(t, st, "user-a")
	require.NoError(t, st.SaveProgram(ctx, p))

	err := st.DeleteProgram(ctx, p.ID, "user-b")
	require.Error(t, err)
	assert.True(t, errs.IsPermission(err))

	require.NoError(t, st.DeleteProgram(ctx, p.ID, "user-a"))

	_, err = st.LoadProgram(ctx, p.ID, "user-a")
	assert.True(t, errs.IsNotFound(err))

	for _, table := range []string{"mesocycles", "microcycles", "periodized_sessions", "periodized_exercises"} {
		var count int
		err := st.DB.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count)
		require.NoError(t, err)
		assert.Zero(t, count, "%s should be empty after cascade", table)
	}
}

func TestDeleteProgram_CascadeAcrossConnections(t *testing.T) {
	// Foreign-key enforcement is per-connection in sqlite. A file-backed DB
	// with no idle connections makes every statement land on a fresh one, the
	// way a busy pool would, so a cascade that only works on the connection
	// that ran the schema bootstrap fails here.
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "pool.db"))
	require.NoError(t, err)
	db.SetMaxIdleConns(0)

	st, err := NewWithDB(db)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	seedCatalog(t, st)
	ctx := context.Background()

	p := buildTestProgram(t, st, "user-a")
	mc := &p.Mesocycles[0].Microcycles[0]
	sess, err := builder.AddSession(mc, "Pull B", 3, nil)
	require.NoError(t, err)
	_, err = builder.AddExercise(ctx, sess, "deadlift", builder.Prescription{Sets: 3, Reps: "5"}, st)
	require.NoError(t, err)
	require.NoError(t, st.SaveProgram(ctx, p))

	// Pruning a session must also cascade to its prescriptions.
	loaded, err := st.LoadProgram(ctx, p.ID, "user-a")
	require.NoError(t, err)
	loaded.Mesocycles[0].Microcycles[0].Sessions = loaded.Mesocycles[0].Microcycles[0].Sessions[:1]
	require.NoError(t, st.SaveProgram(ctx, loaded))

	var count int
	require.NoError(t, st.DB.QueryRow(`SELECT COUNT(*) FROM periodized_exercises`).Scan(&count))
	assert.Equal(t, 1, count)

	require.NoError(t, st.DeleteProgram(ctx, p.ID, "user-a"))

	for _, table := range []string{"mesocycles", "microcycles", "periodized_sessions", "periodized_exercises"} {
		var count int
		err := st.DB.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count)
		require.NoError(t, err)
		assert.Zero(t, count, "%s should be empty after cascade", table)
	}
}

func TestListPrograms_ScopedToOwner(t *testing.T) {
	st := newTestStorage(t)
	seedCatalog(t, st)
	ctx := context.Background()

	pa := buildTestProgram(t, st, "user-a")
	require.NoError(t, st.SaveProgram(ctx, pa))
	pb := buildTestProgram(t, st, "user-b")
	require.NoError(t, st.SaveProgram(ctx, pb))

	programs, err := st.ListPrograms(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, programs, 1)
	assert.Equal(t, pa.ID, programs[0].ID)
}

func TestUpdateProgramMeta(t *testing.T) {
	st := newTestStorage(t)
	seedCatalog(t, st)
	ctx := context.Background()

	p := buildTestProgram(t, st, "user-a")
	require.NoError(t, st.SaveProgram(ctx, p))

	name := "Off-season Block"
	freq := 5
	require.NoError(t, st.UpdateProgramMeta(ctx, p.ID, "user-a", ProgramMeta{Name: &name, Frequency: &freq}))

	loaded, err := st.LoadProgram(ctx, p.ID, "user-a")
	require.NoError(t, err)
	assert.Equal(t, "Off-season Block", loaded.Name)
	assert.Equal(t, 5, loaded.Frequency)
	// The tree is untouched by a meta update.
	require.Len(t, loaded.Mesocycles, 1)

	bad := 9
	err = st.UpdateProgramMeta(ctx, p.ID, "user-a", ProgramMeta{Frequency: &bad})
	assert.True(t, errs.IsValidation(err))

	err = st.UpdateProgramMeta(ctx, p.ID, "user-b", ProgramMeta{Name: &name})
	assert.True(t, errs.IsPermission(err))
}

func TestCreateExercise_UpsertByName(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()

	first := models.Exercise{
		ID: "ex-1", Name: "Bench Press", PrimaryMuscle: "chest", CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.CreateExercise(ctx, first))

	// Same name refreshes the definition instead of failing.
	second := first
	second.ID = "ex-2"
	second.Description = "Barbell, medium grip"
	require.NoError(t, st.CreateExercise(ctx, second))

	ex, err := st.GetExerciseByName(ctx, "Bench Press")
	require.NoError(t, err)
	assert.Equal(t, "ex-1", ex.ID)
	assert.Equal(t, "Barbell, medium grip", ex.Description)

	exercises, err := st.ListExercises(ctx)
	require.NoError(t, err)
	assert.Len(t, exercises, 1)
}

func TestExerciseExists(t *testing.T) {
	st := newTestStorage(t)
	seedCatalog(t, st)
	ctx := context.Background()

	ok, err := st.ExerciseExists(ctx, "bench-press")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = st.ExerciseExists(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/misterclayt0n/periodize/internal/errs"
	"github.com/misterclayt0n/periodize/internal/models"
)

func newTestObjective(t *testing.T, st *Storage, owner string, target float64) *models.TrainingObjective {
	t.Helper()
	obj, err := st.CreateObjective(context.Background(), owner, "Bench 100kg",
		models.ObjectiveStrength, target, nil)
	require.NoError(t, err)
	return obj
}

func TestCreateObjective(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()

	obj := newTestObjective(t, st, "user-a", 100)
	assert.Equal(t, models.ObjectiveActive, obj.Status)
	assert.Zero(t, obj.CurrentValue)
	assert.False(t, obj.IsAchieved())

	_, err := st.CreateObjective(ctx, "", "x", models.ObjectiveStrength, 100, nil)
	assert.True(t, errs.IsValidation(err))

	_, err = st.CreateObjective(ctx, "user-a", "x", models.ObjectiveCategory("mobility"), 100, nil)
	assert.True(t, errs.IsValidation(err))
}

func TestGetObjective_Ownership(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()

	obj := newTestObjective(t, st, "user-a", 100)

	_, err := st.GetObjective(ctx, obj.ID, "user-b")
	assert.True(t, errs.IsPermission(err))

	_, err = st.GetObjective(ctx, "no-such-objective", "user-a")
	assert.True(t, errs.IsNotFound(err))
}

func TestAssociate_Idempotent(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()

	obj := newTestObjective(t, st, "user-a", 100)

	_, err := st.Associate(ctx, obj.ID, "user-a", models.EntityProgram, "prog-1", models.PrioritySecondary)
	require.NoError(t, err)

	// Same pair again with a different priority updates in place.
	_, err = st.Associate(ctx, obj.ID, "user-a", models.EntityProgram, "prog-1", models.PriorityPrimary)
	require.NoError(t, err)

	assocs, err := st.ListAssociations(ctx, obj.ID, "user-a")
	require.NoError(t, err)
	require.Len(t, assocs, 1)
	assert.Equal(t, models.PriorityPrimary, assocs[0].Priority)

	// A different entity is a second row.
	_, err = st.Associate(ctx, obj.ID, "user-a", models.EntityMesocycle, "meso-1", models.PrioritySecondary)
	require.NoError(t, err)

	assocs, err = st.ListAssociations(ctx, obj.ID, "user-a")
	require.NoError(t, err)
	assert.Len(t, assocs, 2)
}

func TestAssociate_Validation(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()

	obj := newTestObjective(t, st, "user-a", 100)

	_, err := st.Associate(ctx, obj.ID, "user-a", models.EntityType("block"), "x", models.PriorityPrimary)
	assert.True(t, errs.IsValidation(err))

	_, err = st.Associate(ctx, obj.ID, "user-a", models.EntityProgram, "", models.PriorityPrimary)
	assert.True(t, errs.IsValidation(err))

	_, err = st.Associate(ctx, obj.ID, "user-b", models.EntityProgram, "prog-1", models.PriorityPrimary)
	assert.True(t, errs.IsPermission(err))
}

func TestUpdateProgress_Achievement(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()

	obj := newTestObjective(t, st, "user-a", 100)

	updated, err := st.UpdateProgress(ctx, obj.ID, "user-a", 99)
	require.NoError(t, err)
	assert.Equal(t, models.ObjectiveActive, updated.Status)

	// Meeting the target flips to achieved.
	updated, err = st.UpdateProgress(ctx, obj.ID, "user-a", 100)
	require.NoError(t, err)
	assert.Equal(t, models.ObjectiveAchieved, updated.Status)
	assert.True(t, updated.IsAchieved())

	// Achieved is sticky even if progress regresses.
	updated, err = st.UpdateProgress(ctx, obj.ID, "user-a", 80)
	require.NoError(t, err)
	assert.Equal(t, models.ObjectiveAchieved, updated.Status)
	assert.InDelta(t, 80, updated.CurrentValue, 0.001)
}

func TestUpdateProgress_Abandoned(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()

	obj := newTestObjective(t, st, "user-a", 100)
	require.NoError(t, st.AbandonObjective(ctx, obj.ID, "user-a"))

	_, err := st.UpdateProgress(ctx, obj.ID, "user-a", 50)
	assert.True(t, errs.IsConflict(err))
}

func TestAbandonObjective(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()

	obj := newTestObjective(t, st, "user-a", 100)
	require.NoError(t, st.AbandonObjective(ctx, obj.ID, "user-a"))

	// Abandoning twice conflicts.
	err := st.AbandonObjective(ctx, obj.ID, "user-a")
	assert.True(t, errs.IsConflict(err))

	// Achieved objectives cannot be abandoned either.
	achieved := newTestObjective(t, st, "user-a", 10)
	_, err = st.UpdateProgress(ctx, achieved.ID, "user-a", 10)
	require.NoError(t, err)
	err = st.AbandonObjective(ctx, achieved.ID, "user-a")
	assert.True(t, errs.IsConflict(err))
}

func TestDeleteObjective_CascadesAssociations(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()

	obj := newTestObjective(t, st, "user-a", 100)
	_, err := st.Associate(ctx, obj.ID, "user-a", models.EntityProgram, "prog-1", models.PriorityPrimary)
	require.NoError(t, err)

	err = st.DeleteObjective(ctx, obj.ID, "user-b")
	assert.True(t, errs.IsPermission(err))

	require.NoError(t, st.DeleteObjective(ctx, obj.ID, "user-a"))

	var count int
	err = st.DB.QueryRow(`SELECT COUNT(*) FROM objective_associations`).Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestListObjectives_ScopedToOwner(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()

	newTestObjective(t, st, "user-a", 100)
	newTestObjective(t, st, "user-b", 50)

	objectives, err := st.ListObjectives(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, objectives, 1)
	assert.Equal(t, "user-a", objectives[0].OwnerID)
}

func TestTechniques(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, st.CreateTechnique(ctx, models.SpecialTechnique{
		ID: "tech-1", Name: "Myo-reps", IsTemplate: true, CreatedAt: now,
	}))
	require.NoError(t, st.CreateTechnique(ctx, models.SpecialTechnique{
		ID: "tech-2", Name: "Cluster sets", OwnerID: "user-a", CreatedAt: now,
	}))
	require.NoError(t, st.CreateTechnique(ctx, models.SpecialTechnique{
		ID: "tech-3", Name: "Rest-pause", OwnerID: "user-b", CreatedAt: now,
	}))

	err := st.CreateTechnique(ctx, models.SpecialTechnique{ID: "tech-4", CreatedAt: now})
	assert.True(t, errs.IsValidation(err))

	// user-a sees shared templates plus their own.
	techniques, err := st.ListTechniques(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, techniques, 2)

	ok, err := st.TechniqueExists(ctx, "tech-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = st.TechniqueExists(ctx, "tech-9")
	require.NoError(t, err)
	assert.False(t, ok)
}

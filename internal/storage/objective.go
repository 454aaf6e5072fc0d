package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/misterclayt0n/periodize/internal/errs"
	"github.com/misterclayt0n/periodize/internal/models"
)

func (s *Storage) CreateObjective(
	ctx context.Context,
	ownerID, name string,
	category models.ObjectiveCategory,
	targetValue float64,
	deadline *time.Time,
) (*models.TrainingObjective, error) {
	if ownerID == "" {
		return nil, errs.Validation("owner id is required")
	}
	if !category.Valid() {
		return nil, errs.Validation("unknown objective category %q", category)
	}

	obj := models.TrainingObjective{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Name:        name,
		Category:    category,
		TargetValue: targetValue,
		Status:      models.ObjectiveActive,
		Deadline:    deadline,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}

	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO training_objectives
            (id, owner_id, name, category, target_value, current_value, status, deadline, created_at)
         VALUES (?, ?, ?, ?, ?, 0, ?, ?, ?)`,
		obj.ID, obj.OwnerID, obj.Name, string(obj.Category), obj.TargetValue,
		string(obj.Status), nullTime(obj.Deadline), obj.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, errs.Storage(err, "failed to create objective")
	}
	return &obj, nil
}

func (s *Storage) GetObjective(ctx context.Context, objectiveID, ownerID string) (*models.TrainingObjective, error) {
	var (
		obj       models.TrainingObjective
		category  string
		status    string
		deadline  sql.NullString
		createdAt string
	)

	err := s.DB.QueryRowContext(ctx,
		`SELECT id, owner_id, name, category, target_value, current_value, status, deadline, created_at
         FROM training_objectives WHERE id = ?`, objectiveID,
	).Scan(&obj.ID, &obj.OwnerID, &obj.Name, &category, &obj.TargetValue,
		&obj.CurrentValue, &status, &deadline, &createdAt)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("objective %q not found", objectiveID)
	}
	if err != nil {
		return nil, errs.Storage(err, "failed to query objective")
	}

	if obj.OwnerID != ownerID {
		return nil, errs.Permission("not allowed to access this objective")
	}

	obj.Category = models.ObjectiveCategory(category)
	obj.Status = models.ObjectiveStatus(status)
	obj.Deadline = parseNullTime(deadline)
	obj.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &obj, nil
}

func (s *Storage) ListObjectives(ctx context.Context, ownerID string) ([]models.TrainingObjective, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, owner_id, name, category, target_value, current_value, status, deadline, created_at
         FROM training_objectives WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, errs.Storage(err, "failed to query objectives")
	}
	defer rows.Close()

	var objectives []models.TrainingObjective
	for rows.Next() {
		var (
			obj       models.TrainingObjective
			category  string
			status    string
			deadline  sql.NullString
			createdAt string
		)
		if err := rows.Scan(&obj.ID, &obj.OwnerID, &obj.Name, &category, &obj.TargetValue,
			&obj.CurrentValue, &status, &deadline, &createdAt); err != nil {
			return nil, errs.Storage(err, "failed to scan objective")
		}
		obj.Category = models.ObjectiveCategory(category)
		obj.Status = models.ObjectiveStatus(status)
		obj.Deadline = parseNullTime(deadline)
		obj.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		objectives = append(objectives, obj)
	}
	return objectives, rows.Err()
}

// Associate links an objective to a hierarchy node. Re-associating the same
// (objective, entity) pair updates the priority rather than duplicating, so
// the call is idempotent.
func (s *Storage) Associate(
	ctx context.Context,
	objectiveID, ownerID string,
	entityType models.EntityType,
	entityID string,
	priority models.ObjectivePriority,
) (*models.ObjectiveAssociation, error) {
	if !entityType.Valid() {
		return nil, errs.Validation("unknown entity type %q", entityType)
	}
	if !priority.Valid() {
		return nil, errs.Validation("unknown priority %q", priority)
	}
	if entityID == "" {
		return nil, errs.Validation("entity id is required")
	}

	// Ownership gate before any write.
	if _, err := s.GetObjective(ctx, objectiveID, ownerID); err != nil {
		return nil, err
	}

	assoc := models.ObjectiveAssociation{
		ObjectiveID: objectiveID,
		EntityType:  entityType,
		EntityID:    entityID,
		Priority:    priority,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}

	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO objective_associations (objective_id, entity_type, entity_id, priority, created_at)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(objective_id, entity_type, entity_id) DO UPDATE SET
            priority = excluded.priority`,
		assoc.ObjectiveID, string(assoc.EntityType), assoc.EntityID,
		string(assoc.Priority), assoc.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, errs.Storage(err, "failed to associate objective")
	}
	return &assoc, nil
}

func (s *Storage) ListAssociations(ctx context.Context, objectiveID, ownerID string) ([]models.ObjectiveAssociation, error) {
	if _, err := s.GetObjective(ctx, objectiveID, ownerID); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT objective_id, entity_type, entity_id, priority, created_at
         FROM objective_associations WHERE objective_id = ?
         ORDER BY entity_type, entity_id`, objectiveID)
	if err != nil {
		return nil, errs.Storage(err, "failed to query associations")
	}
	defer rows.Close()

	var assocs []models.ObjectiveAssociation
	for rows.Next() {
		var (
			a          models.ObjectiveAssociation
			entityType string
			priority   string
			createdAt  string
		)
		if err := rows.Scan(&a.ObjectiveID, &entityType, &a.EntityID, &priority, &createdAt); err != nil {
			return nil, errs.Storage(err, "failed to scan association")
		}
		a.EntityType = models.EntityType(entityType)
		a.Priority = models.ObjectivePriority(priority)
		a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		assocs = append(assocs, a)
	}
	return assocs, rows.Err()
}

// UpdateProgress records a new current value. Crossing the target flips the
// objective to achieved; the transition is one-way, so later regressions do
// not reopen it. All modeled categories are ascending goals.
func (s *Storage) UpdateProgress(ctx context.Context, objectiveID, ownerID string, currentValue float64) (*models.TrainingObjective, error) {
	obj, err := s.GetObjective(ctx, objectiveID, ownerID)
	if err != nil {
		return nil, err
	}

	if obj.Status == models.ObjectiveAbandoned {
		return nil, errs.Conflict("objective has been abandoned")
	}

	obj.CurrentValue = currentValue
	if obj.Status == models.ObjectiveActive && currentValue >= obj.TargetValue {
		obj.Status = models.ObjectiveAchieved
	}

	_, err = s.DB.ExecContext(ctx,
		`UPDATE training_objectives SET current_value = ?, status = ? WHERE id = ?`,
		obj.CurrentValue, string(obj.Status), obj.ID,
	)
	if err != nil {
		return nil, errs.Storage(err, "failed to update progress")
	}
	return obj, nil
}

// AbandonObjective marks an active objective abandoned. Achieved objectives
// stay achieved.
func (s *Storage) AbandonObjective(ctx context.Context, objectiveID, ownerID string) error {
	obj, err := s.GetObjective(ctx, objectiveID, ownerID)
	if err != nil {
		return err
	}
	if obj.Status != models.ObjectiveActive {
		return errs.Conflict("objective is already %s", obj.Status)
	}

	_, err = s.DB.ExecContext(ctx,
		`UPDATE training_objectives SET status = ? WHERE id = ?`,
		string(models.ObjectiveAbandoned), objectiveID,
	)
	if err != nil {
		return errs.Storage(err, "failed to abandon objective")
	}
	return nil
}

func (s *Storage) DeleteObjective(ctx context.Context, objectiveID, ownerID string) error {
	if _, err := s.GetObjective(ctx, objectiveID, ownerID); err != nil {
		return err
	}

	// Associations go with it via the FK cascade.
	conn, err := s.fkConn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx,
		`DELETE FROM training_objectives WHERE id = ?`, objectiveID); err != nil {
		return errs.Storage(err, "failed to delete objective")
	}
	return nil
}

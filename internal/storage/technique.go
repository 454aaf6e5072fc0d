package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/misterclayt0n/periodize/internal/errs"
	"github.com/misterclayt0n/periodize/internal/models"
)

func (s *Storage) CreateTechnique(ctx context.Context, t models.SpecialTechnique) error {
	if t.Name == "" {
		return errs.Validation("technique name must not be empty")
	}

	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO special_techniques (id, name, description, is_template, owner_id, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Description, boolToInt(t.IsTemplate),
		nullString(t.OwnerID), t.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return errs.Storage(err, "failed to create technique %q", t.Name)
	}
	return nil
}

func (s *Storage) GetTechniqueByID(ctx context.Context, id string) (*models.SpecialTechnique, error) {
	var (
		t          models.SpecialTechnique
		isTemplate int
		ownerID    sql.NullString
		createdAt  string
	)

	err := s.DB.QueryRowContext(ctx,
		`SELECT id, name, description, is_template, owner_id, created_at
         FROM special_techniques WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &t.Description, &isTemplate, &ownerID, &createdAt)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("technique %q not found", id)
	}
	if err != nil {
		return nil, errs.Storage(err, "failed to query technique")
	}

	t.IsTemplate = isTemplate != 0
	t.OwnerID = ownerID.String
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &t, nil
}

// ListTechniques returns shared templates plus the caller's own techniques.
func (s *Storage) ListTechniques(ctx context.Context, ownerID string) ([]models.SpecialTechnique, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, name, description, is_template, owner_id, created_at
         FROM special_techniques
         WHERE is_template = 1 OR owner_id = ?
         ORDER BY name`, ownerID)
	if err != nil {
		return nil, errs.Storage(err, "failed to query techniques")
	}
	defer rows.Close()

	var techniques []models.SpecialTechnique
	for rows.Next() {
		var (
			t          models.SpecialTechnique
			isTemplate int
			owner      sql.NullString
			createdAt  string
		)
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &isTemplate, &owner, &createdAt); err != nil {
			return nil, errs.Storage(err, "failed to scan technique")
		}
		t.IsTemplate = isTemplate != 0
		t.OwnerID = owner.String
		t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		techniques = append(techniques, t)
	}
	return techniques, rows.Err()
}

// TechniqueIDByName resolves a technique name to its id for TOML imports,
// the same way exercises are referenced by catalog name.
func (s *Storage) TechniqueIDByName(ctx context.Context, name string) (string, error) {
	var id string
	err := s.DB.QueryRowContext(ctx,
		"SELECT id FROM special_techniques WHERE name = ?", name).Scan(&id)
	if err == sql.ErrNoRows {
		return "", errs.NotFound("technique %q not found", name)
	}
	if err != nil {
		return "", errs.Storage(err, "failed to query technique")
	}
	return id, nil
}

// TechniqueExists mirrors ExerciseExists for the weak technique reference.
func (s *Storage) TechniqueExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.DB.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM special_techniques WHERE id = ?)", id,
	).Scan(&exists)
	if err != nil && err != sql.ErrNoRows {
		return false, errs.Storage(err, "failed to check technique existence")
	}
	return exists, nil
}

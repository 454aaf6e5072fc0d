package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/misterclayt0n/periodize/internal/errs"
	"github.com/misterclayt0n/periodize/internal/models"
)

// CreateExercise upserts a catalog entry keyed by its unique name, so
// re-importing a catalog file refreshes definitions instead of failing.
func (s *Storage) CreateExercise(ctx context.Context, ex models.Exercise) error {
	groupsJSON, err := json.Marshal(ex.MuscleGroups)
	if err != nil {
		return errs.Storage(err, "failed to marshal muscle groups")
	}

	_, err = s.DB.ExecContext(ctx,
		`INSERT INTO exercises
            (id, name, description, primary_muscle, muscle_groups, equipment, difficulty, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(name) DO UPDATE SET
            description = excluded.description,
            primary_muscle = excluded.primary_muscle,
            muscle_groups = excluded.muscle_groups,
            equipment = excluded.equipment,
            difficulty = excluded.difficulty`,
		ex.ID, ex.Name, ex.Description, ex.PrimaryMuscle, string(groupsJSON),
		ex.Equipment, ex.Difficulty, ex.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return errs.Storage(err, "failed to create exercise %q", ex.Name)
	}
	return nil
}

func (s *Storage) GetExerciseByID(ctx context.Context, id string) (*models.Exercise, error) {
	return s.getExercise(ctx, "id", id)
}

func (s *Storage) GetExerciseByName(ctx context.Context, name string) (*models.Exercise, error) {
	return s.getExercise(ctx, "name", name)
}

func (s *Storage) getExercise(ctx context.Context, col, val string) (*models.Exercise, error) {
	var (
		ex         models.Exercise
		groupsJSON sql.NullString
		createdAt  string
	)

	query := `SELECT id, name, description, primary_muscle, muscle_groups,
                     equipment, difficulty, created_at
              FROM exercises WHERE ` + col + ` = ?`
	err := s.DB.QueryRowContext(ctx, query, val).Scan(
		&ex.ID, &ex.Name, &ex.Description, &ex.PrimaryMuscle,
		&groupsJSON, &ex.Equipment, &ex.Difficulty, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("exercise %q not found", val)
	}
	if err != nil {
		return nil, errs.Storage(err, "failed to query exercise")
	}

	if groupsJSON.Valid && groupsJSON.String != "" && groupsJSON.String != "null" {
		if err := json.Unmarshal([]byte(groupsJSON.String), &ex.MuscleGroups); err != nil {
			return nil, errs.Storage(err, "failed to unmarshal muscle groups")
		}
	}
	ex.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &ex, nil
}

func (s *Storage) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, name, description, primary_muscle, muscle_groups,
                equipment, difficulty, created_at
         FROM exercises ORDER BY name`)
	if err != nil {
		return nil, errs.Storage(err, "failed to query exercises")
	}
	defer rows.Close()

	var exercises []models.Exercise
	for rows.Next() {
		var (
			ex         models.Exercise
			groupsJSON sql.NullString
			createdAt  string
		)
		if err := rows.Scan(&ex.ID, &ex.Name, &ex.Description, &ex.PrimaryMuscle,
			&groupsJSON, &ex.Equipment, &ex.Difficulty, &createdAt); err != nil {
			return nil, errs.Storage(err, "failed to scan exercise")
		}
		if groupsJSON.Valid && groupsJSON.String != "" && groupsJSON.String != "null" {
			if err := json.Unmarshal([]byte(groupsJSON.String), &ex.MuscleGroups); err != nil {
				return nil, errs.Storage(err, "failed to unmarshal muscle groups")
			}
		}
		ex.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		exercises = append(exercises, ex)
	}
	return exercises, rows.Err()
}

// ExerciseExists implements the builder's catalog resolver.
func (s *Storage) ExerciseExists(ctx context.Context, exerciseID string) (bool, error) {
	var exists bool
	err := s.DB.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM exercises WHERE id = ?)", exerciseID,
	).Scan(&exists)
	if err != nil && err != sql.ErrNoRows {
		return false, errs.Storage(err, "failed to check exercise existence")
	}
	return exists, nil
}

// ExerciseIDByName resolves a catalog name to its id for TOML imports.
func (s *Storage) ExerciseIDByName(ctx context.Context, name string) (string, error) {
	var id string
	err := s.DB.QueryRowContext(ctx,
		"SELECT id FROM exercises WHERE name = ?", name).Scan(&id)
	if err == sql.ErrNoRows {
		return "", errs.NotFound("exercise %q not found", name)
	}
	if err != nil {
		return "", errs.Storage(err, "failed to query exercise")
	}
	return id, nil
}

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/misterclayt0n/periodize/internal/errs"
	"github.com/misterclayt0n/periodize/internal/models"
)

// SaveProgram upserts the whole program tree in one transaction. The program
// row carries an updated_at optimistic lock: saving a stale tree (loaded
// before someone else's write) fails with a conflict instead of silently
// losing their update. Child rows are upserted by id and orphans removed, so
// unchanged subtrees keep their identities across saves.
func (s *Storage) SaveProgram(ctx context.Context, p *models.Program) error {
	if p.ID == "" || p.OwnerID == "" {
		return errs.Validation("program id and owner id are required")
	}

	// Orphan pruning leans on ON DELETE CASCADE for grandchildren, so the
	// whole transaction runs on a foreign-key-enabled connection.
	conn, err := s.fkConn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return errs.Storage(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	var storedOwner, storedUpdatedAt string
	err = tx.QueryRowContext(ctx,
		`SELECT owner_id, updated_at FROM programs WHERE id = ?`, p.ID,
	).Scan(&storedOwner, &storedUpdatedAt)

	// Nanosecond precision so two writes in the same second still trip the
	// optimistic lock.
	now := time.Now().UTC()

	switch {
	case err == sql.ErrNoRows:
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO programs
                (id, owner_id, name, description, periodization_type, goal,
                 training_level, frequency, start_date, end_date, created_at, updated_at)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.OwnerID, p.Name, p.Description,
			string(p.PeriodizationType), string(p.Goal), string(p.TrainingLevel),
			p.Frequency, nullTime(p.StartDate), nullTime(p.EndDate),
			now.Format(time.RFC3339), now.Format(time.RFC3339Nano),
		); err != nil {
			return errs.Storage(err, "failed to insert program")
		}
		p.CreatedAt = now

	case err != nil:
		return errs.Storage(err, "failed to query program")

	default:
		if storedOwner != p.OwnerID {
			return errs.Permission("not allowed to modify this program")
		}
		if storedUpdatedAt != p.UpdatedAt.UTC().Format(time.RFC3339Nano) {
			return errs.Conflict("program was modified concurrently, reload and retry")
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE programs SET
                name = ?, description = ?, periodization_type = ?, goal = ?,
                training_level = ?, frequency = ?, start_date = ?, end_date = ?, updated_at = ?
             WHERE id = ?`,
			p.Name, p.Description, string(p.PeriodizationType), string(p.Goal),
			string(p.TrainingLevel), p.Frequency,
			nullTime(p.StartDate), nullTime(p.EndDate),
			now.Format(time.RFC3339Nano), p.ID,
		); err != nil {
			return errs.Storage(err, "failed to update program")
		}
	}

	if err := saveMesocycles(ctx, tx, p); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errs.Storage(err, "failed to commit transaction")
	}

	p.UpdatedAt = now
	return nil
}

func saveMesocycles(ctx context.Context, tx *sql.Tx, p *models.Program) error {
	ids := make([]string, 0, len(p.Mesocycles))
	for i := range p.Mesocycles {
		ids = append(ids, p.Mesocycles[i].ID)
	}
	if err := deleteOrphans(ctx, tx, "mesocycles", "program_id", p.ID, ids); err != nil {
		return err
	}

	for i := range p.Mesocycles {
		meso := &p.Mesocycles[i]
		_, err := tx.ExecContext(ctx,
			`INSERT INTO mesocycles
                (id, program_id, phase, duration_weeks, position,
                 volume_level, intensity_level, includes_deload, deload_strategy)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
             ON CONFLICT(id) DO UPDATE SET
                phase = excluded.phase,
                duration_weeks = excluded.duration_weeks,
                position = excluded.position,
                volume_level = excluded.volume_level,
                intensity_level = excluded.intensity_level,
                includes_deload = excluded.includes_deload,
                deload_strategy = excluded.deload_strategy`,
			meso.ID, p.ID, string(meso.Phase), meso.DurationWeeks, meso.Position,
			meso.VolumeLevel, meso.IntensityLevel, boolToInt(meso.IncludesDeload),
			nullString(string(meso.DeloadStrategy)),
		)
		if err != nil {
			return errs.Storage(err, "failed to save mesocycle %d", meso.Position)
		}

		if err := saveMicrocycles(ctx, tx, meso); err != nil {
			return err
		}
	}
	return nil
}

func saveMicrocycles(ctx context.Context, tx *sql.Tx, meso *models.Mesocycle) error {
	ids := make([]string, 0, len(meso.Microcycles))
	for i := range meso.Microcycles {
		ids = append(ids, meso.Microcycles[i].ID)
	}
	if err := deleteOrphans(ctx, tx, "microcycles", "mesocycle_id", meso.ID, ids); err != nil {
		return err
	}

	for i := range meso.Microcycles {
		mc := &meso.Microcycles[i]
		_, err := tx.ExecContext(ctx,
			`INSERT INTO microcycles
                (id, mesocycle_id, week_number, volume_multiplier, intensity_multiplier, is_deload)
             VALUES (?, ?, ?, ?, ?, ?)
             ON CONFLICT(id) DO UPDATE SET
                week_number = excluded.week_number,
                volume_multiplier = excluded.volume_multiplier,
                intensity_multiplier = excluded.intensity_multiplier,
                is_deload = excluded.is_deload`,
			mc.ID, meso.ID, mc.WeekNumber, mc.VolumeMultiplier, mc.IntensityMultiplier,
			boolToInt(mc.IsDeload),
		)
		if err != nil {
			return errs.Storage(err, "failed to save microcycle week %d", mc.WeekNumber)
		}

		if err := saveSessions(ctx, tx, mc); err != nil {
			return err
		}
	}
	return nil
}

func saveSessions(ctx context.Context, tx *sql.Tx, mc *models.Microcycle) error {
	ids := make([]string, 0, len(mc.Sessions))
	for i := range mc.Sessions {
		ids = append(ids, mc.Sessions[i].ID)
	}
	if err := deleteOrphans(ctx, tx, "periodized_sessions", "microcycle_id", mc.ID, ids); err != nil {
		return err
	}

	for i := range mc.Sessions {
		sess := &mc.Sessions[i]

		focusJSON, err := json.Marshal(sess.Focus)
		if err != nil {
			return errs.Storage(err, "failed to marshal focus tags")
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO periodized_sessions
                (id, microcycle_id, name, day_of_week, focus, rpe_target, rir_target, session_order)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?)
             ON CONFLICT(id) DO UPDATE SET
                name = excluded.name,
                day_of_week = excluded.day_of_week,
                focus = excluded.focus,
                rpe_target = excluded.rpe_target,
                rir_target = excluded.rir_target,
                session_order = excluded.session_order`,
			sess.ID, mc.ID, sess.Name, sess.DayOfWeek, string(focusJSON),
			nullFloat(sess.RPETarget), nullFloat(sess.RIRTarget), i,
		)
		if err != nil {
			return errs.Storage(err, "failed to save session %q", sess.Name)
		}

		if err := saveExercises(ctx, tx, sess); err != nil {
			return err
		}
	}
	return nil
}

func saveExercises(ctx context.Context, tx *sql.Tx, sess *models.PeriodizedSession) error {
	ids := make([]string, 0, len(sess.Exercises))
	for i := range sess.Exercises {
		ids = append(ids, sess.Exercises[i].ID)
	}
	if err := deleteOrphans(ctx, tx, "periodized_exercises", "session_id", sess.ID, ids); err != nil {
		return err
	}

	for i := range sess.Exercises {
		ex := &sess.Exercises[i]
		_, err := tx.ExecContext(ctx,
			`INSERT INTO periodized_exercises
                (id, session_id, exercise_id, sets, reps, rir, rpe, rest_seconds,
                 tempo, superset_group_id, special_technique_id, exercise_order, notes)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
             ON CONFLICT(id) DO UPDATE SET
                exercise_id = excluded.exercise_id,
                sets = excluded.sets,
                reps = excluded.reps,
                rir = excluded.rir,
                rpe = excluded.rpe,
                rest_seconds = excluded.rest_seconds,
                tempo = excluded.tempo,
                superset_group_id = excluded.superset_group_id,
                special_technique_id = excluded.special_technique_id,
                exercise_order = excluded.exercise_order,
                notes = excluded.notes`,
			ex.ID, sess.ID, ex.ExerciseID, ex.Sets, ex.Reps,
			nullFloat(ex.RIR), nullFloat(ex.RPE), ex.RestSeconds,
			nullString(ex.Tempo), nullString(ex.SupersetGroupID),
			nullString(ex.SpecialTechniqueID), ex.ExerciseOrder, ex.Notes,
		)
		if err != nil {
			return errs.Storage(err, "failed to save exercise prescription")
		}
	}
	return nil
}

// deleteOrphans removes child rows whose ids are no longer part of the tree.
func deleteOrphans(ctx context.Context, tx *sql.Tx, table, parentCol, parentID string, keep []string) error {
	var (
		query string
		args  []any
	)
	if len(keep) == 0 {
		query = fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, parentCol)
		args = []any{parentID}
	} else {
		placeholders := strings.Repeat("?, ", len(keep)-1) + "?"
		query = fmt.Sprintf("DELETE FROM %s WHERE %s = ? AND id NOT IN (%s)", table, parentCol, placeholders)
		args = make([]any, 0, len(keep)+1)
		args = append(args, parentID)
		for _, id := range keep {
			args = append(args, id)
		}
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return errs.Storage(err, "failed to prune %s", table)
	}
	return nil
}

// LoadProgram reconstructs the full ordered tree. The owner check never
// reveals anything about somebody else's program beyond "not yours".
func (s *Storage) LoadProgram(ctx context.Context, programID, ownerID string) (*models.Program, error) {
	var (
		p                  models.Program
		ptype, goal, level string
		startDate, endDate sql.NullString
		createdAt, updated string
	)

	err := s.DB.QueryRowContext(ctx,
		`SELECT id, owner_id, name, description, periodization_type, goal,
                training_level, frequency, start_date, end_date, created_at, updated_at
         FROM programs WHERE id = ?`, programID,
	).Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &ptype, &goal, &level,
		&p.Frequency, &startDate, &endDate, &createdAt, &updated)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("program %q not found", programID)
	}
	if err != nil {
		return nil, errs.Storage(err, "failed to query program")
	}

	if p.OwnerID != ownerID {
		return nil, errs.Permission("not allowed to access this program")
	}

	p.PeriodizationType = models.PeriodizationType(ptype)
	p.Goal = models.TrainingGoal(goal)
	p.TrainingLevel = models.TrainingLevel(level)
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	p.StartDate = parseNullTime(startDate)
	p.EndDate = parseNullTime(endDate)

	if err := s.loadMesocycles(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Storage) loadMesocycles(ctx context.Context, p *models.Program) error {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, phase, duration_weeks, position, volume_level, intensity_level,
                includes_deload, deload_strategy
         FROM mesocycles WHERE program_id = ? ORDER BY position`, p.ID)
	if err != nil {
		return errs.Storage(err, "failed to query mesocycles")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			meso     models.Mesocycle
			phase    string
			deload   int
			strategy sql.NullString
		)
		if err := rows.Scan(&meso.ID, &phase, &meso.DurationWeeks, &meso.Position,
			&meso.VolumeLevel, &meso.IntensityLevel, &deload, &strategy); err != nil {
			return errs.Storage(err, "failed to scan mesocycle")
		}
		meso.Phase = models.TrainingPhase(phase)
		meso.IncludesDeload = deload != 0
		if strategy.Valid {
			meso.DeloadStrategy = models.DeloadStrategy(strategy.String)
		}
		p.Mesocycles = append(p.Mesocycles, meso)
	}
	if err := rows.Err(); err != nil {
		return errs.Storage(err, "failed to iterate mesocycles")
	}

	for i := range p.Mesocycles {
		if err := s.loadMicrocycles(ctx, &p.Mesocycles[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Storage) loadMicrocycles(ctx context.Context, meso *models.Mesocycle) error {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, week_number, volume_multiplier, intensity_multiplier, is_deload
         FROM microcycles WHERE mesocycle_id = ? ORDER BY week_number`, meso.ID)
	if err != nil {
		return errs.Storage(err, "failed to query microcycles")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			mc     models.Microcycle
			deload int
		)
		if err := rows.Scan(&mc.ID, &mc.WeekNumber, &mc.VolumeMultiplier,
			&mc.IntensityMultiplier, &deload); err != nil {
			return errs.Storage(err, "failed to scan microcycle")
		}
		mc.IsDeload = deload != 0
		meso.Microcycles = append(meso.Microcycles, mc)
	}
	if err := rows.Err(); err != nil {
		return errs.Storage(err, "failed to iterate microcycles")
	}

	for i := range meso.Microcycles {
		if err := s.loadSessions(ctx, &meso.Microcycles[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Storage) loadSessions(ctx context.Context, mc *models.Microcycle) error {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, name, day_of_week, focus, rpe_target, rir_target
         FROM periodized_sessions WHERE microcycle_id = ? ORDER BY session_order`, mc.ID)
	if err != nil {
		return errs.Storage(err, "failed to query sessions")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			sess      models.PeriodizedSession
			focusJSON sql.NullString
			rpe, rir  sql.NullFloat64
		)
		if err := rows.Scan(&sess.ID, &sess.Name, &sess.DayOfWeek, &focusJSON, &rpe, &rir); err != nil {
			return errs.Storage(err, "failed to scan session")
		}
		if focusJSON.Valid && focusJSON.String != "" && focusJSON.String != "null" {
			if err := json.Unmarshal([]byte(focusJSON.String), &sess.Focus); err != nil {
				return errs.Storage(err, "failed to unmarshal focus tags")
			}
		}
		sess.RPETarget = floatPtr(rpe)
		sess.RIRTarget = floatPtr(rir)
		mc.Sessions = append(mc.Sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return errs.Storage(err, "failed to iterate sessions")
	}

	for i := range mc.Sessions {
		if err := s.loadExercises(ctx, &mc.Sessions[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Storage) loadExercises(ctx context.Context, sess *models.PeriodizedSession) error {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, exercise_id, sets, reps, rir, rpe, rest_seconds,
                tempo, superset_group_id, special_technique_id, exercise_order, notes
         FROM periodized_exercises WHERE session_id = ? ORDER BY exercise_order`, sess.ID)
	if err != nil {
		return errs.Storage(err, "failed to query prescriptions")
	}
	defer rows.Close()

	for rows.Next() {
		var ex models.PeriodizedExercise
		var rir, rpe sql.NullFloat64
		var rest sql.NullInt64
		var tempo, superset, tech, notes sql.NullString
		if err := rows.Scan(&ex.ID, &ex.ExerciseID, &ex.Sets, &ex.Reps, &rir, &rpe,
			&rest, &tempo, &superset, &tech, &ex.ExerciseOrder, &notes); err != nil {
			return errs.Storage(err, "failed to scan prescription")
		}
		ex.RIR = floatPtr(rir)
		ex.RPE = floatPtr(rpe)
		ex.RestSeconds = int(rest.Int64)
		ex.Tempo = tempo.String
		ex.SupersetGroupID = superset.String
		ex.SpecialTechniqueID = tech.String
		ex.Notes = notes.String
		sess.Exercises = append(sess.Exercises, ex)
	}
	return rows.Err()
}

// ListPrograms returns program metadata for one owner, newest first. The
// trees are not loaded; use LoadProgram for that.
func (s *Storage) ListPrograms(ctx context.Context, ownerID string) ([]models.Program, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, owner_id, name, description, periodization_type, goal,
                training_level, frequency, created_at, updated_at
         FROM programs WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, errs.Storage(err, "failed to query programs")
	}
	defer rows.Close()

	var programs []models.Program
	for rows.Next() {
		var (
			p                  models.Program
			ptype, goal, level string
			createdAt, updated string
		)
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description,
			&ptype, &goal, &level, &p.Frequency, &createdAt, &updated); err != nil {
			return nil, errs.Storage(err, "failed to scan program")
		}
		p.PeriodizationType = models.PeriodizationType(ptype)
		p.Goal = models.TrainingGoal(goal)
		p.TrainingLevel = models.TrainingLevel(level)
		p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		p.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		programs = append(programs, p)
	}
	return programs, rows.Err()
}

// DeleteProgram removes the program and, through the FK cascade, everything
// it owns.
func (s *Storage) DeleteProgram(ctx context.Context, programID, ownerID string) error {
	var storedOwner string
	err := s.DB.QueryRowContext(ctx,
		`SELECT owner_id FROM programs WHERE id = ?`, programID).Scan(&storedOwner)
	if err == sql.ErrNoRows {
		return errs.NotFound("program %q not found", programID)
	}
	if err != nil {
		return errs.Storage(err, "failed to query program")
	}
	if storedOwner != ownerID {
		return errs.Permission("not allowed to delete this program")
	}

	conn, err := s.fkConn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, `DELETE FROM programs WHERE id = ?`, programID); err != nil {
		return errs.Storage(err, "failed to delete program")
	}
	return nil
}

// ProgramMeta is the partially updatable slice of the program row. Nil fields
// are left alone; the tree is untouched.
type ProgramMeta struct {
	Name        *string
	Description *string
	Frequency   *int
	StartDate   *time.Time
	EndDate     *time.Time
}

func (s *Storage) UpdateProgramMeta(ctx context.Context, programID, ownerID string, meta ProgramMeta) error {
	if meta.Name != nil && *meta.Name == "" {
		return errs.Validation("program name must not be empty")
	}
	if meta.Frequency != nil && (*meta.Frequency < 1 || *meta.Frequency > 7) {
		return errs.Validation("frequency must be between 1 and 7, got %d", *meta.Frequency)
	}
	if meta.StartDate != nil && meta.EndDate != nil && meta.StartDate.After(*meta.EndDate) {
		return errs.Validation("start date must not be after end date")
	}

	var storedOwner string
	err := s.DB.QueryRowContext(ctx,
		`SELECT owner_id FROM programs WHERE id = ?`, programID).Scan(&storedOwner)
	if err == sql.ErrNoRows {
		return errs.NotFound("program %q not found", programID)
	}
	if err != nil {
		return errs.Storage(err, "failed to query program")
	}
	if storedOwner != ownerID {
		return errs.Permission("not allowed to modify this program")
	}

	set := []string{"updated_at = ?"}
	args := []any{time.Now().UTC().Format(time.RFC3339Nano)}
	if meta.Name != nil {
		set = append(set, "name = ?")
		args = append(args, *meta.Name)
	}
	if meta.Description != nil {
		set = append(set, "description = ?")
		args = append(args, *meta.Description)
	}
	if meta.Frequency != nil {
		set = append(set, "frequency = ?")
		args = append(args, *meta.Frequency)
	}
	if meta.StartDate != nil {
		set = append(set, "start_date = ?")
		args = append(args, meta.StartDate.UTC().Format(time.RFC3339))
	}
	if meta.EndDate != nil {
		set = append(set, "end_date = ?")
		args = append(args, meta.EndDate.UTC().Format(time.RFC3339))
	}
	args = append(args, programID)

	query := "UPDATE programs SET " + strings.Join(set, ", ") + " WHERE id = ?"
	if _, err := s.DB.ExecContext(ctx, query, args...); err != nil {
		return errs.Storage(err, "failed to update program")
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullFloat(f *float32) any {
	if f == nil {
		return nil
	}
	return float64(*f)
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func parseNullTime(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, ns.String)
	if err != nil {
		return nil
	}
	return &t
}

func floatPtr(nf sql.NullFloat64) *float32 {
	if !nf.Valid {
		return nil
	}
	f := float32(nf.Float64)
	return &f
}

package pgstore

import (
	"context"
	"fmt"

	"github.com/2beens/liftledger/internal/workout"
	"github.com/2beens/liftledger/internal/workout/ledger"
	"github.com/2beens/liftledger/pkg"

	"github.com/jackc/pgx/v5"
)

type tx struct {
	tx pgx.Tx
}

// LockExercises takes a transaction scoped advisory lock per exercise, in the
// order given.
func (t *tx) LockExercises(ctx context.Context, userID string, exerciseIDs []string) error {
	for _, id := range exerciseIDs {
		if _, err := t.tx.Exec(ctx,
			`SELECT pg_advisory_xact_lock(hashtext($1))`, userID+"::"+id,
		); err != nil {
			return fmt.Errorf("lock exercise %s: %w", id, err)
		}
	}
	return nil
}

func (t *tx) UpsertDefinition(ctx context.Context, def workout.ExerciseDefinition) (*workout.ExerciseDefinition, error) {
	if _, err := t.tx.Exec(ctx, `
		INSERT INTO exercise_definitions (`+definitionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, name, origin) DO NOTHING
	`,
		def.ID, def.UserID, def.Name, string(def.Origin), def.Category, def.MuscleGroup,
		def.Equipment, def.Mode.String(), def.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("insert exercise definition: %w", err)
	}

	stored, err := scanDefinition(t.tx.QueryRow(ctx, `
		SELECT `+definitionColumns+`
		FROM exercise_definitions
		WHERE user_id = $1 AND name = $2 AND origin = $3
	`, def.UserID, def.Name, string(def.Origin)))
	if err != nil {
		return nil, fmt.Errorf("select exercise definition: %w", err)
	}
	return stored, nil
}

func (t *tx) GetDefinition(ctx context.Context, userID, exerciseID string) (*workout.ExerciseDefinition, error) {
	def, err := scanDefinition(t.tx.QueryRow(ctx, `
		SELECT `+definitionColumns+`
		FROM exercise_definitions
		WHERE id = $1 AND user_id = $2
	`, exerciseID, userID))
	if err != nil {
		return nil, nilIfNoRows(err)
	}
	return def, nil
}

func (t *tx) InsertSession(ctx context.Context, s workout.Session) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO workout_sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`,
		s.ID, s.UserID, workout.DateOf(s.Date), s.Name, string(s.Type), s.StartedAt, s.EndedAt, s.DurationMinutes,
		s.ExerciseCount, s.SetCount, s.TotalReps, s.TotalWork, s.Calories, s.Status, s.Note,
		s.PlanID, s.PlanDayName, s.FromAIPlan, s.CreatedAt,
	)
	if pkg.IsUniqueViolationError(err) {
		return fmt.Errorf("session %s already exists: %w", s.ID, err)
	}
	return err
}

// DeleteSession relies on the cascading foreign keys of sets and history.
func (t *tx) DeleteSession(ctx context.Context, userID, sessionID string) (bool, error) {
	tag, err := t.tx.Exec(ctx,
		`DELETE FROM workout_sessions WHERE id = $1 AND user_id = $2`,
		sessionID, userID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (t *tx) InsertSets(ctx context.Context, sets []workout.ExerciseSet) error {
	if len(sets) == 0 {
		return nil
	}
	_, err := t.tx.CopyFrom(ctx,
		pgx.Identifier{"exercise_sets"},
		setColumnNames,
		pgx.CopyFromSlice(len(sets), func(i int) ([]any, error) {
			return setValues(sets[i]), nil
		}),
	)
	switch {
	case pkg.IsForeignKeyViolationError(err):
		return fmt.Errorf("sets reference a missing session or exercise: %w", err)
	case pkg.IsCheckViolationError(err):
		return fmt.Errorf("%w: negative set measurement: %v", ledger.ErrValidation, err)
	}
	return err
}

func (t *tx) GetSet(ctx context.Context, userID, setID string) (*workout.ExerciseSet, error) {
	set, err := scanSet(t.tx.QueryRow(ctx, `
		SELECT `+setColumns+`
		FROM exercise_sets
		WHERE id = $1 AND user_id = $2
	`, setID, userID))
	if err != nil {
		return nil, nilIfNoRows(err)
	}
	return set, nil
}

// setOrder is the order of workout.ExerciseSet.Before.
const setOrder = `ORDER BY session_date, performed_at, set_index, id COLLATE "C"`

func (t *tx) ListSessionSets(ctx context.Context, userID, sessionID string) ([]workout.ExerciseSet, error) {
	return t.listSets(ctx, `
		SELECT `+setColumns+`
		FROM exercise_sets
		WHERE user_id = $1 AND session_id = $2
		`+setOrder, userID, sessionID)
}

func (t *tx) ListExerciseSets(ctx context.Context, userID, exerciseID string) ([]workout.ExerciseSet, error) {
	return t.listSets(ctx, `
		SELECT `+setColumns+`
		FROM exercise_sets
		WHERE user_id = $1 AND exercise_id = $2
		`+setOrder, userID, exerciseID)
}

func (t *tx) listSets(ctx context.Context, sql string, args ...any) ([]workout.ExerciseSet, error) {
	rows, err := t.tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []workout.ExerciseSet
	for rows.Next() {
		set, err := scanSet(rows)
		if err != nil {
			return nil, err
		}
		sets = append(sets, *set)
	}
	return sets, rows.Err()
}

func (t *tx) DeleteSets(ctx context.Context, userID string, setIDs []string) (int, error) {
	tag, err := t.tx.Exec(ctx,
		`DELETE FROM exercise_sets WHERE user_id = $1 AND id = ANY($2)`,
		userID, setIDs,
	)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (t *tx) UpdateSetFlags(ctx context.Context, setID string, f workout.PRFlags) error {
	_, err := t.tx.Exec(ctx, `
		UPDATE exercise_sets
		SET pr_weight = $2, pr_reps = $3, pr_volume = $4, pr_duration = $5, pr_distance = $6
		WHERE id = $1
	`, setID, f.Weight, f.Reps, f.Volume, f.Duration, f.Distance)
	return err
}

func (t *tx) GetRecord(ctx context.Context, userID, exerciseID string) (*workout.PersonalRecord, error) {
	rec, err := scanRecord(t.tx.QueryRow(ctx,
		selectRecordSQL("user_id = $1 AND exercise_id = $2"),
		userID, exerciseID,
	))
	if err != nil {
		return nil, nilIfNoRows(err)
	}
	return rec, nil
}

func (t *tx) UpsertRecordIfBetter(ctx context.Context, rec workout.PersonalRecord) error {
	sql, ok := upsertIfBetterSQL[rec.Mode]
	if !ok {
		return fmt.Errorf("upsert record: unknown mode %d", rec.Mode)
	}
	_, err := t.tx.Exec(ctx, sql, recordValues(rec)...)
	return err
}

func (t *tx) ReplaceRecord(ctx context.Context, rec workout.PersonalRecord) error {
	_, err := t.tx.Exec(ctx, replaceRecordSQL, recordValues(rec)...)
	return err
}

func (t *tx) DeleteRecord(ctx context.Context, userID, exerciseID string) error {
	_, err := t.tx.Exec(ctx,
		`DELETE FROM personal_records WHERE user_id = $1 AND exercise_id = $2`,
		userID, exerciseID,
	)
	return err
}

func (t *tx) InsertHistory(ctx context.Context, h workout.HistoryEntry) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO exercise_history (`+historyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		h.ID, h.UserID, h.ExerciseID, h.SessionID, workout.DateOf(h.Date), h.SetCount,
		h.AvgReps, h.AvgWeightKg, h.AvgDurationSecs, h.AvgDistanceM, h.Note, h.CompletedAt,
	)
	return err
}

func (t *tx) DeleteHistory(ctx context.Context, userID, sessionID, exerciseID string) error {
	_, err := t.tx.Exec(ctx, `
		DELETE FROM exercise_history
		WHERE user_id = $1 AND session_id = $2 AND exercise_id = $3
	`, userID, sessionID, exerciseID)
	return err
}

// historyOrder is newest first.
const historyOrder = `date DESC, completed_at DESC, id DESC`

func (t *tx) TrimHistory(ctx context.Context, userID, exerciseID string, keep int) error {
	_, err := t.tx.Exec(ctx, `
		DELETE FROM exercise_history
		WHERE id IN (
			SELECT id FROM exercise_history
			WHERE user_id = $1 AND exercise_id = $2
			ORDER BY `+historyOrder+`
			OFFSET $3
		)
	`, userID, exerciseID, keep)
	return err
}

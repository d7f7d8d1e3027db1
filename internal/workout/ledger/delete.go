package ledger

import (
	"context"
	"fmt"

	"github.com/2beens/liftledger/internal/telemetry/tracing"
	"github.com/2beens/liftledger/internal/workout"

	"go.opentelemetry.io/otel/attribute"
)

// DeleteResult reports what a delete removed. A zero result means the target
// did not exist, which is not an error.
type DeleteResult struct {
	SetsDeleted       int `json:"setsDeleted"`
	SessionsDeleted   int `json:"sessionsDeleted"`
	RecordsRecomputed int `json:"recordsRecomputed"`
	RecordsDeleted    int `json:"recordsDeleted"`
}

func (r DeleteResult) Found() bool {
	return r.SetsDeleted > 0 || r.SessionsDeleted > 0
}

// DeleteSet removes one set and rebuilds the record of its exercise.
func (l *Ledger) DeleteSet(ctx context.Context, userID, setID string) (res DeleteResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ledger.delete_set")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user", userID), attribute.String("set", setID))

	err = l.store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		res = DeleteResult{}
		set, err := tx.GetSet(ctx, userID, setID)
		if err != nil {
			return fmt.Errorf("get set: %w", err)
		}
		if set == nil {
			return nil
		}

		if err := tx.LockExercises(ctx, userID, []string{set.ExerciseID}); err != nil {
			return fmt.Errorf("lock exercise: %w", err)
		}
		n, err := tx.DeleteSets(ctx, userID, []string{setID})
		if err != nil {
			return fmt.Errorf("delete set: %w", err)
		}
		if n == 0 {
			return nil
		}
		res.SetsDeleted = n

		return l.recompute(ctx, tx, userID, []string{set.ExerciseID}, &res)
	})
	if err != nil {
		return DeleteResult{}, fmt.Errorf("delete set %s: %w", setID, err)
	}

	if res.Found() {
		l.invalidate(userID)
	}
	return res, nil
}

// DeleteExercise removes every set of one exercise within one session,
// together with the history entry that session wrote for it.
func (l *Ledger) DeleteExercise(ctx context.Context, userID, sessionID, exerciseID string) (res DeleteResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ledger.delete_exercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("user", userID),
		attribute.String("session", sessionID),
		attribute.String("exercise", exerciseID),
	)

	err = l.store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		res = DeleteResult{}
		if err := tx.LockExercises(ctx, userID, []string{exerciseID}); err != nil {
			return fmt.Errorf("lock exercise: %w", err)
		}

		sets, err := tx.ListSessionSets(ctx, userID, sessionID)
		if err != nil {
			return fmt.Errorf("list session sets: %w", err)
		}
		var ids []string
		for _, s := range sets {
			if s.ExerciseID == exerciseID {
				ids = append(ids, s.ID)
			}
		}
		if len(ids) == 0 {
			return nil
		}

		n, err := tx.DeleteSets(ctx, userID, ids)
		if err != nil {
			return fmt.Errorf("delete sets: %w", err)
		}
		res.SetsDeleted = n
		if err := tx.DeleteHistory(ctx, userID, sessionID, exerciseID); err != nil {
			return fmt.Errorf("delete history: %w", err)
		}

		return l.recompute(ctx, tx, userID, []string{exerciseID}, &res)
	})
	if err != nil {
		return DeleteResult{}, fmt.Errorf("delete exercise %s of session %s: %w", exerciseID, sessionID, err)
	}

	if res.Found() {
		l.invalidate(userID)
	}
	return res, nil
}

// DeleteSession removes a session with all its sets and history entries and
// rebuilds the record of every exercise it touched.
func (l *Ledger) DeleteSession(ctx context.Context, userID, sessionID string) (res DeleteResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ledger.delete_session")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user", userID), attribute.String("session", sessionID))

	err = l.store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		res = DeleteResult{}
		sets, err := tx.ListSessionSets(ctx, userID, sessionID)
		if err != nil {
			return fmt.Errorf("list session sets: %w", err)
		}
		exerciseIDs := make([]string, 0, len(sets))
		for _, s := range sets {
			exerciseIDs = append(exerciseIDs, s.ExerciseID)
		}
		exerciseIDs = sortedUnique(exerciseIDs)

		if err := tx.LockExercises(ctx, userID, exerciseIDs); err != nil {
			return fmt.Errorf("lock exercises: %w", err)
		}
		deleted, err := tx.DeleteSession(ctx, userID, sessionID)
		if err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		if !deleted {
			return nil
		}
		res.SessionsDeleted = 1
		res.SetsDeleted = len(sets)

		return l.recompute(ctx, tx, userID, exerciseIDs, &res)
	})
	if err != nil {
		return DeleteResult{}, fmt.Errorf("delete session %s: %w", sessionID, err)
	}

	if res.Found() {
		l.invalidate(userID)
	}
	return res, nil
}

// Recompute rebuilds the record of one exercise from its stored sets.
func (l *Ledger) Recompute(ctx context.Context, userID, exerciseID string) (rec *workout.PersonalRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ledger.recompute")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = l.store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		if err := tx.LockExercises(ctx, userID, []string{exerciseID}); err != nil {
			return fmt.Errorf("lock exercise: %w", err)
		}
		var res DeleteResult
		if err := l.recompute(ctx, tx, userID, []string{exerciseID}, &res); err != nil {
			return err
		}
		stored, err := tx.GetRecord(ctx, userID, exerciseID)
		if err != nil {
			return fmt.Errorf("get record: %w", err)
		}
		rec = stored
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("recompute %s: %w", exerciseID, err)
	}

	l.invalidate(userID)
	return rec, nil
}

// recompute discards the stored records of the given exercises and rebuilds
// them from the remaining sets. Callers hold the exercise locks.
func (l *Ledger) recompute(ctx context.Context, tx Tx, userID string, exerciseIDs []string, res *DeleteResult) error {
	for _, exerciseID := range exerciseIDs {
		def, err := tx.GetDefinition(ctx, userID, exerciseID)
		if err != nil {
			return fmt.Errorf("get exercise %s: %w", exerciseID, err)
		}
		var sets []workout.ExerciseSet
		if def != nil {
			if sets, err = tx.ListExerciseSets(ctx, userID, exerciseID); err != nil {
				return fmt.Errorf("list sets of %s: %w", exerciseID, err)
			}
		}

		var rec *workout.PersonalRecord
		if def != nil {
			rec = Compute(userID, exerciseID, def.Mode, sets)
		}
		if rec == nil {
			if err := tx.DeleteRecord(ctx, userID, exerciseID); err != nil {
				return fmt.Errorf("delete record of %s: %w", exerciseID, err)
			}
			res.RecordsDeleted++
			continue
		}

		rec.UpdatedAt = l.now().UTC()
		if err := tx.ReplaceRecord(ctx, *rec); err != nil {
			return fmt.Errorf("replace record of %s: %w", exerciseID, err)
		}
		res.RecordsRecomputed++

		for _, s := range sets {
			flags := RecordFlags(rec, s)
			if flags == s.PR {
				continue
			}
			if err := tx.UpdateSetFlags(ctx, s.ID, flags); err != nil {
				return fmt.Errorf("update flags of set %s: %w", s.ID, err)
			}
		}
	}
	return nil
}

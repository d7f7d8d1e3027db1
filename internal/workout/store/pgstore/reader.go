package pgstore

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/liftledger/internal/telemetry/tracing"
	"github.com/2beens/liftledger/internal/workout"
	"github.com/2beens/liftledger/internal/workout/display"
	"github.com/2beens/liftledger/internal/workout/tracking"

	"go.opentelemetry.io/otel/attribute"
)

func dateArg(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := workout.DateOf(*t)
	return &d
}

const sessionFilter = `
	user_id = $1 AND status = 'completed'
	AND ($2::date IS NULL OR date >= $2)
	AND ($3::date IS NULL OR date <= $3)`

func (s *Store) ListSessions(ctx context.Context, userID string, q display.SessionQuery) (_ []workout.Session, _ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "pgstore.sessions.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("user", userID),
		attribute.Int("limit", q.Limit),
		attribute.Int("offset", q.Offset),
	)

	rows, err := s.db.Query(ctx, `
		SELECT `+sessionColumns+`, COUNT(*) OVER () AS total
		FROM workout_sessions
		WHERE `+sessionFilter+`
		  AND ($4::text = '' OR type = $4)
		ORDER BY date DESC, started_at DESC, id DESC
		LIMIT $5 OFFSET $6
	`, userID, dateArg(q.From), dateArg(q.To), string(q.Type), q.Limit, q.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	sessions := make([]workout.Session, 0, q.Limit)
	total := 0
	for rows.Next() {
		var session workout.Session
		var sessionType string
		if err := rows.Scan(
			&session.ID, &session.UserID, &session.Date, &session.Name, &sessionType,
			&session.StartedAt, &session.EndedAt, &session.DurationMinutes,
			&session.ExerciseCount, &session.SetCount, &session.TotalReps, &session.TotalWork,
			&session.Calories, &session.Status, &session.Note,
			&session.PlanID, &session.PlanDayName, &session.FromAIPlan, &session.CreatedAt,
			&total,
		); err != nil {
			return nil, 0, err
		}
		session.Type = workout.SessionType(sessionType)
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// the window count is unavailable on a page past the end
	if len(sessions) == 0 && q.Offset > 0 {
		if err := s.db.QueryRow(ctx, `
			SELECT COUNT(*) FROM workout_sessions
			WHERE `+sessionFilter+`
			  AND ($4::text = '' OR type = $4)
		`, userID, dateArg(q.From), dateArg(q.To), string(q.Type)).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("count sessions: %w", err)
		}
	}

	return sessions, total, nil
}

func (s *Store) GetSession(ctx context.Context, userID, sessionID string) (_ *workout.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "pgstore.sessions.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	session, err := scanSession(s.db.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM workout_sessions
		WHERE id = $1 AND user_id = $2
	`, sessionID, userID))
	if err != nil {
		return nil, nilIfNoRows(err)
	}
	return session, nil
}

func (s *Store) SetsForSessions(ctx context.Context, userID string, sessionIDs []string) (_ []display.SetRow, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "pgstore.sets.for-sessions")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("sessions", len(sessionIDs)))

	rows, err := s.db.Query(ctx, `
		SELECT `+qualify("s", setColumnNames)+`, `+qualify("d", definitionColumnNames)+`
		FROM exercise_sets s
		JOIN exercise_definitions d ON d.id = s.exercise_id
		WHERE s.user_id = $1 AND s.session_id = ANY($2)
		ORDER BY s.session_id COLLATE "C", s.exercise_id COLLATE "C", s.set_index
	`, userID, sessionIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []display.SetRow
	for rows.Next() {
		var row display.SetRow
		var setMode, origin, defMode string
		dest := setDest(&row.ExerciseSet, &setMode)
		d := &row.Exercise
		dest = append(dest,
			&d.ID, &d.UserID, &d.Name, &origin, &d.Category, &d.MuscleGroup, &d.Equipment, &defMode, &d.CreatedAt,
		)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		if row.Mode, err = tracking.ParseMode(setMode); err != nil {
			return nil, fmt.Errorf("set %s: %w", row.ID, err)
		}
		if d.Mode, err = tracking.ParseMode(defMode); err != nil {
			return nil, fmt.Errorf("exercise %s: %w", d.ID, err)
		}
		d.Origin = workout.Origin(origin)
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) RecordsFor(ctx context.Context, userID string, exerciseIDs []string) (_ []workout.PersonalRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "pgstore.records.for")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := s.db.Query(ctx,
		selectRecordSQL("user_id = $1 AND exercise_id = ANY($2)"),
		userID, exerciseIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []workout.PersonalRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// HistoryFor ranks entries per exercise so one query serves the whole page.
func (s *Store) HistoryFor(ctx context.Context, userID string, exerciseIDs []string, perExercise int) (_ []workout.HistoryEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "pgstore.history.for")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := s.db.Query(ctx, `
		SELECT `+historyColumns+`
		FROM (
			SELECT h.*, ROW_NUMBER() OVER (PARTITION BY exercise_id ORDER BY `+historyOrder+`) AS rn
			FROM exercise_history h
			WHERE user_id = $1 AND exercise_id = ANY($2)
		) ranked
		WHERE rn <= $3
		ORDER BY exercise_id, rn
	`, userID, exerciseIDs, perExercise)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []workout.HistoryEntry
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *h)
	}
	return out, rows.Err()
}

// RangeStats aggregates the stored session totals of a date range in one
// query.
func (s *Store) RangeStats(ctx context.Context, userID string, from, to *time.Time) (_ *display.Stats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "pgstore.stats.range")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	stats := &display.Stats{}
	err = s.db.QueryRow(ctx, `
		WITH ranged AS (
			SELECT id, exercise_count, set_count, total_reps, total_work, calories, duration_minutes
			FROM workout_sessions
			WHERE `+sessionFilter+`
		)
		SELECT
			COUNT(*),
			COALESCE(SUM(exercise_count), 0),
			COALESCE(SUM(set_count), 0),
			COALESCE(SUM(total_reps), 0),
			COALESCE(SUM(total_work), 0),
			COALESCE(SUM(calories), 0),
			COALESCE(SUM(duration_minutes), 0),
			(
				SELECT COUNT(*)
				FROM exercise_sets es
				JOIN ranged r ON r.id = es.session_id
				WHERE es.pr_weight OR es.pr_reps OR es.pr_volume OR es.pr_duration OR es.pr_distance
			)
		FROM ranged
	`, userID, dateArg(from), dateArg(to)).Scan(
		&stats.TotalWorkouts,
		&stats.TotalExercises,
		&stats.TotalSets,
		&stats.TotalReps,
		&stats.TotalWork,
		&stats.TotalCalories,
		&stats.TotalMinutes,
		&stats.PRCount,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

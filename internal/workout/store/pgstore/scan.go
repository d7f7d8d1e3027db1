package pgstore

import (
	"fmt"
	"strings"
	"time"

	"github.com/2beens/liftledger/internal/workout"
	"github.com/2beens/liftledger/internal/workout/tracking"
)

type rowScanner interface {
	Scan(dest ...any) error
}

const sessionColumns = `id, user_id, date, name, type, started_at, ended_at, duration_minutes,
	exercise_count, set_count, total_reps, total_work, calories, status, note,
	plan_id, plan_day_name, from_ai_plan, created_at`

func scanSession(row rowScanner) (*workout.Session, error) {
	var s workout.Session
	var sessionType string
	if err := row.Scan(
		&s.ID, &s.UserID, &s.Date, &s.Name, &sessionType, &s.StartedAt, &s.EndedAt, &s.DurationMinutes,
		&s.ExerciseCount, &s.SetCount, &s.TotalReps, &s.TotalWork, &s.Calories, &s.Status, &s.Note,
		&s.PlanID, &s.PlanDayName, &s.FromAIPlan, &s.CreatedAt,
	); err != nil {
		return nil, err
	}
	s.Type = workout.SessionType(sessionType)
	return &s, nil
}

var definitionColumnNames = []string{
	"id", "user_id", "name", "origin", "category", "muscle_group", "equipment", "mode", "created_at",
}

var definitionColumns = strings.Join(definitionColumnNames, ", ")

// qualify prefixes every column with a table alias.
func qualify(alias string, columns []string) string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return strings.Join(out, ", ")
}

func scanDefinition(row rowScanner) (*workout.ExerciseDefinition, error) {
	var d workout.ExerciseDefinition
	var origin, mode string
	if err := row.Scan(
		&d.ID, &d.UserID, &d.Name, &origin, &d.Category, &d.MuscleGroup, &d.Equipment, &mode, &d.CreatedAt,
	); err != nil {
		return nil, err
	}
	m, err := tracking.ParseMode(mode)
	if err != nil {
		return nil, fmt.Errorf("exercise %s: %w", d.ID, err)
	}
	d.Origin = workout.Origin(origin)
	d.Mode = m
	return &d, nil
}

var setColumnNames = []string{
	"id", "session_id", "exercise_id", "user_id", "set_index", "mode",
	"reps", "weight_kg", "duration_seconds", "distance_meters",
	"pr_weight", "pr_reps", "pr_volume", "pr_duration", "pr_distance",
	"warmup", "drop_set", "failure", "rpe", "rest_seconds", "tempo", "note",
	"session_date", "performed_at",
}

var setColumns = strings.Join(setColumnNames, ", ")

func setDest(s *workout.ExerciseSet, mode *string) []any {
	return []any{
		&s.ID, &s.SessionID, &s.ExerciseID, &s.UserID, &s.SetIndex, mode,
		&s.Reps, &s.WeightKg, &s.DurationSeconds, &s.DistanceMeters,
		&s.PR.Weight, &s.PR.Reps, &s.PR.Volume, &s.PR.Duration, &s.PR.Distance,
		&s.Warmup, &s.DropSet, &s.Failure, &s.RPE, &s.RestSeconds, &s.Tempo, &s.Note,
		&s.SessionDate, &s.PerformedAt,
	}
}

func setValues(s workout.ExerciseSet) []any {
	return []any{
		s.ID, s.SessionID, s.ExerciseID, s.UserID, s.SetIndex, s.Mode.String(),
		s.Reps, s.WeightKg, s.DurationSeconds, s.DistanceMeters,
		s.PR.Weight, s.PR.Reps, s.PR.Volume, s.PR.Duration, s.PR.Distance,
		s.Warmup, s.DropSet, s.Failure, s.RPE, s.RestSeconds, s.Tempo, s.Note,
		workout.DateOf(s.SessionDate), s.PerformedAt,
	}
}

func scanSet(row rowScanner) (*workout.ExerciseSet, error) {
	var s workout.ExerciseSet
	var mode string
	if err := row.Scan(setDest(&s, &mode)...); err != nil {
		return nil, err
	}
	m, err := tracking.ParseMode(mode)
	if err != nil {
		return nil, fmt.Errorf("set %s: %w", s.ID, err)
	}
	s.Mode = m
	return &s, nil
}

// recordMetricColumns returns the value, date, set and session columns of m.
func recordMetricColumns(m workout.Metric) []string {
	p := m.String()
	return []string{p + "_value", p + "_on", p + "_set_id", p + "_session_id"}
}

func recordColumnList() []string {
	cols := []string{"user_id", "exercise_id", "mode"}
	for _, m := range workout.AllMetrics() {
		cols = append(cols, recordMetricColumns(m)...)
	}
	return append(cols, "updated_at")
}

type entryDest struct {
	value     *float64
	on        *time.Time
	setID     *string
	sessionID *string
}

func (e *entryDest) dest() []any {
	return []any{&e.value, &e.on, &e.setID, &e.sessionID}
}

func (e *entryDest) entry() *workout.RecordEntry {
	if e.value == nil {
		return nil
	}
	entry := &workout.RecordEntry{Value: *e.value}
	if e.on != nil {
		entry.AchievedOn = *e.on
	}
	if e.setID != nil {
		entry.SetID = *e.setID
	}
	if e.sessionID != nil {
		entry.SessionID = *e.sessionID
	}
	return entry
}

func scanRecord(row rowScanner) (*workout.PersonalRecord, error) {
	var r workout.PersonalRecord
	var mode string
	metrics := workout.AllMetrics()
	entries := make([]entryDest, len(metrics))

	dest := []any{&r.UserID, &r.ExerciseID, &mode}
	for i := range entries {
		dest = append(dest, entries[i].dest()...)
	}
	dest = append(dest, &r.UpdatedAt)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	m, err := tracking.ParseMode(mode)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", r.ExerciseID, err)
	}
	r.Mode = m
	for i, metric := range metrics {
		r.Set(metric, entries[i].entry())
	}
	return &r, nil
}

func recordValues(r workout.PersonalRecord) []any {
	values := []any{r.UserID, r.ExerciseID, r.Mode.String()}
	for _, m := range workout.AllMetrics() {
		e := r.Get(m)
		if e == nil {
			values = append(values, nil, nil, nil, nil)
			continue
		}
		values = append(values, e.Value, workout.DateOf(e.AchievedOn), e.SetID, e.SessionID)
	}
	return append(values, r.UpdatedAt)
}

const historyColumns = `id, user_id, exercise_id, session_id, date, set_count,
	avg_reps, avg_weight_kg, avg_duration_seconds, avg_distance_meters, note, completed_at`

func scanHistory(row rowScanner) (*workout.HistoryEntry, error) {
	var h workout.HistoryEntry
	if err := row.Scan(
		&h.ID, &h.UserID, &h.ExerciseID, &h.SessionID, &h.Date, &h.SetCount,
		&h.AvgReps, &h.AvgWeightKg, &h.AvgDurationSecs, &h.AvgDistanceM, &h.Note, &h.CompletedAt,
	); err != nil {
		return nil, err
	}
	return &h, nil
}

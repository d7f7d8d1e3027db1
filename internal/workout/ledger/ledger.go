package ledger

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/2beens/liftledger/internal/telemetry/tracing"
	"github.com/2beens/liftledger/internal/workout"
	"github.com/2beens/liftledger/internal/workout/tracking"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// ActivityWorkoutLogging is the streak type reported after each logged workout.
const ActivityWorkoutLogging = "workout_logging"

const defaultStreakTimeout = 3 * time.Second

// StreakNotifier receives one notification per successfully logged workout.
type StreakNotifier interface {
	NotifyActivity(ctx context.Context, userID, activity string, date time.Time) error
}

// Invalidator is told about every user whose stored data changed.
type Invalidator interface {
	Invalidate(userID string)
}

type Params struct {
	Store         Store
	Streak        StreakNotifier
	Invalidator   Invalidator
	StreakTimeout time.Duration
	Now           func() time.Time
}

// Ledger owns every write of sessions, sets, records and history.
type Ledger struct {
	store         Store
	streak        StreakNotifier
	invalidator   Invalidator
	streakTimeout time.Duration
	now           func() time.Time
}

func NewLedger(params Params) *Ledger {
	l := &Ledger{
		store:         params.Store,
		streak:        params.Streak,
		invalidator:   params.Invalidator,
		streakTimeout: params.StreakTimeout,
		now:           params.Now,
	}
	if l.streakTimeout <= 0 {
		l.streakTimeout = defaultStreakTimeout
	}
	if l.now == nil {
		l.now = time.Now
	}
	return l
}

type LoggedExercise struct {
	Definition workout.ExerciseDefinition `json:"definition"`
	Sets       []workout.ExerciseSet      `json:"sets"`
	// Record is the personal record after this log.
	Record     *workout.PersonalRecord `json:"record,omitempty"`
	NewRecords []workout.Metric        `json:"newRecords,omitempty"`
}

type LogResult struct {
	Session   workout.Session  `json:"session"`
	Exercises []LoggedExercise `json:"exercises"`
}

// RecordCount returns how many metrics improved across all exercises.
func (r *LogResult) RecordCount() int {
	n := 0
	for _, e := range r.Exercises {
		n += len(e.NewRecords)
	}
	return n
}

// Log writes a whole workout in one transaction: the session, its exercise
// definitions, the sets with their record flags, the improved records and a
// history entry per exercise.
func (l *Ledger) Log(ctx context.Context, in LogInput) (_ *LogResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ledger.log")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	p, err := buildPlan(in, l.now())
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("user", in.UserID),
		attribute.Int("exercises", len(p.exercises)),
	)

	var result *LogResult
	err = l.store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		r, err := l.logTx(ctx, tx, p)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("log workout: %w", err)
	}

	l.invalidate(in.UserID)
	l.notifyStreak(ctx, result.Session)

	return result, nil
}

func (l *Ledger) logTx(ctx context.Context, tx Tx, p *plan) (*LogResult, error) {
	session := p.session
	session.ID = uuid.NewString()
	session.CreatedAt = l.now().UTC()
	session.ExerciseCount = len(p.exercises)

	result := &LogResult{}
	exerciseIDs := make([]string, 0, len(p.exercises))
	for _, pe := range p.exercises {
		def := pe.def
		def.ID = uuid.NewString()
		def.CreatedAt = session.CreatedAt
		stored, err := tx.UpsertDefinition(ctx, def)
		if err != nil {
			return nil, fmt.Errorf("upsert exercise %q: %w", def.Name, err)
		}
		if pe.explicit && stored.Mode != pe.def.Mode {
			return nil, fmt.Errorf("%w: %q is tracked as %s, got %s", ErrModeConflict, stored.Name, stored.Mode, pe.def.Mode)
		}

		sets := make([]workout.ExerciseSet, 0, len(pe.sets))
		for i, in := range pe.sets {
			s := workout.ExerciseSet{
				ID:          uuid.NewString(),
				SessionID:   session.ID,
				ExerciseID:  stored.ID,
				UserID:      session.UserID,
				SetIndex:    i + 1,
				Mode:        stored.Mode,
				Fields:      in.Fields,
				Warmup:      in.Warmup,
				DropSet:     in.DropSet,
				Failure:     in.Failure,
				RPE:         in.RPE,
				RestSeconds: in.RestSeconds,
				Tempo:       in.Tempo,
				Note:        in.Note,
				SessionDate: session.Date,
				PerformedAt: session.StartedAt,
			}
			session.SetCount++
			if s.Reps != nil {
				session.TotalReps += *s.Reps
			}
			session.TotalWork += tracking.Work(s.Mode, s.Fields)
			sets = append(sets, s)
		}

		result.Exercises = append(result.Exercises, LoggedExercise{
			Definition: *stored,
			Sets:       sets,
		})
		exerciseIDs = append(exerciseIDs, stored.ID)
	}

	if err := tx.InsertSession(ctx, session); err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	result.Session = session

	if err := tx.LockExercises(ctx, session.UserID, sortedUnique(exerciseIDs)); err != nil {
		return nil, fmt.Errorf("lock exercises: %w", err)
	}

	for i := range result.Exercises {
		ex := &result.Exercises[i]
		def := ex.Definition

		current, err := tx.GetRecord(ctx, session.UserID, def.ID)
		if err != nil {
			return nil, fmt.Errorf("get record of %q: %w", def.Name, err)
		}

		candidate := Compute(session.UserID, def.ID, def.Mode, ex.Sets)
		staged, improved := Improvements(current, candidate)
		FlagSets(ex.Sets, candidate, improved)

		if err := tx.InsertSets(ctx, ex.Sets); err != nil {
			return nil, fmt.Errorf("insert sets of %q: %w", def.Name, err)
		}

		if staged != nil {
			staged.UpdatedAt = session.CreatedAt
			if err := tx.UpsertRecordIfBetter(ctx, *staged); err != nil {
				return nil, fmt.Errorf("upsert record of %q: %w", def.Name, err)
			}
		}
		ex.Record = MergeBetter(current, staged)
		ex.NewRecords = improved

		entry := summarize(session, def.ID, p.exercises[i].note, ex.Sets)
		if err := tx.InsertHistory(ctx, entry); err != nil {
			return nil, fmt.Errorf("insert history of %q: %w", def.Name, err)
		}
		if err := tx.TrimHistory(ctx, session.UserID, def.ID, workout.HistoryLimit); err != nil {
			return nil, fmt.Errorf("trim history of %q: %w", def.Name, err)
		}
	}

	return result, nil
}

// summarize averages each measurement over the sets that recorded it.
func summarize(session workout.Session, exerciseID, note string, sets []workout.ExerciseSet) workout.HistoryEntry {
	var (
		reps, weight, duration, distance     float64
		nReps, nWeight, nDuration, nDistance int
	)
	for _, s := range sets {
		if s.Reps != nil {
			reps += float64(*s.Reps)
			nReps++
		}
		if s.WeightKg != nil {
			weight += *s.WeightKg
			nWeight++
		}
		if s.DurationSeconds != nil {
			duration += float64(*s.DurationSeconds)
			nDuration++
		}
		if s.DistanceMeters != nil {
			distance += *s.DistanceMeters
			nDistance++
		}
	}

	entry := workout.HistoryEntry{
		ID:          uuid.NewString(),
		UserID:      session.UserID,
		ExerciseID:  exerciseID,
		SessionID:   session.ID,
		Date:        session.Date,
		SetCount:    len(sets),
		Note:        note,
		CompletedAt: session.EndedAt,
	}
	if nReps > 0 {
		entry.AvgReps = tracking.IntPtr(int(math.Round(reps / float64(nReps))))
	}
	if nWeight > 0 {
		entry.AvgWeightKg = tracking.FloatPtr(weight / float64(nWeight))
	}
	if nDuration > 0 {
		entry.AvgDurationSecs = tracking.FloatPtr(duration / float64(nDuration))
	}
	if nDistance > 0 {
		entry.AvgDistanceM = tracking.FloatPtr(distance / float64(nDistance))
	}
	return entry
}

func (l *Ledger) invalidate(userID string) {
	if l.invalidator != nil {
		l.invalidator.Invalidate(userID)
	}
}

// notifyStreak never fails the caller; the workout is already committed.
func (l *Ledger) notifyStreak(ctx context.Context, session workout.Session) {
	if l.streak == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.streakTimeout)
	defer cancel()

	if err := l.streak.NotifyActivity(ctx, session.UserID, ActivityWorkoutLogging, session.Date); err != nil {
		log.Errorf("ledger: notify streak for user [%s], session [%s]: %s", session.UserID, session.ID, err)
	}
}

func sortedUnique(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

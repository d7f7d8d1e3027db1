package display

import (
	"context"
	"errors"
	"time"

	"github.com/2beens/liftledger/internal/workout"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrAggregateUnsupported is returned by readers that cannot compute
	// range statistics server side.
	ErrAggregateUnsupported = errors.New("range aggregate not supported")
)

// SessionQuery selects completed sessions of one user, newest first.
// Date bounds are inclusive; an empty Type matches every type.
type SessionQuery struct {
	From   *time.Time
	To     *time.Time
	Type   workout.SessionType
	Limit  int
	Offset int
}

// SetRow is a set joined with the definition of its exercise.
type SetRow struct {
	workout.ExerciseSet
	Exercise workout.ExerciseDefinition
}

// Reader is the batch read contract of the display service. Each method is a
// single round trip to the store.
type Reader interface {
	// ListSessions returns one page and the number of sessions matching q.
	// Sessions are ordered by date, start time and id, all descending.
	ListSessions(ctx context.Context, userID string, q SessionQuery) ([]workout.Session, int, error)
	GetSession(ctx context.Context, userID, sessionID string) (*workout.Session, error)
	// SetsForSessions returns sets ordered by session, exercise and index.
	SetsForSessions(ctx context.Context, userID string, sessionIDs []string) ([]SetRow, error)
	RecordsFor(ctx context.Context, userID string, exerciseIDs []string) ([]workout.PersonalRecord, error)
	// HistoryFor returns at most perExercise newest entries of every exercise.
	HistoryFor(ctx context.Context, userID string, exerciseIDs []string, perExercise int) ([]workout.HistoryEntry, error)
	RangeStats(ctx context.Context, userID string, from, to *time.Time) (*Stats, error)
}

// Stats summarizes the completed sessions of a date range.
type Stats struct {
	TotalWorkouts  int     `json:"totalWorkouts"`
	TotalExercises int     `json:"totalExercises"`
	TotalSets      int     `json:"totalSets"`
	TotalReps      int     `json:"totalReps"`
	TotalWork      float64 `json:"totalWork"`
	TotalCalories  int     `json:"totalCalories"`
	TotalMinutes   int     `json:"totalMinutes"`
	PRCount        int     `json:"prCount"`
	// Truncated is set when the fallback path hit its row cap.
	Truncated      bool    `json:"truncated,omitempty"`
}

package ledger

import (
	"context"

	"github.com/2beens/liftledger/internal/workout"
)

// Store runs a unit of work. Everything done through tx is committed when fn
// returns nil and rolled back otherwise.
type Store interface {
	InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx is the set of writes and reads the ledger needs inside one transaction.
// Getters return a nil value and a nil error when nothing matches.
type Tx interface {
	// LockExercises serializes writers of the given (user, exercise) pairs
	// until the transaction ends. Callers pass ids in sorted order.
	LockExercises(ctx context.Context, userID string, exerciseIDs []string) error

	// UpsertDefinition creates def keyed by (user, name, origin) or returns
	// the already stored definition unchanged.
	UpsertDefinition(ctx context.Context, def workout.ExerciseDefinition) (*workout.ExerciseDefinition, error)
	GetDefinition(ctx context.Context, userID, exerciseID string) (*workout.ExerciseDefinition, error)

	InsertSession(ctx context.Context, session workout.Session) error
	// DeleteSession removes the session with its sets and history entries.
	DeleteSession(ctx context.Context, userID, sessionID string) (bool, error)

	InsertSets(ctx context.Context, sets []workout.ExerciseSet) error
	GetSet(ctx context.Context, userID, setID string) (*workout.ExerciseSet, error)
	ListSessionSets(ctx context.Context, userID, sessionID string) ([]workout.ExerciseSet, error)
	ListExerciseSets(ctx context.Context, userID, exerciseID string) ([]workout.ExerciseSet, error)
	DeleteSets(ctx context.Context, userID string, setIDs []string) (int, error)
	UpdateSetFlags(ctx context.Context, setID string, flags workout.PRFlags) error

	GetRecord(ctx context.Context, userID, exerciseID string) (*workout.PersonalRecord, error)
	// UpsertRecordIfBetter writes each metric of rec only where it beats
	// the stored value, so the stored record never regresses.
	UpsertRecordIfBetter(ctx context.Context, rec workout.PersonalRecord) error
	// ReplaceRecord overwrites the stored record unconditionally.
	ReplaceRecord(ctx context.Context, rec workout.PersonalRecord) error
	DeleteRecord(ctx context.Context, userID, exerciseID string) error

	InsertHistory(ctx context.Context, entry workout.HistoryEntry) error
	DeleteHistory(ctx context.Context, userID, sessionID, exerciseID string) error
	// TrimHistory keeps the newest keep entries of an exercise.
	TrimHistory(ctx context.Context, userID, exerciseID string, keep int) error
}

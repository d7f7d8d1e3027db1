// Package memstore keeps the whole ledger in process memory. It serves tests,
// embedding and dry runs of the maintenance CLI.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/2beens/liftledger/internal/workout"
	"github.com/2beens/liftledger/internal/workout/ledger"
)

type state struct {
	sessions    map[string]workout.Session
	definitions map[string]workout.ExerciseDefinition
	sets        map[string]workout.ExerciseSet
	records     map[string]workout.PersonalRecord
	history     map[string]workout.HistoryEntry
}

func newState() *state {
	return &state{
		sessions:    map[string]workout.Session{},
		definitions: map[string]workout.ExerciseDefinition{},
		sets:        map[string]workout.ExerciseSet{},
		records:     map[string]workout.PersonalRecord{},
		history:     map[string]workout.HistoryEntry{},
	}
}

// clone copies the maps. Stored values are replaced, never mutated in place,
// so sharing their pointer fields is safe.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.sessions {
		c.sessions[k] = v
	}
	for k, v := range s.definitions {
		c.definitions[k] = v
	}
	for k, v := range s.sets {
		c.sets[k] = v
	}
	for k, v := range s.records {
		c.records[k] = v
	}
	for k, v := range s.history {
		c.history[k] = v
	}
	return c
}

// Store implements ledger.Store and display.Reader. Transactions run one at a
// time on a copy of the data that replaces the original on commit.
type Store struct {
	mu       sync.Mutex
	data     *state
	failures map[string]error
	locked   [][]string
}

func New() *Store {
	return &Store{
		data:     newState(),
		failures: map[string]error{},
	}
}

// FailOn makes the named Tx method return err until cleared with a nil err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// LockCalls returns the exercise ids passed to every LockExercises call.
func (s *Store) LockCalls() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.locked))
	copy(out, s.locked)
	return out
}

func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, tx ledger.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &tx{store: s, data: s.data.clone()}
	if err := fn(ctx, t); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.data = t.data
	return nil
}

func recordKey(userID, exerciseID string) string {
	return userID + "\x00" + exerciseID
}

func sortSets(sets []workout.ExerciseSet) {
	sort.Slice(sets, func(i, j int) bool {
		return sets[i].Before(sets[j])
	})
}

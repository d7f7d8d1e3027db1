package memstore

import (
	"context"
	"sort"

	"github.com/2beens/liftledger/internal/workout"
	"github.com/2beens/liftledger/internal/workout/ledger"
)

type tx struct {
	store *Store
	data  *state
}

func (t *tx) fail(op string) error {
	return t.store.failures[op]
}

func (t *tx) LockExercises(_ context.Context, _ string, exerciseIDs []string) error {
	if err := t.fail("LockExercises"); err != nil {
		return err
	}
	ids := make([]string, len(exerciseIDs))
	copy(ids, exerciseIDs)
	t.store.locked = append(t.store.locked, ids)
	return nil
}

func (t *tx) UpsertDefinition(_ context.Context, def workout.ExerciseDefinition) (*workout.ExerciseDefinition, error) {
	if err := t.fail("UpsertDefinition"); err != nil {
		return nil, err
	}
	for _, d := range t.data.definitions {
		if d.UserID == def.UserID && d.Name == def.Name && d.Origin == def.Origin {
			return &d, nil
		}
	}
	t.data.definitions[def.ID] = def
	return &def, nil
}

func (t *tx) GetDefinition(_ context.Context, userID, exerciseID string) (*workout.ExerciseDefinition, error) {
	if err := t.fail("GetDefinition"); err != nil {
		return nil, err
	}
	d, ok := t.data.definitions[exerciseID]
	if !ok || d.UserID != userID {
		return nil, nil
	}
	return &d, nil
}

func (t *tx) InsertSession(_ context.Context, session workout.Session) error {
	if err := t.fail("InsertSession"); err != nil {
		return err
	}
	t.data.sessions[session.ID] = session
	return nil
}

func (t *tx) DeleteSession(_ context.Context, userID, sessionID string) (bool, error) {
	if err := t.fail("DeleteSession"); err != nil {
		return false, err
	}
	s, ok := t.data.sessions[sessionID]
	if !ok || s.UserID != userID {
		return false, nil
	}
	delete(t.data.sessions, sessionID)
	for id, set := range t.data.sets {
		if set.SessionID == sessionID {
			delete(t.data.sets, id)
		}
	}
	for id, h := range t.data.history {
		if h.SessionID == sessionID {
			delete(t.data.history, id)
		}
	}
	return true, nil
}

func (t *tx) InsertSets(_ context.Context, sets []workout.ExerciseSet) error {
	if err := t.fail("InsertSets"); err != nil {
		return err
	}
	for _, s := range sets {
		t.data.sets[s.ID] = s
	}
	return nil
}

func (t *tx) GetSet(_ context.Context, userID, setID string) (*workout.ExerciseSet, error) {
	if err := t.fail("GetSet"); err != nil {
		return nil, err
	}
	s, ok := t.data.sets[setID]
	if !ok || s.UserID != userID {
		return nil, nil
	}
	return &s, nil
}

func (t *tx) ListSessionSets(_ context.Context, userID, sessionID string) ([]workout.ExerciseSet, error) {
	if err := t.fail("ListSessionSets"); err != nil {
		return nil, err
	}
	var out []workout.ExerciseSet
	for _, s := range t.data.sets {
		if s.UserID == userID && s.SessionID == sessionID {
			out = append(out, s)
		}
	}
	sortSets(out)
	return out, nil
}

func (t *tx) ListExerciseSets(_ context.Context, userID, exerciseID string) ([]workout.ExerciseSet, error) {
	if err := t.fail("ListExerciseSets"); err != nil {
		return nil, err
	}
	var out []workout.ExerciseSet
	for _, s := range t.data.sets {
		if s.UserID == userID && s.ExerciseID == exerciseID {
			out = append(out, s)
		}
	}
	sortSets(out)
	return out, nil
}

func (t *tx) DeleteSets(_ context.Context, userID string, setIDs []string) (int, error) {
	if err := t.fail("DeleteSets"); err != nil {
		return 0, err
	}
	n := 0
	for _, id := range setIDs {
		if s, ok := t.data.sets[id]; ok && s.UserID == userID {
			delete(t.data.sets, id)
			n++
		}
	}
	return n, nil
}

func (t *tx) UpdateSetFlags(_ context.Context, setID string, flags workout.PRFlags) error {
	if err := t.fail("UpdateSetFlags"); err != nil {
		return err
	}
	s, ok := t.data.sets[setID]
	if !ok {
		return nil
	}
	s.PR = flags
	t.data.sets[setID] = s
	return nil
}

func (t *tx) GetRecord(_ context.Context, userID, exerciseID string) (*workout.PersonalRecord, error) {
	if err := t.fail("GetRecord"); err != nil {
		return nil, err
	}
	r, ok := t.data.records[recordKey(userID, exerciseID)]
	if !ok {
		return nil, nil
	}
	return r.Clone(), nil
}

func (t *tx) UpsertRecordIfBetter(_ context.Context, rec workout.PersonalRecord) error {
	if err := t.fail("UpsertRecordIfBetter"); err != nil {
		return err
	}
	key := recordKey(rec.UserID, rec.ExerciseID)
	var current *workout.PersonalRecord
	if r, ok := t.data.records[key]; ok {
		current = &r
	}
	merged := ledger.MergeBetter(current, &rec)
	merged.UpdatedAt = rec.UpdatedAt
	t.data.records[key] = *merged
	return nil
}

func (t *tx) ReplaceRecord(_ context.Context, rec workout.PersonalRecord) error {
	if err := t.fail("ReplaceRecord"); err != nil {
		return err
	}
	t.data.records[recordKey(rec.UserID, rec.ExerciseID)] = *rec.Clone()
	return nil
}

func (t *tx) DeleteRecord(_ context.Context, userID, exerciseID string) error {
	if err := t.fail("DeleteRecord"); err != nil {
		return err
	}
	delete(t.data.records, recordKey(userID, exerciseID))
	return nil
}

func (t *tx) InsertHistory(_ context.Context, entry workout.HistoryEntry) error {
	if err := t.fail("InsertHistory"); err != nil {
		return err
	}
	t.data.history[entry.ID] = entry
	return nil
}

func (t *tx) DeleteHistory(_ context.Context, userID, sessionID, exerciseID string) error {
	if err := t.fail("DeleteHistory"); err != nil {
		return err
	}
	for id, h := range t.data.history {
		if h.UserID == userID && h.SessionID == sessionID && h.ExerciseID == exerciseID {
			delete(t.data.history, id)
		}
	}
	return nil
}

func (t *tx) TrimHistory(_ context.Context, userID, exerciseID string, keep int) error {
	if err := t.fail("TrimHistory"); err != nil {
		return err
	}
	entries := historyOf(t.data, userID, exerciseID)
	for i := keep; i < len(entries); i++ {
		delete(t.data.history, entries[i].ID)
	}
	return nil
}

// historyOf returns the entries of one exercise, newest first.
func historyOf(data *state, userID, exerciseID string) []workout.HistoryEntry {
	var entries []workout.HistoryEntry
	for _, h := range data.history {
		if h.UserID == userID && h.ExerciseID == exerciseID {
			entries = append(entries, h)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CompletedAt.Equal(b.CompletedAt) {
			return a.CompletedAt.After(b.CompletedAt)
		}
		return a.ID > b.ID
	})
	return entries
}

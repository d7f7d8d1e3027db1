package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/2beens/liftledger/internal/workout"
	"github.com/2beens/liftledger/internal/workout/display"
	"github.com/2beens/liftledger/internal/workout/ledger"
)

var (
	_ ledger.Store   = (*Store)(nil)
	_ ledger.Tx      = (*tx)(nil)
	_ display.Reader = (*Store)(nil)
)

func inRange(date time.Time, from, to *time.Time) bool {
	if from != nil && date.Before(workout.DateOf(*from)) {
		return false
	}
	if to != nil && date.After(workout.DateOf(*to)) {
		return false
	}
	return true
}

func (s *Store) ListSessions(_ context.Context, userID string, q display.SessionQuery) ([]workout.Session, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matching []workout.Session
	for _, session := range s.data.sessions {
		if session.UserID != userID || session.Status != workout.StatusCompleted {
			continue
		}
		if q.Type != "" && session.Type != q.Type {
			continue
		}
		if !inRange(session.Date, q.From, q.To) {
			continue
		}
		matching = append(matching, session)
	}
	sort.Slice(matching, func(i, j int) bool {
		a, b := matching[i], matching[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.StartedAt.Equal(b.StartedAt) {
			return a.StartedAt.After(b.StartedAt)
		}
		return a.ID > b.ID
	})

	total := len(matching)
	if q.Offset >= total {
		return []workout.Session{}, total, nil
	}
	end := total
	if q.Limit > 0 && q.Offset+q.Limit < total {
		end = q.Offset + q.Limit
	}
	return matching[q.Offset:end], total, nil
}

func (s *Store) GetSession(_ context.Context, userID, sessionID string) (*workout.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.data.sessions[sessionID]
	if !ok || session.UserID != userID {
		return nil, nil
	}
	return &session, nil
}

func (s *Store) SetsForSessions(_ context.Context, userID string, sessionIDs []string) ([]display.SetRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[string]bool, len(sessionIDs))
	for _, id := range sessionIDs {
		wanted[id] = true
	}

	var rows []display.SetRow
	for _, set := range s.data.sets {
		if set.UserID != userID || !wanted[set.SessionID] {
			continue
		}
		rows = append(rows, display.SetRow{
			ExerciseSet: set,
			Exercise:    s.data.definitions[set.ExerciseID],
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.SessionID != b.SessionID {
			return a.SessionID < b.SessionID
		}
		if a.ExerciseID != b.ExerciseID {
			return a.ExerciseID < b.ExerciseID
		}
		return a.SetIndex < b.SetIndex
	})
	return rows, nil
}

func (s *Store) RecordsFor(_ context.Context, userID string, exerciseIDs []string) ([]workout.PersonalRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []workout.PersonalRecord
	for _, id := range exerciseIDs {
		if r, ok := s.data.records[recordKey(userID, id)]; ok {
			out = append(out, *r.Clone())
		}
	}
	return out, nil
}

func (s *Store) HistoryFor(_ context.Context, userID string, exerciseIDs []string, perExercise int) ([]workout.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []workout.HistoryEntry
	for _, id := range exerciseIDs {
		entries := historyOf(s.data, userID, id)
		if len(entries) > perExercise {
			entries = entries[:perExercise]
		}
		out = append(out, entries...)
	}
	return out, nil
}

// RangeStats is not supported; the display service falls back to assembling
// pages.
func (s *Store) RangeStats(context.Context, string, *time.Time, *time.Time) (*display.Stats, error) {
	return nil, display.ErrAggregateUnsupported
}

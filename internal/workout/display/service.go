package display

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/2beens/liftledger/internal/cache"
	"github.com/2beens/liftledger/internal/telemetry/tracing"
	"github.com/2beens/liftledger/internal/workout"
	"github.com/2beens/liftledger/internal/workout/tracking"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxFallbackSessions caps the sessions scanned when range stats are
	// assembled page by page. The fallback is O(n) in the range size.
	MaxFallbackSessions = 1000

	defaultStatsTTL = 5 * time.Minute
)

type Service struct {
	reader   Reader
	cache    cache.Cache
	statsTTL time.Duration
	genSeq   atomic.Uint64
}

type ServiceParams struct {
	Reader Reader
	// Cache holds range stats; nil disables caching.
	Cache    cache.Cache
	StatsTTL time.Duration
}

func NewService(params ServiceParams) *Service {
	s := &Service{
		reader:   params.Reader,
		cache:    params.Cache,
		statsTTL: params.StatsTTL,
	}
	if s.statsTTL <= 0 {
		s.statsTTL = defaultStatsTTL
	}
	return s
}

func normalize(f Filter) (SessionQuery, error) {
	q := SessionQuery{
		From:   f.From,
		To:     f.To,
		Limit:  f.Limit,
		Offset: f.Offset,
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	if t := strings.TrimSpace(f.WorkoutType); t != "" && !strings.EqualFold(t, "all") {
		st, err := workout.ParseSessionType(t)
		if err != nil {
			return SessionQuery{}, err
		}
		q.Type = st
	}
	return q, nil
}

// Workouts returns one page of assembled sessions using a constant number of
// reads: the page, its sets, their records and their history.
func (s *Service) Workouts(ctx context.Context, userID string, f Filter) (_ *Page, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "display.workouts")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	q, err := normalize(f)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("user", userID),
		attribute.Int("limit", q.Limit),
		attribute.Int("offset", q.Offset),
	)

	sessions, total, err := s.reader.ListSessions(ctx, userID, q)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	views, err := s.assemble(ctx, userID, sessions)
	if err != nil {
		return nil, err
	}

	if f.PROnly {
		filtered := views[:0]
		for _, v := range views {
			if v.HasPR {
				filtered = append(filtered, v)
			}
		}
		views = filtered
	}

	return &Page{
		Sessions: views,
		HasMore:  total > q.Offset+q.Limit,
		Total:    total,
	}, nil
}

// Details assembles a single session, or returns ErrNotFound.
func (s *Service) Details(ctx context.Context, userID, sessionID string) (_ *SessionView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "display.details")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	session, err := s.reader.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return nil, ErrNotFound
	}

	views, err := s.assemble(ctx, userID, []workout.Session{*session})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Record returns the current personal record of one exercise.
func (s *Service) Record(ctx context.Context, userID, exerciseID string) (_ *workout.PersonalRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "display.record")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	records, err := s.reader.RecordsFor(ctx, userID, []string{exerciseID})
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return &records[0], nil
}

func (s *Service) assemble(ctx context.Context, userID string, sessions []workout.Session) ([]SessionView, error) {
	views := make([]SessionView, 0, len(sessions))
	if len(sessions) == 0 {
		return views, nil
	}

	sessionIDs := make([]string, len(sessions))
	for i, session := range sessions {
		sessionIDs[i] = session.ID
	}

	rows, err := s.reader.SetsForSessions(ctx, userID, sessionIDs)
	if err != nil {
		return nil, fmt.Errorf("sets for sessions: %w", err)
	}

	var exerciseIDs []string
	seen := map[string]bool{}
	setsBySession := map[string][]SetRow{}
	for _, row := range rows {
		setsBySession[row.SessionID] = append(setsBySession[row.SessionID], row)
		if !seen[row.ExerciseID] {
			seen[row.ExerciseID] = true
			exerciseIDs = append(exerciseIDs, row.ExerciseID)
		}
	}

	recordByExercise := map[string]*workout.PersonalRecord{}
	historyByExercise := map[string][]workout.HistoryEntry{}
	if len(exerciseIDs) > 0 {
		records, err := s.reader.RecordsFor(ctx, userID, exerciseIDs)
		if err != nil {
			return nil, fmt.Errorf("records for exercises: %w", err)
		}
		for i := range records {
			recordByExercise[records[i].ExerciseID] = &records[i]
		}

		history, err := s.reader.HistoryFor(ctx, userID, exerciseIDs, workout.HistoryLimit)
		if err != nil {
			return nil, fmt.Errorf("history for exercises: %w", err)
		}
		for _, h := range history {
			historyByExercise[h.ExerciseID] = append(historyByExercise[h.ExerciseID], h)
		}
	}

	for _, session := range sessions {
		view := SessionView{Session: session, Exercises: []ExerciseView{}}

		exerciseIndex := map[string]int{}
		for _, row := range setsBySession[session.ID] {
			idx, ok := exerciseIndex[row.ExerciseID]
			if !ok {
				idx = len(view.Exercises)
				exerciseIndex[row.ExerciseID] = idx
				history := historyByExercise[row.ExerciseID]
				if history == nil {
					history = []workout.HistoryEntry{}
				}
				view.Exercises = append(view.Exercises, ExerciseView{
					ID:             row.Exercise.ID,
					Name:           row.Exercise.Name,
					Category:       row.Exercise.Category,
					MuscleGroup:    row.Exercise.MuscleGroup,
					Origin:         row.Exercise.Origin,
					Mode:           row.Mode,
					PersonalRecord: recordByExercise[row.ExerciseID],
					RecentHistory:  history,
				})
			}

			work := tracking.Work(row.Mode, row.Fields)
			view.CurrentWork += work
			view.HasPR = view.HasPR || row.PR.Any()
			view.Exercises[idx].Sets = append(view.Exercises[idx].Sets, SetView{
				ExerciseSet: row.ExerciseSet,
				Display:     tracking.FormatSet(row.Mode, row.Fields),
				Work:        work,
			})
		}
		views = append(views, view)
	}

	return views, nil
}

// Stats summarizes a date range. Readers without a server side aggregate
// are served by assembling pages, capped at MaxFallbackSessions.
func (s *Service) Stats(ctx context.Context, userID string, from, to *time.Time) (_ *Stats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "display.stats")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	key := s.statsKey(userID, from, to)
	if cached, ok := s.cachedStats(key); ok {
		span.SetAttributes(attribute.Bool("cached", true))
		return cached, nil
	}

	stats, err := s.reader.RangeStats(ctx, userID, from, to)
	if errors.Is(err, ErrAggregateUnsupported) {
		log.Tracef("display: range stats unsupported by reader, falling back to page assembly")
		stats, err = s.fallbackStats(ctx, userID, from, to)
	}
	if err != nil {
		return nil, fmt.Errorf("range stats: %w", err)
	}

	s.storeStats(key, stats)
	return stats, nil
}

func (s *Service) fallbackStats(ctx context.Context, userID string, from, to *time.Time) (*Stats, error) {
	stats := &Stats{}
	for offset := 0; offset < MaxFallbackSessions; offset += MaxLimit {
		page, err := s.Workouts(ctx, userID, Filter{
			From:   from,
			To:     to,
			Limit:  min(MaxLimit, MaxFallbackSessions-offset),
			Offset: offset,
		})
		if err != nil {
			return nil, err
		}

		for _, v := range page.Sessions {
			stats.TotalWorkouts++
			stats.TotalExercises += v.ExerciseCount
			stats.TotalSets += v.SetCount
			stats.TotalReps += v.TotalReps
			stats.TotalWork += v.TotalWork
			stats.TotalCalories += v.Calories
			stats.TotalMinutes += v.DurationMinutes
			for _, ex := range v.Exercises {
				for _, set := range ex.Sets {
					if set.PR.Any() {
						stats.PRCount++
					}
				}
			}
		}

		if !page.HasMore {
			return stats, nil
		}
	}

	stats.Truncated = true
	log.Warnf("display: range stats for user [%s] truncated at %d sessions", userID, MaxFallbackSessions)
	return stats, nil
}

func generationKey(userID string) []byte {
	return []byte("stats-gen::" + userID)
}

// statsKey embeds the user's current generation, so Invalidate retires every
// cached range of that user at once. A missing generation, never set or
// evicted, is replaced by a fresh one, so entries of an earlier generation
// stay unreachable. A nil key disables caching for the call.
func (s *Service) statsKey(userID string, from, to *time.Time) []byte {
	if s.cache == nil {
		return nil
	}
	gen, err := s.cache.Get(generationKey(userID))
	if err != nil {
		if gen, err = s.bumpGeneration(userID); err != nil {
			log.Errorf("display: seed stats generation of user [%s]: %s", userID, err)
			return nil
		}
	}
	return []byte(fmt.Sprintf("stats::%s::%s::%s::%s", userID, gen, dateKey(from), dateKey(to)))
}

func (s *Service) bumpGeneration(userID string) ([]byte, error) {
	gen := []byte(fmt.Sprintf("%d-%d", time.Now().UnixNano(), s.genSeq.Add(1)))
	if err := s.cache.Set(generationKey(userID), gen, 0); err != nil {
		return nil, err
	}
	return gen, nil
}

func dateKey(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return workout.DateOf(*t).Format(time.DateOnly)
}

func (s *Service) cachedStats(key []byte) (*Stats, bool) {
	if s.cache == nil || key == nil {
		return nil, false
	}
	b, err := s.cache.Get(key)
	if err != nil {
		return nil, false
	}
	var stats Stats
	if err := json.Unmarshal(b, &stats); err != nil {
		log.Errorf("display: unmarshal cached stats: %s", err)
		return nil, false
	}
	return &stats, true
}

func (s *Service) storeStats(key []byte, stats *Stats) {
	if s.cache == nil || key == nil {
		return
	}
	b, err := json.Marshal(stats)
	if err != nil {
		log.Errorf("display: marshal stats: %s", err)
		return
	}
	if err := s.cache.Set(key, b, int(s.statsTTL.Seconds())); err != nil {
		log.Errorf("display: cache stats: %s", err)
	}
}

// Invalidate drops every cached stats entry of the user.
func (s *Service) Invalidate(userID string) {
	if s.cache == nil {
		return
	}
	if _, err := s.bumpGeneration(userID); err != nil {
		log.Errorf("display: invalidate stats of user [%s]: %s", userID, err)
	}
}

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/2beens/liftledger/internal/middleware"
	"github.com/2beens/liftledger/internal/telemetry/metrics"
	"github.com/2beens/liftledger/internal/workout"
	"github.com/2beens/liftledger/internal/workout/api"
	"github.com/2beens/liftledger/internal/workout/display"
	"github.com/2beens/liftledger/internal/workout/ledger"
	"github.com/2beens/liftledger/internal/workout/streak"
	"github.com/2beens/liftledger/internal/workout/tracking"

	"github.com/go-redis/redis_rate/v9"
	"github.com/golang/mock/gomock"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type handlerFixture struct {
	ledgerMock  *MockworkoutLedger
	displayMock *MockworkoutDisplay
	streakMock  *MockstreakReader
	metrics     *metrics.Manager
	router      *mux.Router
}

func newHandlerFixture(t *testing.T, rateLimiter middleware.RequestRateLimiter) *handlerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &handlerFixture{
		ledgerMock:  NewMockworkoutLedger(ctrl),
		displayMock: NewMockworkoutDisplay(ctrl),
		streakMock:  NewMockstreakReader(ctrl),
		metrics:     metrics.NewTestManager(),
		router:      mux.NewRouter(),
	}
	handler := api.NewHandler(f.ledgerMock, f.displayMock, f.streakMock, f.metrics)
	f.router.Use(middleware.NewUserMiddlewareHandler().RequireUser())
	handler.SetupRoutes(f.router, rateLimiter, 10)
	return f
}

func (f *handlerFixture) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set(middleware.UserIDHeader, "user-1")
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

const benchBody = `{
	"date": "2024-05-10",
	"name": "Push day",
	"type": "strength",
	"exercises": [{
		"name": "Bench Press",
		"mode": "weight-reps",
		"sets": [{"reps": 8, "weightKg": 60}, {"reps": 6, "weightKg": 70}, {"reps": 5, "weightKg": 70}]
	}]
}`

func TestHandleLog(t *testing.T) {
	f := newHandlerFixture(t, nil)

	f.ledgerMock.EXPECT().
		Log(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, in ledger.LogInput) (*ledger.LogResult, error) {
			assert.Equal(t, "user-1", in.UserID)
			assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), in.Date)
			assert.Equal(t, "Push day", in.Name)
			require.Len(t, in.Exercises, 1)
			assert.Len(t, in.Exercises[0].Sets, 3)
			return &ledger.LogResult{
				Session: workout.Session{ID: "session-1", UserID: in.UserID, SetCount: 3},
				Exercises: []ledger.LoggedExercise{{
					Definition: workout.ExerciseDefinition{ID: "bench", Name: "Bench Press", Mode: tracking.WeightReps},
					NewRecords: []workout.Metric{workout.MetricWeight, workout.MetricVolume},
				}},
			}, nil
		}).
		Times(1)

	rr := f.do(http.MethodPost, "/workouts", benchBody)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var res struct {
		Session   workout.Session `json:"session"`
		Exercises []struct {
			NewRecords []string `json:"newRecords"`
		} `json:"exercises"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, "session-1", res.Session.ID)
	require.Len(t, res.Exercises, 1)
	assert.Equal(t, []string{"weight", "volume"}, res.Exercises[0].NewRecords)

	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.CounterWorkoutsLogged))
	assert.Equal(t, float64(3), testutil.ToFloat64(f.metrics.CounterSetsLogged))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.CounterRecordsSet.WithLabelValues("weight")))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.CounterRecordsSet.WithLabelValues("volume")))
	assert.Equal(t, float64(0), testutil.ToFloat64(f.metrics.CounterRecordsSet.WithLabelValues("reps")))
}

func TestHandleLog_Errors(t *testing.T) {
	testCases := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"Validation", fmt.Errorf("%w: set 1 has no values", ledger.ErrValidation), http.StatusBadRequest},
		{"UnknownMode", fmt.Errorf("%w: \"yoga\"", tracking.ErrUnknownMode), http.StatusBadRequest},
		{"UnknownType", fmt.Errorf("%w: \"dance\"", workout.ErrUnknownSessionType), http.StatusBadRequest},
		{"ModeConflict", fmt.Errorf("%w: bench", ledger.ErrModeConflict), http.StatusConflict},
		{"Internal", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newHandlerFixture(t, nil)
			f.ledgerMock.EXPECT().Log(gomock.Any(), gomock.Any()).Return(nil, tc.err).Times(1)

			rr := f.do(http.MethodPost, "/workouts", benchBody)
			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedStatus == http.StatusInternalServerError {
				assert.NotContains(t, rr.Body.String(), "connection reset")
			}
			assert.Equal(t, float64(0), testutil.ToFloat64(f.metrics.CounterWorkoutsLogged))
		})
	}
}

func TestHandleLog_BadRequests(t *testing.T) {
	f := newHandlerFixture(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/workouts", strings.NewReader(benchBody))
	req.Header.Set(middleware.UserIDHeader, "user-1")
	req.Header.Set("Content-Type", "text/plain")
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = f.do(http.MethodPost, "/workouts", `{"exercises": [`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = f.do(http.MethodPost, "/workouts", `{"date": "10.05.2024", "exercises": []}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleLog_MissingUser(t *testing.T) {
	f := newHandlerFixture(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/workouts", strings.NewReader(benchBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

type exhaustedLimiter struct {
	keys   []string
	limits []redis_rate.Limit
}

func (l *exhaustedLimiter) Allow(_ context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error) {
	l.keys = append(l.keys, key)
	l.limits = append(l.limits, limit)
	return &redis_rate.Result{Allowed: 0, RetryAfter: 2 * time.Second}, nil
}

func TestHandleLog_RateLimited(t *testing.T) {
	limiter := &exhaustedLimiter{}
	f := newHandlerFixture(t, limiter)
	rr := f.do(http.MethodPost, "/workouts", benchBody)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, []string{"rate::log-workout::user-1"}, limiter.keys)
	assert.Equal(t, []redis_rate.Limit{redis_rate.PerMinute(10)}, limiter.limits)
	assert.Equal(t, "2", rr.Header().Get("Retry-After"))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.CounterRateLimitedRequests))

	// the limiter only guards logging
	f.displayMock.EXPECT().Workouts(gomock.Any(), "user-1", gomock.Any()).Return(&display.Page{}, nil).Times(1)
	rr = f.do(http.MethodGet, "/workouts", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestHandleList(t *testing.T) {
	f := newHandlerFixture(t, nil)

	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)
	f.displayMock.EXPECT().
		Workouts(gomock.Any(), "user-1", display.Filter{
			From:        &from,
			To:          &to,
			WorkoutType: "strength",
			Limit:       5,
			Offset:      10,
			PROnly:      true,
		}).
		Return(&display.Page{
			Sessions: []display.SessionView{{Session: workout.Session{ID: "session-1"}}},
			HasMore:  true,
			Total:    16,
		}, nil).
		Times(1)

	rr := f.do(http.MethodGet, "/workouts?from=2024-05-01&to=2024-05-31&type=strength&limit=5&offset=10&prOnly=true", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var page display.Page
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &page))
	assert.True(t, page.HasMore)
	assert.Equal(t, 16, page.Total)
	require.Len(t, page.Sessions, 1)
	assert.Equal(t, "session-1", page.Sessions[0].Session.ID)
}

func TestHandleList_InvalidQuery(t *testing.T) {
	f := newHandlerFixture(t, nil)

	for _, target := range []string{
		"/workouts?from=yesterday",
		"/workouts?from=2024-05-31&to=2024-05-01",
		"/workouts?limit=ten",
		"/workouts?offset=-x",
	} {
		rr := f.do(http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code, target)
	}
}

func TestHandleStats(t *testing.T) {
	f := newHandlerFixture(t, nil)

	f.displayMock.EXPECT().
		Stats(gomock.Any(), "user-1", gomock.Nil(), gomock.Nil()).
		Return(&display.Stats{TotalWorkouts: 4, PRCount: 2}, nil).
		Times(1)

	rr := f.do(http.MethodGet, "/workouts/stats", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var stats display.Stats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, 4, stats.TotalWorkouts)
	assert.Equal(t, 2, stats.PRCount)
}

func TestHandleDetails(t *testing.T) {
	f := newHandlerFixture(t, nil)

	f.displayMock.EXPECT().
		Details(gomock.Any(), "user-1", "session-1").
		Return(&display.SessionView{Session: workout.Session{ID: "session-1"}, HasPR: true}, nil).
		Times(1)
	f.displayMock.EXPECT().
		Details(gomock.Any(), "user-1", "missing").
		Return(nil, display.ErrNotFound).
		Times(1)

	rr := f.do(http.MethodGet, "/workouts/session-1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var view display.SessionView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.True(t, view.HasPR)

	rr = f.do(http.MethodGet, "/workouts/missing", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleRecord(t *testing.T) {
	f := newHandlerFixture(t, nil)

	f.displayMock.EXPECT().
		Record(gomock.Any(), "user-1", "bench").
		Return(&workout.PersonalRecord{UserID: "user-1", ExerciseID: "bench", Mode: tracking.WeightReps}, nil).
		Times(1)

	rr := f.do(http.MethodGet, "/exercises/bench/record", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"bench"`)
}

func TestHandleDeletes(t *testing.T) {
	f := newHandlerFixture(t, nil)

	f.ledgerMock.EXPECT().
		DeleteSet(gomock.Any(), "user-1", "set-1").
		Return(ledger.DeleteResult{SetsDeleted: 1, RecordsRecomputed: 1}, nil).
		Times(1)
	f.ledgerMock.EXPECT().
		DeleteSet(gomock.Any(), "user-1", "set-404").
		Return(ledger.DeleteResult{}, nil).
		Times(1)
	f.ledgerMock.EXPECT().
		DeleteExercise(gomock.Any(), "user-1", "session-1", "bench").
		Return(ledger.DeleteResult{SetsDeleted: 3, RecordsDeleted: 1}, nil).
		Times(1)
	f.ledgerMock.EXPECT().
		DeleteSession(gomock.Any(), "user-1", "session-1").
		Return(ledger.DeleteResult{}, errors.New("tx aborted")).
		Times(1)

	rr := f.do(http.MethodDelete, "/sets/set-1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var res ledger.DeleteResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, 1, res.SetsDeleted)
	assert.Equal(t, 1, res.RecordsRecomputed)

	rr = f.do(http.MethodDelete, "/sets/set-404", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = f.do(http.MethodDelete, "/workouts/session-1/exercises/bench", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(http.MethodDelete, "/workouts/session-1", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.CounterDeletes.WithLabelValues("set", "true")))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.CounterDeletes.WithLabelValues("set", "false")))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.CounterDeletes.WithLabelValues("exercise", "true")))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.CounterRecordsRecomputed))
}

func TestHandleStreak(t *testing.T) {
	f := newHandlerFixture(t, nil)

	f.streakMock.EXPECT().
		Get(gomock.Any(), "user-1", ledger.ActivityWorkoutLogging).
		Return(&streak.Streak{Current: 3, Longest: 7}, nil).
		Times(1)

	rr := f.do(http.MethodGet, "/streak", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var s streak.Streak
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &s))
	assert.Equal(t, 3, s.Current)
	assert.Equal(t, 7, s.Longest)
}

func TestHandleModes(t *testing.T) {
	f := newHandlerFixture(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/modes", nil)
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var modes []tracking.ModeConfig
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &modes))
	require.Len(t, modes, len(tracking.All()))
	assert.Equal(t, tracking.WeightReps, modes[0].Mode)
	assert.Equal(t, tracking.AMRAP, modes[len(modes)-1].Mode)
}

func TestHandleSuggestMode(t *testing.T) {
	f := newHandlerFixture(t, nil)

	testCases := []struct {
		query          string
		expectedStatus int
		expectedMode   tracking.Mode
	}{
		{"name=Plank", http.StatusOK, tracking.Duration},
		{"name=Goblet+Squat&equipment=kettlebell", http.StatusOK, tracking.WeightReps},
		{"category=cardio&name=Easy+jog", http.StatusOK, tracking.DistanceTime},
		{"", http.StatusBadRequest, 0},
	}

	for _, tc := range testCases {
		req := httptest.NewRequest(http.MethodGet, "/modes/suggest?"+tc.query, nil)
		rr := httptest.NewRecorder()
		f.router.ServeHTTP(rr, req)
		require.Equal(t, tc.expectedStatus, rr.Code, tc.query)
		if tc.expectedStatus != http.StatusOK {
			continue
		}

		var res api.SuggestModeResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
		assert.Equal(t, tc.expectedMode, res.Mode, tc.query)
		assert.Equal(t, tc.expectedMode, res.Config.Mode, tc.query)
	}
}

package test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/2beens/liftledger/internal/middleware"
	"github.com/2beens/liftledger/internal/workout/display"
	"github.com/2beens/liftledger/internal/workout/ledger"
	"github.com/2beens/liftledger/internal/workout/streak"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type logResponse struct {
	Session struct {
		ID       string `json:"id"`
		SetCount int    `json:"setCount"`
	} `json:"session"`
	Exercises []struct {
		Definition struct {
			ID string `json:"id"`
		} `json:"definition"`
		NewRecords []string `json:"newRecords"`
	} `json:"exercises"`
}

type recordResponse struct {
	Weight *struct {
		Value     float64 `json:"value"`
		SessionID string  `json:"sessionId"`
	} `json:"weight"`
}

func (s *IntegrationTestSuite) do(method, path, userID, body string) (int, []byte) {
	t := s.T()

	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, serverEndpoint+path, bodyReader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set(middleware.UserIDHeader, userID)
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBytes
}

func benchWorkout(date string, topKg float64) string {
	return fmt.Sprintf(`{
		"date": %q,
		"type": "strength",
		"exercises": [{
			"name": "Bench Press",
			"mode": "weight-reps",
			"sets": [{"reps": 8, "weightKg": 60}, {"reps": 5, "weightKg": %g}]
		}]
	}`, date, topKg)
}

func (s *IntegrationTestSuite) logWorkout(userID, body string) logResponse {
	t := s.T()
	status, respBytes := s.do(http.MethodPost, "/workouts", userID, body)
	require.Equal(t, http.StatusCreated, status, string(respBytes))

	var res logResponse
	require.NoError(t, json.Unmarshal(respBytes, &res))
	return res
}

func (s *IntegrationTestSuite) TestWorkoutLifecycle() {
	t := s.T()
	const user = "lifecycle-user"

	first := s.logWorkout(user, benchWorkout("2024-06-01", 70))
	assert.Equal(t, 2, first.Session.SetCount)
	require.Len(t, first.Exercises, 1)
	assert.ElementsMatch(t, []string{"weight", "reps", "volume"}, first.Exercises[0].NewRecords)
	benchID := first.Exercises[0].Definition.ID

	second := s.logWorkout(user, benchWorkout("2024-06-02", 80))
	require.Len(t, second.Exercises, 1)
	assert.Equal(t, benchID, second.Exercises[0].Definition.ID)
	assert.Contains(t, second.Exercises[0].NewRecords, "weight")

	status, respBytes := s.do(http.MethodGet, "/exercises/"+benchID+"/record", user, "")
	require.Equal(t, http.StatusOK, status)
	var rec recordResponse
	require.NoError(t, json.Unmarshal(respBytes, &rec))
	require.NotNil(t, rec.Weight)
	assert.Equal(t, 80.0, rec.Weight.Value)
	assert.Equal(t, second.Session.ID, rec.Weight.SessionID)

	status, respBytes = s.do(http.MethodGet, "/workouts", user, "")
	require.Equal(t, http.StatusOK, status)
	var page display.Page
	require.NoError(t, json.Unmarshal(respBytes, &page))
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Sessions, 2)
	assert.Equal(t, second.Session.ID, page.Sessions[0].ID)

	status, respBytes = s.do(http.MethodGet, "/streak", user, "")
	require.Equal(t, http.StatusOK, status)
	var st streak.Streak
	require.NoError(t, json.Unmarshal(respBytes, &st))
	assert.Equal(t, 2, st.Current)

	// deleting the heavier session hands the record back to the first one
	status, respBytes = s.do(http.MethodDelete, "/workouts/"+second.Session.ID, user, "")
	require.Equal(t, http.StatusOK, status, string(respBytes))
	var del ledger.DeleteResult
	require.NoError(t, json.Unmarshal(respBytes, &del))
	assert.Equal(t, 1, del.SessionsDeleted)
	assert.Equal(t, 2, del.SetsDeleted)
	assert.Equal(t, 1, del.RecordsRecomputed)

	status, respBytes = s.do(http.MethodGet, "/exercises/"+benchID+"/record", user, "")
	require.Equal(t, http.StatusOK, status)
	rec = recordResponse{}
	require.NoError(t, json.Unmarshal(respBytes, &rec))
	require.NotNil(t, rec.Weight)
	assert.Equal(t, 70.0, rec.Weight.Value)
	assert.Equal(t, first.Session.ID, rec.Weight.SessionID)

	status, respBytes = s.do(http.MethodGet, "/workouts/stats", user, "")
	require.Equal(t, http.StatusOK, status)
	var stats display.Stats
	require.NoError(t, json.Unmarshal(respBytes, &stats))
	assert.Equal(t, 1, stats.TotalWorkouts)
	assert.Equal(t, 2, stats.TotalSets)
	assert.Equal(t, 13, stats.TotalReps)

	status, _ = s.do(http.MethodDelete, "/workouts/"+second.Session.ID, user, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) TestUsersAreIsolated() {
	t := s.T()

	res := s.logWorkout("owner", benchWorkout("2024-06-01", 70))

	status, _ := s.do(http.MethodGet, "/workouts/"+res.Session.ID, "intruder", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = s.do(http.MethodDelete, "/workouts/"+res.Session.ID, "intruder", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = s.do(http.MethodGet, "/workouts/"+res.Session.ID, "", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(http.MethodGet, "/workouts/"+res.Session.ID, "owner", "")
	assert.Equal(t, http.StatusOK, status)
}

func (s *IntegrationTestSuite) TestLogRateLimit() {
	t := s.T()
	const user = "eager-user"

	statuses := make([]int, 0, logsAllowedPerMin+1)
	for i := 0; i <= logsAllowedPerMin; i++ {
		status, _ := s.do(http.MethodPost, "/workouts", user, benchWorkout("2024-06-01", 70))
		statuses = append(statuses, status)
	}

	for i := 0; i < logsAllowedPerMin; i++ {
		assert.Equal(t, http.StatusCreated, statuses[i], i)
	}
	assert.Equal(t, http.StatusTooManyRequests, statuses[logsAllowedPerMin])

	// reads are not limited
	status, _ := s.do(http.MethodGet, "/workouts", user, "")
	assert.Equal(t, http.StatusOK, status)
}

func (s *IntegrationTestSuite) TestMetricsExposed() {
	t := s.T()

	s.logWorkout("metrics-user", benchWorkout("2024-06-01", 70))

	resp, err := s.httpClient.Get(metricsEndpoint + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "liftledger_main_workouts_logged")
	assert.Contains(t, string(body), "liftledger_main_records_set")
	assert.Contains(t, string(body), "pgxpool_")
}

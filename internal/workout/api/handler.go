package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/liftledger/internal/middleware"
	"github.com/2beens/liftledger/internal/telemetry/metrics"
	"github.com/2beens/liftledger/internal/telemetry/tracing"
	"github.com/2beens/liftledger/internal/workout"
	"github.com/2beens/liftledger/internal/workout/display"
	"github.com/2beens/liftledger/internal/workout/ledger"
	"github.com/2beens/liftledger/internal/workout/streak"
	"github.com/2beens/liftledger/internal/workout/tracking"
	"github.com/2beens/liftledger/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=api_test

type workoutLedger interface {
	Log(ctx context.Context, in ledger.LogInput) (*ledger.LogResult, error)
	DeleteSet(ctx context.Context, userID, setID string) (ledger.DeleteResult, error)
	DeleteExercise(ctx context.Context, userID, sessionID, exerciseID string) (ledger.DeleteResult, error)
	DeleteSession(ctx context.Context, userID, sessionID string) (ledger.DeleteResult, error)
}

type workoutDisplay interface {
	Workouts(ctx context.Context, userID string, f display.Filter) (*display.Page, error)
	Details(ctx context.Context, userID, sessionID string) (*display.SessionView, error)
	Record(ctx context.Context, userID, exerciseID string) (*workout.PersonalRecord, error)
	Stats(ctx context.Context, userID string, from, to *time.Time) (*display.Stats, error)
}

type streakReader interface {
	Get(ctx context.Context, userID, activity string) (*streak.Streak, error)
}

// logWorkoutRequest is the body of POST /workouts. Date defaults to today.
type logWorkoutRequest struct {
	Date string `json:"date,omitempty"`
	ledger.LogInput
}

type SuggestModeResponse struct {
	Mode   tracking.Mode       `json:"mode"`
	Config tracking.ModeConfig `json:"config"`
}

type Handler struct {
	ledger         workoutLedger
	display        workoutDisplay
	streaks        streakReader
	metricsManager *metrics.Manager
	now            func() time.Time
}

func NewHandler(
	ledger workoutLedger,
	display workoutDisplay,
	streaks streakReader,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		ledger:         ledger,
		display:        display,
		streaks:        streaks,
		metricsManager: metricsManager,
		now:            time.Now,
	}
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrModeConflict):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrValidation),
		errors.Is(err, tracking.ErrUnknownMode),
		errors.Is(err, workout.ErrUnknownOrigin),
		errors.Is(err, workout.ErrUnknownSessionType):
		return http.StatusBadRequest
	case errors.Is(err, display.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, action string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Errorf("%s: %s", action, err)
		http.Error(w, fmt.Sprintf("error, %s failed", action), status)
		return
	}
	log.Tracef("%s: %s", action, err)
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Errorf("failed to marshal response: %s", err)
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, b, status)
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := middleware.UserIDFrom(r.Context())
	if userID == "" {
		http.Error(w, "missing user id", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return &t, nil
}

func parseRange(r *http.Request) (from, to *time.Time, err error) {
	if from, err = parseDate(r.URL.Query().Get("from")); err != nil {
		return nil, nil, err
	}
	if to, err = parseDate(r.URL.Query().Get("to")); err != nil {
		return nil, nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, errors.New("invalid range, to before from")
	}
	return from, to, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return n, nil
}

func (h *Handler) HandleLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.log")
	defer span.End()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req logWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("log workout, unmarshal json params: %s", err)
		http.Error(w, "invalid workout body", http.StatusBadRequest)
		return
	}

	date := workout.DateOf(h.now())
	if req.Date != "" {
		d, err := parseDate(req.Date)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		date = *d
	}
	in := req.LogInput
	in.UserID = userID
	in.Date = date

	res, err := h.ledger.Log(ctx, in)
	if err != nil {
		writeError(w, "log workout", err)
		return
	}

	span.SetAttributes(
		attribute.String("session", res.Session.ID),
		attribute.Int("records", res.RecordCount()),
	)
	if h.metricsManager != nil {
		h.metricsManager.CounterWorkoutsLogged.Inc()
		h.metricsManager.CounterSetsLogged.Add(float64(res.Session.SetCount))
		h.metricsManager.HistogramSetsPerWorkout.Observe(float64(res.Session.SetCount))
		for _, ex := range res.Exercises {
			for _, m := range ex.NewRecords {
				h.metricsManager.CounterRecordsSet.WithLabelValues(m.String()).Inc()
			}
		}
	}

	log.Debugf("workout [%s] logged for user [%s], %d sets, %d records",
		res.Session.ID, userID, res.Session.SetCount, res.RecordCount())
	writeJSON(w, res, http.StatusCreated)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	from, to, err := parseRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	page, err := h.display.Workouts(ctx, userID, display.Filter{
		From:        from,
		To:          to,
		WorkoutType: r.URL.Query().Get("type"),
		Limit:       limit,
		Offset:      offset,
		PROnly:      r.URL.Query().Get("prOnly") == "true",
	})
	if err != nil {
		writeError(w, "list workouts", err)
		return
	}

	writeJSON(w, page, http.StatusOK)
}

func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.stats")
	defer span.End()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	from, to, err := parseRange(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	stats, err := h.display.Stats(ctx, userID, from, to)
	if err != nil {
		writeError(w, "workout stats", err)
		return
	}

	writeJSON(w, stats, http.StatusOK)
}

func (h *Handler) HandleDetails(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.details")
	defer span.End()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	sessionID := mux.Vars(r)["sessionId"]
	if sessionID == "" {
		http.Error(w, "error, session id empty", http.StatusBadRequest)
		return
	}

	view, err := h.display.Details(ctx, userID, sessionID)
	if err != nil {
		writeError(w, "workout details", err)
		return
	}

	writeJSON(w, view, http.StatusOK)
}

func (h *Handler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.record")
	defer span.End()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	exerciseID := mux.Vars(r)["exerciseId"]
	if exerciseID == "" {
		http.Error(w, "error, exercise id empty", http.StatusBadRequest)
		return
	}

	rec, err := h.display.Record(ctx, userID, exerciseID)
	if err != nil {
		writeError(w, "exercise record", err)
		return
	}

	writeJSON(w, rec, http.StatusOK)
}

func (h *Handler) writeDeleteResult(w http.ResponseWriter, target string, res ledger.DeleteResult) {
	if h.metricsManager != nil {
		h.metricsManager.CounterDeletes.WithLabelValues(target, strconv.FormatBool(res.Found())).Inc()
		h.metricsManager.CounterRecordsRecomputed.Add(float64(res.RecordsRecomputed))
	}
	if !res.Found() {
		http.Error(w, target+" not found", http.StatusNotFound)
		return
	}
	writeJSON(w, res, http.StatusOK)
}

func (h *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
	defer span.End()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	sessionID := mux.Vars(r)["sessionId"]
	res, err := h.ledger.DeleteSession(ctx, userID, sessionID)
	if err != nil {
		writeError(w, "delete workout", err)
		return
	}

	h.writeDeleteResult(w, "workout", res)
}

func (h *Handler) HandleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete-exercise")
	defer span.End()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	res, err := h.ledger.DeleteExercise(ctx, userID, vars["sessionId"], vars["exerciseId"])
	if err != nil {
		writeError(w, "delete exercise", err)
		return
	}

	h.writeDeleteResult(w, "exercise", res)
}

func (h *Handler) HandleDeleteSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sets.delete")
	defer span.End()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	res, err := h.ledger.DeleteSet(ctx, userID, mux.Vars(r)["setId"])
	if err != nil {
		writeError(w, "delete set", err)
		return
	}

	h.writeDeleteResult(w, "set", res)
}

func (h *Handler) HandleStreak(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.streak.get")
	defer span.End()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	s, err := h.streaks.Get(ctx, userID, ledger.ActivityWorkoutLogging)
	if err != nil {
		writeError(w, "get streak", err)
		return
	}

	writeJSON(w, s, http.StatusOK)
}

func (h *Handler) HandleModes(w http.ResponseWriter, _ *http.Request) {
	modes := make([]tracking.ModeConfig, 0, len(tracking.All()))
	for _, m := range tracking.All() {
		modes = append(modes, tracking.ConfigFor(m))
	}
	writeJSON(w, modes, http.StatusOK)
}

func (h *Handler) HandleSuggestMode(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("name") == "" && q.Get("category") == "" && len(q["equipment"]) == 0 {
		http.Error(w, "error, name, category or equipment required", http.StatusBadRequest)
		return
	}

	m := tracking.SuggestMode(q.Get("category"), q.Get("name"), q["equipment"]...)
	writeJSON(w, SuggestModeResponse{Mode: m, Config: tracking.ConfigFor(m)}, http.StatusOK)
}

func (h *Handler) HandlePing(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "pong")
}

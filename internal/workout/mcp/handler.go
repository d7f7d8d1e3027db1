package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/liftledger/internal/workout"
	"github.com/2beens/liftledger/internal/workout/display"
	"github.com/2beens/liftledger/internal/workout/tracking"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// workoutReader is the read side of the display service.
type workoutReader interface {
	Workouts(ctx context.Context, userID string, f display.Filter) (*display.Page, error)
	Details(ctx context.Context, userID, sessionID string) (*display.SessionView, error)
	Record(ctx context.Context, userID, exerciseID string) (*workout.PersonalRecord, error)
	Stats(ctx context.Context, userID string, from, to *time.Time) (*display.Stats, error)
}

// Handler turns MCP tool calls into display reads. Every result is JSON text.
type Handler struct {
	reader workoutReader
}

func NewHandler(reader workoutReader) *Handler {
	return &Handler{
		reader: reader,
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

func readError(what string, err error) *mcp.CallToolResult {
	if errors.Is(err, display.ErrNotFound) {
		return errorResult(what + " not found")
	}
	return errorResult(fmt.Sprintf("Error fetching %s: %s", what, err))
}

func parseOptionalDate(name, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: use YYYY-MM-DD", name)
	}
	return &t, nil
}

// RangeInput is shared by the tools that take an optional date range.
type RangeInput struct {
	UserID   string `json:"user_id" jsonschema:"Id of the user whose workouts are read"`
	FromDate string `json:"from_date,omitempty" jsonschema:"First day (YYYY-MM-DD), inclusive"`
	ToDate   string `json:"to_date,omitempty" jsonschema:"Last day (YYYY-MM-DD), inclusive"`
}

func (in RangeInput) parse() (from, to *time.Time, err error) {
	if in.UserID == "" {
		return nil, nil, errors.New("user_id is required")
	}
	if from, err = parseOptionalDate("from_date", in.FromDate); err != nil {
		return nil, nil, err
	}
	if to, err = parseOptionalDate("to_date", in.ToDate); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

type ListWorkoutsInput struct {
	RangeInput
	Type   string `json:"type,omitempty" jsonschema:"Workout type filter (strength, cardio, flexibility, sports, hybrid, other)"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Page size, 10 by default and at most 100"`
	Offset int    `json:"offset,omitempty" jsonschema:"Number of workouts to skip"`
	PROnly bool   `json:"pr_only,omitempty" jsonschema:"Only workouts in which a personal record was set"`
}

func (h *Handler) ListWorkoutsTool() func(context.Context, *mcp.CallToolRequest, ListWorkoutsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ListWorkoutsInput) (*mcp.CallToolResult, any, error) {
		from, to, err := in.parse()
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		page, err := h.reader.Workouts(ctx, in.UserID, display.Filter{
			From:        from,
			To:          to,
			WorkoutType: in.Type,
			Limit:       in.Limit,
			Offset:      in.Offset,
			PROnly:      in.PROnly,
		})
		if err != nil {
			return readError("workouts", err), nil, nil
		}
		return jsonResult(page), nil, nil
	}
}

type WorkoutInput struct {
	UserID    string `json:"user_id" jsonschema:"Id of the user who logged the workout"`
	SessionID string `json:"session_id" jsonschema:"Id of the workout session"`
}

func (h *Handler) GetWorkoutTool() func(context.Context, *mcp.CallToolRequest, WorkoutInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in WorkoutInput) (*mcp.CallToolResult, any, error) {
		if in.UserID == "" || in.SessionID == "" {
			return errorResult("user_id and session_id are required"), nil, nil
		}
		view, err := h.reader.Details(ctx, in.UserID, in.SessionID)
		if err != nil {
			return readError("workout", err), nil, nil
		}
		return jsonResult(view), nil, nil
	}
}

type RecordInput struct {
	UserID     string `json:"user_id" jsonschema:"Id of the user"`
	ExerciseID string `json:"exercise_id" jsonschema:"Id of the exercise definition"`
}

func (h *Handler) GetRecordTool() func(context.Context, *mcp.CallToolRequest, RecordInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in RecordInput) (*mcp.CallToolResult, any, error) {
		if in.UserID == "" || in.ExerciseID == "" {
			return errorResult("user_id and exercise_id are required"), nil, nil
		}
		rec, err := h.reader.Record(ctx, in.UserID, in.ExerciseID)
		if err != nil {
			return readError("record", err), nil, nil
		}
		return jsonResult(rec), nil, nil
	}
}

func (h *Handler) GetStatsTool() func(context.Context, *mcp.CallToolRequest, RangeInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in RangeInput) (*mcp.CallToolResult, any, error) {
		from, to, err := in.parse()
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		stats, err := h.reader.Stats(ctx, in.UserID, from, to)
		if err != nil {
			return readError("stats", err), nil, nil
		}
		return jsonResult(stats), nil, nil
	}
}

type SuggestModeInput struct {
	Name      string   `json:"name" jsonschema:"Exercise name, e.g. Goblet Squat"`
	Category  string   `json:"category,omitempty" jsonschema:"Exercise category, e.g. strength or cardio"`
	Equipment []string `json:"equipment,omitempty" jsonschema:"Equipment used, e.g. kettlebell"`
}

type suggestion struct {
	Mode   tracking.Mode       `json:"mode"`
	Config tracking.ModeConfig `json:"config"`
}

func (h *Handler) SuggestModeTool() func(context.Context, *mcp.CallToolRequest, SuggestModeInput) (*mcp.CallToolResult, any, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, in SuggestModeInput) (*mcp.CallToolResult, any, error) {
		if in.Name == "" {
			return errorResult("name is required"), nil, nil
		}
		m := tracking.SuggestMode(in.Category, in.Name, in.Equipment...)
		return jsonResult(suggestion{Mode: m, Config: tracking.ConfigFor(m)}), nil, nil
	}
}

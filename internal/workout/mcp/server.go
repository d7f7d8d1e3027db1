package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds a read-only MCP server over the workout ledger: workouts,
// workout details, personal records, range stats and mode suggestions.
func NewServer(reader workoutReader, version string) *mcp.Server {
	h := NewHandler(reader)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "liftledger",
		Version: version,
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_workouts",
		Description: "Returns a page of completed workouts of a user, newest first, with sets grouped by exercise, current personal records and recent history. Optional filters: from_date, to_date (YYYY-MM-DD), type, pr_only.",
	}, h.ListWorkoutsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_workout",
		Description: "Returns one workout of a user with every set, the record flags of each set and the records of its exercises.",
	}, h.GetWorkoutTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_personal_record",
		Description: "Returns the personal record of an exercise: best weight, reps, volume, duration or distance, with the day and set that achieved each.",
	}, h.GetRecordTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_workout_stats",
		Description: "Returns totals over a user's workouts in a date range: workouts, exercises, sets, reps, work, minutes, calories and records set.",
	}, h.GetStatsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "suggest_tracking_mode",
		Description: "Suggests how a new exercise should be tracked (weight-reps, duration, reps-only, reps-per-side, distance-time, reps-duration, distance-only, amrap) from its name, category and equipment.",
	}, h.SuggestModeTool())

	return s
}

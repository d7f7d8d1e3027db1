package display

import (
	"time"

	"github.com/2beens/liftledger/internal/workout"
	"github.com/2beens/liftledger/internal/workout/tracking"
)

type SetView struct {
	workout.ExerciseSet
	Display string  `json:"display"`
	Work    float64 `json:"work"`
}

type ExerciseView struct {
	ID             string                  `json:"id"`
	Name           string                  `json:"name"`
	Category       string                  `json:"category,omitempty"`
	MuscleGroup    string                  `json:"muscleGroup,omitempty"`
	Origin         workout.Origin          `json:"origin"`
	Mode           tracking.Mode           `json:"mode"`
	Sets           []SetView               `json:"sets"`
	PersonalRecord *workout.PersonalRecord `json:"personalRecord,omitempty"`
	RecentHistory  []workout.HistoryEntry  `json:"recentHistory"`
}

// SessionView is a session with its sets grouped by exercise. The embedded
// totals are the ones written at log time; CurrentWork is summed over the
// sets that still exist.
type SessionView struct {
	workout.Session
	CurrentWork float64        `json:"currentWork"`
	Exercises   []ExerciseView `json:"exercises"`
	HasPR       bool           `json:"hasPr"`
}

type Page struct {
	Sessions []SessionView `json:"sessions"`
	HasMore  bool          `json:"hasMore"`
	Total    int           `json:"total"`
}

// Filter selects the sessions of a page. WorkoutType "" or "all" matches any
// type. PROnly drops sessions without a record set after assembly, so Total
// and HasMore still describe the unfiltered page sequence.
type Filter struct {
	From        *time.Time
	To          *time.Time
	WorkoutType string
	Limit       int
	Offset      int
	PROnly      bool
}

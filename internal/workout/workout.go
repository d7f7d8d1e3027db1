package workout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/liftledger/internal/workout/tracking"
)

var (
	ErrUnknownOrigin      = errors.New("unknown exercise origin")
	ErrUnknownSessionType = errors.New("unknown workout type")
)

// StatusCompleted is the only session status written by the ledger.
const StatusCompleted = "completed"

// HistoryLimit is how many history entries are kept per exercise.
const HistoryLimit = 5

// Origin is the way an exercise definition entered the system. Together with
// the owning user and the name it identifies the definition.
type Origin string

const (
	OriginAIPlan Origin = "ai-plan"
	OriginManual Origin = "manual"
	OriginVoice  Origin = "voice"
	OriginSearch Origin = "search"
)

func ParseOrigin(s string) (Origin, error) {
	switch o := Origin(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return OriginManual, nil
	case OriginAIPlan, OriginManual, OriginVoice, OriginSearch:
		return o, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOrigin, s)
}

type SessionType string

const (
	SessionStrength    SessionType = "strength"
	SessionCardio      SessionType = "cardio"
	SessionFlexibility SessionType = "flexibility"
	SessionSports      SessionType = "sports"
	SessionHybrid      SessionType = "hybrid"
	SessionOther       SessionType = "other"
)

func ParseSessionType(s string) (SessionType, error) {
	switch t := SessionType(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return SessionOther, nil
	case SessionStrength, SessionCardio, SessionFlexibility, SessionSports, SessionHybrid, SessionOther:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSessionType, s)
}

// Session is one logged workout. Totals are written once, from the submitted
// sets, and never updated afterwards.
type Session struct {
	ID              string      `json:"id"`
	UserID          string      `json:"userId"`
	Date            time.Time   `json:"date"`
	Name            string      `json:"name"`
	Type            SessionType `json:"type"`
	StartedAt       time.Time   `json:"startedAt"`
	EndedAt         time.Time   `json:"endedAt"`
	DurationMinutes int         `json:"durationMinutes"`
	ExerciseCount   int         `json:"exerciseCount"`
	SetCount        int         `json:"setCount"`
	TotalReps       int         `json:"totalReps"`
	TotalWork       float64     `json:"totalWork"`
	Calories        int         `json:"calories"`
	Status          string      `json:"status"`
	Note            string      `json:"note,omitempty"`
	PlanID          string      `json:"planId,omitempty"`
	PlanDayName     string      `json:"planDayName,omitempty"`
	FromAIPlan      bool        `json:"fromAiPlan"`
	CreatedAt       time.Time   `json:"createdAt"`
}

type ExerciseDefinition struct {
	ID          string        `json:"id"`
	UserID      string        `json:"userId"`
	Name        string        `json:"name"`
	Origin      Origin        `json:"origin"`
	Category    string        `json:"category,omitempty"`
	MuscleGroup string        `json:"muscleGroup,omitempty"`
	Equipment   string        `json:"equipment,omitempty"`
	Mode        tracking.Mode `json:"mode"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// ExerciseSet is immutable once written, except for its record flags which
// are re-derived when the exercise's record is recomputed.
type ExerciseSet struct {
	ID         string        `json:"id"`
	SessionID  string        `json:"sessionId"`
	ExerciseID string        `json:"exerciseId"`
	UserID     string        `json:"userId"`
	SetIndex   int           `json:"setIndex"`
	Mode       tracking.Mode `json:"mode"`
	tracking.Fields
	PR          PRFlags   `json:"pr"`
	Warmup      bool      `json:"warmup"`
	DropSet     bool      `json:"dropSet"`
	Failure     bool      `json:"failure"`
	RPE         *float64  `json:"rpe,omitempty"`
	RestSeconds *int      `json:"restSeconds,omitempty"`
	Tempo       string    `json:"tempo,omitempty"`
	Note        string    `json:"note,omitempty"`
	SessionDate time.Time `json:"sessionDate"`
	PerformedAt time.Time `json:"performedAt"`
}

// Before orders sets by when they were performed. The first set in this
// order to reach a value owns the record for it.
func (s ExerciseSet) Before(o ExerciseSet) bool {
	if !s.SessionDate.Equal(o.SessionDate) {
		return s.SessionDate.Before(o.SessionDate)
	}
	if !s.PerformedAt.Equal(o.PerformedAt) {
		return s.PerformedAt.Before(o.PerformedAt)
	}
	if s.SetIndex != o.SetIndex {
		return s.SetIndex < o.SetIndex
	}
	return s.ID < o.ID
}

type HistoryEntry struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	ExerciseID      string    `json:"exerciseId"`
	SessionID       string    `json:"sessionId"`
	Date            time.Time `json:"date"`
	SetCount        int       `json:"setCount"`
	AvgReps         *int      `json:"avgReps,omitempty"`
	AvgWeightKg     *float64  `json:"avgWeightKg,omitempty"`
	AvgDurationSecs *float64  `json:"avgDurationSeconds,omitempty"`
	AvgDistanceM    *float64  `json:"avgDistanceMeters,omitempty"`
	Note            string    `json:"note,omitempty"`
	CompletedAt     time.Time `json:"completedAt"`
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

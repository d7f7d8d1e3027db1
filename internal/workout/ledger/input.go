package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/liftledger/internal/workout"
	"github.com/2beens/liftledger/internal/workout/tracking"
)

type SetInput struct {
	tracking.Fields
	RPE         *float64 `json:"rpe,omitempty"`
	RestSeconds *int     `json:"restSeconds,omitempty"`
	Tempo       string   `json:"tempo,omitempty"`
	Warmup      bool     `json:"warmup,omitempty"`
	DropSet     bool     `json:"dropSet,omitempty"`
	Failure     bool     `json:"failure,omitempty"`
	Note        string   `json:"note,omitempty"`
}

type ExerciseInput struct {
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	MuscleGroup string `json:"muscleGroup,omitempty"`
	Equipment   string `json:"equipment,omitempty"`
	// Origin defaults to manual.
	Origin string `json:"origin,omitempty"`
	// Mode is optional; the stored or suggested mode is used when empty.
	Mode string     `json:"mode,omitempty"`
	Note string     `json:"note,omitempty"`
	Sets []SetInput `json:"sets"`
}

type LogInput struct {
	UserID string    `json:"-"`
	Date   time.Time `json:"-"`
	Name   string    `json:"name,omitempty"`
	Type   string    `json:"type,omitempty"`
	// Without both timestamps the session is assumed to end now, lasting
	// DurationMinutes or an estimate derived from the set count.
	StartedAt       *time.Time      `json:"startedAt,omitempty"`
	EndedAt         *time.Time      `json:"endedAt,omitempty"`
	DurationMinutes *int            `json:"durationMinutes,omitempty"`
	Calories        *int            `json:"calories,omitempty"`
	Note            string          `json:"note,omitempty"`
	PlanID          string          `json:"planId,omitempty"`
	PlanDayName     string          `json:"planDayName,omitempty"`
	FromAIPlan      bool            `json:"fromAiPlan,omitempty"`
	Exercises       []ExerciseInput `json:"exercises"`
}

type plannedExercise struct {
	def      workout.ExerciseDefinition
	explicit bool
	note     string
	sets     []SetInput
}

type plan struct {
	session   workout.Session
	exercises []plannedExercise
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// buildPlan validates in and resolves everything that needs no store access.
// Exercises sharing an identity are merged, keeping submission order.
func buildPlan(in LogInput, now time.Time) (*plan, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return nil, invalid("user id empty")
	}
	if len(in.Exercises) == 0 {
		return nil, invalid("no exercises")
	}

	sessionType, err := workout.ParseSessionType(in.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	p := &plan{}
	byIdentity := map[string]int{}
	for i, ex := range in.Exercises {
		name := strings.TrimSpace(ex.Name)
		if name == "" {
			return nil, invalid("exercise %d: name empty", i+1)
		}
		if len(ex.Sets) == 0 {
			return nil, invalid("exercise %q: no sets", name)
		}
		for j, s := range ex.Sets {
			if err := checkSet(s); err != nil {
				return nil, invalid("exercise %q set %d: %s", name, j+1, err)
			}
		}

		origin, err := workout.ParseOrigin(ex.Origin)
		if err != nil {
			return nil, fmt.Errorf("%w: exercise %q: %w", ErrValidation, name, err)
		}

		explicit := strings.TrimSpace(ex.Mode) != ""
		var mode tracking.Mode
		if explicit {
			if mode, err = tracking.ParseMode(ex.Mode); err != nil {
				return nil, fmt.Errorf("%w: exercise %q: %w", ErrValidation, name, err)
			}
		} else {
			mode = tracking.SuggestMode(ex.Category, name, ex.Equipment)
		}

		key := string(origin) + "\x00" + name
		if idx, ok := byIdentity[key]; ok {
			existing := &p.exercises[idx]
			if explicit && existing.explicit && existing.def.Mode != mode {
				return nil, invalid("exercise %q: submitted with modes %s and %s", name, existing.def.Mode, mode)
			}
			if explicit && !existing.explicit {
				existing.def.Mode = mode
				existing.explicit = true
			}
			existing.sets = append(existing.sets, ex.Sets...)
			if existing.note == "" {
				existing.note = ex.Note
			}
			continue
		}

		byIdentity[key] = len(p.exercises)
		p.exercises = append(p.exercises, plannedExercise{
			def: workout.ExerciseDefinition{
				UserID:      in.UserID,
				Name:        name,
				Origin:      origin,
				Category:    ex.Category,
				MuscleGroup: ex.MuscleGroup,
				Equipment:   ex.Equipment,
				Mode:        mode,
			},
			explicit: explicit,
			note:     ex.Note,
			sets:     ex.Sets,
		})
	}

	date := workout.DateOf(now)
	if !in.Date.IsZero() {
		date = workout.DateOf(in.Date)
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = string(sessionType)
	}

	p.session = workout.Session{
		UserID:      in.UserID,
		Date:        date,
		Name:        name,
		Type:        sessionType,
		Status:      workout.StatusCompleted,
		Note:        in.Note,
		PlanID:      in.PlanID,
		PlanDayName: in.PlanDayName,
		FromAIPlan:  in.FromAIPlan,
	}
	if err := applyTiming(&p.session, in, now); err != nil {
		return nil, err
	}

	return p, nil
}

func checkSet(s SetInput) error {
	switch {
	case s.Reps != nil && *s.Reps < 0:
		return errors.New("negative reps")
	case s.WeightKg != nil && *s.WeightKg < 0:
		return errors.New("negative weight")
	case s.DurationSeconds != nil && *s.DurationSeconds < 0:
		return errors.New("negative duration")
	case s.DistanceMeters != nil && *s.DistanceMeters < 0:
		return errors.New("negative distance")
	case s.RPE != nil && (*s.RPE < 0 || *s.RPE > 10):
		return errors.New("rpe out of range")
	}
	return nil
}

// EstimatedMinutes is the session length assumed when none is given.
func EstimatedMinutes(setCount int) int {
	return max(setCount*3+10, 15)
}

// EstimatedCalories assumes six calories per minute.
func EstimatedCalories(minutes int) int {
	return minutes * 6
}

func applyTiming(s *workout.Session, in LogInput, now time.Time) error {
	setCount := 0
	for _, ex := range in.Exercises {
		setCount += len(ex.Sets)
	}

	switch {
	case in.StartedAt != nil && in.EndedAt != nil:
		if in.EndedAt.Before(*in.StartedAt) {
			return invalid("session ends before it starts")
		}
		s.StartedAt = in.StartedAt.UTC()
		s.EndedAt = in.EndedAt.UTC()
		s.DurationMinutes = int(s.EndedAt.Sub(s.StartedAt).Round(time.Minute) / time.Minute)
	case in.DurationMinutes != nil:
		if *in.DurationMinutes < 0 {
			return invalid("negative duration")
		}
		s.DurationMinutes = *in.DurationMinutes
		s.EndedAt = now.UTC()
		s.StartedAt = s.EndedAt.Add(-time.Duration(s.DurationMinutes) * time.Minute)
	default:
		s.DurationMinutes = EstimatedMinutes(setCount)
		s.EndedAt = now.UTC()
		s.StartedAt = s.EndedAt.Add(-time.Duration(s.DurationMinutes) * time.Minute)
	}

	if in.Calories != nil {
		if *in.Calories < 0 {
			return invalid("negative calories")
		}
		s.Calories = *in.Calories
	} else {
		s.Calories = EstimatedCalories(s.DurationMinutes)
	}
	return nil
}

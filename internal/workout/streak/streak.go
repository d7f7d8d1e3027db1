package streak

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/2beens/liftledger/internal/telemetry/metrics"
	"github.com/2beens/liftledger/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	keyPrefix = "streak::"

	// maxNotifyAttempts bounds the retries when a concurrent writer changes
	// the streak between read and write.
	maxNotifyAttempts = 3
)

// Streak counts consecutive days with at least one logged activity.
type Streak struct {
	Current int       `json:"current"`
	Longest int       `json:"longest"`
	Last    time.Time `json:"last"`
}

// Tracker keeps streaks in redis hashes, one per (user, activity).
type Tracker struct {
	redisClient    *redis.Client
	metricsManager *metrics.Manager
}

func NewTracker(redisClient *redis.Client, metricsManager *metrics.Manager) *Tracker {
	return &Tracker{
		redisClient:    redisClient,
		metricsManager: metricsManager,
	}
}

func key(userID, activity string) string {
	return keyPrefix + userID + "::" + activity
}

func (t *Tracker) Get(ctx context.Context, userID, activity string) (_ *Streak, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "streak.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	fields, err := t.redisClient.HGetAll(ctx, key(userID, activity)).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall: %w", err)
	}
	return parse(fields)
}

// NotifyActivity records an activity on date. A date already counted, or one
// older than the last counted date, leaves the streak unchanged.
func (t *Tracker) NotifyActivity(ctx context.Context, userID, activity string, date time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "streak.notify")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
		if err != nil && t.metricsManager != nil {
			t.metricsManager.CounterStreakFailures.Inc()
		}
	}()

	k := key(userID, activity)
	for attempt := 1; attempt <= maxNotifyAttempts; attempt++ {
		err = t.redisClient.Watch(ctx, func(tx *redis.Tx) error {
			return advanceInTx(ctx, tx, k, date)
		}, k)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
		log.Debugf("streak: concurrent update of [%s], attempt %d", k, attempt)
	}
	if err != nil {
		return fmt.Errorf("update streak [%s]: %w", k, err)
	}
	return nil
}

// advanceInTx reads the streak under WATCH and writes the advanced one in a
// MULTI block, so a concurrent change of the key fails the EXEC.
func advanceInTx(ctx context.Context, tx *redis.Tx, k string, date time.Time) error {
	fields, err := tx.HGetAll(ctx, k).Result()
	if err != nil {
		return fmt.Errorf("hgetall: %w", err)
	}
	s, err := parse(fields)
	if err != nil {
		return err
	}

	next, changed := Advance(*s, date)
	if !changed {
		log.Tracef("streak: [%s] on %s already counted", k, date.Format(time.DateOnly))
		return nil
	}

	_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, k,
			"last", next.Last.Format(time.DateOnly),
			"current", strconv.Itoa(next.Current),
			"longest", strconv.Itoa(next.Longest),
		)
		return nil
	})
	return err
}

// Advance applies an activity on date to s.
func Advance(s Streak, date time.Time) (Streak, bool) {
	y, m, d := date.UTC().Date()
	date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	switch {
	case s.Last.IsZero():
		s.Current = 1
	case !date.After(s.Last):
		return s, false
	case date.Equal(s.Last.AddDate(0, 0, 1)):
		s.Current++
	default:
		s.Current = 1
	}
	s.Last = date
	s.Longest = max(s.Longest, s.Current)
	return s, true
}

func parse(fields map[string]string) (*Streak, error) {
	s := &Streak{}
	if len(fields) == 0 {
		return s, nil
	}

	var err error
	if s.Last, err = time.Parse(time.DateOnly, fields["last"]); err != nil {
		return nil, fmt.Errorf("parse last: %w", err)
	}
	if s.Current, err = strconv.Atoi(fields["current"]); err != nil {
		return nil, fmt.Errorf("parse current: %w", err)
	}
	if s.Longest, err = strconv.Atoi(fields["longest"]); err != nil {
		return nil, fmt.Errorf("parse longest: %w", err)
	}
	if s.Current < 0 || s.Longest < s.Current {
		return nil, errors.New("corrupt streak")
	}
	return s, nil
}

// Nop ignores every notification.
type Nop struct{}

func (Nop) NotifyActivity(context.Context, string, string, time.Time) error {
	return nil
}

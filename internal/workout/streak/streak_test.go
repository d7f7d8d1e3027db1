package streak_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/2beens/liftledger/internal/telemetry/metrics"
	"github.com/2beens/liftledger/internal/workout/streak"

	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(d int) time.Time {
	return time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC)
}

func TestAdvance(t *testing.T) {
	s, changed := streak.Advance(streak.Streak{}, date(10).Add(15*time.Hour))
	require.True(t, changed)
	assert.Equal(t, streak.Streak{Current: 1, Longest: 1, Last: date(10)}, s)

	s, changed = streak.Advance(s, date(11))
	require.True(t, changed)
	assert.Equal(t, 2, s.Current)
	assert.Equal(t, 2, s.Longest)

	_, changed = streak.Advance(s, date(11))
	assert.False(t, changed)
	_, changed = streak.Advance(s, date(3))
	assert.False(t, changed)

	s, changed = streak.Advance(s, date(14))
	require.True(t, changed)
	assert.Equal(t, streak.Streak{Current: 1, Longest: 2, Last: date(14)}, s)
}

func TestTracker_NotifyActivity(t *testing.T) {
	db, mock := redismock.NewClientMock()
	tracker := streak.NewTracker(db, metrics.NewTestManager())
	ctx := context.Background()
	key := "streak::u1::workout_logging"

	mock.ExpectWatch(key)
	mock.ExpectHGetAll(key).SetVal(map[string]string{})
	mock.ExpectTxPipeline()
	mock.ExpectHSet(key, "last", "2024-05-10", "current", "1", "longest", "1").SetVal(3)
	mock.ExpectTxPipelineExec()
	require.NoError(t, tracker.NotifyActivity(ctx, "u1", "workout_logging", date(10)))

	mock.ExpectWatch(key)
	mock.ExpectHGetAll(key).SetVal(map[string]string{"last": "2024-05-10", "current": "4", "longest": "4"})
	mock.ExpectTxPipeline()
	mock.ExpectHSet(key, "last", "2024-05-11", "current", "5", "longest", "5").SetVal(0)
	mock.ExpectTxPipelineExec()
	require.NoError(t, tracker.NotifyActivity(ctx, "u1", "workout_logging", date(11)))

	// same day again writes nothing
	mock.ExpectWatch(key)
	mock.ExpectHGetAll(key).SetVal(map[string]string{"last": "2024-05-11", "current": "5", "longest": "9"})
	require.NoError(t, tracker.NotifyActivity(ctx, "u1", "workout_logging", date(11)))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTracker_NotifyActivity_RereadsAfterConcurrentChange(t *testing.T) {
	db, mock := redismock.NewClientMock()
	metricsManager := metrics.NewTestManager()
	tracker := streak.NewTracker(db, metricsManager)
	ctx := context.Background()
	key := "streak::u1::workout_logging"

	// another writer bumps the streak between our read and our write
	mock.ExpectWatch(key)
	mock.ExpectHGetAll(key).SetVal(map[string]string{"last": "2024-05-09", "current": "2", "longest": "2"})
	mock.ExpectTxPipeline()
	mock.ExpectHSet(key, "last", "2024-05-10", "current", "3", "longest", "3").SetVal(0)
	mock.ExpectTxPipelineExec().SetErr(redis.TxFailedErr)

	mock.ExpectWatch(key)
	mock.ExpectHGetAll(key).SetVal(map[string]string{"last": "2024-05-10", "current": "3", "longest": "3"})

	require.NoError(t, tracker.NotifyActivity(ctx, "u1", "workout_logging", date(10)))
	assert.Equal(t, 0.0, testutil.ToFloat64(metricsManager.CounterStreakFailures))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTracker_NotifyActivity_Failures(t *testing.T) {
	db, mock := redismock.NewClientMock()
	metricsManager := metrics.NewTestManager()
	tracker := streak.NewTracker(db, metricsManager)
	ctx := context.Background()
	key := "streak::u1::workout_logging"

	mock.ExpectWatch(key).SetErr(errors.New("connection refused"))
	require.Error(t, tracker.NotifyActivity(ctx, "u1", "workout_logging", date(10)))

	mock.ExpectWatch(key)
	mock.ExpectHGetAll(key).SetErr(errors.New("connection reset"))
	require.Error(t, tracker.NotifyActivity(ctx, "u1", "workout_logging", date(10)))

	mock.ExpectWatch(key)
	mock.ExpectHGetAll(key).SetVal(map[string]string{"last": "yesterday", "current": "1", "longest": "1"})
	require.Error(t, tracker.NotifyActivity(ctx, "u1", "workout_logging", date(10)))

	mock.ExpectWatch(key)
	mock.ExpectHGetAll(key).SetVal(map[string]string{"last": "2024-05-01", "current": "7", "longest": "2"})
	require.Error(t, tracker.NotifyActivity(ctx, "u1", "workout_logging", date(10)))

	assert.Equal(t, 4.0, testutil.ToFloat64(metricsManager.CounterStreakFailures))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTracker_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	tracker := streak.NewTracker(db, nil)

	mock.ExpectHGetAll("streak::u2::workout_logging").SetVal(map[string]string{"last": "2024-05-02", "current": "2", "longest": "6"})
	s, err := tracker.Get(context.Background(), "u2", "workout_logging")
	require.NoError(t, err)
	assert.Equal(t, &streak.Streak{Current: 2, Longest: 6, Last: date(2)}, s)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNop(t *testing.T) {
	assert.NoError(t, streak.Nop{}.NotifyActivity(context.Background(), "u", "a", date(1)))
}

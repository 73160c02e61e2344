package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/srgjo27/venue_booking/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testToken = "token-1"

func newTestRedisLocker(t *testing.T) (*RedisLocker, redismock.ClientMock) {
	db, mockRedis := redismock.NewClientMock()
	t.Cleanup(func() { db.Close() })

	locker := NewRedisLocker(db, 15*time.Second, zap.NewNop(),
		WithTokenSource(func() string { return testToken }),
		WithPollInterval(time.Millisecond),
	)
	return locker, mockRedis
}

func TestRedisLocker_AcquireAndRelease(t *testing.T) {
	locker, mockRedis := newTestRedisLocker(t)
	keys := []string{"booking:lock:t1:hall-1", "booking:lock:t1:hall-2"}

	mockRedis.ExpectSetNX(keys[0], testToken, 15*time.Second).SetVal(true)
	mockRedis.ExpectSetNX(keys[1], testToken, 15*time.Second).SetVal(true)
	mockRedis.ExpectEval(releaseScript, []string{keys[1]}, testToken).SetVal(int64(1))
	mockRedis.ExpectEval(releaseScript, []string{keys[0]}, testToken).SetVal(int64(1))

	release, err := locker.Acquire(context.Background(), keys, time.Second)
	require.NoError(t, err)

	release(context.Background())

	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestRedisLocker_TimeoutReleasesPartialAcquisition(t *testing.T) {
	locker, mockRedis := newTestRedisLocker(t)
	keys := []string{"booking:lock:t1:hall-1", "booking:lock:t1:hall-2"}

	mockRedis.ExpectSetNX(keys[0], testToken, 15*time.Second).SetVal(true)
	mockRedis.ExpectSetNX(keys[1], testToken, 15*time.Second).SetVal(false)
	mockRedis.ExpectEval(releaseScript, []string{keys[0]}, testToken).SetVal(int64(1))

	release, err := locker.Acquire(context.Background(), keys, 0)

	assert.Nil(t, release)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConcurrency))
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestRedisLocker_RetriesUntilKeyFrees(t *testing.T) {
	locker, mockRedis := newTestRedisLocker(t)
	key := "booking:lock:t1:hall-1"

	mockRedis.ExpectSetNX(key, testToken, 15*time.Second).SetVal(false)
	mockRedis.ExpectSetNX(key, testToken, 15*time.Second).SetVal(true)

	release, err := locker.Acquire(context.Background(), []string{key}, time.Second)

	require.NoError(t, err)
	assert.NotNil(t, release)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestRedisLocker_RedisFailure(t *testing.T) {
	locker, mockRedis := newTestRedisLocker(t)
	key := "booking:lock:t1:hall-1"

	mockRedis.ExpectSetNX(key, testToken, 15*time.Second).SetErr(errors.New("connection refused"))

	_, err := locker.Acquire(context.Background(), []string{key}, time.Second)

	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrConcurrency))
	assert.Contains(t, err.Error(), "connection refused")
}

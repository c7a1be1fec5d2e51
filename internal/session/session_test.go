package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spainrp/awards/internal/logger"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := NewRedisStore(context.Background(), mr.Addr(), "", 0, ttl)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func stores(t *testing.T) map[string]Store {
	redisStore, _ := newRedisStore(t, 0)
	return map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  redisStore,
	}
}

func TestStore_Lifecycle(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			now := time.Date(2025, 12, 1, 12, 0, 0, 0, time.UTC)

			_, err := store.Get(ctx, "u1")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Create(ctx, New("u1", now)))
			assert.ErrorIs(t, store.Create(ctx, New("u1", now)), ErrExists)

			s, err := store.Get(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, 0, s.Step)
			assert.Empty(t, s.Selections)

			s.Selections["mejor_cnp"] = "rugby"
			s.Step = 1
			require.NoError(t, store.Save(ctx, s))

			got, err := store.Get(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, 1, got.Step)
			assert.Equal(t, "rugby", got.Selections["mejor_cnp"])

			require.NoError(t, store.Delete(ctx, "u1"))
			_, err = store.Get(ctx, "u1")
			assert.ErrorIs(t, err, ErrNotFound)
			require.NoError(t, store.Delete(ctx, "u1"), "deleting twice is fine")
			assert.ErrorIs(t, store.Save(ctx, got), ErrNotFound, "save does not revive a deleted session")
			_, err = store.Get(ctx, "u1")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, New("u1", time.Now())))

	s, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	s.Selections["mejor_gc"] = "rodrix_tp"

	fresh, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, fresh.Selections, "unsaved changes must not leak into the store")
}

func TestMemoryStore_Sweep(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Date(2025, 12, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Create(ctx, New("stale", now.Add(-2*time.Hour))))
	require.NoError(t, store.Create(ctx, New("fresh", now.Add(-time.Minute))))

	n, err := store.Sweep(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, store.Len())

	_, err = store.Get(ctx, "stale")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_SaveAfterSweepKeepsSessionGone(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Date(2025, 12, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	require.NoError(t, store.Create(ctx, New("u1", now.Add(-2*time.Hour))))

	inFlight, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	_, err = store.Sweep(ctx, time.Hour)
	require.NoError(t, err)

	inFlight.Step = 1
	inFlight.UpdatedAt = now
	assert.ErrorIs(t, store.Save(ctx, inFlight), ErrNotFound)
	assert.Zero(t, store.Len())
}

func TestRedisStore_TTLExpiresIdleSessions(t *testing.T) {
	store, mr := newRedisStore(t, 30*time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, New("u1", time.Now())))
	assert.Equal(t, 30*time.Minute, mr.TTL(keyPrefix+"u1"))

	mr.FastForward(31 * time.Minute)
	_, err := store.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Save(ctx, New("u1", time.Now())), ErrNotFound)
	assert.False(t, mr.Exists(keyPrefix+"u1"))
}

func TestRedisStore_NoTTLByDefault(t *testing.T) {
	store, mr := newRedisStore(t, 0)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, New("u1", time.Now())))
	assert.Zero(t, mr.TTL(keyPrefix+"u1"))
}

func TestRedisStore_CorruptPayload(t *testing.T) {
	store, mr := newRedisStore(t, 0)
	require.NoError(t, mr.Set(keyPrefix+"u1", "{broken"))

	_, err := store.Get(context.Background(), "u1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisStore(context.Background(), addr, "", 0, 0)
	assert.Error(t, err)
}

func TestRunJanitor(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, store.Create(ctx, New("stale", time.Now().Add(-time.Hour))))

	done := make(chan struct{})
	go func() {
		RunJanitor(ctx, logger.Nop(), store, time.Minute, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestRunJanitor_DisabledReturnsImmediately(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Create(context.Background(), New("stale", time.Now().Add(-time.Hour))))

	RunJanitor(context.Background(), logger.Nop(), store, 0, time.Millisecond)
	assert.Equal(t, 1, store.Len())
}

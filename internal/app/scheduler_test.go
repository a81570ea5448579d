package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeExpirer struct {
	mu    sync.Mutex
	calls []time.Time
	err   error
}

func (f *fakeExpirer) ExpireStaleRequests(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, now)
	return 1, f.err
}

func (f *fakeExpirer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestScheduler(t *testing.T) {
	t.Run("runs immediately and on every tick", func(t *testing.T) {
		expirer := &fakeExpirer{}
		s := NewScheduler(expirer, 10*time.Millisecond, zap.NewNop())

		s.Start(context.Background())
		assert.Eventually(t, func() bool { return expirer.count() >= 3 }, time.Second, 5*time.Millisecond)
		s.Stop()

		stopped := expirer.count()
		time.Sleep(30 * time.Millisecond)
		assert.Equal(t, stopped, expirer.count())
	})

	t.Run("keeps running after errors", func(t *testing.T) {
		expirer := &fakeExpirer{err: errors.New("db is down")}
		s := NewScheduler(expirer, 10*time.Millisecond, zap.NewNop())

		s.Start(context.Background())
		assert.Eventually(t, func() bool { return expirer.count() >= 2 }, time.Second, 5*time.Millisecond)
		s.Stop()
	})

	t.Run("stops when context is cancelled", func(t *testing.T) {
		expirer := &fakeExpirer{}
		s := NewScheduler(expirer, time.Hour, zap.NewNop())

		ctx, cancel := context.WithCancel(context.Background())
		s.Start(ctx)
		cancel()

		select {
		case <-s.done:
		case <-time.After(time.Second):
			t.Fatal("scheduler did not stop")
		}
	})
}

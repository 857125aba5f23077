package lock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSpinLock(t *testing.T) {
	var lk SpinLock
	lk.Lock()
	require.True(t, lk.busy.Load())
	require.False(t, lk.TryLock())
	lk.Unlock()
	require.False(t, lk.busy.Load())
}

func TestSpinLockWaits(t *testing.T) {
	var lk SpinLock
	lk.Lock()

	waiting := make(chan struct{})
	acquired := make(chan struct{})
	go func() {
		close(waiting)
		lk.Lock()
		close(acquired)
		lk.Unlock()
	}()

	// The waiter is running; give it a window to wrongly get through.
	<-waiting
	select {
	case <-acquired:
		t.Fatal("second Lock returned while the lock was held")
	case <-time.After(20 * time.Millisecond):
	}

	lk.Unlock()
	<-acquired
}

func BenchmarkSpinLock(b *testing.B) {
	var lk SpinLock
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			lk.Lock()
			lk.Unlock()
		}
	})
}

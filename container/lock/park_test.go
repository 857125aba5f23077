package lock

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParkLockStates(t *testing.T) {
	var lk ParkLock
	require.True(t, lk.TryLock())
	require.Equal(t, parkHeld, atomic.LoadUint32(&lk.state))
	lk.Unlock()
	require.Equal(t, parkFree, atomic.LoadUint32(&lk.state))
}

// Far more goroutines than Ps, so waiters run out of spins and park.
func TestParkLockContended(t *testing.T) {
	goroutines := runtime.GOMAXPROCS(0) * 16
	const n = 2000

	var lk ParkLock
	var counter int
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < n; j++ {
				lk.Lock()
				counter++
				if j%64 == 0 {
					// Stretch the critical section so the spin phase expires.
					runtime.Gosched()
				}
				lk.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, goroutines*n, counter)
	require.Equal(t, parkFree, atomic.LoadUint32(&lk.state))
}

func TestParkLockWakesSleeper(t *testing.T) {
	var lk ParkLock
	lk.Lock()

	acquired := make(chan struct{})
	go func() {
		lk.Lock()
		close(acquired)
		lk.Unlock()
	}()

	// Wait for the waiter to announce itself.
	for atomic.LoadUint32(&lk.state) != parkContended {
		runtime.Gosched()
	}
	lk.Unlock()
	<-acquired
	require.Equal(t, parkFree, atomic.LoadUint32(&lk.state))
}

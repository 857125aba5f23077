//go:build !linux

package lock

import (
	"sync/atomic"
	"time"
)

// Without futexes a parked waiter naps and re-checks the word.
const parkSleep = 50 * time.Microsecond

func futexWait(addr *uint32, val uint32) {
	if atomic.LoadUint32(addr) == val {
		time.Sleep(parkSleep)
	}
}

func futexWake(addr *uint32, n int) {}

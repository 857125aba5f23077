package lock

import (
	"sync/atomic"

	"github.com/tezrry/spinbench/link"
)

const (
	parkFree      uint32 = 0
	parkHeld      uint32 = 1
	parkContended uint32 = 2 // held, and somebody may be asleep on the word

	parkSpins = 100
)

// ParkLock spins for a bounded number of attempts and then sleeps in the
// kernel until the holder wakes it. Unlock only pays for a wake-up when a
// waiter announced itself by moving the word to parkContended.
type ParkLock struct {
	_     noCopy
	state uint32
}

func (inst *ParkLock) TryLock() bool {
	return atomic.CompareAndSwapUint32(&inst.state, parkFree, parkHeld)
}

func (inst *ParkLock) Lock() {
	if atomic.CompareAndSwapUint32(&inst.state, parkFree, parkHeld) {
		return
	}

	for i := 0; i < parkSpins; i++ {
		if atomic.LoadUint32(&inst.state) == parkFree &&
			atomic.CompareAndSwapUint32(&inst.state, parkFree, parkHeld) {
			return
		}
		link.ProcYield(relaxCycles)
	}

	// From here on the lock is taken as parkContended even if nobody else
	// waits: we cannot tell whether another sleeper is still parked.
	for atomic.SwapUint32(&inst.state, parkContended) != parkFree {
		futexWait(&inst.state, parkContended)
	}
}

func (inst *ParkLock) Unlock() {
	old := atomic.SwapUint32(&inst.state, parkFree)
	if assertEnabled && old == parkFree {
		panic(ErrUnlockUnlocked)
	}

	if old == parkContended {
		futexWake(&inst.state, 1)
	}
}

package lock

import (
	"sync/atomic"

	"github.com/tezrry/spinbench/link"
)

// One PAUSE per failed exchange, like cpu_relax().
const relaxCycles = uint32(1)

// SpinLock is a test-and-set lock on a single flag. Waiters never leave the
// CPU: every failed exchange is followed by a relax hint and another exchange.
// There is no fairness, a waiter may lose every race indefinitely.
//
// The zero value is an unlocked lock.
type SpinLock struct {
	_    noCopy
	busy atomic.Bool
}

// TryLock takes the lock if it is free and reports whether it did.
func (inst *SpinLock) TryLock() bool {
	return !inst.busy.Swap(true)
}

func (inst *SpinLock) Lock() {
	for inst.busy.Swap(true) {
		link.ProcYield(relaxCycles)
	}
}

// Unlock must only be called by the holder.
func (inst *SpinLock) Unlock() {
	if assertEnabled {
		if !inst.busy.Swap(false) {
			panic(ErrUnlockUnlocked)
		}
		return
	}

	inst.busy.Store(false)
}

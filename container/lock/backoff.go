package lock

import (
	"sync/atomic"

	"github.com/tezrry/spinbench/link"
)

const (
	backoffMinCycles = uint32(4)
	backoffMaxCycles = uint32(1024)
)

// BackoffLock is a test-and-test-and-set lock. A waiter polls the flag with
// plain loads and doubles its randomized pause between polls, so contending
// waiters stop hammering the cache line with exchanges.
type BackoffLock struct {
	_    noCopy
	busy atomic.Bool
}

func (inst *BackoffLock) TryLock() bool {
	return !inst.busy.Swap(true)
}

func (inst *BackoffLock) Lock() {
	if !inst.busy.Swap(true) {
		return
	}

	limit := backoffMinCycles
	for {
		for inst.busy.Load() {
			half := limit >> 1
			link.ProcYield(half + link.FastRand()%(half+1))
			if limit < backoffMaxCycles {
				limit <<= 1
			}
		}

		if !inst.busy.Swap(true) {
			return
		}
	}
}

func (inst *BackoffLock) Unlock() {
	if assertEnabled {
		if !inst.busy.Swap(false) {
			panic(ErrUnlockUnlocked)
		}
		return
	}

	inst.busy.Store(false)
}

package lock

import (
	"runtime"
	"sync/atomic"

	"github.com/tezrry/spinbench/link"
)

// YieldLock spins only while the runtime says spinning can pay off (the
// sync.Mutex policy), then hands its P back with runtime.Gosched.
type YieldLock struct {
	_    noCopy
	busy atomic.Bool
}

func (inst *YieldLock) TryLock() bool {
	return !inst.busy.Swap(true)
}

func (inst *YieldLock) Lock() {
	var spins int
	for inst.busy.Swap(true) {
		if link.CanSpin(spins) {
			spins++
			link.DoSpin()
			continue
		}

		spins = 0
		runtime.Gosched()
	}
}

func (inst *YieldLock) Unlock() {
	if assertEnabled {
		if !inst.busy.Swap(false) {
			panic(ErrUnlockUnlocked)
		}
		return
	}

	inst.busy.Store(false)
}

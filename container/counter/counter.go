package counter

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/cpu"
)

type slot struct {
	v uint64
	_ [unsafe.Sizeof(cpu.CacheLinePad{}) - 8]byte
}

// Counters keeps one operation counter per worker index. It does no
// synchronization of its own: every method must run under the lock the
// workers and the reporter share.
//
// Counters are uint64 and wrap on overflow, which takes centuries at the
// rates a single lock can sustain.
type Counters struct {
	slot []slot
}

func New(n int) *Counters {
	if n < 1 {
		panic(fmt.Errorf("counter num MUST be greater than 0, got %d", n))
	}

	return &Counters{slot: make([]slot, n)}
}

func (inst *Counters) Len() int {
	return len(inst.slot)
}

// Visit records one critical-section entry by worker index.
func (inst *Counters) Visit(index int) {
	inst.slot[index].v++
}

// Drain copies every counter into dst, in index order, and zeroes it.
// dst is reused when it has room for all counters.
func (inst *Counters) Drain(dst []uint64) []uint64 {
	if cap(dst) < len(inst.slot) {
		dst = make([]uint64, len(inst.slot))
	}
	dst = dst[:len(inst.slot)]

	for i := range inst.slot {
		dst[i] = inst.slot[i].v
		inst.slot[i].v = 0
	}
	return dst
}

// Sum adds up a drained snapshot.
func Sum(snapshot []uint64) uint64 {
	var sum uint64
	for _, v := range snapshot {
		sum += v
	}
	return sum
}

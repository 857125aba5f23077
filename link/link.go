package link

import _ "unsafe"

// ProcYield executes the CPU relax instruction (PAUSE on amd64, YIELD on arm64)
// the given number of times. The goroutine keeps its P and its thread.
//
//go:linkname ProcYield runtime.procyield
func ProcYield(cycles uint32)

//go:linkname FastRand runtime.fastrand
func FastRand() uint32

// CanSpin reports whether active spinning makes sense at the given iteration,
// using the same policy as sync.Mutex (multicore, idle Ps, bounded iterations).
//
//go:linkname CanSpin sync.runtime_canSpin
func CanSpin(i int) bool

//go:linkname DoSpin sync.runtime_doSpin
func DoSpin()

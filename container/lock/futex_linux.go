//go:build linux

package lock

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	_FUTEX_WAIT         = 0
	_FUTEX_WAKE         = 1
	_FUTEX_PRIVATE_FLAG = 128

	_FUTEX_WAIT_PRIVATE = _FUTEX_WAIT | _FUTEX_PRIVATE_FLAG
	_FUTEX_WAKE_PRIVATE = _FUTEX_WAKE | _FUTEX_PRIVATE_FLAG
)

// futexWait sleeps while *addr == val. EAGAIN and EINTR are not errors for
// the caller, it re-reads the word either way.
func futexWait(addr *uint32, val uint32) {
	_, _, _ = unix.Syscall6(unix.SYS_FUTEX, uintptr(unsafe.Pointer(addr)),
		_FUTEX_WAIT_PRIVATE, uintptr(val), 0, 0, 0)
}

func futexWake(addr *uint32, n int) {
	_, _, _ = unix.Syscall6(unix.SYS_FUTEX, uintptr(unsafe.Pointer(addr)),
		_FUTEX_WAKE_PRIVATE, uintptr(n), 0, 0, 0)
}

package lock

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sys/cpu"
)

var (
	ErrUnknownType    = errors.New("lock: unknown lock type")
	ErrUnlockUnlocked = errors.New("lock: unlock of unlocked lock")
	ErrDestroyHeld    = errors.New("lock: destroy of held lock")
)

// Locker is the exclusive lock the harness benchmarks.
// *sync.Mutex satisfies it as well.
type Locker interface {
	Lock()
	Unlock()
	TryLock() bool
}

type Type uint8

const (
	TypeSpin    Type = iota // single flag, exchange + relax hint
	TypePark                // spin, then sleep in the kernel
	TypeBackoff             // exponential randomized backoff
	TypeYield               // yield to the scheduler once spinning stops paying off
	TypeMutex               // sync.Mutex baseline
	typeEnd
)

var typeNames = [...]string{
	TypeSpin:    "spin",
	TypePark:    "park",
	TypeBackoff: "backoff",
	TypeYield:   "yield",
	TypeMutex:   "mutex",
}

// "old" and "new" are the names the seastar benchmark used for its two spinlocks.
var typeAliases = map[string]Type{
	"old": TypeSpin,
	"new": TypePark,
}

func (t Type) String() string {
	if t < typeEnd {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

func (t Type) MarshalText() ([]byte, error) {
	if t >= typeEnd {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, uint8(t))
	}
	return []byte(typeNames[t]), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	v, err := ParseType(string(text))
	if err != nil {
		return err
	}

	*t = v
	return nil
}

// Types returns every supported lock type in declaration order.
func Types() []Type {
	ret := make([]Type, 0, typeEnd)
	for t := Type(0); t < typeEnd; t++ {
		ret = append(ret, t)
	}
	return ret
}

func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range typeNames {
		if n == name {
			return Type(t), nil
		}
	}

	if t, ok := typeAliases[name]; ok {
		return t, nil
	}

	return typeEnd, fmt.Errorf("%w %q", ErrUnknownType, name)
}

// Each lock returned by New sits alone on its cache line(s), the same
// isolation the benchmark gets from alignas(128) in C++.
type paddedSpin struct {
	_ cpu.CacheLinePad
	SpinLock
	_ cpu.CacheLinePad
}

type paddedPark struct {
	_ cpu.CacheLinePad
	ParkLock
	_ cpu.CacheLinePad
}

type paddedBackoff struct {
	_ cpu.CacheLinePad
	BackoffLock
	_ cpu.CacheLinePad
}

type paddedYield struct {
	_ cpu.CacheLinePad
	YieldLock
	_ cpu.CacheLinePad
}

type paddedMutex struct {
	_ cpu.CacheLinePad
	sync.Mutex
	_ cpu.CacheLinePad
}

func New(t Type) (Locker, error) {
	switch t {
	case TypeSpin:
		return &paddedSpin{}, nil
	case TypePark:
		return &paddedPark{}, nil
	case TypeBackoff:
		return &paddedBackoff{}, nil
	case TypeYield:
		return &paddedYield{}, nil
	case TypeMutex:
		return &paddedMutex{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
	}
}

// Destroy ends the life of l. Destroying a held lock is a programming error;
// builds with the debug tag panic on it, other builds do not check.
func Destroy(l Locker) {
	if !assertEnabled || l == nil {
		return
	}

	if !l.TryLock() {
		panic(ErrDestroyHeld)
	}
	l.Unlock()
}

// noCopy may be added to structs which must not be copied
// after the first use.
//
// See https://golang.org/issues/8005#issuecomment-190753527
// for details.
type noCopy struct{}

// Lock is a no-op used by -copylocks checker from `go vet`.
func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

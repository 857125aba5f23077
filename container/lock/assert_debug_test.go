//go:build debug

package lock

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDestroyHeldPanics(t *testing.T) {
	for _, typ := range Types() {
		l, err := New(typ)
		require.NoError(t, err)
		require.NotPanics(t, func() { Destroy(l) })

		l.Lock()
		require.PanicsWithValue(t, ErrDestroyHeld, func() { Destroy(l) }, typ.String())
		l.Unlock()
	}
}

func TestUnlockUnlockedPanics(t *testing.T) {
	for _, l := range []Locker{&SpinLock{}, &ParkLock{}, &BackoffLock{}, &YieldLock{}} {
		require.PanicsWithValue(t, ErrUnlockUnlocked, l.Unlock)
	}
}

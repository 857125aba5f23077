//go:build debug

package lock

const assertEnabled = true

package harness

import (
	"io"
	"time"

	"github.com/tezrry/spinbench/container/lock"
	"github.com/tezrry/spinbench/logging"
)

type ConfigFunc func(c *Config)

type Config struct {
	// Workers is the number of goroutines competing for the lock.
	Workers int

	// LockType selects the lock under test.
	LockType lock.Type

	// Locker, when set, is benchmarked instead of a new LockType instance.
	Locker lock.Locker

	// Interval is the time between two reports.
	Interval time.Duration

	// Iterations bounds the number of critical sections each worker runs.
	// Zero means the workers run until the context given to Run ends.
	Iterations uint64

	// LockOSThread wires every worker to its own OS thread for its lifetime.
	LockOSThread bool

	// Output receives the banner, one line per interval and the summary.
	Output io.Writer

	Logger logging.Logger

	// OnReport is called by the reporter after every drain, the final one included.
	OnReport func(r *Report)
}

func WithConfig(config *Config) ConfigFunc {
	return func(c *Config) {
		*c = *config
	}
}

func WithWorkers(num int) ConfigFunc {
	return func(c *Config) {
		c.Workers = num
	}
}

func WithLockType(t lock.Type) ConfigFunc {
	return func(c *Config) {
		c.LockType = t
	}
}

func WithLocker(l lock.Locker) ConfigFunc {
	return func(c *Config) {
		c.Locker = l
	}
}

func WithInterval(d time.Duration) ConfigFunc {
	return func(c *Config) {
		c.Interval = d
	}
}

func WithIterations(n uint64) ConfigFunc {
	return func(c *Config) {
		c.Iterations = n
	}
}

func WithLockOSThread(v bool) ConfigFunc {
	return func(c *Config) {
		c.LockOSThread = v
	}
}

func WithOutput(w io.Writer) ConfigFunc {
	return func(c *Config) {
		c.Output = w
	}
}

func WithLogger(logger logging.Logger) ConfigFunc {
	return func(c *Config) {
		c.Logger = logger
	}
}

func WithOnReport(f func(r *Report)) ConfigFunc {
	return func(c *Config) {
		c.OnReport = f
	}
}

package harness

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/tezrry/spinbench/container/counter"
	"github.com/tezrry/spinbench/container/gopool"
	"github.com/tezrry/spinbench/container/lock"
	"github.com/tezrry/spinbench/logging"
)

var (
	ErrInvalidWorkers  = errors.New("harness: invalid worker num")
	ErrInvalidInterval = errors.New("harness: invalid report interval")
	ErrAlreadyStarted  = errors.New("harness: already started")

	errWorkersDone = errors.New("harness: all workers returned")
)

// Harness drives a lock with Config.Workers goroutines, each looping on
// lock, increment its own counter, unlock. Run reports the drained counters
// every Config.Interval.
//
// The counters are only ever touched under the lock under test.
type Harness struct {
	config   Config
	lock     lock.Locker
	lockName string
	counters *counter.Counters
	pool     gopool.Pool
	started  atomic.Bool

	// stop is checked by every worker once per iteration, outside the
	// critical section.
	stop atomic.Bool

	// hook, when set, runs in a worker right before each acquisition.
	hook func(index int)

	// Reporter state, owned by the goroutine in Run.
	start  time.Time
	prev   time.Time
	seq    uint64
	snap   []uint64
	totals []uint64
}

func Create(config ...ConfigFunc) (*Harness, error) {
	inst := &Harness{
		config: Config{
			Workers:      runtime.NumCPU(),
			LockType:     lock.TypeSpin,
			Interval:     time.Second,
			LockOSThread: true,
		},
	}

	for _, cf := range config {
		cf(&inst.config)
	}

	if inst.config.Workers < 1 {
		return nil, fmt.Errorf("%w: MUST be greater than 0, got %d", ErrInvalidWorkers, inst.config.Workers)
	}
	if inst.config.Interval <= 0 {
		return nil, fmt.Errorf("%w: MUST be positive, got %s", ErrInvalidInterval, inst.config.Interval)
	}
	if inst.config.Output == nil {
		inst.config.Output = os.Stdout
	}
	if inst.config.Logger == nil {
		inst.config.Logger = logging.GetDefaultLogger()
	}

	if inst.config.Locker != nil {
		inst.lock = inst.config.Locker
		inst.lockName = "custom"
	} else {
		var err error
		inst.lock, err = lock.New(inst.config.LockType)
		if err != nil {
			return nil, err
		}
		inst.lockName = inst.config.LockType.String()
	}

	inst.counters = counter.New(inst.config.Workers)
	inst.totals = make([]uint64, inst.config.Workers)
	inst.start = time.Now()
	inst.prev = inst.start
	return inst, nil
}

func (inst *Harness) Config() Config {
	return inst.config
}

// LockName is the lock variant shown in the banner.
func (inst *Harness) LockName() string {
	return inst.lockName
}

// Totals returns the per-worker operation counts of the run. Read it after
// Run has returned.
func (inst *Harness) Totals() []uint64 {
	return append([]uint64(nil), inst.totals...)
}

// Run prints the banner, starts the workers and reports every interval
// until ctx ends or, with bounded iterations, every worker is done. It then
// stops and joins the workers, reports the last partial interval and the
// run summary, and destroys the lock. Run can only be called once.
func (inst *Harness) Run(ctx context.Context) error {
	if !inst.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	logger := inst.config.Logger
	inst.writeBanner()
	logger.Infof("harness: starting %d workers on %s lock, reporting every %s",
		inst.config.Workers, inst.lockName, inst.config.Interval)

	if err := inst.openPool(); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	inst.start = time.Now()
	inst.prev = inst.start
	if err := inst.spawn(gctx); err != nil {
		return multierr.Append(err, inst.close())
	}

	g.Go(func() error {
		inst.pool.Wait()
		return errWorkersDone
	})

	ticker := time.NewTicker(inst.config.Interval)
	defer ticker.Stop()

LOOP:
	for {
		select {
		case <-gctx.Done():
			break LOOP

		case <-ticker.C:
			inst.emit(inst.drain())
		}
	}

	inst.stop.Store(true)
	err := g.Wait()
	if errors.Is(err, errWorkersDone) {
		err = nil
	}

	last := inst.drain()
	inst.emit(last)
	inst.writeSummary(last.At)
	logger.Infof("harness: %d workers joined after %s", inst.config.Workers, last.At.Sub(inst.start))
	return multierr.Append(err, inst.close())
}

// openPool starts the worker goroutines' pool. It is deferred to Run so a
// harness that is never run holds no goroutines.
func (inst *Harness) openPool() error {
	pool, err := gopool.NewAntsPool(inst.config.Workers, inst.config.Logger)
	if err != nil {
		return err
	}

	inst.pool = pool
	return nil
}

func (inst *Harness) spawn(ctx context.Context) error {
	for i := 0; i < inst.config.Workers; i++ {
		if err := inst.pool.Schedule(ctx, inst.work, i); err != nil {
			inst.stop.Store(true)
			inst.pool.Wait()
			return fmt.Errorf("harness: spawn worker %d: %w", i, err)
		}
	}

	return nil
}

func (inst *Harness) work(_ context.Context, param ...interface{}) {
	index := param[0].(int)
	if inst.config.LockOSThread {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}

	limit := inst.config.Iterations
	for i := uint64(0); limit == 0 || i < limit; i++ {
		if inst.stop.Load() {
			return
		}
		if inst.hook != nil {
			inst.hook(index)
		}

		inst.lock.Lock()
		inst.counters.Visit(index)
		inst.lock.Unlock()
	}
}

// drain takes the lock, snapshots and zeroes the counters, and returns the
// interval since the previous drain.
func (inst *Harness) drain() *Report {
	inst.lock.Lock()
	now := time.Now()
	inst.snap = inst.counters.Drain(inst.snap)
	next := time.Now()
	inst.lock.Unlock()

	for i, v := range inst.snap {
		inst.totals[i] += v
	}

	inst.seq++
	r := newReport(inst.seq, now, now.Sub(inst.prev), append([]uint64(nil), inst.snap...))
	inst.prev = next
	return r
}

func (inst *Harness) close() error {
	lock.Destroy(inst.lock)
	if inst.pool == nil {
		return nil
	}
	return inst.pool.Release()
}

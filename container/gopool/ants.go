package gopool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/tezrry/spinbench/logging"
)

const releaseTimeout = 5 * time.Second

// AntsPool is a Pool on top of a fixed-size, pre-allocated ants pool.
// Submit blocks while all goroutines are busy, so size bounds the number
// of tasks running at once.
type AntsPool struct {
	pool   *ants.Pool
	wg     sync.WaitGroup
	logger logging.Logger
}

var _ Pool = (*AntsPool)(nil)

type printfLogger struct {
	logging.Logger
}

func (l printfLogger) Printf(format string, args ...interface{}) {
	l.Infof(format, args...)
}

func NewAntsPool(size int, logger logging.Logger) (*AntsPool, error) {
	if logger == nil {
		logger = logging.GetDefaultLogger()
	}

	inst := &AntsPool{logger: logger}
	pool, err := ants.NewPool(size,
		ants.WithPreAlloc(true),
		ants.WithLogger(printfLogger{logger}),
		ants.WithPanicHandler(func(p interface{}) {
			inst.logger.Errorf("gopool: task panicked: %v", p)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("gopool: create pool of %d: %w", size, err)
	}

	inst.pool = pool
	return inst, nil
}

func (inst *AntsPool) Schedule(ctx context.Context, f TaskFunc, param ...interface{}) error {
	task := newTask(ctx, f, param...)
	inst.wg.Add(1)
	err := inst.pool.Submit(func() {
		defer inst.wg.Done()
		defer freeTask(task)
		task.run()
	})
	if err != nil {
		inst.wg.Done()
		freeTask(task)
		return fmt.Errorf("gopool: schedule task: %w", err)
	}

	return nil
}

func (inst *AntsPool) Wait() {
	inst.wg.Wait()
}

// Running returns the number of live worker goroutines.
func (inst *AntsPool) Running() int {
	return inst.pool.Running()
}

func (inst *AntsPool) Release() error {
	return inst.pool.ReleaseTimeout(releaseTimeout)
}

// Command spinbench measures lock throughput under contention. Every worker
// loops on lock, increment its own counter, unlock; once per interval the
// counters are drained under the same lock and printed:
//
//	Params: workers: 2; spinlock version: spin;
//	sum: 41021338 over 1000061953 speed: 41.018797 op/mcs; 20621054 20400284
//
// It runs until interrupted, or for -duration, or until every worker has
// done -iterations critical sections.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/tezrry/spinbench/harness"
	"github.com/tezrry/spinbench/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		logging.Fatalf("spinbench: %v", err)
	}
	logging.Cleanup()
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	_, _ = fmt.Fprintln(stdout, "Start")

	opts, err := parseOptions(args, stderr)
	if err != nil {
		return err
	}

	if opts.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.duration)
		defer cancel()
	}

	h, err := harness.Create(
		harness.WithWorkers(opts.workers),
		harness.WithLockType(opts.lockType),
		harness.WithInterval(opts.interval),
		harness.WithIterations(opts.iterations),
		harness.WithLockOSThread(opts.lockOSThread),
		harness.WithOutput(stdout),
		harness.WithLogger(logging.GetDefaultLogger()),
	)
	if err != nil {
		return err
	}

	return h.Run(ctx)
}

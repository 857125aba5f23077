package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/tezrry/spinbench/container/lock"
)

// The benchmark's historical configuration: two workers on the plain spinlock.
const (
	defaultWorkers  = 2
	defaultLock     = lock.TypeSpin
	defaultInterval = time.Second
)

type options struct {
	lockType     lock.Type
	workers      int
	interval     time.Duration
	iterations   uint64
	duration     time.Duration
	lockOSThread bool
}

// fileConfig is the layout of the -config TOML file. Durations use
// time.ParseDuration syntax.
//
//	lock = "park"
//	workers = 8
//	interval = "500ms"
type fileConfig struct {
	Lock         *lock.Type `toml:"lock"`
	Workers      *int       `toml:"workers"`
	Interval     string     `toml:"interval"`
	Iterations   *uint64    `toml:"iterations"`
	Duration     string     `toml:"duration"`
	LockOSThread *bool      `toml:"lock_os_thread"`
}

func loadFile(path string, opts *options) error {
	var fc fileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("load config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	if fc.Lock != nil {
		opts.lockType = *fc.Lock
	}
	if fc.Workers != nil {
		opts.workers = *fc.Workers
	}
	if fc.Iterations != nil {
		opts.iterations = *fc.Iterations
	}
	if fc.LockOSThread != nil {
		opts.lockOSThread = *fc.LockOSThread
	}
	if fc.Interval != "" {
		if opts.interval, err = time.ParseDuration(fc.Interval); err != nil {
			return fmt.Errorf("load config %s: interval: %w", path, err)
		}
	}
	if fc.Duration != "" {
		if opts.duration, err = time.ParseDuration(fc.Duration); err != nil {
			return fmt.Errorf("load config %s: duration: %w", path, err)
		}
	}

	return nil
}

// parseOptions applies, in order, the defaults, the -config file and the
// flags given explicitly on the command line.
func parseOptions(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("spinbench", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configPath   = fs.String("config", "", "TOML file with lock, workers, interval, iterations, duration, lock_os_thread")
		lockName     = fs.String("lock", defaultLock.String(), "lock under test: spin (old), park (new), backoff, yield, mutex")
		workers      = fs.Int("workers", defaultWorkers, "number of contending workers")
		interval     = fs.Duration("interval", defaultInterval, "time between two reports")
		iterations   = fs.Uint64("iterations", 0, "critical sections per worker, 0 runs until interrupted")
		duration     = fs.Duration("duration", 0, "stop after this long, 0 runs until interrupted")
		lockOSThread = fs.Bool("lock-os-thread", true, "pin every worker to its own OS thread")
	)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	opts := &options{
		lockType:     defaultLock,
		workers:      defaultWorkers,
		interval:     defaultInterval,
		lockOSThread: true,
	}
	if *configPath != "" {
		if err := loadFile(*configPath, opts); err != nil {
			return nil, err
		}
	}

	var err error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lock":
			var t lock.Type
			if t, err = lock.ParseType(*lockName); err == nil {
				opts.lockType = t
			}
		case "workers":
			opts.workers = *workers
		case "interval":
			opts.interval = *interval
		case "iterations":
			opts.iterations = *iterations
		case "duration":
			opts.duration = *duration
		case "lock-os-thread":
			opts.lockOSThread = *lockOSThread
		}
	})
	if err != nil {
		return nil, err
	}

	if opts.duration < 0 {
		return nil, errors.New("duration MUST NOT be negative")
	}
	return opts, nil
}

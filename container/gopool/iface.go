package gopool

import "context"

type TaskFunc func(ctx context.Context, param ...interface{})

// Pool runs long-lived tasks on their own goroutines and joins them.
type Pool interface {
	Schedule(ctx context.Context, task TaskFunc, param ...interface{}) error
	// Wait blocks until every scheduled task has returned.
	Wait()
	Release() error
}

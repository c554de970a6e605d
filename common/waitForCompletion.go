package common

import (
	"context"
	"time"
)

// WaitForCompletion attempts task at repeat intervals until timeout or success (bool return is true)
func WaitForCompletion(repeat, timeout time.Duration, task func() (interface{}, bool)) (interface{}, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return WaitForCompletionCtx(ctx, repeat, task)
}

// WaitForCompletionCtx is like WaitForCompletion but stops when ctx is done
func WaitForCompletionCtx(ctx context.Context, repeat time.Duration, task func() (interface{}, bool)) (interface{}, bool) {
	ticker := time.NewTicker(repeat)
	defer ticker.Stop()
	for {
		res, completed := task()
		if completed {
			return res, true
		}
		select {
		case <-ctx.Done():
			return nil, false
		case <-ticker.C:
		}
	}
}

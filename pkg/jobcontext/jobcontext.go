package jobcontext

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type ctxKey string

const jobNameKey ctxKey = "job_name"

// DefaultTimeout bounds a single processing job
const DefaultTimeout = 5 * time.Minute

// Begin derives a job-scoped context with a deadline and job metadata
func Begin(ctx context.Context, name string) (context.Context, context.CancelFunc) {
	ctx = context.WithValue(ctx, jobNameKey, name)
	return context.WithTimeout(ctx, DefaultTimeout)
}

// Name returns the job name stored in the context, if any
func Name(ctx context.Context) string {
	if v, ok := ctx.Value(jobNameKey).(string); ok {
		return v
	}
	return ""
}

// Run executes fn, converting panics into errors so a bad transcript or
// model response never takes the worker goroutine down with it.
func Run(ctx context.Context, logger *zap.Logger, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("job panicked",
				zap.String("job", Name(ctx)),
				zap.Any("panic", r))
			err = fmt.Errorf("job %s panicked: %v", Name(ctx), r)
		}
	}()
	return fn(ctx)
}

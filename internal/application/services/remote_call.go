package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vetconnect/backend/internal/infrastructure/observability"
	apperrors "github.com/vetconnect/backend/pkg/errors"
)

// Clock returns the current time. Services evaluate opening hours against it.
type Clock func() time.Time

// withDeadline derives a context bounded by timeout. A non-positive timeout
// leaves ctx unbounded.
func withDeadline(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// callRemote runs fn under timeout, records its latency against target and
// normalizes the error: deadline expiry becomes TIMEOUT, AppErrors pass
// through, anything else becomes EXTERNAL.
func callRemote[T any](ctx context.Context, metrics *observability.Metrics, target string, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	callCtx, cancel := withDeadline(ctx, timeout)
	defer cancel()

	start := time.Now()
	value, err := fn(callCtx)
	observability.RecordRemoteCall(ctx, metrics, target, time.Since(start), err)
	if err != nil {
		var zero T
		return zero, remoteError(callCtx, target, err)
	}
	return value, nil
}

func remoteError(callCtx context.Context, target string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return apperrors.NewTimeoutError(fmt.Sprintf("%s did not answer in time", target), err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.NewExternalError(fmt.Sprintf("%s request failed", target), err)
}

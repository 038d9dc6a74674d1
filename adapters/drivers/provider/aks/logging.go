package aks

import (
	"context"
	"time"

	"github.com/fleetform/fleetform/internal/logging"
)

// withMethodLogger implements the span pattern for AKS driver logging.
// It emits a START line and returns a context with the driver attribute
// attached, plus a cleanup emitting END:OK or END:FAILED.
func (d *driver) withMethodLogger(ctx context.Context, method string) (context.Context, func(err error)) {
	startAt := time.Now()

	logger := logging.FromContext(ctx).With("driver", "AKS."+method)
	ctx = logging.WithLogger(ctx, logger)
	logger.Info(ctx, "AKS:"+method+":START")

	cleanup := func(err error) {
		elapsed := time.Since(startAt).Seconds()
		if err == nil {
			logger.Info(ctx, "AKS:"+method+":END:OK", "elapsed", elapsed)
			return
		}
		errStr := err.Error()
		if len(errStr) > 32 {
			errStr = errStr[:32] + "..."
		}
		logger.Warn(ctx, "AKS:"+method+":END:FAILED", "err", errStr, "elapsed", elapsed)
	}

	return ctx, cleanup
}

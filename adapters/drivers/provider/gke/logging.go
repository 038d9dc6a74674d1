package gke

import (
	"context"
	"time"

	"github.com/fleetform/fleetform/internal/logging"
)

// withMethodLogger implements the span pattern for GKE driver logging.
// It emits a START line and returns a context with the driver attribute
// attached, plus a cleanup emitting END:OK or END:FAILED.
//
// Usage:
//
//	ctx, cleanup := d.withMethodLogger(ctx, "ClusterCreate")
//	defer func() { cleanup(err) }()
func (d *driver) withMethodLogger(ctx context.Context, method string) (context.Context, func(err error)) {
	startAt := time.Now()

	logger := logging.FromContext(ctx).With("driver", "GKE."+method)
	ctx = logging.WithLogger(ctx, logger)
	logger.Info(ctx, "GKE:"+method+":START")

	cleanup := func(err error) {
		elapsed := time.Since(startAt).Seconds()
		if err == nil {
			logger.Info(ctx, "GKE:"+method+":END:OK", "elapsed", elapsed)
			return
		}
		errStr := err.Error()
		if len(errStr) > 32 {
			errStr = errStr[:32] + "..."
		}
		logger.Warn(ctx, "GKE:"+method+":END:FAILED", "err", errStr, "elapsed", elapsed)
	}

	return ctx, cleanup
}

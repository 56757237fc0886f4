package observability

import (
	"context"
	"errors"
	"fmt"
)

// Shutdown flushes and stops whatever Setup installed.
type Shutdown func(ctx context.Context) error

// Setup installs the OTLP tracer and meter providers when cfg has an
// endpoint. Without one it leaves the no-op providers in place and returns
// a no-op Shutdown.
func Setup(ctx context.Context, cfg *Config, serviceVersion string) (Shutdown, error) {
	if cfg == nil || !cfg.Enabled() {
		return func(context.Context) error { return nil }, nil
	}

	tp, err := InitTracer(ctx, cfg.TracerConfig(serviceVersion))
	if err != nil {
		return nil, err
	}
	mp, err := InitMeter(ctx, cfg.MeterConfig(serviceVersion))
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	return func(ctx context.Context) error {
		var errs []error
		if err := mp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
		if err := tp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
		return errors.Join(errs...)
	}, nil
}

// Package geoloc abstracts one-shot position acquisition. Implementations
// wrap whatever platform facility supplies coordinates (a mobile bridge, a
// browser, a GPS daemon); callers only see a point or a typed failure.
package geoloc

import (
	"context"
	"errors"
	"time"

	"github.com/defesacivil/citizen_incident_system/pkg/geo"
)

// DefaultTimeout bounds the wait for a position fix. Acquisition must fail
// with ErrTimeout after this long rather than hang indefinitely.
const DefaultTimeout = 10 * time.Second

// Typed acquisition failures. All of them surface to the user as a
// location-unavailable condition; they are distinguished so the message can
// tell the user whether to grant permission or simply retry.
var (
	ErrPermissionDenied = errors.New("geolocation permission denied")
	ErrUnavailable      = errors.New("geolocation unavailable")
	ErrTimeout          = errors.New("geolocation timed out")
)

// IsUnavailable reports whether err is any of the typed acquisition failures.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrUnavailable) ||
		errors.Is(err, ErrTimeout)
}

// Provider yields the device's current position once per call.
type Provider interface {
	Position(ctx context.Context) (geo.Point, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) (geo.Point, error)

func (f ProviderFunc) Position(ctx context.Context) (geo.Point, error) {
	return f(ctx)
}

// Static returns a Provider that always yields the same point.
func Static(p geo.Point) Provider {
	return ProviderFunc(func(context.Context) (geo.Point, error) {
		return p, nil
	})
}

// WithTimeout wraps a provider so each acquisition is bounded. A deadline
// overrun is reported as ErrTimeout regardless of how the inner provider
// fails once the context is done.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		d = DefaultTimeout
	}
	return ProviderFunc(func(ctx context.Context) (geo.Point, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()

		type result struct {
			point geo.Point
			err   error
		}
		ch := make(chan result, 1)
		go func() {
			pt, err := p.Position(ctx)
			ch <- result{point: pt, err: err}
		}()

		select {
		case r := <-ch:
			if r.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return geo.Point{}, ErrTimeout
			}
			return r.point, r.err
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return geo.Point{}, ErrTimeout
			}
			return geo.Point{}, ctx.Err()
		}
	})
}

// Package source supplies sample windows to the engine, from a synthetic
// generator or a live websocket feed.
package source

import "context"

// SampleSource produces one sample window per call. Next blocks until a
// window is available, the source ends (io.EOF), or ctx is done.
type SampleSource interface {
	Next(ctx context.Context) ([]float32, error)
	Close() error
}

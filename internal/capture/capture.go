// Package capture defines the photo-capture boundary used during
// enrollment: acquire a frame source, snapshot a still image, and release
// the device on every exit path.
package capture

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable indicates the capture device could not be acquired.
	// Distinct from a user declining to take a photo, which is not an error.
	ErrUnavailable = errors.New("capture device unavailable")
	// ErrNotOpen indicates Capture was called before a successful Open.
	ErrNotOpen = errors.New("capture device not open")
)

// Device is a scoped frame source. Close must release all acquired
// resources unconditionally and must be safe to call on every exit path,
// including after a failed Open.
type Device interface {
	Open(ctx context.Context) error
	// Capture snapshots the current frame and returns it as a base64 JPEG
	// data URI.
	Capture(ctx context.Context) (string, error)
	Close() error
}

// Take acquires the device, captures one still image, and releases the
// device regardless of outcome.
func Take(ctx context.Context, dev Device) (string, error) {
	if err := dev.Open(ctx); err != nil {
		dev.Close()
		return "", err
	}
	defer dev.Close()

	image, err := dev.Capture(ctx)
	if err != nil {
		return "", err
	}
	return image, nil
}

// Package camera defines the device-facing contracts shared by the
// stream registry, the capture facade, and the device drivers: raw
// frames, blocking frame sources, and the camera error taxonomy.
package camera

import "context"

// Source is a single open device handle. A source is owned exclusively
// by whichever component opened it (a stream worker or a transient
// one-shot capture) and must be closed on every exit path.
type Source interface {
	// ReadFrame performs one blocking read. It returns ErrEndOfStream
	// when the device stops producing frames (disconnect, driver error).
	ReadFrame() (*Frame, error)

	// Close releases the device handle. Safe to call more than once.
	Close() error
}

// Driver abstracts access to physical capture devices so the registry,
// probe, and facade can be exercised against fakes in tests.
type Driver interface {
	// Open acquires a device handle for the given camera identifier.
	// Fails with a DEVICE_UNAVAILABLE camera error if the device does
	// not exist or cannot be acquired.
	Open(ctx context.Context, id string) (Source, error)

	// Info opens the device transiently and returns its reported
	// resolution and frame rate. Capability values are passed through
	// unvalidated.
	Info(ctx context.Context, id string) (Info, error)
}

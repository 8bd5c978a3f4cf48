package capture

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"sync"
)

const (
	frameWidth  = 320
	frameHeight = 240
)

// SimulatedDevice renders frames in memory instead of reading a camera.
// It stands in for the user-facing camera in a headless deployment and in
// tests, while honoring the same acquire/capture/release contract.
type SimulatedDevice struct {
	mu        sync.Mutex
	open      bool
	frames    int
	available bool
}

// NewSimulatedDevice builds an available simulated device.
func NewSimulatedDevice() *SimulatedDevice {
	return &SimulatedDevice{available: true}
}

// NewUnavailableDevice builds a device whose Open always fails, for
// exercising the device-unavailable path.
func NewUnavailableDevice() *SimulatedDevice {
	return &SimulatedDevice{available: false}
}

// Open acquires the simulated stream.
func (d *SimulatedDevice) Open(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.available {
		return ErrUnavailable
	}
	d.open = true
	return nil
}

// Capture renders the current frame and encodes it as a base64 JPEG data URI.
func (d *SimulatedDevice) Capture(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return "", ErrNotOpen
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	frame := d.renderFrame()
	d.frames++

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: 80}); err != nil {
		return "", err
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Close releases the simulated stream. Safe to call repeatedly and after a
// failed Open.
func (d *SimulatedDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = false
	return nil
}

// Opened reports whether the device currently holds its stream.
func (d *SimulatedDevice) Opened() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

// renderFrame draws a gradient that shifts with each captured frame, so
// successive captures produce distinct images.
func (d *SimulatedDevice) renderFrame() image.Image {
	frame := image.NewRGBA(image.Rect(0, 0, frameWidth, frameHeight))
	shift := uint8(d.frames * 16)
	for y := 0; y < frameHeight; y++ {
		for x := 0; x < frameWidth; x++ {
			frame.SetRGBA(x, y, color.RGBA{
				R: uint8(x) + shift,
				G: uint8(y),
				B: 0x80,
				A: 0xff,
			})
		}
	}
	return frame
}

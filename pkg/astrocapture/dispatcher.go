package astrocapture

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Asteroidea-tn/astrograb/pkg/astrocam"
)

// Dispatcher runs one capture attempt per device: open the stream,
// branch on the requested format, and report a terminal Outcome. The
// stream handle never outlives the attempt; it is closed on every exit
// path, timeout and write failure included.
type Dispatcher struct {
	backend astrocam.Backend
	baseDir string
	policy  Policy
	now     func() time.Time
}

func NewDispatcher(backend astrocam.Backend, baseDir string, policy Policy) *Dispatcher {
	return &Dispatcher{
		backend: backend,
		baseDir: baseDir,
		policy:  policy.withDefaults(),
		now:     time.Now,
	}
}

// Capture performs one device's capture attempt. Every failure is
// converted into an Outcome; nothing propagates as an error, so one
// bad camera never disturbs the rest of a batch.
func (d *Dispatcher) Capture(ctx context.Context, dev Device) (out Outcome) {
	started := d.now()
	outcome := Outcome{Device: dev.Name}

	defer func() {
		out.Elapsed = time.Since(started)
	}()

	switch dev.Format {
	case FormatImage, FormatVideo:
	default:
		// The loader normalizes formats before dispatch; anything else
		// is a configuration bug fatal to this device only. No stream
		// is opened for it.
		outcome.Status = StatusOpenFailed
		outcome.Err = fmt.Errorf("unsupported format %q", dev.Format)
		return outcome
	}

	path, err := resolveTarget(d.baseDir, dev, started)
	if err != nil {
		outcome.Status = StatusWriteFailed
		outcome.Err = err
		return outcome
	}

	stream, err := d.backend.Open(dev.URL)
	if err != nil {
		outcome.Status = StatusOpenFailed
		outcome.Err = err
		return outcome
	}
	defer func() {
		if cerr := stream.Close(); cerr != nil {
			log.Debug().Err(cerr).Str("camera", dev.Name).Msg("close stream")
		}
	}()

	switch dev.Format {
	case FormatImage:
		outcome = d.captureImage(ctx, dev, stream, path, outcome)
	case FormatVideo:
		outcome = d.captureVideo(ctx, dev, stream, path, outcome)
	}
	return outcome
}

func (d *Dispatcher) captureImage(ctx context.Context, dev Device, stream astrocam.Stream, path string, outcome Outcome) Outcome {
	frame, err := astrocam.WaitFrame(ctx, stream, d.policy.WaitTimeout, d.policy.PollInterval)
	if err != nil {
		outcome.Status = StatusFrameTimeout
		outcome.Err = err
		return outcome
	}
	if dev.Crop != nil {
		cropped, cropErr := frame.Crop(*dev.Crop)
		frame.Close()
		if cropErr != nil {
			outcome.Status = StatusWriteFailed
			outcome.Err = fmt.Errorf("crop: %w", cropErr)
			return outcome
		}
		frame = cropped
	}
	defer frame.Close()

	width, height, err := WriteSnapshot(frame, path, d.policy.JPEGQuality)
	if err != nil {
		outcome.Status = StatusWriteFailed
		outcome.Err = err
		return outcome
	}

	outcome.Status = StatusSuccess
	outcome.Path = path
	outcome.Width = width
	outcome.Height = height
	outcome.Frames = 1
	return outcome
}

func (d *Dispatcher) captureVideo(ctx context.Context, dev Device, stream astrocam.Stream, path string, outcome Outcome) Outcome {
	duration := dev.Duration
	if duration <= 0 {
		duration = d.policy.DefaultDuration
	}

	result, err := RecordClip(ctx, d.backend, stream, path, duration, d.policy.FrameRate)
	if err != nil {
		outcome.Status = StatusWriteFailed
		outcome.Err = err
		return outcome
	}

	outcome.Status = StatusSuccess
	outcome.Path = path
	outcome.Width = result.Width
	outcome.Height = result.Height
	outcome.Frames = result.Frames
	return outcome
}

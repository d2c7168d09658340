package astrocapture

import "time"

// Policy groups the capture tuning knobs in one place so the engine
// carries no package-level state. Zero fields are replaced by the
// corresponding default when a Dispatcher is built.
type Policy struct {
	// WaitTimeout bounds the wait for the first decodable frame.
	WaitTimeout time.Duration

	// PollInterval is the sleep between failed frame reads while waiting.
	PollInterval time.Duration

	// JPEGQuality is the snapshot compression quality (0-100).
	JPEGQuality int

	// FrameRate is the target frame rate written into recorded clips.
	FrameRate float64

	// DefaultDuration applies to video devices without their own duration.
	DefaultDuration time.Duration
}

// DefaultPolicy returns the stock capture policy.
func DefaultPolicy() Policy {
	return Policy{
		WaitTimeout:     5 * time.Second,
		PollInterval:    50 * time.Millisecond,
		JPEGQuality:     95,
		FrameRate:       25,
		DefaultDuration: 10 * time.Second,
	}
}

func (p Policy) withDefaults() Policy {
	def := DefaultPolicy()
	if p.WaitTimeout <= 0 {
		p.WaitTimeout = def.WaitTimeout
	}
	if p.PollInterval <= 0 {
		p.PollInterval = def.PollInterval
	}
	if p.JPEGQuality <= 0 {
		p.JPEGQuality = def.JPEGQuality
	}
	if p.FrameRate <= 0 {
		p.FrameRate = def.FrameRate
	}
	if p.DefaultDuration <= 0 {
		p.DefaultDuration = def.DefaultDuration
	}
	return p
}

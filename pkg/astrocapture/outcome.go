package astrocapture

import "time"

// Status classifies the terminal state of one device's capture attempt.
type Status int

const (
	StatusSuccess Status = iota
	StatusOpenFailed
	StatusFrameTimeout
	StatusWriteFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusOpenFailed:
		return "open_failed"
	case StatusFrameTimeout:
		return "frame_timeout"
	case StatusWriteFailed:
		return "write_failed"
	default:
		return "unknown"
	}
}

// Outcome is the immutable result record for one device within a batch
// run. Path and the dimensions are only set on success.
type Outcome struct {
	Device  string
	Status  Status
	Path    string
	Width   int
	Height  int
	Frames  int
	Elapsed time.Duration
	Err     error
}

// OK reports whether the capture succeeded.
func (o Outcome) OK() bool {
	return o.Status == StatusSuccess
}

package astrocam

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrFrameTimeout reports that no decodable frame arrived within the
// wait window.
var ErrFrameTimeout = errors.New("timed out waiting for frame")

// WaitFrame polls the stream until a frame decodes or the timeout
// elapses. Network cameras often need a moment to deliver the first
// keyframe after connecting, so failed reads are retried after a short
// sleep with the deadline re-checked on every attempt.
//
// A stream that ends before the deadline cannot produce a frame any
// more, so that case resolves to the timeout error immediately.
func WaitFrame(ctx context.Context, stream Stream, timeout, pollInterval time.Duration) (Frame, error) {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		frame, err := stream.ReadFrame()
		if err == nil {
			return frame, nil
		}
		if errors.Is(err, ErrStreamEnded) {
			return nil, fmt.Errorf("%w: %v", ErrFrameTimeout, err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrFrameTimeout, ctx.Err())
		case <-time.After(pollInterval):
		}
	}

	return nil, ErrFrameTimeout
}

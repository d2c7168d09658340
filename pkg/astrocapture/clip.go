package astrocapture

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Asteroidea-tn/astrograb/pkg/astrocam"
)

// ClipResult reports what a recording actually captured.
type ClipResult struct {
	Width  int
	Height int
	Frames int
}

// RecordClip reads frames from the stream and appends them to a video
// file until the wall-clock duration has elapsed. Recording is
// best-effort: if the stream stops delivering mid-clip the loop ends
// early and the shorter clip still counts as captured. Only failing to
// open the output writer is an error.
func RecordClip(ctx context.Context, backend astrocam.Backend, stream astrocam.Stream, path string, duration time.Duration, fps float64) (ClipResult, error) {
	width, height := stream.Dimensions()
	if width <= 0 || height <= 0 {
		return ClipResult{}, fmt.Errorf("stream reported invalid dimensions %dx%d", width, height)
	}

	writer, err := backend.NewClipWriter(path, fps, width, height)
	if err != nil {
		return ClipResult{}, fmt.Errorf("open clip writer: %w", err)
	}
	defer func() {
		if cerr := writer.Close(); cerr != nil {
			log.Debug().Err(cerr).Str("path", path).Msg("close clip writer")
		}
	}()

	result := ClipResult{Width: width, Height: height}
	deadline := time.Now().Add(duration)

	for time.Now().Before(deadline) {
		if ctx.Err() != nil {
			break
		}

		frame, err := stream.ReadFrame()
		if err != nil {
			// Stream dropped or stalled; keep what we have.
			log.Debug().Err(err).Str("path", path).Msg("recording ended early")
			break
		}

		err = writer.Write(frame)
		frame.Close()
		if err != nil {
			log.Debug().Err(err).Str("path", path).Msg("frame write failed, stopping clip")
			break
		}
		result.Frames++
	}

	return result, nil
}

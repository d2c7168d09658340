package astrocam

import (
	"errors"
	"image"
)

var (
	// ErrNoFrame reports that the stream produced no decodable frame on
	// this read attempt; the caller may retry.
	ErrNoFrame = errors.New("no decodable frame available")

	// ErrStreamEnded reports that the stream terminated and will not
	// produce further frames.
	ErrStreamEnded = errors.New("stream ended")

	// ErrOpenFailed reports that a stream URL could not be opened.
	ErrOpenFailed = errors.New("could not open stream")
)

// Frame is a single decoded video frame.
type Frame interface {
	// Dimensions returns the frame's pixel width and height.
	Dimensions() (width, height int)

	// EncodeJPEG compresses the frame as JPEG at the given quality (0-100).
	EncodeJPEG(quality int) ([]byte, error)

	// Crop returns a new frame restricted to the given rectangle.
	// The original frame is left untouched.
	Crop(rect image.Rectangle) (Frame, error)

	// Close releases the frame's pixel buffer.
	Close()
}

// Stream is a live, exclusively-owned connection to one camera stream.
// It is opened for a single capture attempt and must be closed by the
// same caller before the attempt returns.
type Stream interface {
	// ReadFrame attempts to read the next decoded frame. It returns
	// ErrNoFrame when no frame is available yet and ErrStreamEnded when
	// the stream terminated.
	ReadFrame() (Frame, error)

	// Dimensions returns the stream's reported frame size.
	Dimensions() (width, height int)

	Close() error
}

// ClipWriter appends frames to a video container on disk.
type ClipWriter interface {
	Write(frame Frame) error
	Close() error
}

// Backend abstracts the media transport/decoder library so the capture
// engine can run against a fake in tests.
type Backend interface {
	// Open connects to a stream URL with minimal internal buffering so
	// reads prefer the most recently arrived frame over stale ones.
	Open(url string) (Stream, error)

	// NewClipWriter opens a video file sized for the given stream.
	NewClipWriter(path string, fps float64, width, height int) (ClipWriter, error)
}

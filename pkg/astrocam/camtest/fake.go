// Package camtest provides scriptable in-memory fakes for the astrocam
// backend so the capture engine can be exercised without cameras or an
// OpenCV installation.
package camtest

import (
	"fmt"
	"image"
	"os"
	"sync"
	"time"

	"github.com/Asteroidea-tn/astrograb/pkg/astrocam"
)

// Frame is a fake decoded frame carrying fixed dimensions and payload.
type Frame struct {
	Width   int
	Height  int
	Payload []byte

	EncodeErr error

	mu      sync.Mutex
	closed  bool
	quality int
}

func (f *Frame) Dimensions() (int, int) { return f.Width, f.Height }

func (f *Frame) EncodeJPEG(quality int) ([]byte, error) {
	f.mu.Lock()
	f.quality = quality
	f.mu.Unlock()

	if f.EncodeErr != nil {
		return nil, f.EncodeErr
	}
	if len(f.Payload) == 0 {
		return []byte("fake-jpeg"), nil
	}
	return f.Payload, nil
}

func (f *Frame) Crop(rect image.Rectangle) (astrocam.Frame, error) {
	bounds := image.Rect(0, 0, f.Width, f.Height)
	if rect.Empty() || !rect.In(bounds) {
		return nil, fmt.Errorf("crop %v outside frame bounds %v", rect, bounds)
	}
	return &Frame{Width: rect.Dx(), Height: rect.Dy(), Payload: f.Payload}, nil
}

func (f *Frame) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

// EncodedQuality reports the quality passed to the last EncodeJPEG call.
func (f *Frame) EncodedQuality() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.quality
}

// Stream is a fake stream with a scripted read behavior.
type Stream struct {
	Width   int
	Height  int
	Payload []byte

	// NoFrameReads makes the first N reads fail with ErrNoFrame,
	// simulating the wait for an initial keyframe.
	NoFrameReads int

	// NeverReady makes every read fail with ErrNoFrame.
	NeverReady bool

	// MaxFrames ends the stream after that many delivered frames;
	// zero means unlimited.
	MaxFrames int

	// ReadDelay simulates the arrival interval of the source.
	ReadDelay time.Duration

	mu     sync.Mutex
	reads  int
	frames int
	closed bool
}

func (s *Stream) ReadFrame() (astrocam.Frame, error) {
	if s.ReadDelay > 0 {
		time.Sleep(s.ReadDelay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.reads++
	if s.NeverReady || s.reads <= s.NoFrameReads {
		return nil, astrocam.ErrNoFrame
	}
	if s.MaxFrames > 0 && s.frames >= s.MaxFrames {
		return nil, astrocam.ErrStreamEnded
	}
	s.frames++
	return &Frame{Width: s.Width, Height: s.Height, Payload: s.Payload}, nil
}

func (s *Stream) Dimensions() (int, int) { return s.Width, s.Height }

func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *Stream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// FramesDelivered reports how many frames the stream handed out.
func (s *Stream) FramesDelivered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// ClipWriter is a fake video writer that appends each frame payload to
// the target file so size and frame-count assertions hold.
type ClipWriter struct {
	Path     string
	WriteErr error

	mu     sync.Mutex
	file   *os.File
	frames int
	closed bool
}

func (w *ClipWriter) Write(frame astrocam.Frame) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.WriteErr != nil {
		return w.WriteErr
	}
	data, err := frame.EncodeJPEG(100)
	if err != nil {
		return err
	}
	if _, err := w.file.Write(data); err != nil {
		return err
	}
	w.frames++
	return nil
}

func (w *ClipWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return w.file.Close()
}

// Frames reports how many frames were written.
func (w *ClipWriter) Frames() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frames
}

// Backend serves scripted streams by URL; URLs without a script fail to
// open, which stands in for an unreachable camera.
type Backend struct {
	// WriterErr, when set, fails every NewClipWriter call.
	WriterErr error

	mu      sync.Mutex
	streams map[string]*Stream
	writers []*ClipWriter
}

func NewBackend() *Backend {
	return &Backend{streams: make(map[string]*Stream)}
}

// AddStream registers the stream served for the given URL.
func (b *Backend) AddStream(url string, stream *Stream) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.streams[url] = stream
}

func (b *Backend) Open(url string) (astrocam.Stream, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	stream, ok := b.streams[url]
	if !ok {
		return nil, fmt.Errorf("%w: %s", astrocam.ErrOpenFailed, url)
	}
	return stream, nil
}

func (b *Backend) NewClipWriter(path string, fps float64, width, height int) (astrocam.ClipWriter, error) {
	if b.WriterErr != nil {
		return nil, b.WriterErr
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	writer := &ClipWriter{Path: path, file: file}
	b.mu.Lock()
	b.writers = append(b.writers, writer)
	b.mu.Unlock()
	return writer, nil
}

// Writers returns every clip writer the backend handed out.
func (b *Backend) Writers() []*ClipWriter {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*ClipWriter(nil), b.writers...)
}

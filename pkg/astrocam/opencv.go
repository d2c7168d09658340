package astrocam

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// OpenCVBackend opens network streams through the OpenCV video I/O
// layer (FFmpeg underneath for rtsp/http URLs).
type OpenCVBackend struct{}

func NewOpenCVBackend() *OpenCVBackend {
	return &OpenCVBackend{}
}

func (b *OpenCVBackend) Open(url string) (Stream, error) {
	cap, err := gocv.OpenVideoCapture(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpenFailed, url, err)
	}
	if !cap.IsOpened() {
		_ = cap.Close()
		return nil, fmt.Errorf("%w: %s", ErrOpenFailed, url)
	}

	// Depth 1 keeps reads close to live instead of draining a backlog
	// of stale frames.
	cap.Set(gocv.VideoCaptureBufferSize, 1)

	return &openCVStream{cap: cap, buf: gocv.NewMat()}, nil
}

func (b *OpenCVBackend) NewClipWriter(path string, fps float64, width, height int) (ClipWriter, error) {
	writer, err := gocv.VideoWriterFile(path, "mp4v", fps, width, height, true)
	if err != nil {
		return nil, fmt.Errorf("open video writer %s: %w", path, err)
	}
	if !writer.IsOpened() {
		_ = writer.Close()
		return nil, fmt.Errorf("open video writer %s: writer not opened", path)
	}
	return &openCVClipWriter{writer: writer}, nil
}

type openCVStream struct {
	cap *gocv.VideoCapture
	buf gocv.Mat
}

func (s *openCVStream) ReadFrame() (Frame, error) {
	if ok := s.cap.Read(&s.buf); !ok {
		// OpenCV reports a failed read the same way for "not yet" and
		// "gone"; retrying until the caller's deadline matches how the
		// capture loops treat both cases.
		return nil, ErrNoFrame
	}
	if s.buf.Empty() {
		return nil, ErrNoFrame
	}
	return &openCVFrame{mat: s.buf.Clone()}, nil
}

func (s *openCVStream) Dimensions() (int, int) {
	return int(s.cap.Get(gocv.VideoCaptureFrameWidth)), int(s.cap.Get(gocv.VideoCaptureFrameHeight))
}

func (s *openCVStream) Close() error {
	if err := s.buf.Close(); err != nil {
		return err
	}
	return s.cap.Close()
}

type openCVFrame struct {
	mat gocv.Mat
}

func (f *openCVFrame) Dimensions() (int, int) {
	return f.mat.Cols(), f.mat.Rows()
}

func (f *openCVFrame) EncodeJPEG(quality int) ([]byte, error) {
	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, f.mat, []int{gocv.IMWriteJpegQuality, quality})
	if err != nil {
		return nil, fmt.Errorf("jpeg encode: %w", err)
	}
	defer buf.Close()

	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return data, nil
}

func (f *openCVFrame) Crop(rect image.Rectangle) (Frame, error) {
	bounds := image.Rect(0, 0, f.mat.Cols(), f.mat.Rows())
	if rect.Empty() || !rect.In(bounds) {
		return nil, fmt.Errorf("crop %v outside frame bounds %v", rect, bounds)
	}

	region := f.mat.Region(rect)
	defer region.Close()

	return &openCVFrame{mat: region.Clone()}, nil
}

func (f *openCVFrame) Close() {
	_ = f.mat.Close()
}

type openCVClipWriter struct {
	writer *gocv.VideoWriter
}

func (w *openCVClipWriter) Write(frame Frame) error {
	cvf, ok := frame.(*openCVFrame)
	if !ok {
		return fmt.Errorf("clip writer: unsupported frame type %T", frame)
	}
	return w.writer.Write(cvf.mat)
}

func (w *openCVClipWriter) Close() error {
	return w.writer.Close()
}

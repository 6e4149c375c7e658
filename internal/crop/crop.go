// Package crop cuts a device-pixel rectangle out of a saved screenshot and
// writes the result as a new PNG.
package crop

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Request describes one crop: a source screenshot, the rectangle to keep in
// the source's own pixel space, and where to put the result. An empty
// DestinationDir writes next to the source.
type Request struct {
	SourceImagePath string
	X               int
	Y               int
	Width           int
	Height          int
	DestinationDir  string
}

// Service performs crops. The zero value is not usable; create one with New.
type Service struct {
	now func() time.Time
}

// Option modifies a Service during creation.
type Option func(*Service)

// WithClock overrides the time source used for generated filenames.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a crop Service.
func New(opts ...Option) *Service {
	s := &Service{now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Crop executes the request and returns the path of the written PNG.
func (s *Service) Crop(req Request) (string, error) {
	if req.Width <= 0 || req.Height <= 0 {
		return "", fmt.Errorf("crop: empty region %dx%d", req.Width, req.Height)
	}

	src, err := loadPNG(req.SourceImagePath)
	if err != nil {
		return "", fmt.Errorf("crop: %w", err)
	}

	rect := image.Rect(req.X, req.Y, req.X+req.Width, req.Y+req.Height)
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return "", fmt.Errorf("crop: region %v outside source %v", rect, src.Bounds())
	}
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(out, out.Bounds(), src, rect.Min, draw.Src)

	dir := req.DestinationDir
	if dir == "" {
		dir = filepath.Dir(req.SourceImagePath)
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("crop: create %s: %w", dir, err)
	}
	path := s.outputPath(dir)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("crop: %w", err)
	}
	if err := png.Encode(f, out); err != nil {
		f.Close()
		return "", fmt.Errorf("crop: encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("crop: close %s: %w", path, err)
	}
	return path, nil
}

// outputPath generates a timestamped filename, suffixed with a counter when
// two crops land in the same second.
func (s *Service) outputPath(dir string) string {
	stamp := s.now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("region_%s.png", stamp))
	for n := 1; ; n++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
		path = filepath.Join(dir, fmt.Sprintf("region_%s_%d.png", stamp, n))
	}
}

func loadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

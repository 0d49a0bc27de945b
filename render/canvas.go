package render

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"

	"github.com/tfriedel6/canvas"
	"github.com/tfriedel6/canvas/backend/softwarebackend"
	"golang.org/x/image/font/gofont/goregular"
)

// CanvasSurface renders in software to an RGBA image. It needs no window or
// GPU, so headless runs and tests can produce frames.
type CanvasSurface struct {
	backend  *softwarebackend.SoftwareBackend
	cv       *canvas.Canvas
	font     *canvas.Font
	snapshot *canvas.Image
}

// NewCanvasSurface creates a transparent w×h surface.
func NewCanvasSurface(w, h int) (*CanvasSurface, error) {
	backend := softwarebackend.New(w, h)
	cv := canvas.New(backend)
	font, err := cv.LoadFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("loading font: %w", err)
	}
	return &CanvasSurface{backend: backend, cv: cv, font: font}, nil
}

// Image returns the backing image. It is updated in place as the surface is
// drawn.
func (s *CanvasSurface) Image() *image.RGBA {
	return s.backend.Image
}

func (s *CanvasSurface) Size() (w, h int) {
	return s.cv.Width(), s.cv.Height()
}

func (s *CanvasSurface) FillRect(x, y, w, h float64, c color.NRGBA) {
	s.cv.SetFillStyle(cssColor(c))
	s.cv.FillRect(x, y, w, h)
}

func (s *CanvasSurface) StrokeLine(x0, y0, x1, y1, width float64, c color.NRGBA) {
	s.cv.SetStrokeStyle(cssColor(c))
	s.cv.SetLineWidth(width)
	s.cv.BeginPath()
	s.cv.MoveTo(x0, y0)
	s.cv.LineTo(x1, y1)
	s.cv.Stroke()
}

func (s *CanvasSurface) FillCircle(x, y, r float64, c color.NRGBA) {
	s.cv.SetFillStyle(cssColor(c))
	s.cv.BeginPath()
	s.cv.Arc(x, y, r, 0, 2*math.Pi, false)
	s.cv.ClosePath()
	s.cv.Fill()
}

func (s *CanvasSurface) StrokeCircle(x, y, r, width float64, c color.NRGBA) {
	s.cv.SetStrokeStyle(cssColor(c))
	s.cv.SetLineWidth(width)
	s.cv.BeginPath()
	s.cv.Arc(x, y, r, 0, 2*math.Pi, false)
	s.cv.ClosePath()
	s.cv.Stroke()
}

func (s *CanvasSurface) FillText(str string, x, y, size float64, align Align, c color.NRGBA) {
	s.cv.SetFont(s.font, size)
	switch align {
	case AlignCenter:
		s.cv.SetTextAlign(canvas.Center)
	case AlignRight:
		s.cv.SetTextAlign(canvas.Right)
	default:
		s.cv.SetTextAlign(canvas.Left)
	}
	s.cv.SetFillStyle(cssColor(c))
	s.cv.FillText(str, x, y)
}

func (s *CanvasSurface) MeasureText(str string, size float64) float64 {
	if str == "" {
		return 0
	}
	s.cv.SetFont(s.font, size)
	w := s.cv.MeasureText(str).Width
	if math.IsNaN(w) || w < 0 {
		return 0
	}
	return w
}

func (s *CanvasSurface) Clear() {
	w, h := s.Size()
	s.cv.ClearRect(0, 0, float64(w), float64(h))
}

func (s *CanvasSurface) Snapshot() {
	w, h := s.Size()
	data := s.cv.GetImageData(0, 0, w, h)
	img, err := s.cv.LoadImage(data)
	if err != nil {
		slog.Warn("snapshot failed, keeping previous backdrop", "error", err)
		return
	}
	if s.snapshot != nil {
		s.snapshot.Delete()
	}
	s.snapshot = img
}

func (s *CanvasSurface) DrawSnapshot(x, y, w, h float64) {
	if s.snapshot == nil {
		return
	}
	s.cv.DrawImage(s.snapshot, x, y, w, h)
}

// cssColor formats c the way the canvas style setters parse it: every
// component, alpha included, as an integer in [0, 255].
func cssColor(c color.NRGBA) string {
	return fmt.Sprintf("rgba(%d,%d,%d,%d)", c.R, c.G, c.B, c.A)
}

// Package renderer draws render.Surface calls into raylib render textures for
// the interactive window. It is the only package besides app and main that
// links raylib.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/windmap/render"
)

// GL blend constants for the custom separate blend mode.
const (
	glOne              = 1
	glSrcAlpha         = 0x0302
	glOneMinusSrcAlpha = 0x0303
	glFuncAdd          = 0x8006
	glMax              = 0x8008
)

// bound is the surface whose render texture is currently active. raylib has a
// single framebuffer binding, so only one surface draws at a time.
var bound *Surface

// Surface draws into a GPU render texture. Draw calls bind the texture
// lazily; call Unbind before drawing to the screen.
type Surface struct {
	target   rl.RenderTexture2D
	snapshot rl.RenderTexture2D
	font     rl.Font
	w, h     int
}

// NewSurface allocates a w×h surface. The window must already be open.
func NewSurface(w, h int) *Surface {
	s := &Surface{
		target:   rl.LoadRenderTexture(int32(w), int32(h)),
		snapshot: rl.LoadRenderTexture(int32(w), int32(h)),
		font:     rl.GetFontDefault(),
		w:        w,
		h:        h,
	}
	s.bind()
	rl.ClearBackground(rl.Blank)
	s.Unbind()
	return s
}

// bind makes s the active render target.
func (s *Surface) bind() {
	if bound == s {
		return
	}
	if bound != nil {
		bound.Unbind()
	}
	rl.BeginTextureMode(s.target)
	// Blend color normally but keep the strongest alpha.
	rl.SetBlendFactorsSeparate(glSrcAlpha, glOneMinusSrcAlpha, glOne, glOne, glFuncAdd, glMax)
	rl.BeginBlendMode(rl.BlendCustomSeparate)
	bound = s
}

// Unbind ends drawing into s if it is active.
func (s *Surface) Unbind() {
	if bound != s {
		return
	}
	rl.EndBlendMode()
	rl.EndTextureMode()
	bound = nil
}

// UnbindAll ends drawing into whichever surface is active.
func UnbindAll() {
	if bound != nil {
		bound.Unbind()
	}
}

// Present draws the surface onto the current target at (x, y).
func (s *Surface) Present(x, y float32) {
	s.Unbind()
	s.blit(s.target.Texture, rl.Rectangle{X: x, Y: y, Width: float32(s.w), Height: float32(s.h)})
}

// blit draws a render texture, flipping it upright.
func (s *Surface) blit(tex rl.Texture2D, dst rl.Rectangle) {
	src := rl.Rectangle{
		X:      0,
		Y:      float32(tex.Height),
		Width:  float32(tex.Width),
		Height: -float32(tex.Height), // Negative to flip
	}
	rl.DrawTexturePro(tex, src, dst, rl.Vector2{}, 0, rl.White)
}

// Unload frees the GPU textures.
func (s *Surface) Unload() {
	s.Unbind()
	rl.UnloadRenderTexture(s.target)
	rl.UnloadRenderTexture(s.snapshot)
}

func (s *Surface) Size() (w, h int) { return s.w, s.h }

func (s *Surface) FillRect(x, y, w, h float64, c color.NRGBA) {
	s.bind()
	rl.DrawRectangleRec(rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(w), Height: float32(h)}, rlColor(c))
}

func (s *Surface) StrokeLine(x0, y0, x1, y1, width float64, c color.NRGBA) {
	s.bind()
	rl.DrawLineEx(
		rl.Vector2{X: float32(x0), Y: float32(y0)},
		rl.Vector2{X: float32(x1), Y: float32(y1)},
		float32(width),
		rlColor(c),
	)
}

func (s *Surface) FillCircle(x, y, r float64, c color.NRGBA) {
	s.bind()
	rl.DrawCircleV(rl.Vector2{X: float32(x), Y: float32(y)}, float32(r), rlColor(c))
}

func (s *Surface) StrokeCircle(x, y, r, width float64, c color.NRGBA) {
	s.bind()
	inner := r - width/2
	if inner < 0 {
		inner = 0
	}
	rl.DrawRing(rl.Vector2{X: float32(x), Y: float32(y)}, float32(inner), float32(r+width/2), 0, 360, 36, rlColor(c))
}

func (s *Surface) FillText(str string, x, y, size float64, align render.Align, c color.NRGBA) {
	s.bind()
	w := s.MeasureText(str, size)
	switch align {
	case render.AlignCenter:
		x -= w / 2
	case render.AlignRight:
		x -= w
	}
	// raylib anchors text at its top; move up from the baseline.
	pos := rl.Vector2{X: float32(x), Y: float32(y - 0.8*size)}
	rl.DrawTextEx(s.font, str, pos, float32(size), textSpacing(size), rlColor(c))
}

func (s *Surface) MeasureText(str string, size float64) float64 {
	if str == "" {
		return 0
	}
	return float64(rl.MeasureTextEx(s.font, str, float32(size), textSpacing(size)).X)
}

func (s *Surface) Clear() {
	s.bind()
	rl.ClearBackground(rl.Blank)
}

func (s *Surface) Snapshot() {
	s.Unbind()
	rl.BeginTextureMode(s.snapshot)
	rl.ClearBackground(rl.Blank)
	s.blit(s.target.Texture, rl.Rectangle{Width: float32(s.w), Height: float32(s.h)})
	rl.EndTextureMode()
}

func (s *Surface) DrawSnapshot(x, y, w, h float64) {
	s.bind()
	s.blit(s.snapshot.Texture, rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(w), Height: float32(h)})
}

func rlColor(c color.NRGBA) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

func textSpacing(size float64) float32 {
	return float32(size) / 10
}

var _ render.Surface = (*Surface)(nil)

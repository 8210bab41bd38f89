// Package system holds the per-frame systems that read the registry and
// feed the batchers, plus the animation system that advances sprite frames.
//
// Rendering systems never mutate the components they read. Missing
// collaborators (camera, assets, shaders) are logged and the system skips
// the frame.
package system

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/scion"
	"github.com/phanxgames/scion/camera"
	"github.com/phanxgames/scion/component"
	"github.com/phanxgames/scion/render"
)

// Texture is a loaded texture as the systems see it.
type Texture struct {
	ID            render.ResourceID
	Width, Height int
}

// Assets is what the rendering systems need from the asset manager. It is
// looked up in the registry context.
type Assets interface {
	Texture(name string) (Texture, bool)
	Font(name string) (*render.Font, bool)
	Shader(name string) (*ebiten.Shader, bool)
}

// EntityInView reports whether the w x h box at the transform, scaled by
// it, overlaps the camera's view. Boxes that only touch the view edge are
// not visible.
func EntityInView(t *component.Transform, w, h float64, cam *camera.Camera2D) bool {
	scale := cam.Scale()
	pos := cam.Position()
	off := cam.ScreenOffset()

	camLeft := pos.X - off.X/scale
	camRight := camLeft + float64(cam.Width())/scale
	camTop := pos.Y - off.Y/scale
	camBottom := camTop + float64(cam.Height())/scale

	left := t.Position.X
	right := left + w*t.Scale.X
	top := t.Position.Y
	bottom := top + h*t.Scale.Y

	return right > camLeft && left < camRight && bottom > camTop && top < camBottom
}

// TRSModel returns the model matrix for a w x h quad placed at the
// transform position: scaled from its top-left corner and rotated about
// the center of the scaled box. Untransformed entities get the identity.
func TRSModel(t *component.Transform, w, h float64) mgl32.Mat4 {
	if t.Rotation == 0 && t.Scale.X == 1 && t.Scale.Y == 1 {
		return render.Identity
	}
	px, py := float32(t.Position.X), float32(t.Position.Y)
	hx := float32(w*t.Scale.X) * 0.5
	hy := float32(h*t.Scale.Y) * 0.5

	m := mgl32.Translate3D(px, py, 0)
	m = m.Mul4(mgl32.Translate3D(hx, hy, 0))
	m = m.Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(float32(t.Rotation))))
	m = m.Mul4(mgl32.Translate3D(-hx, -hy, 0))
	m = m.Mul4(mgl32.Scale3D(float32(t.Scale.X), float32(t.Scale.Y), 1))
	m = m.Mul4(mgl32.Translate3D(-px, -py, 0))
	return m
}

// tint treats an unset (all zero) color as white.
func tint(c scion.Color) scion.Color {
	if c == (scion.Color{}) {
		return scion.ColorWhite
	}
	return c
}

// spriteUV returns the sprite's UV rectangle, deriving it from the texture
// size when the sprite never had UVs generated.
func spriteUV(s *component.Sprite, tex Texture) render.UVRect {
	uv := s.UVs
	if uv.Width == 0 || uv.Height == 0 {
		tmp := *s
		tmp.GenerateUVs(float64(tex.Width), float64(tex.Height))
		uv = tmp.UVs
	}
	return render.UVRect{
		U:      float32(uv.X),
		V:      float32(uv.Y),
		Width:  float32(uv.Width),
		Height: float32(uv.Height),
	}
}

package system

import (
	"github.com/phanxgames/scion/component"
	"github.com/phanxgames/scion/ecs"
)

// AnimationSystem advances sprite frames from elapsed wall time.
type AnimationSystem struct{}

// Update sets the current frame of every animated sprite for the time
// nowMs (milliseconds) and moves the sprite's UVs to that frame. Sprites
// without UVs get them generated from their texture first. Non-looped
// animations stop on their last frame.
func (AnimationSystem) Update(r *ecs.Registry, nowMs int64) {
	assets, _ := ecs.TryGetContext[Assets](r)
	ecs.Each2(r, func(e ecs.Entity, a *component.Animation, sp *component.Sprite) {
		if a.NumFrames <= 0 {
			return
		}
		if !a.Looped && a.CurrentFrame >= a.NumFrames-1 {
			return
		}
		elapsed := nowMs - a.StartTime
		if elapsed < 0 {
			elapsed = 0
		}
		a.CurrentFrame = int(elapsed * int64(a.FrameRate) / 1000 % int64(a.NumFrames))

		if sp.UVs.Width == 0 || sp.UVs.Height == 0 {
			if assets == nil {
				return
			}
			tex, ok := assets.Texture(sp.Texture)
			if !ok {
				return
			}
			sp.GenerateUVs(float64(tex.Width), float64(tex.Height))
		}
		if a.Vertical {
			sp.UVs.Y = float64(a.CurrentFrame) * sp.UVs.Height
			sp.UVs.X = float64(a.FrameOffset) * sp.UVs.Width
			return
		}
		sp.UVs.X = float64(a.CurrentFrame+a.FrameOffset) * sp.UVs.Width
	})
}

// Restart rewinds an animation to start at nowMs.
func Restart(a *component.Animation, nowMs int64) {
	a.StartTime = nowMs
	a.CurrentFrame = 0
}

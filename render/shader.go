package render

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// UniformProjection is the name every shader program uses for the camera
// matrix. It is applied to vertex positions on the CPU before submission.
const UniformProjection = "uProjection"

// UniformAlphaThreshold is the picking shader's alpha cutoff.
const UniformAlphaThreshold = "AlphaThreshold"

// --- Kage shader sources ---
// Vertex colors arrive premultiplied. Custom vertex data reaches the
// fragment function through the custom parameter.

// CircleShaderSrc fills a disc (or ring) inside a unit quad. custom.xy is
// the local coordinate in [-1, 1] and custom.z the ring thickness as a
// fraction of the radius.
const CircleShaderSrc = `//kage:unit pixels
package main

func Fragment(dst vec4, src vec2, color vec4, custom vec4) vec4 {
	d := length(custom.xy)
	if d > 1 {
		return vec4(0)
	}
	if custom.z > 0 && d < 1-custom.z {
		return vec4(0)
	}
	return color
}
`

// PickingShaderSrc writes the encoded entity id from custom.rgb for every
// texel whose alpha reaches AlphaThreshold, and nothing otherwise.
const PickingShaderSrc = `//kage:unit pixels
package main

var AlphaThreshold float

func Fragment(dst vec4, src vec2, color vec4, custom vec4) vec4 {
	c := imageSrc0At(src)
	if c.a < AlphaThreshold {
		return vec4(0)
	}
	return vec4(custom.rgb, 1)
}
`

// Built-in shader names registered by the asset manager.
const (
	ShaderCircle  = "circle"
	ShaderPicking = "picking"
)

// BuiltinShaders maps built-in shader names to their Kage sources.
var BuiltinShaders = map[string]string{
	ShaderCircle:  CircleShaderSrc,
	ShaderPicking: PickingShaderSrc,
}

// CompileShader compiles Kage source.
func CompileShader(name string, src []byte) (*ebiten.Shader, error) {
	s, err := ebiten.NewShader(src)
	if err != nil {
		return nil, fmt.Errorf("scion/render: compile shader %q: %w", name, err)
	}
	return s, nil
}

package asset

import (
	"encoding/json"
	"fmt"

	"github.com/phanxgames/scion"
)

// Region is a named sub-rectangle of an atlas page, in pixels.
type Region struct {
	Page                 int
	X, Y, Width, Height  int
	OriginalW, OriginalH int
	OffsetX, OffsetY     int
	Rotated              bool
}

// Atlas is a TexturePacker sheet. Pages holds the image file of each page;
// the manager registers every page as a texture under that file name.
type Atlas struct {
	Pages   []string
	regions map[string]Region
}

// Region returns the named region.
func (a *Atlas) Region(name string) (Region, bool) {
	r, ok := a.regions[name]
	return r, ok
}

// Len returns the number of regions.
func (a *Atlas) Len() int {
	return len(a.regions)
}

// UV returns the normalized rectangle of r on a page of the given size.
func (r Region) UV(pageW, pageH int) scion.Rect {
	if pageW <= 0 || pageH <= 0 {
		return scion.Rect{}
	}
	w, h := float64(pageW), float64(pageH)
	return scion.Rect{
		X:      float64(r.X) / w,
		Y:      float64(r.Y) / h,
		Width:  float64(r.Width) / w,
		Height: float64(r.Height) / h,
	}
}

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame            jsonRect `json:"frame"`
	Rotated          bool     `json:"rotated"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
	SourceSize       jsonSize `json:"sourceSize"`
}

type jsonPage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

// ParseAtlas reads TexturePacker JSON in either the hash format (one
// "frames" object plus meta.image) or the multi-page array format
// ("textures").
func ParseAtlas(data []byte) (*Atlas, error) {
	var head struct {
		Frames   map[string]jsonFrame `json:"frames"`
		Textures []jsonPage           `json:"textures"`
		Meta     struct {
			Image string `json:"image"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("scion/asset: parse atlas: %w", err)
	}

	a := &Atlas{regions: make(map[string]Region)}
	switch {
	case head.Textures != nil:
		for i, page := range head.Textures {
			a.Pages = append(a.Pages, page.Image)
			for name, f := range page.Frames {
				a.regions[name] = frameRegion(f, i)
			}
		}
	case head.Frames != nil:
		a.Pages = []string{head.Meta.Image}
		for name, f := range head.Frames {
			a.regions[name] = frameRegion(f, 0)
		}
	default:
		return nil, fmt.Errorf("scion/asset: atlas has neither \"frames\" nor \"textures\"")
	}
	return a, nil
}

func frameRegion(f jsonFrame, page int) Region {
	return Region{
		Page:      page,
		X:         f.Frame.X,
		Y:         f.Frame.Y,
		Width:     f.Frame.W,
		Height:    f.Frame.H,
		OriginalW: f.SourceSize.W,
		OriginalH: f.SourceSize.H,
		OffsetX:   f.SpriteSourceSize.X,
		OffsetY:   f.SpriteSourceSize.Y,
		Rotated:   f.Rotated,
	}
}

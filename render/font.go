package render

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// FontGlyph is one character of a bitmap font atlas.
type FontGlyph struct {
	ID       rune
	X, Y     int
	Width    int
	Height   int
	XOffset  int
	YOffset  int
	XAdvance int
}

const asciiGlyphs = 128

// Font is a BMFont (text .fnt format) bitmap font bound to one atlas page.
type Font struct {
	Resource   ResourceID
	LineHeight float64
	Base       float64
	AtlasW     float64
	AtlasH     float64
	// Page is the atlas image file named by the font's first page.
	Page string

	ascii    [asciiGlyphs]FontGlyph
	hasASCII [asciiGlyphs]bool
	ext      map[rune]*FontGlyph
	kerning  map[[2]rune]int
}

// ParseFont parses BMFont text-format data. The atlas page must be registered
// separately under res.
func ParseFont(data []byte, res ResourceID) (*Font, error) {
	f := &Font{Resource: res}
	chars := 0

	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		tag, rest, _ := strings.Cut(line, " ")
		fields := fontFields(rest)

		switch tag {
		case "common":
			f.LineHeight = float64(fields.int("lineHeight"))
			f.Base = float64(fields.int("base"))
			f.AtlasW = float64(fields.int("scaleW"))
			f.AtlasH = float64(fields.int("scaleH"))
		case "page":
			if fields.int("id") == 0 {
				f.Page = fields["file"]
			}
		case "char":
			chars++
			g := FontGlyph{
				ID:       rune(fields.int("id")),
				X:        fields.int("x"),
				Y:        fields.int("y"),
				Width:    fields.int("width"),
				Height:   fields.int("height"),
				XOffset:  fields.int("xoffset"),
				YOffset:  fields.int("yoffset"),
				XAdvance: fields.int("xadvance"),
			}
			f.setGlyph(g)
		case "kerning":
			if f.kerning == nil {
				f.kerning = make(map[[2]rune]int)
			}
			pair := [2]rune{rune(fields.int("first")), rune(fields.int("second"))}
			f.kerning[pair] = fields.int("amount")
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scion/render: reading font: %w", err)
	}
	if f.LineHeight == 0 {
		return nil, fmt.Errorf("scion/render: font missing common lineHeight")
	}
	if chars == 0 {
		return nil, fmt.Errorf("scion/render: font has no char definitions")
	}
	return f, nil
}

func (f *Font) setGlyph(g FontGlyph) {
	if g.ID >= 0 && g.ID < asciiGlyphs {
		f.ascii[g.ID] = g
		f.hasASCII[g.ID] = true
		return
	}
	if f.ext == nil {
		f.ext = make(map[rune]*FontGlyph)
	}
	f.ext[g.ID] = &g
}

// Glyph returns the glyph for r, or nil if the font lacks it.
func (f *Font) Glyph(r rune) *FontGlyph {
	if r >= 0 && r < asciiGlyphs {
		if f.hasASCII[r] {
			return &f.ascii[r]
		}
		return nil
	}
	return f.ext[r]
}

// Kerning returns the horizontal adjustment between two runes.
func (f *Font) Kerning(first, second rune) int {
	return f.kerning[[2]rune{first, second}]
}

// UV returns the normalized atlas rectangle of g. A font without atlas size
// information yields pixel coordinates.
func (f *Font) UV(g *FontGlyph) UVRect {
	w, h := f.AtlasW, f.AtlasH
	if w <= 0 || h <= 0 {
		w, h = 1, 1
	}
	return UVRect{
		U:      float32(float64(g.X) / w),
		V:      float32(float64(g.Y) / h),
		Width:  float32(float64(g.Width) / w),
		Height: float32(float64(g.Height) / h),
	}
}

// Measure returns the unwrapped size of s.
func (f *Font) Measure(s string) (w, h float64) {
	lines := f.Layout(s, 0)
	for _, l := range lines {
		w = max(w, l.Width)
	}
	return w, float64(len(lines)) * f.LineHeight
}

// PlacedGlyph is a glyph positioned relative to the text origin.
type PlacedGlyph struct {
	X, Y  float64
	Glyph *FontGlyph
}

// TextLine is one laid-out line.
type TextLine struct {
	Glyphs []PlacedGlyph
	Width  float64
}

// breaksAfter reports whether a line may wrap after r.
func breaksAfter(r rune) bool {
	switch r {
	case ' ', '.', '!', '?':
		return true
	}
	return false
}

// Layout positions the glyphs of s. With wrap > 0, a line that would exceed
// wrap is broken after the last space, '.', '!' or '?' on it; a line with no
// such character is broken before the overflowing glyph. Runes missing from
// the font are skipped.
func (f *Font) Layout(s string, wrap float64) []TextLine {
	var lines []TextLine
	var cur TextLine
	var x float64
	breakAt := -1 // glyph count of cur up to and including the last break rune
	var breakX float64
	var prev rune
	hasPrev := false

	newLine := func() {
		lines = append(lines, cur)
		cur = TextLine{}
		x = 0
		breakAt = -1
		hasPrev = false
	}

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size

		if r == '\n' {
			cur.Width = x
			newLine()
			continue
		}
		g := f.Glyph(r)
		if g == nil {
			hasPrev = false
			continue
		}
		if hasPrev {
			x += float64(f.Kerning(prev, r))
		}

		if wrap > 0 && x+float64(g.XAdvance) > wrap && len(cur.Glyphs) > 0 && r != ' ' {
			if breakAt > 0 && breakAt < len(cur.Glyphs) {
				// Carry the partial word to the next line.
				carry := append([]PlacedGlyph(nil), cur.Glyphs[breakAt:]...)
				cur.Glyphs = cur.Glyphs[:breakAt]
				cur.Width = breakX
				newLine()
				for _, pg := range carry {
					pg.X -= breakX
					cur.Glyphs = append(cur.Glyphs, pg)
				}
				x -= breakX
			} else {
				cur.Width = x
				newLine()
			}
		}

		cur.Glyphs = append(cur.Glyphs, PlacedGlyph{
			X:     x + float64(g.XOffset),
			Y:     float64(len(lines))*f.LineHeight + float64(g.YOffset),
			Glyph: g,
		})
		x += float64(g.XAdvance)
		if breaksAfter(r) {
			breakAt = len(cur.Glyphs)
			breakX = x
		}
		prev = r
		hasPrev = true
	}
	cur.Width = x
	lines = append(lines, cur)

	// Carried glyphs keep the row they were placed on; fix up Y per line.
	for li := range lines {
		for gi := range lines[li].Glyphs {
			pg := &lines[li].Glyphs[gi]
			pg.Y = float64(li)*f.LineHeight + float64(pg.Glyph.YOffset)
		}
	}
	return lines
}

type fntFields map[string]string

// fontFields parses `key=value key="quoted"` pairs.
func fontFields(s string) fntFields {
	out := make(fntFields)
	for _, part := range strings.Fields(s) {
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		out[k] = strings.Trim(v, `"`)
	}
	return out
}

func (m fntFields) int(key string) int {
	n, _ := strconv.Atoi(m[key])
	return n
}

package scion

import "testing"

func TestRectOverlaps(t *testing.T) {
	base := Rect{10, 10, 100, 100}
	tests := []struct {
		name   string
		other  Rect
		expect bool
	}{
		{"overlapping", Rect{50, 50, 100, 100}, true},
		{"fully contained", Rect{20, 20, 10, 10}, true},
		{"containing", Rect{0, 0, 200, 200}, true},
		{"adjacent right", Rect{110, 10, 50, 50}, false},
		{"adjacent bottom", Rect{10, 110, 50, 50}, false},
		{"adjacent left", Rect{-50, 10, 60, 50}, false},
		{"adjacent top", Rect{10, -50, 50, 60}, false},
		{"straddling right", Rect{109, 10, 50, 50}, true},
		{"disjoint below", Rect{10, 111, 50, 50}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Overlaps(tt.other); got != tt.expect {
				t.Errorf("Rect%v.Overlaps(%v) = %v, want %v", base, tt.other, got, tt.expect)
			}
		})
	}
}

func TestRectContainsEdges(t *testing.T) {
	r := Rect{10, 20, 100, 50}
	if !r.Contains(10, 20) || !r.Contains(110, 70) {
		t.Error("corners should be inside")
	}
	if r.Contains(9, 40) || r.Contains(50, 71) {
		t.Error("points outside reported inside")
	}
}

func TestVec2Normalize(t *testing.T) {
	v := Vec2{3, 4}.Normalize()
	if !NearlyEqual(v.Len(), 1, 1e-9) {
		t.Errorf("len = %f, want 1", v.Len())
	}
	z := Vec2{}.Normalize()
	if z != (Vec2{}) {
		t.Errorf("zero normalize = %v, want zero", z)
	}
}

func TestClampAndLerp(t *testing.T) {
	if got := Clamp(5, 0, 1); got != 1 {
		t.Errorf("Clamp = %f, want 1", got)
	}
	if got := Clamp(-5, 0, 1); got != 0 {
		t.Errorf("Clamp = %f, want 0", got)
	}
	if got := Lerp(10, 20, 0.25); got != 12.5 {
		t.Errorf("Lerp = %f, want 12.5", got)
	}
	if got := Distance(Vec2{0, 0}, Vec2{3, 4}); got != 5 {
		t.Errorf("Distance = %f, want 5", got)
	}
}

func TestRGBA8(t *testing.T) {
	c := RGBA8(255, 0, 51, 255)
	if c.R != 1 || c.G != 0 || !NearlyEqual(c.B, 0.2, 1e-9) || c.A != 1 {
		t.Errorf("RGBA8 = %+v", c)
	}
}

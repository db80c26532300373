package geometry

import (
	"image"
	"testing"
)

func TestClampBetween(t *testing.T) {
	tests := []struct {
		name   string
		v      Vector2
		lo, hi Vector2
		want   Vector2
	}{
		{"inside", Vec(5, 5), Vec(0, 0), Vec(10, 10), Vec(5, 5)},
		{"below", Vec(-1, -2), Vec(0, 0), Vec(10, 10), Vec(0, 0)},
		{"above", Vec(11, 20), Vec(0, 0), Vec(10, 10), Vec(10, 10)},
		{"reversed x", Vec(12, 5), Vec(10, 0), Vec(0, 10), Vec(10, 5)},
		{"reversed x below", Vec(-3, 5), Vec(10, 0), Vec(0, 10), Vec(0, 5)},
		{"reversed both", Vec(-3, 30), Vec(10, 20), Vec(0, 0), Vec(0, 20)},
		{"equal bounds", Vec(7, 7), Vec(3, 3), Vec(3, 3), Vec(3, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampBetween(tt.v, tt.lo, tt.hi)
			if got != tt.want {
				t.Errorf("ClampBetween(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
			}
		})
	}
}

func TestIntegerRounding(t *testing.T) {
	v := Vec(2.4, 2.5)
	if got := RoundToInt(v); got != Vec(2, 3) {
		t.Errorf("RoundToInt(%v) = %v", v, got)
	}

	// 0.999 bias: 3.0005 stays at 3 after the truncation
	if got := CeilToInt(Vec(3.0005, 3.2)); got != Vec(3, 4) {
		t.Errorf("CeilToInt = %v, want (3, 4)", got)
	}
	if got := CeilToInt(Vec(3, 0.0001)); got != Vec(3, 0) {
		t.Errorf("CeilToInt = %v, want (3, 0)", got)
	}

	if got := FloorToInt(Vec(9.99, 1.01)); got != Vec(9, 1) {
		t.Errorf("FloorToInt = %v, want (9, 1)", got)
	}
}

func TestLerpAndScale(t *testing.T) {
	a, b := Vec(0, 10), Vec(10, 20)
	if got := Lerp(a, b, 0.25); got != Vec(2.5, 12.5) {
		t.Errorf("Lerp = %v", got)
	}
	// t is not clamped
	if got := Lerp(a, b, 2); got != Vec(20, 30) {
		t.Errorf("Lerp(t=2) = %v", got)
	}
	if got := Vec(3, 4).Scale(Vec(2, 0.5)); got != Vec(6, 2) {
		t.Errorf("Scale = %v", got)
	}
}

func TestRectNormalizedAndPixelRect(t *testing.T) {
	r := R(10, 10, -4, 6).Normalized()
	if r != R(6, 10, 4, 6) {
		t.Errorf("Normalized = %v", r)
	}

	// y-up rect at the bottom of a 100px tall image lands at the bottom rows
	got := R(10, 0, 20, 30).PixelRect(100)
	want := image.Rect(10, 70, 30, 100)
	if got != want {
		t.Errorf("PixelRect = %v, want %v", got, want)
	}

	if !R(0, 0, 100, 50).Within(Vec(100, 50), 0) {
		t.Error("rect filling the bounds should be within them")
	}
	if R(1, 0, 100, 50).Within(Vec(100, 50), 1e-6) {
		t.Error("rect overflowing the bounds should not be within them")
	}
}

func TestRectContains(t *testing.T) {
	r := R(10, 20, 30, 40)
	for p, want := range map[Vector2]bool{
		Vec(10, 20):  true,
		Vec(40, 60):  true,
		Vec(25, 40):  true,
		Vec(9.9, 30): false,
		Vec(25, 61):  false,
	} {
		if got := r.Contains(p); got != want {
			t.Errorf("Contains(%v) = %v, want %v", p, got, want)
		}
	}
}

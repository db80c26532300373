package constraint

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/menta2k/image-cropper/pkg/geometry"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestNormalizeAspect(t *testing.T) {
	tests := []struct {
		min, max         float64
		wantMin, wantMax float64
	}{
		{0, 0, MinAspectSentinel, MaxAspectSentinel},
		{-1, 2, MinAspectSentinel, 2},
		{1.5, 0, 1.5, MaxAspectSentinel},
		{2, 0.5, 0.5, 2},
		{1, 1, 1, 1},
	}
	for _, tt := range tests {
		gotMin, gotMax := NormalizeAspect(tt.min, tt.max)
		if gotMin != tt.wantMin || gotMax != tt.wantMax {
			t.Errorf("NormalizeAspect(%g, %g) = %g, %g; want %g, %g", tt.min, tt.max, gotMin, gotMax, tt.wantMin, tt.wantMax)
		}
	}
}

func TestNormalizeSizeBounds(t *testing.T) {
	original := geometry.Vec(1920, 1080)

	minSize, maxSize := NormalizeSizeBounds(geometry.Vector2{}, geometry.Vector2{}, original)
	if minSize != geometry.Splat(108) {
		t.Errorf("default min size = %v, want (108, 108)", minSize)
	}
	if maxSize != geometry.Splat(3840) {
		t.Errorf("default max size = %v, want (3840, 3840)", maxSize)
	}

	// inverted limits are re-ordered by clamping max against min
	minSize, maxSize = NormalizeSizeBounds(geometry.Vec(500, 500), geometry.Vec(100, 100), original)
	if maxSize.Less(minSize) {
		t.Errorf("max %v below min %v", maxSize, minSize)
	}

	currMin, currMax := CurrentSizeBounds(geometry.Vec(10, 2000), geometry.Vec(5000, 5000), original)
	if currMin != geometry.Vec(10, 1080) || currMax != geometry.Vec(1920, 1080) {
		t.Errorf("CurrentSizeBounds = %v, %v", currMin, currMax)
	}
}

func TestDirectionOpposite(t *testing.T) {
	tests := []struct {
		in, want Direction
	}{
		{Left, Right},
		{Right, Left},
		{Top, Bottom},
		{Bottom, Top},
		{Left | Top, Right | Bottom},
		{Right | Bottom, Left | Top},
		{None, None},
	}
	for _, tt := range tests {
		if got := tt.in.Opposite(); got != tt.want {
			t.Errorf("%d.Opposite() = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestResolveSquareLock(t *testing.T) {
	s := NewSolver(geometry.Vec(1920, 1080), geometry.Splat(10), geometry.Vector2{X: 5000, Y: 5000}, 1, 1)

	got := s.Resolve(geometry.Vec(100, 100), geometry.Vec(1000, 500), None, true)
	want := geometry.R(350, 100, 500, 500)
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("Resolve mismatch (-want +got):\n%s", diff)
	}
}

func TestResolvePivot(t *testing.T) {
	s := NewSolver(geometry.Vec(1000, 1000), geometry.Splat(10), geometry.Splat(1000), 1, 1)
	pos, size := geometry.Vec(100, 100), geometry.Vec(400, 200)

	tests := []struct {
		name  string
		pivot Direction
		wantX float64
	}{
		{"left anchored", Left, 100},
		{"right anchored", Right, 300},
		{"centered", None, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Resolve(pos, size, tt.pivot, true)
			if got.Size != geometry.Vec(200, 200) {
				t.Fatalf("size = %v, want (200, 200)", got.Size)
			}
			if got.Position.X != tt.wantX {
				t.Errorf("x = %g, want %g", got.Position.X, tt.wantX)
			}
		})
	}

	// growing height with the top edge anchored moves the bottom edge down
	got := s.Resolve(geometry.Vec(100, 500), geometry.Vec(400, 200), Top, false)
	if got.Size != geometry.Vec(400, 400) || got.Position.Y != 300 {
		t.Errorf("top anchored grow = %v", got)
	}
}

func TestResolveFallbacks(t *testing.T) {
	// minimum height forces the too-tall rectangle wider instead of shorter
	s := NewSolver(geometry.Vec(1000, 1000), geometry.Vec(10, 300), geometry.Splat(1000), 2, 4)
	got := s.Resolve(geometry.Vector2{}, geometry.Vec(100, 400), None, true)
	if diff := cmp.Diff(geometry.Vec(600, 300), got.Size, approx); diff != "" {
		t.Errorf("min-height fallback (-want +got):\n%s", diff)
	}

	// neither works: widest allowed at minimum height
	s = NewSolver(geometry.Vec(500, 1000), geometry.Vec(10, 300), geometry.Splat(1000), 2, 4)
	got = s.Resolve(geometry.Vector2{}, geometry.Vec(100, 400), None, true)
	if diff := cmp.Diff(geometry.Vec(500, 300), got.Size, approx); diff != "" {
		t.Errorf("corner fallback (-want +got):\n%s", diff)
	}

	// too wide while expanding: height grows to match
	s = NewSolver(geometry.Vec(1000, 1000), geometry.Splat(10), geometry.Splat(1000), 0.5, 1)
	got = s.Resolve(geometry.Vector2{}, geometry.Vec(600, 100), Left|Bottom, false)
	if diff := cmp.Diff(geometry.R(0, 0, 600, 600), got, approx); diff != "" {
		t.Errorf("expand height (-want +got):\n%s", diff)
	}
}

func TestResolveInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	image := geometry.Vec(1000, 800)
	s := NewSolver(image, geometry.Splat(10), geometry.Splat(5000), 0.5, 2)
	pivots := []Direction{None, Left, Right, Top, Bottom, Left | Top, Right | Bottom}

	for i := 0; i < 2000; i++ {
		pos := geometry.Vec(rng.Float64()*1400-200, rng.Float64()*1200-200)
		size := geometry.Vec(rng.Float64()*1500, rng.Float64()*1500)
		got := s.Resolve(pos, size, pivots[rng.Intn(len(pivots))], rng.Intn(2) == 0)

		if !got.Within(image, 1e-9) {
			t.Fatalf("%v escapes %v (proposed %v %v)", got, image, pos, size)
		}
		if got.Size.Less(s.MinSize) || s.MaxSize.Less(got.Size) {
			t.Fatalf("%v outside size limits %v..%v", got.Size, s.MinSize, s.MaxSize)
		}
		if !s.AspectWithin(got.Size, 1e-9) {
			t.Fatalf("%v aspect %g outside [%g, %g]", got.Size, got.AspectRatio(), s.MinAspect, s.MaxAspect)
		}
	}
}

func TestMove(t *testing.T) {
	s := NewSolver(geometry.Vec(100, 100), geometry.Splat(1), geometry.Splat(100), 0, 0)
	if got := s.Move(geometry.Vec(-5, 95), geometry.Vec(10, 10)); got != geometry.Vec(0, 90) {
		t.Errorf("Move = %v, want (0, 90)", got)
	}
}

func TestPixelPerfect(t *testing.T) {
	s := NewSolver(geometry.Vec(1920, 1080), geometry.Vec(10.2, 10.2), geometry.Splat(5000), 0, 0)

	got := s.PixelPerfect(geometry.R(10.4, 20.6, 99.5, 50.2))
	want := geometry.R(10, 21, 100, 50)
	if got != want {
		t.Errorf("PixelPerfect = %v, want %v", got, want)
	}

	// the minimum size is ceiled with the 0.999 bias
	got = s.PixelPerfect(geometry.R(0, 0, 3, 3))
	if got.Size != geometry.Splat(11) {
		t.Errorf("size below minimum = %v, want (11, 11)", got.Size)
	}

	// keep inside the image after rounding
	got = s.PixelPerfect(geometry.R(1900.7, 1060.6, 19.6, 19.6))
	if !got.Within(s.ImageSize, 0) {
		t.Errorf("%v escapes the image", got)
	}
}

func TestPixelPerfectNudges(t *testing.T) {
	// 16:9 lock, 100.4 x 56.6 rounds to 100 x 57 (ratio 1.754 < 1.777)
	ratio := 16.0 / 9.0
	s := NewSolver(geometry.Vec(1920, 1080), geometry.Splat(10), geometry.Splat(5000), ratio-0.01, ratio+0.01)
	got := s.PixelPerfect(geometry.R(0, 0, 100.4, 56.6))
	if !s.AspectWithin(got.Size, 0) {
		t.Errorf("no nudge found for %v", got.Size)
	}
	if got.Size != geometry.Vec(101, 57) {
		t.Errorf("size = %v, want width expanded to (101, 57)", got.Size)
	}

	// too wide: shrink width first
	got = s.PixelPerfect(geometry.R(0, 0, 102.4, 57.4))
	if got.Size != geometry.Vec(101, 57) {
		t.Errorf("size = %v, want (101, 57)", got.Size)
	}

	// shrinking width overshoots, so height grows instead
	got = s.PixelPerfect(geometry.R(0, 0, 103.4, 57.4))
	if got.Size != geometry.Vec(103, 58) {
		t.Errorf("size = %v, want (103, 58)", got.Size)
	}
}

func TestPixelPerfectIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := NewSolver(geometry.Vec(1280, 720), geometry.Splat(12.5), geometry.Splat(5000), 1, 1)

	for i := 0; i < 500; i++ {
		size := geometry.Vec(20+rng.Float64()*600, 20+rng.Float64()*600)
		r := s.Resolve(geometry.Vec(rng.Float64()*1280, rng.Float64()*720), size, None, true)
		once := s.PixelPerfect(r)
		twice := s.PixelPerfect(once)
		if once != twice {
			t.Fatalf("PixelPerfect not idempotent: %v then %v", once, twice)
		}
		if !s.PixelTolerant(once.Size, 1e-4) {
			t.Fatalf("pixel-perfect %v is more than one pixel off the square lock", once.Size)
		}
	}
}

func TestFitOutputSize(t *testing.T) {
	tests := []struct {
		w, h, limit  int
		wantW, wantH int
		wantScaled   bool
	}{
		{5000, 3000, 4096, 4096, 2458, true},
		{3000, 5000, 4096, 2458, 4096, true},
		{4096, 4096, 4096, 4096, 4096, false},
		{100, 50, 4096, 100, 50, false},
		{9000, 1, 4096, 4096, 1, true},
		{100, 50, 0, 100, 50, false},
	}
	for _, tt := range tests {
		w, h, scaled := FitOutputSize(tt.w, tt.h, tt.limit)
		if w != tt.wantW || h != tt.wantH || scaled != tt.wantScaled {
			t.Errorf("FitOutputSize(%d, %d, %d) = %d, %d, %v; want %d, %d, %v",
				tt.w, tt.h, tt.limit, w, h, scaled, tt.wantW, tt.wantH, tt.wantScaled)
		}
	}
}

func BenchmarkResolve(b *testing.B) {
	s := NewSolver(geometry.Vec(1920, 1080), geometry.Splat(10), geometry.Splat(5000), 1, 1)
	for i := 0; i < b.N; i++ {
		s.Resolve(geometry.Vec(100, 100), geometry.Vec(1000, 500), None, true)
	}
}

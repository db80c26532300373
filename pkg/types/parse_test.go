package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestSanitizeModelJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"comments", "{\n// note\n\"a\":1 /* x */\n}", "{\n\n\"a\":1 \n}"},
		{"trailing comma", `{"a":[1,2,],}`, `{"a":[1,2]}`},
		{"prose around", `Sure! {"a":1} Hope this helps.`, `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeModelJSON(tt.raw); got != tt.want {
				t.Errorf("SanitizeModelJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseSuggestion(t *testing.T) {
	raw := "```json\n" + `{
  "label": "dog",
  "confidence": 0.9,
  "box": {"x": 0.1, "y": 0.2, "w": 0.5, "h": 0.6},
  "description": "a dog on grass",
  "tags": ["dog", "grass",],
}` + "\n```"

	got := ParseSuggestion(raw)
	want := &Suggestion{
		Label:       "dog",
		Confidence:  0.9,
		Box:         Box{X: 0.1, Y: 0.2, W: 0.5, H: 0.6},
		Description: "a dog on grass",
		Tags:        []string{"dog", "grass"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseSuggestion mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSuggestionFallbacks(t *testing.T) {
	for _, raw := range []string{
		"I cannot see an image",
		`{"label": "dog", "box": {"x": 0.1}}`,
		`{"label": broken}`,
	} {
		got := ParseSuggestion(raw)
		if !got.Fallback || got.Box != CenteredBox {
			t.Errorf("ParseSuggestion(%q) = %+v, want centred fallback", raw, got)
		}
	}
}

func TestBoxClamp(t *testing.T) {
	approx := cmpopts.EquateApprox(0, 1e-12)
	tests := []struct {
		name string
		in   Box
		w, h int
		want Box
	}{
		{"inside", Box{0.1, 0.1, 0.5, 0.5}, 0, 0, Box{0.1, 0.1, 0.5, 0.5}},
		{"overflow", Box{0.8, -0.2, 0.5, 0.5}, 0, 0, Box{0.8, 0, 0.2, 0.5}},
		{"pixels", Box{100, 50, 200, 100}, 400, 200, Box{0.25, 0.25, 0.5, 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.in.Clamp(tt.w, tt.h), approx); diff != "" {
				t.Errorf("Clamp mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBoxPixels(t *testing.T) {
	x, y, w, h := Box{0.25, 0.1, 0.5, 0.333}.Pixels(400, 300)
	if x != 100 || y != 30 || w != 200 || h != 100 {
		t.Errorf("Pixels = %d,%d %dx%d", x, y, w, h)
	}
}

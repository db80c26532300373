package suggest

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/menta2k/image-cropper/pkg/types"
)

type fakeClient struct {
	prompt     string
	suggestion *types.Suggestion
	err        error
}

func (f *fakeClient) SimpleQuery(ctx context.Context, model, prompt, imgB64 string) (string, error) {
	f.prompt = prompt
	return "a cat", f.err
}

func (f *fakeClient) SuggestCrop(ctx context.Context, model, prompt, imgB64 string) (*types.Suggestion, error) {
	f.prompt = prompt
	if f.err != nil {
		return nil, f.err
	}
	s := *f.suggestion
	return &s, nil
}

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestSuggest(t *testing.T) {
	fc := &fakeClient{suggestion: &types.Suggestion{
		Label:      "cat",
		Confidence: 0.9,
		Box:        types.Box{X: 0.2, Y: 0.1, W: 0.9, H: 0.5},
		Tags:       []string{"Cat", " cat", "animal", ""},
	}}
	s := NewSuggester(fc, "llava", nil)

	got, err := s.Suggest(context.Background(), Request{ImageB64: "x", Width: 800, Height: 600})
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	// the box is clipped to the image
	if diff := cmp.Diff(types.Box{X: 0.2, Y: 0.1, W: 0.8, H: 0.5}, got.Box, approx); diff != "" {
		t.Errorf("box mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"cat", "animal"}, got.Tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
	if got.Fallback {
		t.Error("confident suggestion marked as fallback")
	}
	if fc.prompt != DefaultPrompt {
		t.Error("default prompt not used")
	}
}

func TestSuggestAspect(t *testing.T) {
	fc := &fakeClient{suggestion: &types.Suggestion{
		Label: "tree",
		Box:   types.Box{X: 0.25, Y: 0, W: 0.5, H: 1},
	}}
	s := NewSuggester(fc, "llava", nil)

	// 400x1000 px box on a 800x1000 image, asked for a square
	got, err := s.Suggest(context.Background(), Request{Width: 800, Height: 1000, MinAspect: 1, MaxAspect: 1})
	if err != nil {
		t.Fatal(err)
	}
	want := types.Box{X: 0.25, Y: 0.3, W: 0.5, H: 0.4}
	if diff := cmp.Diff(want, got.Box, approx); diff != "" {
		t.Errorf("box mismatch (-want +got):\n%s", diff)
	}
	if ratio := got.Box.W * 800 / (got.Box.H * 1000); math.Abs(ratio-1) > 1e-9 {
		t.Errorf("pixel aspect = %g", ratio)
	}
	if !strings.Contains(fc.prompt, "between 1.000 and 1.000") {
		t.Errorf("aspect hint missing from prompt:\n%s", fc.prompt)
	}
}

func TestSuggestFallbacks(t *testing.T) {
	tests := []struct {
		name string
		in   types.Suggestion
	}{
		{"tiny", types.Suggestion{Label: "dot", Box: types.Box{X: 0.5, Y: 0.5, W: 0.05, H: 0.05}}},
		{"outside", types.Suggestion{Label: "ghost", Box: types.Box{X: 1.5, Y: 0.5, W: 0.5, H: 0.5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSuggester(&fakeClient{suggestion: &tt.in}, "m", nil)
			got, err := s.Suggest(context.Background(), Request{})
			if err != nil {
				t.Fatal(err)
			}
			if !got.Fallback || got.Box != types.CenteredBox {
				t.Errorf("got %+v, want centred fallback", got)
			}
		})
	}

	none := &fakeClient{suggestion: &types.Suggestion{Label: "None", Box: types.Box{X: 0.1, Y: 0.1, W: 0.8, H: 0.8}}}
	got, err := NewSuggester(none, "m", nil).Suggest(context.Background(), Request{})
	if err != nil {
		t.Fatal(err)
	}
	if !got.Fallback || got.Box.W != 0.8 {
		t.Errorf("'none' answer = %+v, want its box kept and marked as fallback", got)
	}
}

func TestSuggestTransportError(t *testing.T) {
	boom := errors.New("connection refused")
	s := NewSuggester(&fakeClient{err: boom}, "m", nil)
	if _, err := s.Suggest(context.Background(), Request{}); !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped transport error", err)
	}
}

func TestTestVision(t *testing.T) {
	fc := &fakeClient{}
	got, err := NewSuggester(fc, "m", nil).TestVision(context.Background(), "x")
	if err != nil || got != "a cat" || fc.prompt != SimpleTestPrompt {
		t.Errorf("TestVision = %q, %v (prompt %q)", got, err, fc.prompt)
	}
}

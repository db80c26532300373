package llamacpp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSuggestCrop(t *testing.T) {
	var got ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		io.WriteString(w, `{"choices":[{"index":0,"message":{"role":"assistant","content":"`+
			"```json\\n{\\\"label\\\":\\\"car\\\",\\\"box\\\":{\\\"x\\\":0.1,\\\"y\\\":0.1,\\\"w\\\":0.8,\\\"h\\\":0.5}}\\n```"+`"}}]}`)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	s, err := c.SuggestCrop(context.Background(), "qwen2-vl", "where?", "aGVsbG8=")
	if err != nil {
		t.Fatalf("SuggestCrop: %v", err)
	}
	if s.Label != "car" || s.Box.W != 0.8 {
		t.Errorf("suggestion = %+v", s)
	}

	if got.Model != "qwen2-vl" || got.Stream || len(got.Messages) != 1 {
		t.Fatalf("request = %+v", got)
	}
	parts, ok := got.Messages[0].Content.([]any)
	if !ok || len(parts) != 2 {
		t.Fatalf("content = %#v", got.Messages[0].Content)
	}
	image, _ := parts[1].(map[string]any)["image_url"].(map[string]any)
	if url, _ := image["url"].(string); !strings.HasPrefix(url, "data:image/jpeg;base64,") {
		t.Errorf("image url = %q", url)
	}
}

func TestSimpleQueryContentParts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":[{"type":"text","text":"a red car"}]}}]}`)
	}))
	defer srv.Close()

	c, _ := NewClient(srv.URL)
	text, err := c.SimpleQuery(context.Background(), "m", "what?", "")
	if err != nil || text != "a red car" {
		t.Errorf("SimpleQuery = %q, %v", text, err)
	}
}

func TestServerErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"status", http.StatusInternalServerError, `boom`},
		{"no choices", http.StatusOK, `{"choices":[]}`},
		{"empty", http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":""}}]}`},
		{"garbage", http.StatusOK, `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			c, _ := NewClient(srv.URL)
			if _, err := c.SuggestCrop(context.Background(), "m", "p", ""); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestNewClient(t *testing.T) {
	c, err := NewClient("")
	if err != nil || c.baseURL != DefaultServerURL {
		t.Errorf("default client = %+v, %v", c, err)
	}
	if _, err := NewClient("localhost:8080"); err == nil {
		t.Error("expected an error for a URL without scheme")
	}
}

package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOutputFilename(t *testing.T) {
	tests := []struct {
		source, prefix, suffix, format string
		want                           string
	}{
		{"photos/cat.PNG", "", "_cropped", "", "out/cat_cropped.png"},
		{"cat.jpeg", "crop_", "", "webp", "out/crop_cat.webp"},
		{"notes.txt", "", "_c", "", "out/notes_c.jpg"},
		{"https://example.com/a/dog.webp?size=large", "", "_c", "", "out/dog_c.webp"},
		{"https://example.com/", "", "", "png", "out/example.png"},
	}

	for _, tt := range tests {
		got := OutputFilename(tt.source, "out", tt.prefix, tt.suffix, tt.format)
		if got != filepath.FromSlash(tt.want) {
			t.Errorf("OutputFilename(%q) = %q, want %q", tt.source, got, tt.want)
		}
	}
}

func TestIsImageFile(t *testing.T) {
	for name, want := range map[string]bool{
		"a.jpg": true, "b.WEBP": true, "c.tif": true, "d.txt": false, "e": false,
	} {
		if got := IsImageFile(name); got != want {
			t.Errorf("IsImageFile(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestListImageFiles(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := EnsureDir(sub); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	for _, name := range []string{"a.png", "b.txt", "sub/c.jpg"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := ListImageFiles(dir)
	if err != nil {
		t.Fatalf("ListImageFiles: %v", err)
	}
	want := []string{filepath.Join(dir, "a.png"), filepath.Join(sub, "c.jpg")}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}

	if !FileExists(want[0]) || FileExists(sub) || !DirExists(sub) {
		t.Error("existence checks failed")
	}
}

func TestSanitizeFilename(t *testing.T) {
	if got := SanitizeFilename(` a:b*c?.`); got != "a_b_c_" {
		t.Errorf("SanitizeFilename = %q", got)
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := map[int64]string{
		512:         "512 B",
		2048:        "2.0 KB",
		5 << 20:     "5.0 MB",
		3 << 30 / 2: "1.5 GB",
	}
	for size, want := range tests {
		if got := FormatFileSize(size); got != want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", size, got, want)
		}
	}
}

package theme

import (
	"image/color"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
Name: midnight
# dim harder than the default
Mask: #00000080
Outline: red
`
	th, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if th.Name != "midnight" {
		t.Errorf("Expected name 'midnight', got '%s'", th.Name)
	}
	if th.Mask != (color.RGBA{0, 0, 0, 0x80}) {
		t.Errorf("Unexpected Mask color: %+v", th.Mask)
	}
	if th.Outline != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("Unexpected Outline color: %+v", th.Outline)
	}
	// Keys not present keep their defaults.
	if th.HandleFill != Default().HandleFill {
		t.Errorf("HandleFill should keep default, got %+v", th.HandleFill)
	}
}

func TestParseRejectsBadColor(t *testing.T) {
	cases := []string{
		"Mask: notacolor",
		"Outline: #12345",
	}
	for _, input := range cases {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}

func TestLoaderFallsBackToEmbedded(t *testing.T) {
	l := &Loader{ConfigDir: t.TempDir(), SystemDir: t.TempDir()}
	th, err := l.Load("dark")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if th.Name == "" {
		t.Errorf("embedded theme has no name")
	}

	if _, err := l.Load("no-such-theme"); err == nil {
		t.Errorf("expected error for unknown theme")
	}
}

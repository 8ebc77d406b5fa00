package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	imgio "github.com/gogpu/grade/internal/image"
)

func writeInput(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 40, 20))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 50, 50, 50, 255
	}
	path := filepath.Join(dir, "in.png")
	if err := imgio.Save(path, img, imgio.Options{}); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func red(t *testing.T, path string, x, y int) uint8 {
	t.Helper()
	img, _, err := imgio.Load(path)
	if err != nil {
		t.Fatalf("Load(%s) error = %v", path, err)
	}
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA).R
}

const catalogJSON = `[
	{"id": "bright", "name": "Bright", "category": "basic", "settings": {"exposure": 100}},
	{"id": "kodak-gold", "name": "Kodak Gold", "category": "film", "settings": {"temperature": 20}}
]`

func TestRunSet(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir)
	out := filepath.Join(dir, "out.png")

	var stderr bytes.Buffer
	if err := run([]string{"-in", in, "-out", out, "-set", "exposure=100"}, &bytes.Buffer{}, &stderr); err != nil {
		t.Fatalf("run() error = %v\n%s", err, stderr.String())
	}
	if got := red(t, out, 5, 5); got != 100 {
		t.Errorf("output red = %d, want 100", got)
	}
}

func TestRunSetNaNIsNeutral(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir)
	out := filepath.Join(dir, "out.png")

	if err := run([]string{"-in", in, "-out", out, "-set", "exposure=NaN"}, &bytes.Buffer{}, &bytes.Buffer{}); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if got := red(t, out, 5, 5); got != 50 {
		t.Errorf("output red = %d, want 50", got)
	}
}

func TestRunAdjustThenPreset(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir)
	adjust := writeFile(t, dir, "look.json", `{"exposure": -100}`)
	presets := writeFile(t, dir, "presets.json", catalogJSON)
	out := filepath.Join(dir, "out.bmp")

	args := []string{"-in", in, "-out", out, "-adjust", adjust, "-presets", presets, "-preset", "bright", "-max", "10"}
	if err := run(args, &bytes.Buffer{}, &bytes.Buffer{}); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	// The preset overrides the settings file.
	if got := red(t, out, 2, 2); got != 100 {
		t.Errorf("output red = %d, want 100", got)
	}
	img, _, _ := imgio.Load(out)
	if b := img.Bounds(); b.Dx() != 10 || b.Dy() != 5 {
		t.Errorf("preview size = %v, want 10x5", b)
	}
}

func TestRunCompare(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir)
	out := filepath.Join(dir, "out.png")

	args := []string{"-in", in, "-out", out, "-compare", "-set", "exposure=100"}
	if err := run(args, &bytes.Buffer{}, &bytes.Buffer{}); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if got := red(t, out, 2, 10); got != 50 {
		t.Errorf("left half red = %d, want 50", got)
	}
	if got := red(t, out, 35, 10); got != 100 {
		t.Errorf("right half red = %d, want 100", got)
	}
}

func TestRunStdout(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir)

	var stdout bytes.Buffer
	if err := run([]string{"-in", in, "-out", "-", "-format", "png", "-seed", "7"}, &stdout, &bytes.Buffer{}); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	img, f, err := imgio.LoadBytes(stdout.Bytes())
	if err != nil || f != imgio.FormatPNG {
		t.Fatalf("LoadBytes() = %v, %v", f, err)
	}
	if img.Bounds().Dx() != 40 {
		t.Errorf("width = %d, want 40", img.Bounds().Dx())
	}
}

func TestRunList(t *testing.T) {
	presets := writeFile(t, t.TempDir(), "presets.json", catalogJSON)

	var stdout bytes.Buffer
	if err := run([]string{"-presets", presets, "-list", "-search", "KODAK"}, &stdout, &bytes.Buffer{}); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if got, want := stdout.String(), "kodak-gold\tfilm\tKodak Gold\n"; got != want {
		t.Errorf("list output = %q, want %q", got, want)
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir)
	presets := writeFile(t, dir, "presets.json", catalogJSON)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing out", []string{"-in", in}, "-in and -out are required"},
		{"stdout without format", []string{"-in", in, "-out", "-"}, "needs -format"},
		{"preset without catalog", []string{"-in", in, "-out", "x.png", "-preset", "a"}, "needs -presets"},
		{"unknown preset", []string{"-in", in, "-out", filepath.Join(dir, "x.png"), "-presets", presets, "-preset", "nope"}, "unknown preset"},
		{"unknown parameter", []string{"-in", in, "-out", filepath.Join(dir, "x.png"), "-set", "sparkle=3"}, "unknown parameter"},
		{"bad set", []string{"-in", in, "-out", "x.png", "-set", "novalue"}, "key=value"},
		{"unsupported output", []string{"-in", in, "-out", filepath.Join(dir, "x.gif")}, "unsupported format"},
		{"missing input", []string{"-in", filepath.Join(dir, "none.png"), "-out", "x.png"}, "open file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(tt.args, &bytes.Buffer{}, &bytes.Buffer{})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("run() error = %v, want containing %q", err, tt.want)
			}
		})
	}

	if err := run([]string{"-in", in}, &bytes.Buffer{}, &bytes.Buffer{}); !errors.Is(err, errUsage) {
		t.Errorf("run() error = %v, want %v", err, errUsage)
	}
}

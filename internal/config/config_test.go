package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cloud-carousel/internal/carousel"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "carousel.json", `{
		"item_list": "images.xml",
		"reflection_height": 40,
		"reflection_opacity": 0,
		"auto_rotate": "left",
		"mouse_wheel": true
	}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ItemList != "images.xml" || cfg.ReflectionHeight != 40 || cfg.AutoRotate != "left" || !cfg.MouseWheel {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.ReflectionOpacity == nil || *cfg.ReflectionOpacity != 0 {
		t.Errorf("explicit zero opacity lost: %v", cfg.ReflectionOpacity)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "carousel.yaml", `
item_list: photos
min_scale: 0.3
speed: 0.5
bring_to_front: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ItemList != "photos" || cfg.Speed != 0.5 || !cfg.BringToFront {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.MinScale == nil || *cfg.MinScale != 0.3 {
		t.Errorf("min scale = %v, want 0.3", cfg.MinScale)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: %v, want ErrNotExist", err)
	}
	if _, err := Load(writeFile(t, "bad.json", "{")); err == nil {
		t.Error("expected parse error")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"CAROUSEL_ITEM_LIST":      "env.yaml",
		"CAROUSEL_WORKERS":        "3",
		"CAROUSEL_SPEED":          "0.4",
		"CAROUSEL_MOUSEWHEEL":     "true",
		"CAROUSEL_AUTOROTATE":     "right",
		"CAROUSEL_UNRELATED_NAME": "x",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	cfg := Config{ItemList: "file.xml", Workers: 8}
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.ItemList != "env.yaml" || cfg.Workers != 3 || cfg.Speed != 0.4 || !cfg.MouseWheel || cfg.AutoRotate != "right" {
		t.Errorf("env not applied: %+v", cfg)
	}

	env["CAROUSEL_FPS"] = "fast"
	if err := cfg.ApplyEnv(lookup); err == nil {
		t.Error("expected error for non-numeric CAROUSEL_FPS")
	}
}

func TestResolveDefaults(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{})

	if cfg.Width != 640 || cfg.Height != 360 || cfg.Frames != 120 || cfg.FPS != 60 || cfg.Supersample != 1 {
		t.Errorf("render defaults = %+v", cfg)
	}
	if cfg.Workers <= 0 {
		t.Errorf("workers = %d, want > 0", cfg.Workers)
	}
	if *cfg.ReflectionOpacity != 0.5 || *cfg.MinScale != 0.5 || cfg.Speed != 0.2 || cfg.AutoRotateDelayMs != 1500 {
		t.Errorf("carousel defaults = %+v", cfg)
	}
}

func TestResolveFlagsOverride(t *testing.T) {
	cfg := Config{ItemList: "file.xml", Frames: 10, AutoRotate: "left"}
	cfg.Resolve(Flags{ItemList: "flag.xml", Frames: 30, AutoRotate: "right", BringToFront: true})

	if cfg.ItemList != "flag.xml" || cfg.Frames != 30 || cfg.AutoRotate != "right" || !cfg.BringToFront {
		t.Errorf("flags not applied: %+v", cfg)
	}
}

func TestCarousel(t *testing.T) {
	zero := 0.0
	cfg := Config{
		ReflectionHeight:  30,
		ReflectionOpacity: &zero,
		AutoRotate:        "right",
		AutoRotateDelayMs: 2000,
		FPS:               50,
		MouseWheel:        true,
	}
	cfg.Resolve(Flags{})
	cc, err := cfg.Carousel()
	if err != nil {
		t.Fatalf("Carousel: %v", err)
	}
	if cc.AutoRotate != carousel.AutoRotateRight || cc.AutoRotateDelay != 2*time.Second {
		t.Errorf("autorotate = %v/%v", cc.AutoRotate, cc.AutoRotateDelay)
	}
	if cc.ReflectionOpacity != 0 || cc.ReflectionHeight != 30 || cc.MinScale != 0.5 {
		t.Errorf("reflection settings = %+v", cc)
	}
	if cc.FrameInterval != 20*time.Millisecond || !cc.MouseWheel || cc.FrontTextDelay != time.Second {
		t.Errorf("timing settings = %+v", cc)
	}

	cfg.AutoRotate = "sideways"
	if _, err := cfg.Carousel(); !errors.Is(err, carousel.ErrBadAutoRotate) {
		t.Errorf("bad mode: %v, want ErrBadAutoRotate", err)
	}
}

func TestBackgroundColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#000000", color.NRGBA{A: 0xff}, false},
		{"#ff8000", color.NRGBA{R: 0xff, G: 0x80, A: 0xff}, false},
		{"#0f0", color.NRGBA{G: 0xff, A: 0xff}, false},
		{"blue", color.NRGBA{}, true},
		{"#gggggg", color.NRGBA{}, true},
	}
	for _, tt := range tests {
		got, err := Config{Background: tt.in}.BackgroundColor()
		if (err != nil) != tt.wantErr {
			t.Errorf("%q: err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%q = %v, want %v", tt.in, got, tt.want)
		}
	}
}

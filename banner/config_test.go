package banner

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMerge(t *testing.T) {
	base := &Config{YPercent: fptr(0.1), TextColor: "#111111", ShowBackground: bptr(false)}
	override := &Config{TextColor: "#222222", FontSize: fptr(40), ShowBackground: bptr(true)}

	out := Merge(base, override)

	if out.YPercent == nil || *out.YPercent != 0.1 {
		t.Errorf("YPercent not carried from base: %+v", out)
	}
	if out.TextColor != "#222222" {
		t.Errorf("TextColor = %q; want override to win", out.TextColor)
	}
	if out.FontSize == nil || *out.FontSize != 40 {
		t.Errorf("FontSize not carried from override: %+v", out)
	}
	if out.ShowBackground == nil || !*out.ShowBackground {
		t.Errorf("ShowBackground = %+v; want override true", out.ShowBackground)
	}

	// Inputs stay untouched.
	if base.TextColor != "#111111" || base.FontSize != nil {
		t.Errorf("base mutated: %+v", base)
	}
	if *override.ShowBackground != true {
		t.Errorf("override mutated: %+v", override)
	}
}

func TestMergeNilInputs(t *testing.T) {
	if out := Merge(nil, nil); out == nil || out.YPercent != nil {
		t.Errorf("Merge(nil, nil) = %+v; want empty config", out)
	}
	out := Merge(nil, &Config{BgColor: "#000080"})
	if out.BgColor != "#000080" {
		t.Errorf("override on nil base lost: %+v", out)
	}
}

func TestLoadPresets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "presets.yaml")
	data := []byte(`tiktok:
  yPercent: 0.2
  showBackground: true
instagram:
  fontSizePercent: 0.05
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	presets, err := LoadPresets(path)
	if err != nil {
		t.Fatalf("LoadPresets error: %v", err)
	}

	for _, tag := range []string{"TIKTOK", "tiktok", "TikTok"} {
		cfg := presets.For(tag)
		if cfg == nil {
			t.Fatalf("For(%q) = nil; want preset", tag)
		}
		if cfg.YPercent == nil || *cfg.YPercent != 0.2 {
			t.Errorf("For(%q).YPercent = %+v; want 0.2", tag, cfg.YPercent)
		}
		if cfg.ShowBackground == nil || !*cfg.ShowBackground {
			t.Errorf("For(%q).ShowBackground not set", tag)
		}
	}

	if cfg := presets.For("INSTAGRAM"); cfg == nil || cfg.FontSizePercent == nil || *cfg.FontSizePercent != 0.05 {
		t.Errorf("instagram preset = %+v", presets.For("INSTAGRAM"))
	}
	if cfg := presets.For("UNKNOWN"); cfg != nil {
		t.Errorf("For(UNKNOWN) = %+v; want nil", cfg)
	}
}

func TestLoadPresetsEmptyPath(t *testing.T) {
	presets, err := LoadPresets("")
	if err != nil {
		t.Fatalf("LoadPresets(\"\") error: %v", err)
	}
	if presets.For("ANY") != nil {
		t.Error("empty presets returned a config")
	}
}

func TestLoadPresetsMissingFile(t *testing.T) {
	if _, err := LoadPresets(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("LoadPresets on a missing file succeeded; want error")
	}
}

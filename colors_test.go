package termsnap

import (
	"errors"
	"testing"
)

func TestResolveCube(t *testing.T) {
	for ri, r := range CubeLevels {
		for gi, g := range CubeLevels {
			for bi, b := range CubeLevels {
				got, err := Resolve(ColorCodeRGB, r, g, b)
				if err != nil {
					t.Fatalf("Resolve(-1, %d, %d, %d): unexpected error: %v", r, g, b, err)
				}
				want := Palette(uint8(16 + ri*36 + gi*6 + bi))
				if got != want && !isGrayEntry(r, g, b) {
					t.Errorf("Resolve(-1, %d, %d, %d) = %v, want %v", r, g, b, got, want)
				}
			}
		}
	}
}

// isGrayEntry reports whether (r, g, b) is also on the grayscale ramp, which takes precedence.
func isGrayEntry(r, g, b uint8) bool {
	return r == g && g == b && r >= 8 && r <= 238 && (r-8)%10 == 0
}

func TestResolveCubeCorners(t *testing.T) {
	if got, _ := Resolve(ColorCodeRGB, 0, 0, 0); got != Palette(16) {
		t.Errorf("expected Palette(16) for black, got %v", got)
	}
	if got, _ := Resolve(ColorCodeRGB, 255, 255, 255); got != Palette(231) {
		t.Errorf("expected Palette(231) for white, got %v", got)
	}
	if got, _ := Resolve(ColorCodeRGB, 0xff, 0, 0); got != Palette(196) {
		t.Errorf("expected Palette(196) for red, got %v", got)
	}
}

func TestResolveGrayscale(t *testing.T) {
	for r := 8; r <= 238; r += 10 {
		v := uint8(r)
		got, err := Resolve(ColorCodeRGB, v, v, v)
		if err != nil {
			t.Fatalf("Resolve(-1, %d, %d, %d): unexpected error: %v", v, v, v, err)
		}
		want := Palette(uint8(232 + (r-8)/10))
		if got != want {
			t.Errorf("Resolve(-1, %d, %d, %d) = %v, want %v", v, v, v, got, want)
		}
	}

	if got, _ := Resolve(ColorCodeRGB, 8, 8, 8); got != Palette(232) {
		t.Errorf("expected Palette(232), got %v", got)
	}
	if got, _ := Resolve(ColorCodeRGB, 238, 238, 238); got != Palette(255) {
		t.Errorf("expected Palette(255), got %v", got)
	}
}

func TestResolveIndexed(t *testing.T) {
	for code := int8(0); code < 16; code++ {
		got, err := Resolve(code, 12, 34, 56)
		if err != nil {
			t.Fatalf("Resolve(%d): unexpected error: %v", code, err)
		}
		if got != Indexed(uint8(code)) {
			t.Errorf("Resolve(%d) = %v, want Indexed(%d)", code, got, code)
		}
		if !got.IsIndexed() || got.IsPalette() {
			t.Errorf("Resolve(%d) should be a direct color", code)
		}
	}
}

func TestResolveUnset(t *testing.T) {
	for _, code := range []int8{16, 17, 100, -2, -128, 127} {
		got, err := Resolve(code, 0, 0, 0)
		if err != nil {
			t.Fatalf("Resolve(%d): unexpected error: %v", code, err)
		}
		if got != ColorUnset {
			t.Errorf("Resolve(%d) = %v, want unset", code, got)
		}
		if got.IsSet() {
			t.Errorf("Resolve(%d) should not be set", code)
		}
	}
}

func TestResolveOffCube(t *testing.T) {
	_, err := Resolve(ColorCodeRGB, 0x5f, 0x10, 0)
	if err == nil {
		t.Fatal("expected error for off-cube green channel")
	}

	var resErr *ColorResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected *ColorResolutionError, got %T", err)
	}
	if resErr.Channel != "green" || resErr.Value != 0x10 {
		t.Errorf("expected green 0x10, got %s 0x%02x", resErr.Channel, resErr.Value)
	}
}

func TestResolveGrayOutOfRamp(t *testing.T) {
	// 248 matches the ramp formula but lies past its last entry and is not a cube level.
	if _, err := Resolve(ColorCodeRGB, 248, 248, 248); err == nil {
		t.Error("expected error for 248 gray")
	}
}

func TestResolveNearest(t *testing.T) {
	tests := []struct {
		r, g, b uint8
		want    Color
	}{
		{0x5f, 0x10, 0x00, Palette(16 + 1*36)},
		{0x60, 0x86, 0xfe, Palette(16 + 1*36 + 2*6 + 5)},
		{0x2f, 0x2f, 0x2f, Palette(16)},  // closer to 0x00
		{0x31, 0x31, 0x31, Palette(59)},  // closer to 0x5f
		{0x73, 0x73, 0x73, Palette(59)},  // tie between 0x5f and 0x87 goes low
		{0x12, 0x12, 0x12, Palette(233)}, // exact gray stays exact
	}

	for _, tt := range tests {
		got := ResolveNearest(ColorCodeRGB, tt.r, tt.g, tt.b)
		if got != tt.want {
			t.Errorf("ResolveNearest(-1, %#x, %#x, %#x) = %v, want %v", tt.r, tt.g, tt.b, got, tt.want)
		}
	}
}

func TestParseColorPolicy(t *testing.T) {
	for _, p := range []ColorPolicy{PolicyExact, PolicyNearest} {
		got, err := ParseColorPolicy(p.String())
		if err != nil {
			t.Fatalf("ParseColorPolicy(%q): %v", p, err)
		}
		if got != p {
			t.Errorf("expected %v, got %v", p, got)
		}
	}

	if _, err := ParseColorPolicy("fuzzy"); err == nil {
		t.Error("expected error for unknown policy")
	}
}

func TestColorString(t *testing.T) {
	if ColorUnset.String() != "unset" {
		t.Errorf("expected 'unset', got %q", ColorUnset.String())
	}
	if Palette(196).String() != "196" {
		t.Errorf("expected '196', got %q", Palette(196).String())
	}
}

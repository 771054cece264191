package termsnap

import (
	"fmt"
	"strconv"
)

// Color is a resolved cell color: unset, or an index into the 256-color palette.
// Indices 0-15 are the direct ANSI colors, 16-231 the 6x6x6 cube and 232-255 the grayscale ramp.
type Color int16

// ColorUnset means the cell uses the terminal default color.
const ColorUnset Color = -1

// Indexed returns the direct ANSI color i. i must be below 16.
func Indexed(i uint8) Color {
	return Color(i)
}

// Palette returns the palette entry i.
func Palette(i uint8) Color {
	return Color(i)
}

// IsSet returns true unless c is ColorUnset.
func (c Color) IsSet() bool {
	return c >= 0
}

// IsIndexed returns true for the direct ANSI colors 0-15.
func (c Color) IsIndexed() bool {
	return c >= 0 && c < 16
}

// IsPalette returns true for the cube and grayscale entries 16-255.
func (c Color) IsPalette() bool {
	return c >= 16 && c < 256
}

// Index returns the palette index. Only meaningful when IsSet is true.
func (c Color) Index() int {
	return int(c)
}

func (c Color) String() string {
	if !c.IsSet() {
		return "unset"
	}
	return strconv.Itoa(int(c))
}

// CubeLevels are the channel values of the xterm 6x6x6 color cube.
var CubeLevels = [6]uint8{0x00, 0x5f, 0x87, 0xaf, 0xd7, 0xff}

// ColorCodeRGB is the raw color code meaning "use the RGB triple".
const ColorCodeRGB int8 = -1

// ColorResolutionError reports an RGB channel that is not one of the cube levels.
type ColorResolutionError struct {
	Channel string
	Value   uint8
}

func (e *ColorResolutionError) Error() string {
	return fmt.Sprintf("color: %s channel 0x%02x is not a palette cube level", e.Channel, e.Value)
}

// ColorPolicy selects how RGB values that miss the cube levels are handled.
type ColorPolicy int

const (
	// PolicyExact fails with a ColorResolutionError.
	PolicyExact ColorPolicy = iota
	// PolicyNearest snaps each channel to the closest cube level.
	PolicyNearest
)

func (p ColorPolicy) String() string {
	switch p {
	case PolicyExact:
		return "exact"
	case PolicyNearest:
		return "nearest"
	default:
		return "unknown"
	}
}

// ParseColorPolicy converts "exact" or "nearest" to a ColorPolicy.
func ParseColorPolicy(s string) (ColorPolicy, error) {
	switch s {
	case "exact":
		return PolicyExact, nil
	case "nearest":
		return PolicyNearest, nil
	default:
		return PolicyExact, fmt.Errorf("unknown color policy %q (want exact or nearest)", s)
	}
}

// Resolve maps a raw color code and RGB triple to a Color.
// Code -1 reconstructs the palette index from the RGB values, codes 0-15 are direct
// colors and every other code (including the engine's default-color sentinels) is unset.
func Resolve(code int8, r, g, b uint8) (Color, error) {
	return resolve(code, r, g, b, PolicyExact)
}

// ResolveNearest is Resolve with off-cube channels snapped to the nearest level.
func ResolveNearest(code int8, r, g, b uint8) Color {
	c, _ := resolve(code, r, g, b, PolicyNearest)
	return c
}

func resolve(code int8, r, g, b uint8, policy ColorPolicy) (Color, error) {
	switch {
	case code == ColorCodeRGB:
		return rgbToPalette(r, g, b, policy)
	case code >= 0 && code < 16:
		return Color(code), nil
	default:
		return ColorUnset, nil
	}
}

func rgbToPalette(r, g, b uint8, policy ColorPolicy) (Color, error) {
	if r == g && g == b && r >= 8 && r <= 238 && (r-8)%10 == 0 {
		return Color(232 + int(r-8)/10), nil
	}

	ri, err := cubePosition("red", r, policy)
	if err != nil {
		return ColorUnset, err
	}
	gi, err := cubePosition("green", g, policy)
	if err != nil {
		return ColorUnset, err
	}
	bi, err := cubePosition("blue", b, policy)
	if err != nil {
		return ColorUnset, err
	}

	return Color(16 + ri*36 + gi*6 + bi), nil
}

func cubePosition(channel string, v uint8, policy ColorPolicy) (int, error) {
	for i, level := range CubeLevels {
		if level == v {
			return i, nil
		}
	}
	if policy == PolicyNearest {
		return nearestLevel(v), nil
	}
	return 0, &ColorResolutionError{Channel: channel, Value: v}
}

// nearestLevel returns the cube position closest to v. Ties go to the lower level.
func nearestLevel(v uint8) int {
	best, bestDist := 0, 256
	for i, level := range CubeLevels {
		d := int(v) - int(level)
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

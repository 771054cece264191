package screen

import (
	"github.com/danielgatis/go-ansicode"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/danielgatis/go-termsnap"
)

// Palette holds the RGB values of palette entries 16-255: the xterm 6x6x6 cube
// followed by the 24-step grayscale ramp. Entries 0-15 are theme dependent and left zero.
var Palette [256][3]uint8

// paletteLab caches Palette entries 16-255 in colorful form for nearest-color lookups.
var paletteLab [256]colorful.Color

func init() {
	i := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				Palette[i] = [3]uint8{termsnap.CubeLevels[r], termsnap.CubeLevels[g], termsnap.CubeLevels[b]}
				i++
			}
		}
	}

	for j := 0; j < 24; j++ {
		gray := uint8(8 + j*10)
		Palette[232+j] = [3]uint8{gray, gray, gray}
	}

	for i := 16; i < 256; i++ {
		paletteLab[i] = rgbColor(Palette[i])
	}
}

func rgbColor(c [3]uint8) colorful.Color {
	return colorful.Color{R: float64(c[0]) / 255, G: float64(c[1]) / 255, B: float64(c[2]) / 255}
}

// NearestPaletteIndex returns the palette entry 16-255 perceptually closest to rgb,
// measured as distance in CIE L*a*b* space.
func NearestPaletteIndex(rgb [3]uint8) int {
	target := rgbColor(rgb)
	best, bestDist := 16, target.DistanceLab(paletteLab[16])
	for i := 17; i < 256; i++ {
		if d := target.DistanceLab(paletteLab[i]); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// indexedCode converts a palette index to the raw code convention:
// 0-15 keep their code, higher entries become code -1 plus their RGB value.
func indexedCode(i int) (int8, [3]uint8) {
	switch {
	case i >= 0 && i < 16:
		return int8(i), [3]uint8{}
	case i >= 16 && i < 256:
		return termsnap.ColorCodeRGB, Palette[i]
	default:
		return -2, [3]uint8{}
	}
}

// namedCode maps a decoder named color to a raw code. Dim variants fall back to the
// base color since the raw attribute cannot express dimming.
func namedCode(name ansicode.NamedColor, fg bool) int8 {
	switch {
	case name >= ansicode.NamedColorBlack && name <= ansicode.NamedColorBrightWhite:
		return int8(name)
	case name >= ansicode.NamedColorDimBlack && name <= ansicode.NamedColorDimWhite:
		return int8(name - ansicode.NamedColorDimBlack)
	case name == ansicode.NamedColorBrightForeground:
		return 15
	case name == ansicode.NamedColorBackground:
		return CodeBackground
	case name == ansicode.NamedColorForeground, name == ansicode.NamedColorDimForeground, name == ansicode.NamedColorCursor:
		return CodeForeground
	case fg:
		return CodeForeground
	default:
		return CodeBackground
	}
}

package screen

import "github.com/danielgatis/go-termsnap"

// Cursor tracks the current position (0-based). Col may equal the screen width after
// writing the last column; the next printed character wraps.
type Cursor struct {
	Row int
	Col int
}

// NewCursor creates a cursor at (0, 0).
func NewCursor() Cursor {
	return Cursor{}
}

// SavedCursor stores what DECSC saves and DECRC restores.
type SavedCursor struct {
	Cursor
	Attr          termsnap.RawAttribute
	OriginMode    bool
	ActiveCharset int
	Charsets      [4]Charset
}

// Charset selects the character encoding variant of a G0-G3 slot.
type Charset int

const (
	CharsetASCII Charset = iota
	CharsetLineDrawing
)

// lineDrawing maps DEC special graphics characters to box drawing runes.
var lineDrawing = map[rune]rune{
	'`': '◆',
	'a': '▒',
	'f': '°',
	'g': '±',
	'j': '┘',
	'k': '┐',
	'l': '┌',
	'm': '└',
	'n': '┼',
	'q': '─',
	't': '├',
	'u': '┤',
	'v': '┴',
	'w': '┬',
	'x': '│',
	'y': '≤',
	'z': '≥',
	'~': '·',
}

func translateLineDrawing(r rune) rune {
	if t, ok := lineDrawing[r]; ok {
		return t
	}
	return r
}

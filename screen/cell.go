package screen

import "github.com/danielgatis/go-termsnap"

// Default color codes. Any code outside -1..15 resolves to an unset color.
const (
	CodeForeground int8 = 16
	CodeBackground int8 = 17
)

// DefaultAttribute is the attribute of a cell nothing has been written to.
var DefaultAttribute = termsnap.RawAttribute{
	FCCode: CodeForeground,
	BCCode: CodeBackground,
}

type cellFlags uint8

const (
	cellWide cellFlags = 1 << iota
	cellWideSpacer
)

// Cell stores the character and raw attribute for one grid position.
// A zero Char means the cell is blank.
type Cell struct {
	Char  rune
	Attr  termsnap.RawAttribute
	flags cellFlags
}

// NewCell creates a blank cell with default colors.
func NewCell() Cell {
	return Cell{Attr: DefaultAttribute}
}

// Reset clears the cell back to blank with default colors.
func (c *Cell) Reset() {
	*c = NewCell()
}

// erase blanks the cell and gives it attr, the attribute current at erase time.
func (c *Cell) erase(attr termsnap.RawAttribute) {
	*c = Cell{Attr: attr}
}

// IsWide returns true if the cell holds a character that occupies 2 columns.
func (c *Cell) IsWide() bool {
	return c.flags&cellWide != 0
}

// IsWideSpacer returns true for the second column of a wide character.
func (c *Cell) IsWideSpacer() bool {
	return c.flags&cellWideSpacer != 0
}

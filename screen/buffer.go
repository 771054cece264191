package screen

import "github.com/danielgatis/go-termsnap"

// Buffer stores a 2D grid of cells and the tab stops of its columns.
type Buffer struct {
	rows    int
	cols    int
	cells   [][]Cell
	tabStop []bool
}

// NewBuffer creates a blank buffer. Tab stops are initialized every 8 columns.
func NewBuffer(rows, cols int) *Buffer {
	b := &Buffer{
		rows:    rows,
		cols:    cols,
		cells:   make([][]Cell, rows),
		tabStop: make([]bool, cols),
	}

	for i := range b.cells {
		b.cells[i] = blankLine(cols)
	}

	for i := 0; i < cols; i += 8 {
		b.tabStop[i] = true
	}

	return b
}

func blankLine(cols int) []Cell {
	line := make([]Cell, cols)
	for i := range line {
		line[i] = NewCell()
	}
	return line
}

// Rows returns the buffer height in character rows.
func (b *Buffer) Rows() int {
	return b.rows
}

// Cols returns the buffer width in character columns.
func (b *Buffer) Cols() int {
	return b.cols
}

// Cell returns a pointer to the cell at (row, col), or nil if out of bounds.
func (b *Buffer) Cell(row, col int) *Cell {
	if row < 0 || row >= b.rows || col < 0 || col >= b.cols {
		return nil
	}
	return &b.cells[row][col]
}

// EraseRange blanks cells in row from startCol (inclusive) to endCol (exclusive).
func (b *Buffer) EraseRange(row, startCol, endCol int, attr termsnap.RawAttribute) {
	if row < 0 || row >= b.rows {
		return
	}
	startCol = max(startCol, 0)
	endCol = min(endCol, b.cols)
	for col := startCol; col < endCol; col++ {
		b.cells[row][col].erase(attr)
	}
}

// EraseRow blanks a whole row.
func (b *Buffer) EraseRow(row int, attr termsnap.RawAttribute) {
	b.EraseRange(row, 0, b.cols, attr)
}

// EraseAll blanks every cell.
func (b *Buffer) EraseAll(attr termsnap.RawAttribute) {
	for row := range b.cells {
		b.EraseRow(row, attr)
	}
}

// ScrollUp shifts lines up by n within [top, bottom). Bottom lines become blank.
func (b *Buffer) ScrollUp(top, bottom, n int) {
	top, bottom, n, ok := b.region(top, bottom, n)
	if !ok {
		return
	}

	for row := top; row < bottom-n; row++ {
		b.cells[row] = b.cells[row+n]
	}
	for row := bottom - n; row < bottom; row++ {
		b.cells[row] = blankLine(b.cols)
	}
}

// ScrollDown shifts lines down by n within [top, bottom). Top lines become blank.
func (b *Buffer) ScrollDown(top, bottom, n int) {
	top, bottom, n, ok := b.region(top, bottom, n)
	if !ok {
		return
	}

	for row := bottom - 1; row >= top+n; row-- {
		b.cells[row] = b.cells[row-n]
	}
	for row := top; row < top+n; row++ {
		b.cells[row] = blankLine(b.cols)
	}
}

// region clamps a scroll region and count to the buffer.
func (b *Buffer) region(top, bottom, n int) (int, int, int, bool) {
	top = max(top, 0)
	bottom = min(bottom, b.rows)
	if n <= 0 || top >= bottom {
		return 0, 0, 0, false
	}
	return top, bottom, min(n, bottom-top), true
}

// InsertLines inserts n blank lines at row, shifting lines down to bottom.
func (b *Buffer) InsertLines(row, n, bottom int) {
	if row < 0 || row >= bottom || n <= 0 {
		return
	}
	b.ScrollDown(row, bottom, n)
}

// DeleteLines removes n lines at row, shifting lines up from bottom.
func (b *Buffer) DeleteLines(row, n, bottom int) {
	if row < 0 || row >= bottom || n <= 0 {
		return
	}
	b.ScrollUp(row, bottom, n)
}

// InsertBlanks inserts n blank cells at (row, col), shifting characters right.
func (b *Buffer) InsertBlanks(row, col, n int) {
	if row < 0 || row >= b.rows || col < 0 || col >= b.cols || n <= 0 {
		return
	}

	line := b.cells[row]
	for c := b.cols - 1; c >= col+n; c-- {
		line[c] = line[c-n]
	}
	for c := col; c < col+n && c < b.cols; c++ {
		line[c].Reset()
	}
}

// DeleteChars removes n characters at (row, col), shifting characters left.
func (b *Buffer) DeleteChars(row, col, n int) {
	if row < 0 || row >= b.rows || col < 0 || col >= b.cols || n <= 0 {
		return
	}

	line := b.cells[row]
	n = min(n, b.cols-col)
	copy(line[col:], line[col+n:])
	for c := b.cols - n; c < b.cols; c++ {
		line[c].Reset()
	}
}

// Resize changes the dimensions, keeping content at the top-left corner.
func (b *Buffer) Resize(rows, cols int) {
	cells := make([][]Cell, rows)
	for i := range cells {
		cells[i] = blankLine(cols)
		if i < b.rows {
			copy(cells[i], b.cells[i])
		}
	}

	tabStop := make([]bool, cols)
	copy(tabStop, b.tabStop)
	for i := len(b.tabStop); i < cols; i++ {
		tabStop[i] = i%8 == 0
	}

	b.cells = cells
	b.tabStop = tabStop
	b.rows = rows
	b.cols = cols
}

// SetTabStop enables a tab stop at col.
func (b *Buffer) SetTabStop(col int) {
	if col >= 0 && col < b.cols {
		b.tabStop[col] = true
	}
}

// ClearTabStop disables the tab stop at col.
func (b *Buffer) ClearTabStop(col int) {
	if col >= 0 && col < b.cols {
		b.tabStop[col] = false
	}
}

// ClearAllTabStops disables all tab stops.
func (b *Buffer) ClearAllTabStops() {
	clear(b.tabStop)
}

// NextTabStop returns the next tab stop after col, or the last column.
func (b *Buffer) NextTabStop(col int) int {
	for c := col + 1; c < b.cols; c++ {
		if b.tabStop[c] {
			return c
		}
	}
	return b.cols - 1
}

// PrevTabStop returns the previous tab stop before col, or 0.
func (b *Buffer) PrevTabStop(col int) int {
	for c := min(col, b.cols) - 1; c >= 0; c-- {
		if b.tabStop[c] {
			return c
		}
	}
	return 0
}

// Fill sets every cell to r with default attributes (DECALN).
func (b *Buffer) Fill(r rune) {
	for row := range b.cells {
		for col := range b.cells[row] {
			b.cells[row][col] = Cell{Char: r, Attr: DefaultAttribute}
		}
	}
}

// LineContent returns the text of a row without trailing blanks. Wide spacers are skipped.
func (b *Buffer) LineContent(row int) string {
	if row < 0 || row >= b.rows {
		return ""
	}

	runes := make([]rune, 0, b.cols)
	end := 0
	for _, cell := range b.cells[row] {
		if cell.IsWideSpacer() {
			continue
		}
		if cell.Char == 0 || cell.Char == ' ' {
			runes = append(runes, ' ')
			continue
		}
		runes = append(runes, cell.Char)
		end = len(runes)
	}
	return string(runes[:end])
}

package termsnap

// Engine is the terminal emulation engine the loop drives.
// It owns escape sequence parsing and the screen buffer; the loop only feeds it bytes
// and reads back cells and cursor state. Calls are never concurrent.
type Engine interface {
	// Feed advances the emulator state with raw output bytes.
	Feed(data []byte) error
	// Draw calls fn once per visible cell, in increasing row order and left to right
	// within a row. It stops and returns the first error fn returns.
	Draw(fn DrawFunc) error
	// CursorPosition returns the cursor column and row (0-based).
	CursorPosition() (x, y int)
	// CursorVisible reports whether the cursor is shown.
	CursorVisible() bool
}

// CursorState is the cursor position and visibility at one instant.
type CursorState struct {
	X       int  `json:"x"`
	Y       int  `json:"y"`
	Visible bool `json:"visible"`
}

// ReadCursor queries e for its current cursor state.
func ReadCursor(e Engine) CursorState {
	x, y := e.CursorPosition()
	return CursorState{X: x, Y: y, Visible: e.CursorVisible()}
}

// Capture enumerates every cell of e into a new Snapshot.
func Capture(e Engine, codec Codec) (Snapshot, error) {
	b := NewBuilder(codec)
	if err := e.Draw(b.Cell); err != nil {
		return nil, err
	}
	return b.Snapshot(), nil
}

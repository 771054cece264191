package screen

import (
	"fmt"
	"image/color"

	"github.com/danielgatis/go-ansicode"

	"github.com/danielgatis/go-termsnap"
)

// Input writes a character at the cursor, wrapping and scrolling as needed.
func (s *Screen) Input(r rune) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeCharset >= 0 && s.activeCharset < 4 && s.charsets[s.activeCharset] == CharsetLineDrawing {
		r = translateLineDrawing(r)
	}

	width := runeWidth(r)
	if width == 0 {
		// combining marks have no cell of their own
		return
	}
	if width > s.cols {
		return
	}

	if s.cursor.Col+width > s.cols {
		if s.modes&ModeLineWrap != 0 {
			s.cursor.Col = 0
			s.cursor.Row++
			s.scrollIfNeeded()
		} else {
			s.cursor.Col = s.cols - width
		}
	}

	if s.modes&ModeInsert != 0 {
		s.active.InsertBlanks(s.cursor.Row, s.cursor.Col, width)
	}

	cell := s.active.Cell(s.cursor.Row, s.cursor.Col)
	if cell == nil {
		return
	}
	s.splitWide(s.cursor.Row, s.cursor.Col, cell)
	if width == 2 {
		if next := s.active.Cell(s.cursor.Row, s.cursor.Col+1); next != nil {
			s.splitWide(s.cursor.Row, s.cursor.Col+1, next)
		}
	}
	cell.Char = r
	cell.Attr = s.template
	cell.flags = 0
	if width == 2 {
		cell.flags = cellWide
		if spacer := s.active.Cell(s.cursor.Row, s.cursor.Col+1); spacer != nil {
			*spacer = Cell{Attr: s.template, flags: cellWideSpacer}
		}
	}

	s.cursor.Col += width
}

// splitWide blanks the other half of a wide character before cell is overwritten.
func (s *Screen) splitWide(row, col int, cell *Cell) {
	switch {
	case cell.IsWide():
		if spacer := s.active.Cell(row, col+1); spacer != nil && spacer.IsWideSpacer() {
			spacer.erase(spacer.Attr)
		}
	case cell.IsWideSpacer():
		if wide := s.active.Cell(row, col-1); wide != nil && wide.IsWide() {
			wide.erase(wide.Attr)
		}
	}
}

// Backspace moves the cursor one column left, stopping at column 0.
func (s *Screen) Backspace() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor.Col >= s.cols {
		s.cursor.Col = s.cols - 1
	}
	if s.cursor.Col > 0 {
		s.cursor.Col--
	}
}

// Bell is ignored.
func (s *Screen) Bell() {}

// CarriageReturn moves the cursor to column 0.
func (s *Screen) CarriageReturn() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cursor.Col = 0
}

// LineFeed moves the cursor down one row, scrolling at the bottom of the region.
func (s *Screen) LineFeed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.modes&ModeLineFeedNewLine != 0 {
		s.cursor.Col = 0
	}
	s.cursor.Row++
	s.scrollIfNeeded()
}

// Tab moves the cursor to the next n tab stops.
func (s *Screen) Tab(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < n; i++ {
		s.cursor.Col = s.active.NextTabStop(s.cursor.Col)
	}
}

// ClearLine erases right of the cursor, left of it, or the whole line.
func (s *Screen) ClearLine(mode ansicode.LineClearMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, col := s.cursor.Row, min(s.cursor.Col, s.cols-1)
	switch mode {
	case ansicode.LineClearModeRight:
		s.active.EraseRange(row, col, s.cols, s.template)
	case ansicode.LineClearModeLeft:
		s.active.EraseRange(row, 0, col+1, s.template)
	case ansicode.LineClearModeAll:
		s.active.EraseRow(row, s.template)
	}
}

// ClearScreen erases below the cursor, above it, or the whole screen.
// There is no scrollback, so clearing saved lines does nothing.
func (s *Screen) ClearScreen(mode ansicode.ClearMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, col := s.cursor.Row, min(s.cursor.Col, s.cols-1)
	switch mode {
	case ansicode.ClearModeBelow:
		s.active.EraseRange(row, col, s.cols, s.template)
		for r := row + 1; r < s.rows; r++ {
			s.active.EraseRow(r, s.template)
		}
	case ansicode.ClearModeAbove:
		for r := 0; r < row; r++ {
			s.active.EraseRow(r, s.template)
		}
		s.active.EraseRange(row, 0, col+1, s.template)
	case ansicode.ClearModeAll:
		s.active.EraseAll(s.template)
	}
}

// ClearTabs removes the tab stop at the cursor or all tab stops.
func (s *Screen) ClearTabs(mode ansicode.TabulationClearMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch mode {
	case ansicode.TabulationClearModeCurrent:
		s.active.ClearTabStop(s.cursor.Col)
	case ansicode.TabulationClearModeAll:
		s.active.ClearAllTabStops()
	}
}

// HorizontalTabSet enables a tab stop at the cursor column.
func (s *Screen) HorizontalTabSet() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active.SetTabStop(s.cursor.Col)
}

// Goto moves the cursor to (row, col), relative to the scroll region in origin mode.
func (s *Screen) Goto(row, col int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cursor.Row = clamp(s.effectiveRow(row), 0, s.rows-1)
	s.cursor.Col = clamp(col, 0, s.cols-1)
}

// GotoLine moves the cursor to row, keeping the column.
func (s *Screen) GotoLine(row int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cursor.Row = clamp(s.effectiveRow(row), 0, s.rows-1)
}

// GotoCol moves the cursor to col, keeping the row.
func (s *Screen) GotoCol(col int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cursor.Col = clamp(col, 0, s.cols-1)
}

func (s *Screen) moveCursor(dRow, dCol int, cr bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cursor.Row = clamp(s.cursor.Row+dRow, 0, s.rows-1)
	s.cursor.Col = clamp(s.cursor.Col+dCol, 0, s.cols-1)
	if cr {
		s.cursor.Col = 0
	}
}

// MoveUp moves the cursor up n rows.
func (s *Screen) MoveUp(n int) { s.moveCursor(-n, 0, false) }

// MoveDown moves the cursor down n rows.
func (s *Screen) MoveDown(n int) { s.moveCursor(n, 0, false) }

// MoveForward moves the cursor right n columns.
func (s *Screen) MoveForward(n int) { s.moveCursor(0, n, false) }

// MoveBackward moves the cursor left n columns.
func (s *Screen) MoveBackward(n int) { s.moveCursor(0, -n, false) }

// MoveUpCr moves the cursor up n rows to column 0.
func (s *Screen) MoveUpCr(n int) { s.moveCursor(-n, 0, true) }

// MoveDownCr moves the cursor down n rows to column 0.
func (s *Screen) MoveDownCr(n int) { s.moveCursor(n, 0, true) }

// MoveForwardTabs moves the cursor to the n-th next tab stop.
func (s *Screen) MoveForwardTabs(n int) {
	s.Tab(n)
}

// MoveBackwardTabs moves the cursor to the n-th previous tab stop.
func (s *Screen) MoveBackwardTabs(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < n; i++ {
		s.cursor.Col = s.active.PrevTabStop(s.cursor.Col)
	}
}

// InsertBlank inserts n blank cells at the cursor.
func (s *Screen) InsertBlank(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active.InsertBlanks(s.cursor.Row, min(s.cursor.Col, s.cols-1), n)
}

// InsertBlankLines inserts n blank lines at the cursor inside the scroll region.
func (s *Screen) InsertBlankLines(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor.Row >= s.scrollTop && s.cursor.Row < s.scrollBottom {
		s.active.InsertLines(s.cursor.Row, n, s.scrollBottom)
	}
}

// DeleteChars removes n characters at the cursor.
func (s *Screen) DeleteChars(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active.DeleteChars(s.cursor.Row, min(s.cursor.Col, s.cols-1), n)
}

// DeleteLines removes n lines at the cursor inside the scroll region.
func (s *Screen) DeleteLines(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor.Row >= s.scrollTop && s.cursor.Row < s.scrollBottom {
		s.active.DeleteLines(s.cursor.Row, n, s.scrollBottom)
	}
}

// EraseChars blanks n characters at the cursor without shifting.
func (s *Screen) EraseChars(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col := min(s.cursor.Col, s.cols-1)
	s.active.EraseRange(s.cursor.Row, col, col+n, s.template)
}

// ScrollUp shifts the scroll region up n lines.
func (s *Screen) ScrollUp(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active.ScrollUp(s.scrollTop, s.scrollBottom, n)
}

// ScrollDown shifts the scroll region down n lines.
func (s *Screen) ScrollDown(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active.ScrollDown(s.scrollTop, s.scrollBottom, n)
}

// SetScrollingRegion sets the 1-based scroll region and homes the cursor.
func (s *Screen) SetScrollingRegion(top, bottom int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	top--
	if top < 0 {
		top = 0
	}
	if bottom <= 0 || bottom > s.rows {
		bottom = s.rows
	}
	if top >= bottom-1 {
		return
	}

	s.scrollTop = top
	s.scrollBottom = bottom
	s.cursor.Row = s.effectiveRow(0)
	s.cursor.Col = 0
}

// ReverseIndex moves the cursor up, scrolling down at the top of the region.
func (s *Screen) ReverseIndex() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor.Row == s.scrollTop {
		s.active.ScrollDown(s.scrollTop, s.scrollBottom, 1)
	} else if s.cursor.Row > 0 {
		s.cursor.Row--
	}
}

// SaveCursorPosition saves the cursor, attribute, charsets and origin mode.
func (s *Screen) SaveCursorPosition() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saveCursorLocked()
}

func (s *Screen) saveCursorLocked() {
	s.savedCursor = &SavedCursor{
		Cursor:        s.cursor,
		Attr:          s.template,
		OriginMode:    s.modes&ModeOrigin != 0,
		ActiveCharset: s.activeCharset,
		Charsets:      s.charsets,
	}
}

// RestoreCursorPosition restores the state saved by SaveCursorPosition.
func (s *Screen) RestoreCursorPosition() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.restoreCursorLocked()
}

func (s *Screen) restoreCursorLocked() {
	if s.savedCursor == nil {
		s.cursor = NewCursor()
		return
	}
	s.cursor = s.savedCursor.Cursor
	s.cursor.Row = clamp(s.cursor.Row, 0, s.rows-1)
	s.cursor.Col = clamp(s.cursor.Col, 0, s.cols)
	s.template = s.savedCursor.Attr
	if s.savedCursor.OriginMode {
		s.modes |= ModeOrigin
	} else {
		s.modes &^= ModeOrigin
	}
	s.activeCharset = s.savedCursor.ActiveCharset
	s.charsets = s.savedCursor.Charsets
}

// ResetState performs a full reset (RIS) of the active screen.
func (s *Screen) ResetState() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = s.primary
	s.primary.EraseAll(DefaultAttribute)
	s.alternate.EraseAll(DefaultAttribute)
	s.cursor = NewCursor()
	s.savedCursor = nil
	s.template = DefaultAttribute
	s.scrollTop = 0
	s.scrollBottom = s.rows
	s.modes = ModeLineWrap | ModeShowCursor
	s.charsets = [4]Charset{}
	s.activeCharset = 0
}

// Substitute replaces the character at the cursor with '?'.
func (s *Screen) Substitute() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cell := s.active.Cell(s.cursor.Row, s.cursor.Col); cell != nil {
		cell.Char = '?'
	}
}

// Decaln fills the screen with 'E' (DEC screen alignment test).
func (s *Screen) Decaln() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active.Fill('E')
}

// DeviceStatus answers DSR 5 (ready) and DSR 6 (cursor position report).
func (s *Screen) DeviceStatus(n int) {
	s.mu.RLock()
	row, col := s.cursor.Row, min(s.cursor.Col, s.cols-1)
	s.mu.RUnlock()

	switch n {
	case 5:
		s.writeResponse("\x1b[0n")
	case 6:
		s.writeResponse(fmt.Sprintf("\x1b[%d;%dR", row+1, col+1))
	}
}

// IdentifyTerminal answers DA as a VT220.
func (s *Screen) IdentifyTerminal(b byte) {
	s.writeResponse("\x1b[?62;c")
}

// ConfigureCharset sets the charset of one of the G0-G3 slots.
func (s *Screen) ConfigureCharset(index ansicode.CharsetIndex, charset ansicode.Charset) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := int(index); i >= 0 && i < 4 {
		s.charsets[i] = Charset(charset)
	}
}

// SetActiveCharset selects the G0-G3 slot used for printing.
func (s *Screen) SetActiveCharset(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n >= 0 && n < 4 {
		s.activeCharset = n
	}
}

// SetMode enables a terminal mode.
func (s *Screen) SetMode(mode ansicode.TerminalMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setModeLocked(mode, true)
}

// UnsetMode disables a terminal mode.
func (s *Screen) UnsetMode(mode ansicode.TerminalMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setModeLocked(mode, false)
}

// setModeLocked sets or unsets a mode the screen tracks. Others are ignored.
func (s *Screen) setModeLocked(mode ansicode.TerminalMode, set bool) {
	var m Mode

	switch mode {
	case ansicode.TerminalModeInsert:
		m = ModeInsert
	case ansicode.TerminalModeOrigin:
		m = ModeOrigin
		s.cursor.Col = 0
		s.cursor.Row = 0
		if set {
			s.cursor.Row = s.scrollTop
		}
	case ansicode.TerminalModeLineWrap:
		m = ModeLineWrap
	case ansicode.TerminalModeLineFeedNewLine:
		m = ModeLineFeedNewLine
	case ansicode.TerminalModeShowCursor:
		m = ModeShowCursor
	case ansicode.TerminalModeSwapScreenAndSetRestoreCursor:
		m = ModeAlternate
		if set == (s.modes&ModeAlternate != 0) {
			return
		}
		if set {
			s.saveCursorLocked()
			s.active = s.alternate
			s.active.EraseAll(DefaultAttribute)
		} else {
			s.active = s.primary
			s.restoreCursorLocked()
		}
	default:
		return
	}

	if set {
		s.modes |= m
	} else {
		s.modes &^= m
	}
}

// SetTerminalCharAttribute applies one SGR attribute to the template.
// Dim, italic, hidden and strike have no raw attribute flag and are ignored.
func (s *Screen) SetTerminalCharAttribute(attr ansicode.TerminalCharAttribute) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &s.template
	switch attr.Attr {
	case ansicode.CharAttributeReset:
		*t = DefaultAttribute
	case ansicode.CharAttributeBold:
		t.Flags |= termsnap.AttrBold
	case ansicode.CharAttributeCancelBold, ansicode.CharAttributeCancelBoldDim:
		t.Flags &^= termsnap.AttrBold
	case ansicode.CharAttributeUnderline, ansicode.CharAttributeDoubleUnderline,
		ansicode.CharAttributeCurlyUnderline, ansicode.CharAttributeDottedUnderline,
		ansicode.CharAttributeDashedUnderline:
		t.Flags |= termsnap.AttrUnderline
	case ansicode.CharAttributeCancelUnderline:
		t.Flags &^= termsnap.AttrUnderline
	case ansicode.CharAttributeBlinkSlow, ansicode.CharAttributeBlinkFast:
		t.Flags |= termsnap.AttrBlink
	case ansicode.CharAttributeCancelBlink:
		t.Flags &^= termsnap.AttrBlink
	case ansicode.CharAttributeReverse:
		t.Flags |= termsnap.AttrInverse
	case ansicode.CharAttributeCancelReverse:
		t.Flags &^= termsnap.AttrInverse
	case ansicode.CharAttributeForeground:
		var rgb [3]uint8
		t.FCCode, rgb = s.colorCode(attr, true)
		t.FR, t.FG, t.FB = rgb[0], rgb[1], rgb[2]
	case ansicode.CharAttributeBackground:
		var rgb [3]uint8
		t.BCCode, rgb = s.colorCode(attr, false)
		t.BR, t.BG, t.BB = rgb[0], rgb[1], rgb[2]
	}
}

// colorCode converts an SGR color to the raw code convention.
func (s *Screen) colorCode(attr ansicode.TerminalCharAttribute, fg bool) (int8, [3]uint8) {
	switch {
	case attr.RGBColor != nil:
		rgb := [3]uint8{attr.RGBColor.R, attr.RGBColor.G, attr.RGBColor.B}
		if s.trueColor {
			return termsnap.ColorCodeRGB, rgb
		}
		return indexedCode(NearestPaletteIndex(rgb))
	case attr.IndexedColor != nil:
		return indexedCode(int(attr.IndexedColor.Index))
	case attr.NamedColor != nil:
		return namedCode(*attr.NamedColor, fg), [3]uint8{}
	case fg:
		return CodeForeground, [3]uint8{}
	default:
		return CodeBackground, [3]uint8{}
	}
}

// The handlers below cover features a snapshot does not expose. They are accepted
// so the decoder stays in sync and otherwise dropped.

func (s *Screen) ApplicationCommandReceived(data []byte) {}

func (s *Screen) PrivacyMessageReceived(data []byte) {}

func (s *Screen) StartOfStringReceived(data []byte) {}

func (s *Screen) ClipboardLoad(clipboard byte, terminator string) {}

func (s *Screen) ClipboardStore(clipboard byte, data []byte) {}

func (s *Screen) SetTitle(title string) {}

func (s *Screen) PushTitle() {}

func (s *Screen) PopTitle() {}

func (s *Screen) SetCursorStyle(style ansicode.CursorStyle) {}

func (s *Screen) SetColor(index int, c color.Color) {}

func (s *Screen) ResetColor(i int) {}

func (s *Screen) SetDynamicColor(prefix string, index int, terminator string) {}

func (s *Screen) SetHyperlink(hyperlink *ansicode.Hyperlink) {}

func (s *Screen) SetKeypadApplicationMode() {}

func (s *Screen) UnsetKeypadApplicationMode() {}

func (s *Screen) SetKeyboardMode(mode ansicode.KeyboardMode, behavior ansicode.KeyboardModeBehavior) {}

func (s *Screen) PushKeyboardMode(mode ansicode.KeyboardMode) {}

func (s *Screen) PopKeyboardMode(n int) {}

func (s *Screen) ReportKeyboardMode() {}

func (s *Screen) SetModifyOtherKeys(modify ansicode.ModifyOtherKeys) {}

func (s *Screen) ReportModifyOtherKeys() {}

func (s *Screen) TextAreaSizeChars() {}

func (s *Screen) TextAreaSizePixels() {}

func (s *Screen) CellSizePixels() {}

func (s *Screen) SetWorkingDirectory(uri string) {}

func (s *Screen) ShellIntegrationMark(mark ansicode.ShellIntegrationMark, exitCode int) {}

func (s *Screen) SixelReceived(params [][]uint16, data []byte) {}

func (s *Screen) DesktopNotification(payload *ansicode.NotificationPayload) {}

func (s *Screen) SetUserVar(name, value string) {}

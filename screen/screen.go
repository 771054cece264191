package screen

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/danielgatis/go-ansicode"

	"github.com/danielgatis/go-termsnap"
)

// Ensure Screen implements both sides it sits between.
var (
	_ ansicode.Handler = (*Screen)(nil)
	_ termsnap.Engine  = (*Screen)(nil)
)

const (
	// DefaultCols is the default screen width.
	DefaultCols = 82
	// DefaultRows is the default screen height.
	DefaultRows = 21
	// DefaultMaxCells bounds the grid size accepted by Open and Resize.
	DefaultMaxCells = 1 << 22
)

// ErrorKind classifies a setup failure.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindOutOfMemory
	KindInvalidArgument
)

func (k ErrorKind) String() string {
	switch k {
	case KindOutOfMemory:
		return "out of memory"
	case KindInvalidArgument:
		return "invalid argument"
	default:
		return "unknown error"
	}
}

// SetupError reports a failure to create or resize a screen.
type SetupError struct {
	Op   string
	Kind ErrorKind
	Err  error
}

func (e *SetupError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("screen: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("screen: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// ErrClosed is returned by operations on a closed screen.
var ErrClosed = errors.New("screen: closed")

// Mode is a bitmask of screen behavior flags.
type Mode uint16

const (
	ModeInsert Mode = 1 << iota
	ModeOrigin
	ModeLineWrap
	ModeLineFeedNewLine
	ModeShowCursor
	ModeAlternate
)

// Screen is a cell grid driven by an ANSI decoder. It implements termsnap.Engine.
// Draw callbacks run with the screen locked and must not call back into it.
type Screen struct {
	mu sync.RWMutex

	rows     int
	cols     int
	maxCells int
	closed   bool

	primary   *Buffer
	alternate *Buffer
	active    *Buffer

	cursor      Cursor
	savedCursor *SavedCursor

	// attribute applied to newly written characters, updated by SGR
	template termsnap.RawAttribute

	charsets      [4]Charset
	activeCharset int

	scrollTop    int
	scrollBottom int

	modes     Mode
	trueColor bool

	decoder *ansicode.Decoder

	response  io.Writer
	recording io.Writer

	// reused for every Draw callback
	drawAttr termsnap.RawAttribute
}

// Option configures a Screen during construction.
type Option func(*Screen)

// WithResponse sets the writer for device reports (cursor position, identification).
// Reports are discarded by default.
func WithResponse(w io.Writer) Option {
	return func(s *Screen) {
		s.response = w
	}
}

// WithRecording copies every fed byte to w before it is decoded.
func WithRecording(w io.Writer) Option {
	return func(s *Screen) {
		s.recording = w
	}
}

// WithTrueColor keeps 24-bit SGR colors as received. By default they are snapped to the
// nearest 256-color palette entry so every RGB value lands on a palette level.
func WithTrueColor(keep bool) Option {
	return func(s *Screen) {
		s.trueColor = keep
	}
}

// WithMaxCells bounds width*height. Larger sizes fail with KindOutOfMemory.
func WithMaxCells(n int) Option {
	return func(s *Screen) {
		if n > 0 {
			s.maxCells = n
		}
	}
}

// Open creates a screen of width columns and height rows.
func Open(width, height int, opts ...Option) (*Screen, error) {
	s := &Screen{
		maxCells: DefaultMaxCells,
		response: io.Discard,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.checkSize("open", width, height); err != nil {
		return nil, err
	}

	s.rows = height
	s.cols = width
	s.primary = NewBuffer(height, width)
	s.alternate = NewBuffer(height, width)
	s.active = s.primary
	s.cursor = NewCursor()
	s.template = DefaultAttribute
	s.scrollTop = 0
	s.scrollBottom = height
	s.modes = ModeLineWrap | ModeShowCursor
	s.decoder = ansicode.NewDecoder(s)

	return s, nil
}

func (s *Screen) checkSize(op string, width, height int) error {
	if width <= 0 || height <= 0 {
		return &SetupError{Op: op, Kind: KindInvalidArgument, Err: fmt.Errorf("size %dx%d", width, height)}
	}
	if width > s.maxCells/height {
		return &SetupError{Op: op, Kind: KindOutOfMemory, Err: fmt.Errorf("size %dx%d exceeds %d cells", width, height, s.maxCells)}
	}
	return nil
}

// Resize changes the screen to width columns and height rows, keeping content at the
// top-left corner and clamping the cursor. The scroll region is reset.
func (s *Screen) Resize(width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return &SetupError{Op: "resize", Kind: KindInvalidArgument, Err: ErrClosed}
	}
	if err := s.checkSize("resize", width, height); err != nil {
		return err
	}

	s.rows = height
	s.cols = width
	s.primary.Resize(height, width)
	s.alternate.Resize(height, width)

	s.cursor.Row = clamp(s.cursor.Row, 0, height-1)
	s.cursor.Col = clamp(s.cursor.Col, 0, width-1)
	s.scrollTop = 0
	s.scrollBottom = height
	return nil
}

// Size returns the screen width and height.
func (s *Screen) Size() (width, height int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cols, s.rows
}

// Feed decodes data and applies it to the screen.
func (s *Screen) Feed(data []byte) error {
	_, err := s.Write(data)
	return err
}

// Write implements io.Writer over Feed semantics.
func (s *Screen) Write(data []byte) (int, error) {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return 0, ErrClosed
	}

	if s.recording != nil {
		if _, err := s.recording.Write(data); err != nil {
			return 0, fmt.Errorf("screen: record: %w", err)
		}
	}
	return s.decoder.Write(data)
}

// WriteString is a convenience wrapper around Write.
func (s *Screen) WriteString(str string) (int, error) {
	return s.Write([]byte(str))
}

// Draw calls fn for every visible cell, row by row, left to right. The second column
// of a wide character is skipped. Blank cells report character code 0. The attribute
// pointer is reused between calls.
func (s *Screen) Draw(fn termsnap.DrawFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	for row := 0; row < s.rows; row++ {
		for col := 0; col < s.cols; col++ {
			cell := s.active.Cell(row, col)
			if cell.IsWideSpacer() {
				continue
			}
			s.drawAttr = cell.Attr
			if err := fn(row, col, uint32(cell.Char), &s.drawAttr); err != nil {
				return err
			}
		}
	}
	return nil
}

// CursorPosition returns the cursor column and row, clamped to the screen.
func (s *Screen) CursorPosition() (x, y int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clamp(s.cursor.Col, 0, s.cols-1), clamp(s.cursor.Row, 0, s.rows-1)
}

// CursorVisible returns false after the cursor was hidden with DECTCEM.
func (s *Screen) CursorVisible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modes&ModeShowCursor != 0
}

// HasMode returns true if every bit of mode is set.
func (s *Screen) HasMode(mode Mode) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modes&mode == mode
}

// Cell returns a copy of the cell at (row, col) and whether it exists.
func (s *Screen) Cell(row, col int) (Cell, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return Cell{}, false
	}
	c := s.active.Cell(row, col)
	if c == nil {
		return Cell{}, false
	}
	return *c, true
}

// LineContent returns the text of row without trailing blanks.
func (s *Screen) LineContent(row int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ""
	}
	return s.active.LineContent(row)
}

// String returns all rows joined by newlines with trailing empty rows removed.
func (s *Screen) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ""
	}
	lines := make([]string, s.rows)
	for row := range lines {
		lines[row] = s.active.LineContent(row)
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// Close releases the grids. Further Feed, Draw and Resize calls fail with ErrClosed.
func (s *Screen) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.closed = true
	s.primary = nil
	s.alternate = nil
	s.active = nil
	return nil
}

// writeResponse sends a device report. Must be called without the lock held.
func (s *Screen) writeResponse(str string) {
	_, _ = io.WriteString(s.response, str)
}

// clamp ensures the value is within the given range.
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// effectiveRow returns the absolute row considering origin mode.
func (s *Screen) effectiveRow(row int) int {
	if s.modes&ModeOrigin != 0 {
		return row + s.scrollTop
	}
	return row
}

// scrollIfNeeded scrolls the region when the cursor has moved outside it.
func (s *Screen) scrollIfNeeded() {
	if s.cursor.Row >= s.scrollBottom {
		s.active.ScrollUp(s.scrollTop, s.scrollBottom, s.cursor.Row-s.scrollBottom+1)
		s.cursor.Row = s.scrollBottom - 1
	} else if s.cursor.Row < s.scrollTop {
		s.active.ScrollDown(s.scrollTop, s.scrollBottom, s.scrollTop-s.cursor.Row)
		s.cursor.Row = s.scrollTop
	}
}

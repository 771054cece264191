package termsnap

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Run is a maximal horizontal span of cells sharing one attribute.
type Run struct {
	Text string
	Attr Attribute
}

// MarshalJSON encodes the run as a [text, attributes] pair.
func (r Run) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('[')
	if err := enc.Encode(r.Text); err != nil {
		return nil, err
	}
	buf.Truncate(buf.Len() - 1) // Encode appends a newline
	buf.WriteByte(',')
	attr, err := r.Attr.MarshalJSON()
	if err != nil {
		return nil, err
	}
	buf.Write(attr)
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// Row is the runs of one screen line, left to right.
type Row []Run

// Text returns the concatenated text of all runs.
func (r Row) Text() string {
	var sb strings.Builder
	for _, run := range r {
		sb.WriteString(run.Text)
	}
	return sb.String()
}

// Snapshot is the screen contents at one instant, top to bottom.
type Snapshot []Row

// MarshalJSON encodes the snapshot as an array of rows, each an array of runs.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('[')
		for j, run := range row {
			if j > 0 {
				buf.WriteByte(',')
			}
			b, err := run.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// Text returns the rows' text joined by newlines, without trailing spaces.
func (s Snapshot) Text() string {
	lines := make([]string, len(s))
	for i, row := range s {
		lines[i] = strings.TrimRight(row.Text(), " ")
	}
	return strings.Join(lines, "\n")
}

// DrawFunc receives one cell of an engine's row-major enumeration.
// ch is the character code (0 for a blank cell). attr is only valid during the call.
// A non-nil error stops the enumeration.
type DrawFunc func(row, col int, ch uint32, attr *RawAttribute) error

// Builder accumulates cells into an attribute-coalesced Snapshot.
// It must be fed in increasing row order and, within a row, left to right.
type Builder struct {
	codec Codec
	rows  Snapshot
	text  []rune // text of the open run
}

// NewBuilder creates an empty builder using codec to convert attributes.
func NewBuilder(codec Codec) *Builder {
	return &Builder{codec: codec}
}

// Cell adds one cell. Its signature matches DrawFunc so it can be passed to an engine directly.
// The column is not used for placement: cells are appended in delivery order.
// A row index equal to the number of rows built so far starts a new row; any other
// index extends the last row. Only a first cell outside row 0 is rejected.
func (b *Builder) Cell(row, col int, ch uint32, raw *RawAttribute) error {
	r, err := decodeChar(ch)
	if err != nil {
		return err
	}
	attr, err := b.codec.FromRaw(raw)
	if err != nil {
		return err
	}

	if row == len(b.rows) {
		b.closeRun()
		b.rows = append(b.rows, Row{{Attr: attr}})
		b.text = append(b.text[:0], r)
		return nil
	}
	if len(b.rows) == 0 {
		return &CodecError{Op: "row " + strconv.Itoa(row), Err: ErrRowOrder}
	}

	last := len(b.rows) - 1
	cur := b.rows[last]
	if cur[len(cur)-1].Attr == attr {
		b.text = append(b.text, r)
		return nil
	}
	b.closeRun()
	b.rows[last] = append(cur, Run{Attr: attr})
	b.text = append(b.text[:0], r)
	return nil
}

// Snapshot returns the accumulated snapshot. The builder must not be used afterwards.
func (b *Builder) Snapshot() Snapshot {
	b.closeRun()
	return b.rows
}

// closeRun stores the pending text into the last run of the last row.
func (b *Builder) closeRun() {
	if len(b.rows) == 0 || len(b.text) == 0 {
		return
	}
	cur := b.rows[len(b.rows)-1]
	cur[len(cur)-1].Text = string(b.text)
	b.text = b.text[:0]
}

func decodeChar(ch uint32) (rune, error) {
	if ch == 0 {
		return ' ', nil
	}
	if ch > utf8.MaxRune || !utf8.ValidRune(rune(ch)) {
		return 0, &CodecError{Op: "char " + strconv.FormatUint(uint64(ch), 10), Err: ErrInvalidChar}
	}
	return rune(ch), nil
}

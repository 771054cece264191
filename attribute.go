package termsnap

import (
	"bytes"
	"strconv"
)

// AttrFlags is a bitmask of the style flags an engine records per cell.
type AttrFlags uint8

const (
	AttrBold AttrFlags = 1 << iota
	AttrUnderline
	AttrInverse
	AttrProtect
	AttrBlink
)

// Has returns true if every bit of flag is set.
func (f AttrFlags) Has(flag AttrFlags) bool {
	return f&flag == flag
}

// RawAttribute is the per-cell attribute record produced by an engine.
// A color code of -1 means the matching RGB triple holds the color; codes 0-15 are
// direct colors and any other code is the engine's default color.
// Engines may reuse the record between callbacks, so it must not be retained.
type RawAttribute struct {
	FCCode int8 // foreground color code
	BCCode int8 // background color code
	FR     uint8
	FG     uint8
	FB     uint8
	BR     uint8
	BG     uint8
	BB     uint8
	Flags  AttrFlags
}

// Attribute is the logical rendering attribute of a cell.
// Two cells with equal attributes belong to the same run.
type Attribute struct {
	Fg        Color
	Bg        Color
	Bold      bool
	Underline bool
	Inverse   bool
	Blink     bool
}

// DefaultAttribute has both colors unset and no flags.
var DefaultAttribute = Attribute{Fg: ColorUnset, Bg: ColorUnset}

// Codec converts raw attributes using a color policy.
type Codec struct {
	Policy ColorPolicy
}

// FromRaw converts raw with the exact color policy.
func FromRaw(raw *RawAttribute) (Attribute, error) {
	return Codec{}.FromRaw(raw)
}

// FromRaw resolves both colors and copies the rendering flags. The protect flag is dropped.
func (c Codec) FromRaw(raw *RawAttribute) (Attribute, error) {
	fg, err := resolve(raw.FCCode, raw.FR, raw.FG, raw.FB, c.Policy)
	if err != nil {
		return DefaultAttribute, &CodecError{Op: "foreground", Err: err}
	}
	bg, err := resolve(raw.BCCode, raw.BR, raw.BG, raw.BB, c.Policy)
	if err != nil {
		return DefaultAttribute, &CodecError{Op: "background", Err: err}
	}

	return Attribute{
		Fg:        fg,
		Bg:        bg,
		Bold:      raw.Flags.Has(AttrBold),
		Underline: raw.Flags.Has(AttrUnderline),
		Inverse:   raw.Flags.Has(AttrInverse),
		Blink:     raw.Flags.Has(AttrBlink),
	}, nil
}

// Field is one present key of a sparse attribute object.
// Value is an int for colors and true for flags.
type Field struct {
	Key   string
	Value any
}

// Fields returns the present fields in the order fg, bg, bold, underline, inverse, blink.
// Unset colors and false flags are omitted.
func (a Attribute) Fields() []Field {
	var fields []Field
	if a.Fg.IsSet() {
		fields = append(fields, Field{"fg", a.Fg.Index()})
	}
	if a.Bg.IsSet() {
		fields = append(fields, Field{"bg", a.Bg.Index()})
	}
	for _, f := range []struct {
		key string
		on  bool
	}{
		{"bold", a.Bold},
		{"underline", a.Underline},
		{"inverse", a.Inverse},
		{"blink", a.Blink},
	} {
		if f.on {
			fields = append(fields, Field{f.key, true})
		}
	}
	return fields
}

// MarshalJSON encodes the sparse object. An attribute without present fields encodes as {}.
func (a Attribute) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range a.Fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(f.Key))
		buf.WriteByte(':')
		switch v := f.Value.(type) {
		case int:
			buf.WriteString(strconv.Itoa(v))
		case bool:
			buf.WriteString(strconv.FormatBool(v))
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

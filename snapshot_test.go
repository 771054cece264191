package termsnap

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestBuilderRowBoundary(t *testing.T) {
	b := NewBuilder(Codec{})
	cells := []fakeCell{
		{0, 0, 'A', rawRedBold},
		{0, 1, 'B', rawRedBold},
		{1, 0, 'C', rawDefault},
	}
	for _, c := range cells {
		if err := b.Cell(c.row, c.col, c.ch, &c.attr); err != nil {
			t.Fatalf("Cell(%d, %d): unexpected error: %v", c.row, c.col, err)
		}
	}

	snap := b.Snapshot()
	red := Attribute{Fg: Indexed(1), Bg: ColorUnset, Bold: true}
	want := Snapshot{
		{{Text: "AB", Attr: red}},
		{{Text: "C", Attr: DefaultAttribute}},
	}
	if !equalSnapshots(snap, want) {
		t.Errorf("expected %+v, got %+v", want, snap)
	}
}

func TestBuilderMergesEqualAttributes(t *testing.T) {
	b := NewBuilder(Codec{})
	attrs := []RawAttribute{rawDefault, rawDefault, rawRedBold, rawRedBold, rawDefault}
	for col, raw := range attrs {
		if err := b.Cell(0, col, uint32('a'+col), &raw); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	snap := b.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("expected 1 row, got %d", len(snap))
	}
	row := snap[0]
	if len(row) != 3 {
		t.Fatalf("expected 3 runs, got %d: %+v", len(row), row)
	}
	for i, text := range []string{"ab", "cd", "e"} {
		if row[i].Text != text {
			t.Errorf("run %d: expected %q, got %q", i, text, row[i].Text)
		}
	}
	for i := 1; i < len(row); i++ {
		if row[i].Attr == row[i-1].Attr {
			t.Errorf("adjacent runs %d and %d share an attribute", i-1, i)
		}
	}
}

func TestBuilderBlankCell(t *testing.T) {
	b := NewBuilder(Codec{})
	raw := rawDefault
	if err := b.Cell(0, 0, 0, &raw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.Cell(0, 1, 'x', &raw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := b.Snapshot()
	if snap[0][0].Text != " x" {
		t.Errorf("expected blank cell as space, got %q", snap[0][0].Text)
	}
}

func TestBuilderInvalidChar(t *testing.T) {
	b := NewBuilder(Codec{})
	raw := rawDefault

	for _, ch := range []uint32{0xD800, 0x110000} {
		err := b.Cell(0, 0, ch, &raw)
		var codecErr *CodecError
		if !errors.As(err, &codecErr) {
			t.Fatalf("char %#x: expected *CodecError, got %v", ch, err)
		}
		if !errors.Is(err, ErrInvalidChar) {
			t.Errorf("char %#x: expected ErrInvalidChar, got %v", ch, err)
		}
	}
}

func TestBuilderRowOrder(t *testing.T) {
	b := NewBuilder(Codec{})
	raw := rawDefault

	if err := b.Cell(1, 0, 'x', &raw); !errors.Is(err, ErrRowOrder) {
		t.Errorf("expected ErrRowOrder for a first cell past row 0, got %v", err)
	}
	if err := b.Cell(-1, 0, 'x', &raw); !errors.Is(err, ErrRowOrder) {
		t.Errorf("expected ErrRowOrder for negative row, got %v", err)
	}
}

func TestBuilderUnexpectedRowJoinsLast(t *testing.T) {
	b := NewBuilder(Codec{})
	raw := rawDefault

	cells := []struct {
		row int
		ch  uint32
	}{
		{0, 'A'},
		{2, 'B'},
		{0, 'C'},
		{1, 'D'},
	}
	for _, c := range cells {
		if err := b.Cell(c.row, 0, c.ch, &raw); err != nil {
			t.Fatalf("row %d: unexpected error: %v", c.row, err)
		}
	}

	got, err := b.Snapshot().MarshalJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := `[[["ABC",{}]],[["D",{}]]]`; string(got) != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestBuilderColorError(t *testing.T) {
	raw := RawAttribute{FCCode: ColorCodeRGB, FR: 1, FG: 2, FB: 3, BCCode: 17}

	if err := NewBuilder(Codec{}).Cell(0, 0, 'x', &raw); err == nil {
		t.Error("expected error for off-cube color")
	}
	if err := NewBuilder(Codec{Policy: PolicyNearest}).Cell(0, 0, 'x', &raw); err != nil {
		t.Errorf("nearest policy: unexpected error: %v", err)
	}
}

func TestSnapshotMarshalJSON(t *testing.T) {
	snap := Snapshot{
		{
			{Text: "hi ", Attr: Attribute{Fg: Indexed(1), Bg: ColorUnset, Bold: true}},
			{Text: "<&>", Attr: DefaultAttribute},
		},
		{{Text: `"q"`, Attr: Attribute{Fg: ColorUnset, Bg: Palette(17)}}},
	}

	got, err := snap.MarshalJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `[[["hi ",{"fg":1,"bold":true}],["<&>",{}]],[["\"q\"",{"bg":17}]]]`
	if string(got) != want {
		t.Errorf("expected %s, got %s", want, got)
	}

	if !json.Valid(got) {
		t.Error("output is not valid JSON")
	}
}

func TestSnapshotMarshalJSONEmpty(t *testing.T) {
	got, err := Snapshot(nil).MarshalJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "[]" {
		t.Errorf("expected [], got %s", got)
	}
}

func TestSnapshotText(t *testing.T) {
	snap := Snapshot{
		{{Text: "ab  ", Attr: DefaultAttribute}, {Text: "c   ", Attr: DefaultAttribute}},
		{{Text: "    ", Attr: DefaultAttribute}},
	}
	if got := snap.Text(); got != "ab  c\n" {
		t.Errorf("expected %q, got %q", "ab  c\n", got)
	}
}

func equalSnapshots(a, b Snapshot) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

package screen

import (
	"testing"

	"github.com/danielgatis/go-termsnap"
)

func TestNewCell(t *testing.T) {
	c := NewCell()

	if c.Char != 0 {
		t.Errorf("expected blank char, got %q", c.Char)
	}
	if c.Attr != DefaultAttribute {
		t.Errorf("expected default attribute, got %+v", c.Attr)
	}
	if c.IsWide() || c.IsWideSpacer() {
		t.Error("expected narrow cell")
	}
}

func TestCellReset(t *testing.T) {
	c := Cell{Char: 'A', Attr: termsnap.RawAttribute{FCCode: 3, Flags: termsnap.AttrBold}, flags: cellWide}

	c.Reset()

	if c != NewCell() {
		t.Errorf("expected blank cell, got %+v", c)
	}
}

func TestCellErase(t *testing.T) {
	c := Cell{Char: 'A', flags: cellWideSpacer}
	attr := termsnap.RawAttribute{FCCode: CodeForeground, BCCode: 2}

	c.erase(attr)

	if c.Char != 0 || c.IsWideSpacer() {
		t.Error("expected blank narrow cell")
	}
	if c.Attr != attr {
		t.Errorf("expected erase attribute, got %+v", c.Attr)
	}
}

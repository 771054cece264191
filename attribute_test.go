package termsnap

import (
	"errors"
	"reflect"
	"testing"
)

func TestFromRawDefault(t *testing.T) {
	attr, err := FromRaw(&RawAttribute{FCCode: 16, BCCode: 17})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attr != DefaultAttribute {
		t.Errorf("expected default attribute, got %+v", attr)
	}
}

func TestFromRawFlags(t *testing.T) {
	raw := &RawAttribute{
		FCCode: 1,
		BCCode: ColorCodeRGB,
		BR:     0x5f, BG: 0x87, BB: 0xaf,
		Flags: AttrBold | AttrUnderline | AttrInverse | AttrProtect | AttrBlink,
	}

	attr, err := FromRaw(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Attribute{
		Fg:        Indexed(1),
		Bg:        Palette(16 + 36 + 2*6 + 3),
		Bold:      true,
		Underline: true,
		Inverse:   true,
		Blink:     true,
	}
	if attr != want {
		t.Errorf("expected %+v, got %+v", want, attr)
	}
}

func TestFromRawProtectDropped(t *testing.T) {
	attr, err := FromRaw(&RawAttribute{FCCode: 16, BCCode: 17, Flags: AttrProtect})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attr != DefaultAttribute {
		t.Errorf("protect should not affect the attribute, got %+v", attr)
	}
}

func TestFromRawColorError(t *testing.T) {
	raw := &RawAttribute{FCCode: 16, BCCode: ColorCodeRGB, BR: 1, BG: 2, BB: 3}

	_, err := FromRaw(raw)
	var codecErr *CodecError
	if !errors.As(err, &codecErr) {
		t.Fatalf("expected *CodecError, got %v", err)
	}
	if codecErr.Op != "background" {
		t.Errorf("expected background op, got %q", codecErr.Op)
	}
	var resErr *ColorResolutionError
	if !errors.As(err, &resErr) {
		t.Errorf("expected wrapped *ColorResolutionError, got %v", err)
	}

	attr, err := Codec{Policy: PolicyNearest}.FromRaw(raw)
	if err != nil {
		t.Fatalf("nearest policy: unexpected error: %v", err)
	}
	if attr.Bg != Palette(16) {
		t.Errorf("expected Palette(16), got %v", attr.Bg)
	}
}

func TestAttributeFieldsOrder(t *testing.T) {
	attr := Attribute{
		Fg:        Palette(200),
		Bg:        Indexed(4),
		Bold:      true,
		Underline: true,
		Inverse:   true,
		Blink:     true,
	}

	want := []Field{
		{"fg", 200},
		{"bg", 4},
		{"bold", true},
		{"underline", true},
		{"inverse", true},
		{"blink", true},
	}
	if got := attr.Fields(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestAttributeFieldsSparse(t *testing.T) {
	attr := Attribute{Fg: ColorUnset, Bg: Indexed(0), Blink: true}

	want := []Field{{"bg", 0}, {"blink", true}}
	if got := attr.Fields(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestAttributeMarshalJSON(t *testing.T) {
	tests := []struct {
		attr Attribute
		want string
	}{
		{DefaultAttribute, `{}`},
		{Attribute{Fg: Indexed(1), Bg: ColorUnset, Bold: true}, `{"fg":1,"bold":true}`},
		{Attribute{Fg: ColorUnset, Bg: Palette(232), Inverse: true, Underline: true}, `{"bg":232,"underline":true,"inverse":true}`},
	}

	for _, tt := range tests {
		got, err := tt.attr.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(got) != tt.want {
			t.Errorf("expected %s, got %s", tt.want, got)
		}
	}
}

package dbus

import (
	"bytes"
	"testing"
)

func TestDecodeUint32BigEndian(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04}
	d := NewDecoder(buf, BigEndian)
	got, err := d.Uint32()
	if err != nil {
		t.Fatalf("Uint32() error = %v", err)
	}
	if want := uint32(0x01020304); got != want {
		t.Errorf("Uint32() = %#x, want %#x", got, want)
	}
}

func TestDecodeString(t *testing.T) {
	buf := []byte{0x02, 0, 0, 0, 'h', 'i', 0}
	d := NewDecoder(buf, LittleEndian)
	got, err := d.String()
	if err != nil {
		t.Fatalf("String() error = %v", err)
	}
	if got != "hi" {
		t.Errorf("String() = %q, want %q", got, "hi")
	}
	if len(d.Remaining()) != 0 {
		t.Errorf("Remaining() = %d bytes, want 0", len(d.Remaining()))
	}
}

func TestDecodeStringMissingNul(t *testing.T) {
	buf := []byte{0x01, 0, 0, 0, 'h', 'i'}
	d := NewDecoder(buf, LittleEndian)
	if _, err := d.String(); !errorsAs[MissingNulTerminatorError](err) {
		t.Errorf("String() error = %v, want MissingNulTerminatorError", err)
	}
}

func TestDecodeArrayOfUint32(t *testing.T) {
	buf := []byte{
		0x08, 0, 0, 0, // length = 8
		0x01, 0, 0, 0,
		0x02, 0, 0, 0,
	}
	d := NewDecoder(buf, LittleEndian)
	elems, err := d.Array(Signature{"u"})
	if err != nil {
		t.Fatalf("Array() error = %v", err)
	}
	if len(elems) != 2 {
		t.Fatalf("Array() returned %d elements, want 2", len(elems))
	}
	a, _ := elems[0].AsUint32()
	b, _ := elems[1].AsUint32()
	if a != 1 || b != 2 {
		t.Errorf("Array() = [%d, %d], want [1, 2]", a, b)
	}
}

func TestDecodeArrayLengthOverflow(t *testing.T) {
	// Exactly maxArrayLength is legal (spec.md §3/§4.3 use <= / reject
	// only what's strictly greater); only maxArrayLength+1 must be
	// rejected.
	buf := make([]byte, 4)
	LittleEndian.putUint32(buf, maxArrayLength+1)
	d := NewDecoder(buf, LittleEndian)
	if _, err := d.Array(Signature{"y"}); !errorsAs[ArrayLengthOverflowError](err) {
		t.Errorf("Array() error = %v, want ArrayLengthOverflowError", err)
	}
}

func TestDecodeVariantString(t *testing.T) {
	buf := []byte{
		0x01, 's', 0, // signature "s"
		0,                   // padding to 4
		0x02, 0, 0, 0, 'o', 'k', 0, // string "ok"
	}
	d := NewDecoder(buf, LittleEndian)
	v, err := d.VariantValue()
	if err != nil {
		t.Fatalf("VariantValue() error = %v", err)
	}
	if v.Signature().String() != "s" {
		t.Errorf("Signature() = %q, want \"s\"", v.Signature())
	}
	s, err := v.Value().AsString()
	if err != nil || s != "ok" {
		t.Errorf("Value().AsString() = (%q, %v), want (\"ok\", nil)", s, err)
	}
}

func TestDecodeTruncatedNeedsMoreBytes(t *testing.T) {
	buf := []byte{0x01, 0x02}
	d := NewDecoder(buf, LittleEndian)
	if _, err := d.Uint32(); err != ErrNeedMoreBytes {
		t.Errorf("Uint32() error = %v, want ErrNeedMoreBytes", err)
	}
}

func TestDecodeBadObjectPath(t *testing.T) {
	buf := []byte{0x02, 0, 0, 0, '/', '/', 0}
	d := NewDecoder(buf, LittleEndian)
	if _, err := d.ObjectPath(); !errorsAs[MalformedObjectPathError](err) {
		t.Errorf("ObjectPath() error = %v, want MalformedObjectPathError", err)
	}
}

func errorsAs[T error](err error) bool {
	_, ok := err.(T)
	return ok
}

func TestPaddingHelper(t *testing.T) {
	cases := []struct {
		pos, align, want int
	}{
		{0, 4, 0},
		{1, 4, 3},
		{4, 4, 0},
		{5, 8, 3},
		{0, 1, 0},
	}
	for _, c := range cases {
		if got := padding(c.pos, c.align); got != c.want {
			t.Errorf("padding(%d, %d) = %d, want %d", c.pos, c.align, got, c.want)
		}
	}
}

func TestDecodeStructSkipsAlignmentPadding(t *testing.T) {
	// A struct must begin at an 8-byte boundary: 4 leading bytes, 4
	// padding bytes, then the struct of two int32s.
	buf := bytes.Repeat([]byte{0xff}, 4)
	buf = append(buf, make([]byte, 4)...)
	buf = append(buf, []byte{0x01, 0, 0, 0, 0x02, 0, 0, 0}...)
	d := NewDecoderAt(buf, LittleEndian, 0)
	if _, err := d.take(4); err != nil {
		t.Fatal(err)
	}
	fields, err := d.Struct([]Signature{{"i"}, {"i"}})
	if err != nil {
		t.Fatalf("Struct() error = %v", err)
	}
	a, _ := fields[0].AsInt32()
	b, _ := fields[1].AsInt32()
	if a != 1 || b != 2 {
		t.Errorf("Struct() = [%d, %d], want [1, 2]", a, b)
	}
}

package dbus

import (
	"bytes"
	"testing"
)

func TestFixedHeaderRoundTrip(t *testing.T) {
	want := FixedHeader{
		Order:      LittleEndian,
		Type:       TypeMethodCall,
		Flags:      0,
		BodyLength: 0,
		Serial:     1,
	}
	e := NewEncoder(LittleEndian)
	encodeFixedHeader(e, want)

	wireBytes := []byte{0x6c, 0x01, 0x00, 0x01, 0, 0, 0, 0, 0x01, 0, 0, 0}
	if !bytes.Equal(e.Bytes(), wireBytes) {
		t.Fatalf("encodeFixedHeader() = % x, want % x", e.Bytes(), wireBytes)
	}

	got, rest, err := decodeFixedHeader(e.Bytes())
	if err != nil {
		t.Fatalf("decodeFixedHeader() error = %v", err)
	}
	if len(rest) != 0 {
		t.Errorf("decodeFixedHeader() left %d unconsumed bytes", len(rest))
	}
	if got != want {
		t.Errorf("decodeFixedHeader() = %+v, want %+v", got, want)
	}
}

func TestDecodeFixedHeaderInvalidEndianness(t *testing.T) {
	buf := []byte{'Q', 1, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0}
	if _, _, err := decodeFixedHeader(buf); !errorsAs[InvalidEndiannessError](err) {
		t.Errorf("decodeFixedHeader() error = %v, want InvalidEndiannessError", err)
	}
}

func TestDecodeFixedHeaderNeedsMoreBytes(t *testing.T) {
	buf := []byte{'l', 1, 0, 1, 0, 0}
	if _, _, err := decodeFixedHeader(buf); err != ErrNeedMoreBytes {
		t.Errorf("decodeFixedHeader() error = %v, want ErrNeedMoreBytes", err)
	}
}

func TestDecodeFixedHeaderBadType(t *testing.T) {
	buf := []byte{'l', 9, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0}
	if _, _, err := decodeFixedHeader(buf); !errorsAs[InvalidMessageTypeError](err) {
		t.Errorf("decodeFixedHeader() error = %v, want InvalidMessageTypeError", err)
	}
}

func TestHeaderFieldsRoundTrip(t *testing.T) {
	path := ObjectPath("/")
	member := "x"
	want := HeaderFields{Path: &path, Member: &member}

	e := NewEncoderAt(LittleEndian, fixedHeaderLen)
	if err := encodeHeaderFields(e, want); err != nil {
		t.Fatalf("encodeHeaderFields() error = %v", err)
	}
	if e.Pos()%8 != 0 {
		t.Errorf("encoder position %d after header fields is not 8-aligned", e.Pos())
	}

	d := NewDecoderAt(e.Bytes(), LittleEndian, fixedHeaderLen)
	got, err := decodeHeaderFields(d)
	if err != nil {
		t.Fatalf("decodeHeaderFields() error = %v", err)
	}
	if got.Path == nil || *got.Path != path {
		t.Errorf("Path = %v, want %q", got.Path, path)
	}
	if got.Member == nil || *got.Member != member {
		t.Errorf("Member = %v, want %q", got.Member, member)
	}
	if got.Interface != nil {
		t.Errorf("Interface = %v, want nil", got.Interface)
	}
}

func TestHeaderFieldsValidateMissingRequired(t *testing.T) {
	var f HeaderFields
	if err := f.validate(TypeMethodCall); !errorsAs[MissingRequiredHeaderFieldError](err) {
		t.Errorf("validate() error = %v, want MissingRequiredHeaderFieldError", err)
	}
}

func TestDecodeHeaderFieldsRejectsDuplicate(t *testing.T) {
	path := ObjectPath("/a")
	f := HeaderFields{Path: &path}
	e := NewEncoderAt(LittleEndian, fixedHeaderLen)
	entry := NewDictEntry(NewByte(byte(FieldPath)), NewVariantValue(MakeVariant(NewObjectPath(path))))
	if err := e.Array(headerFieldEntrySig, []Value{entry, entry}); err != nil {
		t.Fatal(err)
	}
	e.align(8)

	d := NewDecoderAt(e.Bytes(), LittleEndian, fixedHeaderLen)
	if _, err := decodeHeaderFields(d); !errorsAs[InvalidHeaderFieldError](err) {
		t.Errorf("decodeHeaderFields() error = %v, want InvalidHeaderFieldError", err)
	}
	_ = f
}

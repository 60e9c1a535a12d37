package dbus

import (
	"bytes"
	"testing"
)

func TestMessageRoundTripEmptyMethodCall(t *testing.T) {
	path := ObjectPath("/")
	member := "x"
	msg := &Message{
		Header: FixedHeader{Order: LittleEndian, Type: TypeMethodCall, Serial: 1},
		Fields: HeaderFields{Path: &path, Member: &member},
	}

	buf, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("EncodeMessage() error = %v", err)
	}

	wantFixed := []byte{0x6c, 0x01, 0x00, 0x01, 0, 0, 0, 0, 0x01, 0, 0, 0}
	if !bytes.Equal(buf[:fixedHeaderLen], wantFixed) {
		t.Errorf("fixed header = % x, want % x", buf[:fixedHeaderLen], wantFixed)
	}

	got, consumed, err := DecodeMessage(buf)
	if err != nil {
		t.Fatalf("DecodeMessage() error = %v", err)
	}
	if consumed != len(buf) {
		t.Errorf("consumed = %d, want %d", consumed, len(buf))
	}
	if got.Header.Type != TypeMethodCall || got.Header.Serial != 1 {
		t.Errorf("Header = %+v", got.Header)
	}
	if got.Fields.Path == nil || *got.Fields.Path != path {
		t.Errorf("Path = %v, want %q", got.Fields.Path, path)
	}
	if got.Fields.Member == nil || *got.Fields.Member != member {
		t.Errorf("Member = %v, want %q", got.Fields.Member, member)
	}
	if len(got.Body) != 0 {
		t.Errorf("Body = %v, want empty", got.Body)
	}
	if got.Fields.Signature != nil {
		t.Errorf("Signature = %v, want nil", got.Fields.Signature)
	}
}

func TestMessageRoundTripWithBody(t *testing.T) {
	iface := "org.example.Thing"
	member := "DoIt"
	path := ObjectPath("/org/example/Thing")
	sig := MustParseSignature("su")
	msg := &Message{
		Header: FixedHeader{Order: BigEndian, Type: TypeSignal, Serial: 42},
		Fields: HeaderFields{
			Path:      &path,
			Interface: &iface,
			Member:    &member,
			Signature: &sig,
		},
		Body: []Value{NewString("hello"), NewUint32(7)},
	}

	buf, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("EncodeMessage() error = %v", err)
	}

	got, consumed, err := DecodeMessage(buf)
	if err != nil {
		t.Fatalf("DecodeMessage() error = %v", err)
	}
	if consumed != len(buf) {
		t.Errorf("consumed = %d, want %d", consumed, len(buf))
	}
	if len(got.Body) != 2 {
		t.Fatalf("Body has %d values, want 2", len(got.Body))
	}
	s, _ := got.Body[0].AsString()
	u, _ := got.Body[1].AsUint32()
	if s != "hello" || u != 7 {
		t.Errorf("Body = (%q, %d), want (\"hello\", 7)", s, u)
	}
}

func TestDecodeMultipleMessagesFromStream(t *testing.T) {
	path := ObjectPath("/")
	member := "x"
	msg := &Message{
		Header: FixedHeader{Order: LittleEndian, Type: TypeMethodCall, Serial: 1},
		Fields: HeaderFields{Path: &path, Member: &member},
	}
	one, err := EncodeMessage(msg)
	if err != nil {
		t.Fatal(err)
	}
	stream := append(append([]byte{}, one...), one...)

	first, n1, err := DecodeMessage(stream)
	if err != nil {
		t.Fatal(err)
	}
	second, n2, err := DecodeMessage(stream[n1:])
	if err != nil {
		t.Fatal(err)
	}
	if n1 != n2 || n1+n2 != len(stream) {
		t.Errorf("consumed %d + %d, want total %d", n1, n2, len(stream))
	}
	if first.Header.Serial != second.Header.Serial {
		t.Errorf("serials differ: %d vs %d", first.Header.Serial, second.Header.Serial)
	}
}

func TestMessageValidateRejectsZeroSerial(t *testing.T) {
	path := ObjectPath("/")
	member := "x"
	msg := &Message{
		Header: FixedHeader{Order: LittleEndian, Type: TypeMethodCall, Serial: 0},
		Fields: HeaderFields{Path: &path, Member: &member},
	}
	if err := msg.Validate(); !errorsAs[InvalidMessageError](err) {
		t.Errorf("Validate() error = %v, want InvalidMessageError", err)
	}
}

func TestMessageValidateRequiresSignatureForBody(t *testing.T) {
	path := ObjectPath("/")
	member := "x"
	msg := &Message{
		Header: FixedHeader{Order: LittleEndian, Type: TypeMethodCall, Serial: 1},
		Fields: HeaderFields{Path: &path, Member: &member},
		Body:   []Value{NewInt32(1)},
	}
	if err := msg.Validate(); !errorsAs[MissingRequiredHeaderFieldError](err) {
		t.Errorf("Validate() error = %v, want MissingRequiredHeaderFieldError", err)
	}
}

func TestMessageValidateRejectsMissingRequiredField(t *testing.T) {
	msg := &Message{
		Header: FixedHeader{Order: LittleEndian, Type: TypeMethodCall, Serial: 1},
	}
	if err := msg.Validate(); !errorsAs[MissingRequiredHeaderFieldError](err) {
		t.Errorf("Validate() error = %v, want MissingRequiredHeaderFieldError", err)
	}
}

func TestDecodeMessageNeedsMoreBytes(t *testing.T) {
	path := ObjectPath("/")
	member := "x"
	msg := &Message{
		Header: FixedHeader{Order: LittleEndian, Type: TypeMethodCall, Serial: 1},
		Fields: HeaderFields{Path: &path, Member: &member},
	}
	full, err := EncodeMessage(msg)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := DecodeMessage(full[:len(full)-1]); err != ErrNeedMoreBytes {
		t.Errorf("DecodeMessage() error = %v, want ErrNeedMoreBytes", err)
	}
}

package dbus

import "unicode/utf8"

// Encoder appends D-Bus wire bytes to an internal buffer, tracking the
// current offset from the message-body origin so composite types can
// align their contents correctly. The zero-initialized position can be
// offset via NewEncoderAt to encode a fragment that will be spliced into
// a larger message at a known, non-zero byte offset.
type Encoder struct {
	buf   []byte
	pos   int
	order Endianness
}

// NewEncoder returns an Encoder writing in the given byte order, with
// its alignment origin at offset 0.
func NewEncoder(order Endianness) *Encoder {
	return &Encoder{order: order}
}

// NewEncoderAt is like NewEncoder but starts alignment tracking at
// offset, for encoding a fragment that will be placed at that absolute
// offset in the enclosing message.
func NewEncoderAt(order Endianness, offset int) *Encoder {
	return &Encoder{order: order, pos: offset}
}

// Bytes returns the bytes written so far.
func (e *Encoder) Bytes() []byte { return e.buf }

// Pos returns the encoder's current offset from its alignment origin.
func (e *Encoder) Pos() int { return e.pos }

// Order returns the encoder's byte order.
func (e *Encoder) Order() Endianness { return e.order }

// align appends the zero padding required to reach the given alignment.
func (e *Encoder) align(n int) {
	pad := padding(e.pos, n)
	if pad == 0 {
		return
	}
	e.buf = append(e.buf, make([]byte, pad)...)
	e.pos += pad
}

func (e *Encoder) appendRaw(b []byte) {
	e.buf = append(e.buf, b...)
	e.pos += len(b)
}

func (e *Encoder) Byte(b byte) {
	e.appendRaw([]byte{b})
}

func (e *Encoder) Bool(v bool) {
	var u uint32
	if v {
		u = 1
	}
	e.Uint32(u)
}

func (e *Encoder) Int16(v int16) {
	e.Uint16(uint16(v))
}

func (e *Encoder) Uint16(v uint16) {
	e.align(2)
	b := make([]byte, 2)
	e.order.putUint16(b, v)
	e.appendRaw(b)
}

func (e *Encoder) Int32(v int32) {
	e.Uint32(uint32(v))
}

func (e *Encoder) Uint32(v uint32) {
	e.align(4)
	b := make([]byte, 4)
	e.order.putUint32(b, v)
	e.appendRaw(b)
}

func (e *Encoder) Int64(v int64) {
	e.Uint64(uint64(v))
}

func (e *Encoder) Uint64(v uint64) {
	e.align(8)
	b := make([]byte, 8)
	e.order.putUint64(b, v)
	e.appendRaw(b)
}

func (e *Encoder) Double(v float64) {
	e.Uint64(float64ToUint64(v))
}

func (e *Encoder) UnixFDIndex(idx UnixFDIndex) {
	e.Uint32(uint32(idx))
}

// String encodes a STRING or OBJECT_PATH: a uint32 length, the UTF-8
// bytes, then a mandatory NUL terminator.
func (e *Encoder) String(s string) error {
	if !utf8.ValidString(s) {
		return InvalidUTF8Error{}
	}
	e.Uint32(uint32(len(s)))
	e.appendRaw([]byte(s))
	e.appendRaw([]byte{0})
	return nil
}

// ObjectPath validates and encodes an OBJECT_PATH.
func (e *Encoder) ObjectPath(p ObjectPath) error {
	if !p.IsValid() {
		return MalformedObjectPathError{string(p)}
	}
	return e.String(string(p))
}

// SignatureValue encodes a SIGNATURE: a uint8 length, its ASCII bytes,
// then a NUL terminator.
func (e *Encoder) SignatureValue(s Signature) error {
	if len(s.str) > 255 {
		return MalformedSignatureError{s.str, "signature longer than 255 bytes"}
	}
	e.Byte(byte(len(s.str)))
	e.appendRaw([]byte(s.str))
	e.appendRaw([]byte{0})
	return nil
}

// Array encodes elems as an array of elemSig: a uint32 payload length
// (element bytes only), padding to the element's alignment, then the
// concatenated element encodings.
func (e *Encoder) Array(elemSig Signature, elems []Value) error {
	e.align(4)
	elemAlign := elemSig.Tokens()[0].alignment()
	payloadStart := e.pos + 4 + padding(e.pos+4, elemAlign)

	child := NewEncoderAt(e.order, payloadStart)
	for _, el := range elems {
		if err := encodeValue(child, el); err != nil {
			return err
		}
	}
	payload := child.Bytes()
	if len(payload) > maxArrayLength {
		return ArrayLengthOverflowError{uint32(len(payload))}
	}

	e.Uint32(uint32(len(payload)))
	e.align(elemAlign)
	e.appendRaw(payload)
	return nil
}

// Struct encodes fields in order after aligning to 8 bytes.
func (e *Encoder) Struct(fields []Value) error {
	e.align(8)
	for _, f := range fields {
		if err := encodeValue(e, f); err != nil {
			return err
		}
	}
	return nil
}

// DictEntry encodes a key/value pair after aligning to 8 bytes.
func (e *Encoder) DictEntry(entry DictEntry) error {
	e.align(8)
	if err := encodeValue(e, entry.Key); err != nil {
		return err
	}
	return encodeValue(e, entry.Value)
}

// VariantValue encodes v's embedded signature followed by its value.
func (e *Encoder) VariantValue(v Variant) error {
	if err := e.SignatureValue(v.sig); err != nil {
		return err
	}
	return encodeValue(e, v.val)
}

package dbus

import "unicode/utf8"

// Decoder incrementally consumes a D-Bus wire buffer, tracking the
// current offset from the message-body origin so every value can be
// aligned correctly. It reports a truncated buffer via ErrNeedMoreBytes
// rather than panicking, so a framing layer built on top can request
// more input and retry.
type Decoder struct {
	buf   []byte
	pos   int
	order Endianness
}

// NewDecoder returns a Decoder reading buf in the given byte order,
// with its alignment origin at offset 0.
func NewDecoder(buf []byte, order Endianness) *Decoder {
	return &Decoder{buf: buf, order: order}
}

// NewDecoderAt is like NewDecoder but starts alignment tracking at
// origin, for decoding a fragment (such as a message body) that does
// not itself begin at byte 0 of the enclosing buffer.
func NewDecoderAt(buf []byte, order Endianness, origin int) *Decoder {
	return &Decoder{buf: buf, order: order, pos: origin}
}

// Pos returns the decoder's current offset from its alignment origin.
func (d *Decoder) Pos() int { return d.pos }

// Remaining returns the unconsumed tail of the buffer.
func (d *Decoder) Remaining() []byte { return d.buf }

// Order returns the decoder's byte order.
func (d *Decoder) Order() Endianness { return d.order }

// padding computes the number of zero bytes required before a value of
// the given alignment that would otherwise begin at offset pos. Both
// Decoder.align and Encoder.align use it.
func padding(pos, align int) int {
	if align <= 1 {
		return 0
	}
	rem := pos % align
	if rem == 0 {
		return 0
	}
	return align - rem
}

// align skips the padding required to reach the given alignment.
func (d *Decoder) align(n int) error {
	pad := padding(d.pos, n)
	if pad == 0 {
		return nil
	}
	if _, err := d.take(pad); err != nil {
		return err
	}
	return nil
}

// take consumes and returns the next n bytes, advancing pos.
func (d *Decoder) take(n int) ([]byte, error) {
	if len(d.buf) < n {
		return nil, ErrNeedMoreBytes
	}
	b := d.buf[:n]
	d.buf = d.buf[n:]
	d.pos += n
	return b, nil
}

// Byte decodes a single unaligned byte.
func (d *Decoder) Byte() (byte, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Bool decodes a boolean, encoded on the wire as a 4-byte integer that
// must be exactly 0 or 1.
func (d *Decoder) Bool() (bool, error) {
	u, err := d.Uint32()
	if err != nil {
		return false, err
	}
	switch u {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, InvalidBooleanError{u}
	}
}

func (d *Decoder) Int16() (int16, error) {
	u, err := d.Uint16()
	return int16(u), err
}

func (d *Decoder) Uint16() (uint16, error) {
	if err := d.align(2); err != nil {
		return 0, err
	}
	b, err := d.take(2)
	if err != nil {
		return 0, err
	}
	return d.order.uint16(b), nil
}

func (d *Decoder) Int32() (int32, error) {
	u, err := d.Uint32()
	return int32(u), err
}

func (d *Decoder) Uint32() (uint32, error) {
	if err := d.align(4); err != nil {
		return 0, err
	}
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return d.order.uint32(b), nil
}

func (d *Decoder) Int64() (int64, error) {
	u, err := d.Uint64()
	return int64(u), err
}

func (d *Decoder) Uint64() (uint64, error) {
	if err := d.align(8); err != nil {
		return 0, err
	}
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return d.order.uint64(b), nil
}

func (d *Decoder) Double() (float64, error) {
	u, err := d.Uint64()
	if err != nil {
		return 0, err
	}
	return uint64ToFloat64(u), nil
}

func (d *Decoder) UnixFDIndex() (UnixFDIndex, error) {
	u, err := d.Uint32()
	return UnixFDIndex(u), err
}

// String decodes a STRING or OBJECT_PATH: a uint32 length, that many
// UTF-8 bytes, then a mandatory NUL terminator not counted in length.
func (d *Decoder) String() (string, error) {
	length, err := d.Uint32()
	if err != nil {
		return "", err
	}
	b, err := d.take(int(length) + 1)
	if err != nil {
		return "", err
	}
	if b[len(b)-1] != 0 {
		return "", MissingNulTerminatorError{}
	}
	s := b[:len(b)-1]
	if !utf8.Valid(s) {
		return "", InvalidUTF8Error{}
	}
	return string(s), nil
}

// ObjectPath decodes an OBJECT_PATH and validates its grammar.
func (d *Decoder) ObjectPath() (ObjectPath, error) {
	s, err := d.String()
	if err != nil {
		return "", err
	}
	p := ObjectPath(s)
	if !p.IsValid() {
		return "", MalformedObjectPathError{s}
	}
	return p, nil
}

// SignatureValue decodes a SIGNATURE: a uint8 length, that many ASCII
// bytes, then a NUL terminator, parsed into a Signature.
func (d *Decoder) SignatureValue() (Signature, error) {
	length, err := d.Byte()
	if err != nil {
		return Signature{}, err
	}
	b, err := d.take(int(length) + 1)
	if err != nil {
		return Signature{}, err
	}
	if b[len(b)-1] != 0 {
		return Signature{}, MissingNulTerminatorError{}
	}
	return ParseSignature(string(b[:len(b)-1]))
}

// Array decodes an array of elemSig, returning its decoded elements.
func (d *Decoder) Array(elemSig Signature) ([]Value, error) {
	length, err := d.Uint32()
	if err != nil {
		return nil, err
	}
	if length > maxArrayLength {
		return nil, ArrayLengthOverflowError{length}
	}
	elemAlign := elemSig.Tokens()[0].alignment()
	if err := d.align(elemAlign); err != nil {
		return nil, err
	}
	end := d.pos + int(length)
	var elems []Value
	for d.pos < end {
		v, err := decodeValue(d, elemSig)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	if d.pos != end {
		return nil, MalformedSignatureError{elemSig.str, "array payload did not end on an element boundary"}
	}
	return elems, nil
}

// Struct decodes fields in order, aligning the struct as a whole to 8
// bytes first.
func (d *Decoder) Struct(fieldSigs []Signature) ([]Value, error) {
	if err := d.align(8); err != nil {
		return nil, err
	}
	fields := make([]Value, len(fieldSigs))
	for i, fs := range fieldSigs {
		v, err := decodeValue(d, fs)
		if err != nil {
			return nil, err
		}
		fields[i] = v
	}
	return fields, nil
}

// DictEntry decodes a dict_entry{K,V}, aligning to 8 bytes first. It is
// only legal as an array element.
func (d *Decoder) DictEntry(keySig, valSig Signature) (DictEntry, error) {
	if err := d.align(8); err != nil {
		return DictEntry{}, err
	}
	key, err := decodeValue(d, keySig)
	if err != nil {
		return DictEntry{}, err
	}
	val, err := decodeValue(d, valSig)
	if err != nil {
		return DictEntry{}, err
	}
	return DictEntry{key, val}, nil
}

// VariantValue decodes a variant: its embedded single-type signature
// followed by one value of that type.
func (d *Decoder) VariantValue() (Variant, error) {
	sig, err := d.SignatureValue()
	if err != nil {
		return Variant{}, err
	}
	if sig.Empty() || !sig.Single() {
		return Variant{}, MalformedSignatureError{sig.str, "variant signature must describe exactly one type"}
	}
	val, err := decodeValue(d, sig)
	if err != nil {
		return Variant{}, err
	}
	return Variant{sig, val}, nil
}

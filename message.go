package dbus

// Message is a complete D-Bus message: its fixed header, its optional
// header fields, and its decoded body.
type Message struct {
	Header FixedHeader
	Fields HeaderFields
	Body   []Value
}

// DecodeMessage decodes a single message from the front of buf. It
// returns the number of bytes consumed so a caller can advance past the
// message in a larger buffer. A buffer too short to contain a complete
// message returns ErrNeedMoreBytes rather than a terminal error.
func DecodeMessage(buf []byte) (*Message, int, error) {
	fixed, rest, err := decodeFixedHeader(buf)
	if err != nil {
		return nil, 0, err
	}

	d := NewDecoderAt(rest, fixed.Order, fixedHeaderLen)
	fields, err := decodeHeaderFields(d)
	if err != nil {
		return nil, 0, err
	}

	if fixed.BodyLength > 0 && fields.Signature == nil {
		return nil, 0, MissingRequiredHeaderFieldError{FieldSignature, fixed.Type}
	}

	bodyOrigin := d.Pos()
	bodyBytes, err := d.take(int(fixed.BodyLength))
	if err != nil {
		return nil, 0, err
	}

	bodySig := Signature{}
	if fields.Signature != nil {
		bodySig = *fields.Signature
	}
	bodyValues, remaining, err := DecodeValuesAt(bodyBytes, bodySig, fixed.Order, bodyOrigin)
	if err != nil {
		return nil, 0, err
	}
	if len(remaining) != 0 {
		return nil, 0, TrailingBytesError{len(remaining)}
	}

	msg := &Message{Header: fixed, Fields: fields, Body: bodyValues}
	if err := msg.Validate(); err != nil {
		return nil, 0, err
	}

	consumed := len(buf) - len(d.Remaining())
	return msg, consumed, nil
}

// EncodeMessage encodes msg to its wire form, computing BodyLength and
// the header-terminating padding. It fails if msg is not valid.
func EncodeMessage(msg *Message) ([]byte, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	e := NewEncoder(msg.Header.Order)
	encodeFixedHeader(e, FixedHeader{
		Order:      msg.Header.Order,
		Type:       msg.Header.Type,
		Flags:      msg.Header.Flags,
		BodyLength: 0, // patched below once the body is encoded
		Serial:     msg.Header.Serial,
	})
	if err := encodeHeaderFields(e, msg.Fields); err != nil {
		return nil, err
	}
	header := e.Bytes()
	bodyOrigin := e.Pos()

	bodySig := Signature{}
	if msg.Fields.Signature != nil {
		bodySig = *msg.Fields.Signature
	}
	bodyBytes, err := EncodeValues(msg.Body, bodySig, msg.Header.Order, bodyOrigin)
	if err != nil {
		return nil, err
	}

	msg.Header.Order.putUint32(header[4:8], uint32(len(bodyBytes)))
	return append(header, bodyBytes...), nil
}

// Validate reports whether msg is well-formed: a valid message type and
// endianness, every header field required by its type present, an
// object path (if any) that satisfies the object-path grammar, and a
// body whose values match the declared signature field exactly
// (present iff the body is non-empty).
func (m *Message) Validate() error {
	if m.Header.Order != LittleEndian && m.Header.Order != BigEndian {
		return InvalidMessageError("invalid byte order")
	}
	if !m.Header.Type.Valid() {
		return InvalidMessageError("invalid message type")
	}
	if m.Header.Serial == 0 {
		return InvalidMessageError("serial must be non-zero")
	}
	if err := m.Fields.validate(m.Header.Type); err != nil {
		return err
	}
	if m.Fields.Path != nil && !m.Fields.Path.IsValid() {
		return MalformedObjectPathError{string(*m.Fields.Path)}
	}

	switch {
	case len(m.Body) > 0 && m.Fields.Signature == nil:
		return MissingRequiredHeaderFieldError{FieldSignature, m.Header.Type}
	case len(m.Body) == 0 && m.Fields.Signature != nil && !m.Fields.Signature.Empty():
		return InvalidMessageError("signature field present but body is empty")
	}

	bodySig := Signature{}
	if m.Fields.Signature != nil {
		bodySig = *m.Fields.Signature
	}
	types := bodySig.Types()
	if len(types) != len(m.Body) {
		return InvalidMessageError("body does not match declared signature")
	}
	for i, v := range m.Body {
		if !kindMatchesSignature(v, types[i]) {
			return TypeMismatchError{types[i].Tokens()[0], v.Kind()}
		}
	}
	return nil
}

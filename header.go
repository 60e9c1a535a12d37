package dbus

// HeaderField identifies one optional field of a message header.
type HeaderField byte

const (
	FieldPath HeaderField = 1 + iota
	FieldInterface
	FieldMember
	FieldErrorName
	FieldReplySerial
	FieldDestination
	FieldSender
	FieldSignature
	FieldUnixFDs
	fieldMax
)

func (f HeaderField) String() string {
	switch f {
	case FieldPath:
		return "Path"
	case FieldInterface:
		return "Interface"
	case FieldMember:
		return "Member"
	case FieldErrorName:
		return "ErrorName"
	case FieldReplySerial:
		return "ReplySerial"
	case FieldDestination:
		return "Destination"
	case FieldSender:
		return "Sender"
	case FieldSignature:
		return "Signature"
	case FieldUnixFDs:
		return "UnixFDs"
	default:
		return "Unknown"
	}
}

// headerFieldEntrySig is the signature of one element of the header
// fields array: a dict_entry pairing a field code with its variant
// value. It is constructed directly rather than through ParseSignature
// because a bare dict_entry is only a legal complete type as an array
// element (§4.7), never standalone.
var headerFieldEntrySig = Signature{"{yv}"}

// requiredHeaderFields lists the fields that must be present for each
// message type (§4.6).
var requiredHeaderFields = map[MessageType][]HeaderField{
	TypeMethodCall:   {FieldPath, FieldMember},
	TypeMethodReturn: {FieldReplySerial},
	TypeError:        {FieldErrorName, FieldReplySerial},
	TypeSignal:       {FieldPath, FieldInterface, FieldMember},
}

// headerFieldSignature returns the single-type Signature expected for
// code's value, and whether code is a recognized field.
func headerFieldSignature(code HeaderField) (Signature, bool) {
	switch code {
	case FieldPath:
		return Signature{"o"}, true
	case FieldInterface, FieldMember, FieldErrorName, FieldDestination, FieldSender:
		return Signature{"s"}, true
	case FieldReplySerial, FieldUnixFDs:
		return Signature{"u"}, true
	case FieldSignature:
		return Signature{"g"}, true
	default:
		return Signature{}, false
	}
}

// FixedHeader is the 12-byte, unpadded prefix of every D-Bus message.
type FixedHeader struct {
	Order      Endianness
	Type       MessageType
	Flags      MessageFlags
	BodyLength uint32
	Serial     uint32
}

const protocolVersion byte = 1

const fixedHeaderLen = 12

// decodeFixedHeader decodes the 12-byte fixed header from the front of
// buf.
func decodeFixedHeader(buf []byte) (FixedHeader, []byte, error) {
	if len(buf) < 1 {
		return FixedHeader{}, nil, ErrNeedMoreBytes
	}
	order := Endianness(buf[0])
	if order != LittleEndian && order != BigEndian {
		return FixedHeader{}, nil, InvalidEndiannessError{buf[0]}
	}
	if len(buf) < fixedHeaderLen {
		return FixedHeader{}, nil, ErrNeedMoreBytes
	}

	msgType := MessageType(buf[1])
	if !msgType.Valid() {
		return FixedHeader{}, nil, InvalidMessageTypeError{buf[1]}
	}
	flags := MessageFlags(buf[2]) & knownFlags
	if buf[3] != protocolVersion {
		return FixedHeader{}, nil, UnsupportedProtocolVersionError{buf[3]}
	}
	bodyLen := order.uint32(buf[4:8])
	serial := order.uint32(buf[8:12])

	h := FixedHeader{
		Order:      order,
		Type:       msgType,
		Flags:      flags,
		BodyLength: bodyLen,
		Serial:     serial,
	}
	return h, buf[fixedHeaderLen:], nil
}

// encodeFixedHeader appends h's 12 bytes to e.
func encodeFixedHeader(e *Encoder, h FixedHeader) {
	e.Byte(byte(h.Order))
	e.Byte(byte(h.Type))
	e.Byte(byte(h.Flags & knownFlags))
	e.Byte(protocolVersion)
	e.Uint32(h.BodyLength)
	e.Uint32(h.Serial)
}

// HeaderFields holds the optional fields decoded from a message's
// header-fields array. A fixed set of optional pointer fields is
// equivalent to, and avoids the overhead and ordering ambiguity of, the
// map the field codes would otherwise suggest (§9).
type HeaderFields struct {
	Path        *ObjectPath
	Interface   *string
	Member      *string
	ErrorName   *string
	ReplySerial *uint32
	Destination *string
	Sender      *string
	Signature   *Signature
	UnixFDs     *uint32
}

// decodeHeaderFields decodes the array<dict_entry{byte,variant}> that
// follows the fixed header, then consumes the padding to the next
// 8-byte boundary that terminates the whole header.
func decodeHeaderFields(d *Decoder) (HeaderFields, error) {
	elems, err := d.Array(headerFieldEntrySig)
	if err != nil {
		return HeaderFields{}, err
	}
	if err := d.align(8); err != nil {
		return HeaderFields{}, err
	}

	var fields HeaderFields
	seen := make(map[HeaderField]bool, len(elems))
	for _, elemVal := range elems {
		entry, err := elemVal.AsDictEntry()
		if err != nil {
			return HeaderFields{}, err
		}
		codeByte, err := entry.Key.AsByte()
		if err != nil {
			return HeaderFields{}, err
		}
		code := HeaderField(codeByte)
		expectSig, known := headerFieldSignature(code)
		if !known {
			continue // unknown field codes are ignored on decode
		}
		if seen[code] {
			return HeaderFields{}, InvalidHeaderFieldError{codeByte, "duplicate field"}
		}
		seen[code] = true

		variant, err := entry.Value.AsVariant()
		if err != nil {
			return HeaderFields{}, err
		}
		if variant.Signature().str != expectSig.str {
			return HeaderFields{}, InvalidHeaderFieldError{codeByte, "wrong value type"}
		}

		if err := fields.set(code, variant.Value()); err != nil {
			return HeaderFields{}, err
		}
	}
	return fields, nil
}

func (f *HeaderFields) set(code HeaderField, v Value) error {
	switch code {
	case FieldPath:
		p, err := v.AsObjectPath()
		if err != nil {
			return err
		}
		if !p.IsValid() {
			return MalformedObjectPathError{string(p)}
		}
		f.Path = &p
	case FieldInterface:
		s, err := v.AsString()
		if err != nil {
			return err
		}
		f.Interface = &s
	case FieldMember:
		s, err := v.AsString()
		if err != nil {
			return err
		}
		f.Member = &s
	case FieldErrorName:
		s, err := v.AsString()
		if err != nil {
			return err
		}
		f.ErrorName = &s
	case FieldReplySerial:
		u, err := v.AsUint32()
		if err != nil {
			return err
		}
		f.ReplySerial = &u
	case FieldDestination:
		s, err := v.AsString()
		if err != nil {
			return err
		}
		f.Destination = &s
	case FieldSender:
		s, err := v.AsString()
		if err != nil {
			return err
		}
		f.Sender = &s
	case FieldSignature:
		sig, err := v.AsSignature()
		if err != nil {
			return err
		}
		f.Signature = &sig
	case FieldUnixFDs:
		u, err := v.AsUint32()
		if err != nil {
			return err
		}
		f.UnixFDs = &u
	}
	return nil
}

// entries returns the set fields as ordered dict_entry Values, in
// ascending field-code order, for a deterministic wire encoding.
func (f HeaderFields) entries() []Value {
	var out []Value
	add := func(code HeaderField, v Value) {
		out = append(out, NewDictEntry(NewByte(byte(code)), NewVariantValue(MakeVariant(v))))
	}
	if f.Path != nil {
		add(FieldPath, NewObjectPath(*f.Path))
	}
	if f.Interface != nil {
		add(FieldInterface, NewString(*f.Interface))
	}
	if f.Member != nil {
		add(FieldMember, NewString(*f.Member))
	}
	if f.ErrorName != nil {
		add(FieldErrorName, NewString(*f.ErrorName))
	}
	if f.ReplySerial != nil {
		add(FieldReplySerial, NewUint32(*f.ReplySerial))
	}
	if f.Destination != nil {
		add(FieldDestination, NewString(*f.Destination))
	}
	if f.Sender != nil {
		add(FieldSender, NewString(*f.Sender))
	}
	if f.Signature != nil {
		add(FieldSignature, NewSignatureValue(*f.Signature))
	}
	if f.UnixFDs != nil {
		add(FieldUnixFDs, NewUint32(*f.UnixFDs))
	}
	return out
}

// encodeHeaderFields appends the header-fields array followed by
// padding to the next 8-byte boundary.
func encodeHeaderFields(e *Encoder, f HeaderFields) error {
	if err := e.Array(headerFieldEntrySig, f.entries()); err != nil {
		return err
	}
	e.align(8)
	return nil
}

// validate checks that f carries every field required for msgType
// (§4.6).
func (f HeaderFields) validate(msgType MessageType) error {
	for _, required := range requiredHeaderFields[msgType] {
		if !f.has(required) {
			return MissingRequiredHeaderFieldError{required, msgType}
		}
	}
	return nil
}

func (f HeaderFields) has(code HeaderField) bool {
	switch code {
	case FieldPath:
		return f.Path != nil
	case FieldInterface:
		return f.Interface != nil
	case FieldMember:
		return f.Member != nil
	case FieldErrorName:
		return f.ErrorName != nil
	case FieldReplySerial:
		return f.ReplySerial != nil
	case FieldDestination:
		return f.Destination != nil
	case FieldSender:
		return f.Sender != nil
	case FieldSignature:
		return f.Signature != nil
	case FieldUnixFDs:
		return f.UnixFDs != nil
	default:
		return false
	}
}

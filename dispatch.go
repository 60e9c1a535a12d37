package dbus

import "math"

func float64ToUint64(f float64) uint64 { return math.Float64bits(f) }
func uint64ToFloat64(u uint64) float64 { return math.Float64frombits(u) }

// decodeValue decodes exactly one complete type, as described by sig,
// from d. sig must describe exactly one complete type (sig.Types()[0]
// == sig, i.e. callers pass a single-type Signature slice, never a
// multi-type tail).
func decodeValue(d *Decoder, sig Signature) (Value, error) {
	toks := sig.Tokens()
	if len(toks) == 0 {
		return Value{}, MalformedSignatureError{sig.str, "expected a type"}
	}
	switch toks[0] {
	case TokenByte:
		b, err := d.Byte()
		return NewByte(b), err
	case TokenBoolean:
		b, err := d.Bool()
		return NewBool(b), err
	case TokenInt16:
		i, err := d.Int16()
		return NewInt16(i), err
	case TokenUint16:
		u, err := d.Uint16()
		return NewUint16(u), err
	case TokenInt32:
		i, err := d.Int32()
		return NewInt32(i), err
	case TokenUint32:
		u, err := d.Uint32()
		return NewUint32(u), err
	case TokenInt64:
		i, err := d.Int64()
		return NewInt64(i), err
	case TokenUint64:
		u, err := d.Uint64()
		return NewUint64(u), err
	case TokenDouble:
		f, err := d.Double()
		return NewDouble(f), err
	case TokenString:
		s, err := d.String()
		return NewString(s), err
	case TokenObjectPath:
		p, err := d.ObjectPath()
		return NewObjectPath(p), err
	case TokenSignature:
		s, err := d.SignatureValue()
		return NewSignatureValue(s), err
	case TokenUnixFD:
		idx, err := d.UnixFDIndex()
		return NewUnixFDIndex(idx), err
	case TokenVariant:
		v, err := d.VariantValue()
		return NewVariantValue(v), err
	case TokenArray:
		elemSig, _ := sig.elementSignature()
		elems, err := d.Array(elemSig)
		return NewArray(elemSig, elems), err
	case TokenStructOpen:
		fieldSigs, _ := sig.fieldSignatures()
		fields, err := d.Struct(fieldSigs)
		return NewStruct(fields), err
	case TokenDictOpen:
		keySig, valSig, _ := sig.dictEntrySignatures()
		entry, err := d.DictEntry(keySig, valSig)
		return NewDictEntry(entry.Key, entry.Value), err
	default:
		return Value{}, InvalidSignatureTokenError{byte(toks[0])}
	}
}

// DecodeValues decodes the sequence of complete types named by sig from
// buf in the given byte order, returning the decoded values and the
// unconsumed remainder of buf. Alignment is measured from buf's first
// byte, as for a standalone body; use DecodeValuesAt when buf does not
// start at an alignment origin.
func DecodeValues(buf []byte, sig Signature, order Endianness) ([]Value, []byte, error) {
	return DecodeValuesAt(buf, sig, order, 0)
}

// DecodeValuesAt is DecodeValues with an explicit alignment origin:
// origin is the offset, within the enclosing message, of buf's first
// byte.
func DecodeValuesAt(buf []byte, sig Signature, order Endianness, origin int) ([]Value, []byte, error) {
	d := NewDecoderAt(buf, order, origin)
	var out []Value
	for _, t := range sig.Types() {
		v, err := decodeValue(d, t)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, v)
	}
	return out, d.Remaining(), nil
}

// encodeValue appends the wire encoding of v to e. v's Kind must match
// the dispatch performed by the caller (EncodeValues type-checks each
// value against its signature before calling this).
func encodeValue(e *Encoder, v Value) error {
	switch v.kind {
	case TokenByte:
		e.Byte(v.byteVal)
	case TokenBoolean:
		e.Bool(v.boolVal)
	case TokenInt16:
		e.Int16(v.int16Val)
	case TokenUint16:
		e.Uint16(v.uint16Val)
	case TokenInt32:
		e.Int32(v.int32Val)
	case TokenUint32:
		e.Uint32(v.uint32Val)
	case TokenInt64:
		e.Int64(v.int64Val)
	case TokenUint64:
		e.Uint64(v.uint64Val)
	case TokenDouble:
		e.Double(v.doubleVal)
	case TokenString:
		return e.String(v.stringVal)
	case TokenObjectPath:
		return e.ObjectPath(v.pathVal)
	case TokenSignature:
		return e.SignatureValue(v.sigVal)
	case TokenUnixFD:
		e.UnixFDIndex(v.unixFDVal)
	case TokenVariant:
		return e.VariantValue(*v.variantVal)
	case TokenArray:
		return e.Array(v.arrayElem, v.arrayVal)
	case TokenStructOpen:
		return e.Struct(v.structVal)
	case TokenDictOpen:
		return e.DictEntry(*v.entryVal)
	default:
		return InvalidSignatureTokenError{byte(v.kind)}
	}
	return nil
}

// EncodeValues encodes vs, whose signatures must concatenate to sig, in
// the given byte order, returning the wire bytes. startOffset is the
// absolute offset, within the enclosing message, at which the returned
// bytes will be placed; composite types use it to honor alignment
// relative to the message-body origin.
func EncodeValues(vs []Value, sig Signature, order Endianness, startOffset int) ([]byte, error) {
	types := sig.Types()
	if len(types) != len(vs) {
		return nil, MalformedSignatureError{sig.str, "value count does not match signature"}
	}
	e := NewEncoderAt(order, startOffset)
	for i, v := range vs {
		want := types[i].Tokens()[0]
		if !kindMatchesSignature(v, types[i]) {
			return nil, TypeMismatchError{want, v.kind}
		}
		if err := encodeValue(e, v); err != nil {
			return nil, err
		}
	}
	return e.Bytes(), nil
}

// kindMatchesSignature reports whether v's declared type agrees with
// sig, recursing into containers since arrays/structs/dict_entries also
// constrain their element/field signatures.
func kindMatchesSignature(v Value, sig Signature) bool {
	toks := sig.Tokens()
	if len(toks) == 0 || toks[0] != v.kind {
		return false
	}
	switch v.kind {
	case TokenArray:
		elemSig, _ := sig.elementSignature()
		return elemSig.str == v.arrayElem.str
	case TokenStructOpen:
		fieldSigs, ok := sig.fieldSignatures()
		if !ok || len(fieldSigs) != len(v.structVal) {
			return false
		}
		for i, fs := range fieldSigs {
			if !kindMatchesSignature(v.structVal[i], fs) {
				return false
			}
		}
		return true
	case TokenDictOpen:
		keySig, valSig, ok := sig.dictEntrySignatures()
		if !ok {
			return false
		}
		return kindMatchesSignature(v.entryVal.Key, keySig) && kindMatchesSignature(v.entryVal.Value, valSig)
	default:
		return true
	}
}

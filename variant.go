package dbus

import (
	"strconv"
	"strings"
)

// Variant is a self-describing D-Bus value: a pair of a single-type
// Signature and the Value it describes.
type Variant struct {
	sig Signature
	val Value
}

// MakeVariant wraps v as a Variant, using SignatureOf(v) as its
// embedded signature.
func MakeVariant(v Value) Variant {
	return Variant{SignatureOf(v), v}
}

// Signature returns the variant's single-type embedded signature.
func (v Variant) Signature() Signature {
	return v.sig
}

// Value returns the variant's wrapped Value.
func (v Variant) Value() Value {
	return v.val
}

// String renders v in the GVariant text format, matching the notation
// used by dbus-monitor and d-feet for ad hoc inspection.
func (v Variant) String() string {
	s, unambiguous := v.format()
	if !unambiguous {
		return "@" + v.sig.str + " " + s
	}
	return s
}

// format renders the variant's value and reports whether the rendering
// is unambiguous without the signature annotation.
func (v Variant) format() (string, bool) {
	return formatValue(v.val)
}

func formatValue(v Value) (string, bool) {
	switch v.kind {
	case TokenBoolean:
		return strconv.FormatBool(v.boolVal), true
	case TokenInt32:
		return strconv.FormatInt(int64(v.int32Val), 10), true
	case TokenInt16:
		return strconv.FormatInt(int64(v.int16Val), 10), false
	case TokenUint16:
		return strconv.FormatUint(uint64(v.uint16Val), 10), false
	case TokenUint32:
		return strconv.FormatUint(uint64(v.uint32Val), 10), false
	case TokenInt64:
		return strconv.FormatInt(v.int64Val, 10), false
	case TokenUint64:
		return strconv.FormatUint(v.uint64Val, 10), false
	case TokenDouble:
		return strconv.FormatFloat(v.doubleVal, 'g', -1, 64), false
	case TokenUnixFD:
		return strconv.FormatUint(uint64(v.unixFDVal), 10), false
	case TokenByte:
		return "0x" + strconv.FormatUint(uint64(v.byteVal), 16), false
	case TokenString:
		return strconv.Quote(v.stringVal), true
	case TokenObjectPath:
		return strconv.Quote(string(v.pathVal)), false
	case TokenSignature:
		return strconv.Quote(v.sigVal.str), false
	case TokenVariant:
		inner, unamb := formatValue(v.variantVal.val)
		if !unamb {
			return "<@" + v.variantVal.sig.str + " " + inner + ">", true
		}
		return "<" + inner + ">", true
	case TokenArray:
		if len(v.arrayVal) == 0 {
			return "[]", false
		}
		unambiguous := true
		var b strings.Builder
		b.WriteByte('[')
		for i, elem := range v.arrayVal {
			s, u := formatValue(elem)
			unambiguous = unambiguous && u
			b.WriteString(s)
			if i != len(v.arrayVal)-1 {
				b.WriteString(", ")
			}
		}
		b.WriteByte(']')
		return b.String(), unambiguous
	case TokenStructOpen:
		unambiguous := true
		var b strings.Builder
		b.WriteByte('(')
		for i, f := range v.structVal {
			s, u := formatValue(f)
			unambiguous = unambiguous && u
			b.WriteString(s)
			if i != len(v.structVal)-1 {
				b.WriteString(", ")
			}
		}
		b.WriteByte(')')
		return b.String(), unambiguous
	case TokenDictOpen:
		ks, ku := formatValue(v.entryVal.Key)
		vs, vu := formatValue(v.entryVal.Value)
		return ks + ": " + vs, ku && vu
	default:
		return `"INVALID"`, true
	}
}

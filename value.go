package dbus

import "fmt"

// DictEntry is one key/value pair of a Dict, preserving wire order.
type DictEntry struct {
	Key   Value
	Value Value
}

// Value is the closed tagged union over every value a D-Bus signature
// can describe. Exactly one field group is meaningful, selected by
// Kind. There is no open polymorphism here — the set of D-Bus types is
// fixed by the specification, so a dispatch table over SignatureToken
// (see dispatch.go) replaces what other implementations model as a
// shared marshal/unmarshal interface.
type Value struct {
	kind SignatureToken

	byteVal    byte
	boolVal    bool
	int16Val   int16
	uint16Val  uint16
	int32Val   int32
	uint32Val  uint32
	int64Val   int64
	uint64Val  uint64
	doubleVal  float64
	stringVal  string
	pathVal    ObjectPath
	sigVal     Signature
	unixFDVal  UnixFDIndex
	arrayVal   []Value
	arrayElem  Signature
	structVal  []Value
	entryVal   *DictEntry
	variantVal *Variant
}

// Kind returns the active variant of v.
func (v Value) Kind() SignatureToken {
	return v.kind
}

// Constructors. Each wraps a native Go value in the corresponding Value
// variant.

func NewByte(b byte) Value          { return Value{kind: TokenByte, byteVal: b} }
func NewBool(b bool) Value          { return Value{kind: TokenBoolean, boolVal: b} }
func NewInt16(i int16) Value        { return Value{kind: TokenInt16, int16Val: i} }
func NewUint16(u uint16) Value      { return Value{kind: TokenUint16, uint16Val: u} }
func NewInt32(i int32) Value        { return Value{kind: TokenInt32, int32Val: i} }
func NewUint32(u uint32) Value      { return Value{kind: TokenUint32, uint32Val: u} }
func NewInt64(i int64) Value        { return Value{kind: TokenInt64, int64Val: i} }
func NewUint64(u uint64) Value      { return Value{kind: TokenUint64, uint64Val: u} }
func NewDouble(f float64) Value     { return Value{kind: TokenDouble, doubleVal: f} }
func NewString(s string) Value      { return Value{kind: TokenString, stringVal: s} }
func NewObjectPath(p ObjectPath) Value {
	return Value{kind: TokenObjectPath, pathVal: p}
}
func NewSignatureValue(s Signature) Value { return Value{kind: TokenSignature, sigVal: s} }
func NewUnixFDIndex(idx UnixFDIndex) Value {
	return Value{kind: TokenUnixFD, unixFDVal: idx}
}

// NewArray wraps elems (which must all share elemSig) as a Value of
// kind TokenArray. An empty elems slice is legal; elemSig still
// describes what type the (empty) array would hold.
func NewArray(elemSig Signature, elems []Value) Value {
	return Value{kind: TokenArray, arrayVal: elems, arrayElem: elemSig}
}

// NewStruct wraps fields as a Value of kind TokenStructOpen.
func NewStruct(fields []Value) Value {
	return Value{kind: TokenStructOpen, structVal: fields}
}

// NewDictEntry wraps a key/value pair as a Value of kind TokenDictOpen.
// It is only legal to decode or encode inside an array.
func NewDictEntry(key, value Value) Value {
	return Value{kind: TokenDictOpen, entryVal: &DictEntry{key, value}}
}

// NewDict builds a Dict (array<dict_entry{K,V}>) from ordered pairs.
func NewDict(keySig, valueSig Signature, entries []DictEntry) Value {
	elemSig := Signature{"{" + keySig.str + valueSig.str + "}"}
	elems := make([]Value, len(entries))
	for i, e := range entries {
		elems[i] = NewDictEntry(e.Key, e.Value)
	}
	return NewArray(elemSig, elems)
}

// NewVariantValue wraps a Variant as a Value of kind TokenVariant.
func NewVariantValue(v Variant) Value {
	return Value{kind: TokenVariant, variantVal: &v}
}

// Projections. Each returns TypeMismatchError if v is not of the
// requested kind.

func (v Value) AsByte() (byte, error) {
	if v.kind != TokenByte {
		return 0, TypeMismatchError{TokenByte, v.kind}
	}
	return v.byteVal, nil
}

func (v Value) AsBool() (bool, error) {
	if v.kind != TokenBoolean {
		return false, TypeMismatchError{TokenBoolean, v.kind}
	}
	return v.boolVal, nil
}

func (v Value) AsInt16() (int16, error) {
	if v.kind != TokenInt16 {
		return 0, TypeMismatchError{TokenInt16, v.kind}
	}
	return v.int16Val, nil
}

func (v Value) AsUint16() (uint16, error) {
	if v.kind != TokenUint16 {
		return 0, TypeMismatchError{TokenUint16, v.kind}
	}
	return v.uint16Val, nil
}

func (v Value) AsInt32() (int32, error) {
	if v.kind != TokenInt32 {
		return 0, TypeMismatchError{TokenInt32, v.kind}
	}
	return v.int32Val, nil
}

func (v Value) AsUint32() (uint32, error) {
	if v.kind != TokenUint32 {
		return 0, TypeMismatchError{TokenUint32, v.kind}
	}
	return v.uint32Val, nil
}

func (v Value) AsInt64() (int64, error) {
	if v.kind != TokenInt64 {
		return 0, TypeMismatchError{TokenInt64, v.kind}
	}
	return v.int64Val, nil
}

func (v Value) AsUint64() (uint64, error) {
	if v.kind != TokenUint64 {
		return 0, TypeMismatchError{TokenUint64, v.kind}
	}
	return v.uint64Val, nil
}

func (v Value) AsDouble() (float64, error) {
	if v.kind != TokenDouble {
		return 0, TypeMismatchError{TokenDouble, v.kind}
	}
	return v.doubleVal, nil
}

func (v Value) AsString() (string, error) {
	if v.kind != TokenString {
		return "", TypeMismatchError{TokenString, v.kind}
	}
	return v.stringVal, nil
}

func (v Value) AsObjectPath() (ObjectPath, error) {
	if v.kind != TokenObjectPath {
		return "", TypeMismatchError{TokenObjectPath, v.kind}
	}
	return v.pathVal, nil
}

func (v Value) AsSignature() (Signature, error) {
	if v.kind != TokenSignature {
		return Signature{}, TypeMismatchError{TokenSignature, v.kind}
	}
	return v.sigVal, nil
}

func (v Value) AsUnixFDIndex() (UnixFDIndex, error) {
	if v.kind != TokenUnixFD {
		return 0, TypeMismatchError{TokenUnixFD, v.kind}
	}
	return v.unixFDVal, nil
}

// AsArray returns the array's elements and its element signature.
func (v Value) AsArray() ([]Value, Signature, error) {
	if v.kind != TokenArray {
		return nil, Signature{}, TypeMismatchError{TokenArray, v.kind}
	}
	return v.arrayVal, v.arrayElem, nil
}

// AsStruct returns the struct's fields in order.
func (v Value) AsStruct() ([]Value, error) {
	if v.kind != TokenStructOpen {
		return nil, TypeMismatchError{TokenStructOpen, v.kind}
	}
	return v.structVal, nil
}

// AsDictEntry returns the key/value pair of a dict_entry.
func (v Value) AsDictEntry() (DictEntry, error) {
	if v.kind != TokenDictOpen {
		return DictEntry{}, TypeMismatchError{TokenDictOpen, v.kind}
	}
	return *v.entryVal, nil
}

// AsVariant returns the wrapped Variant.
func (v Value) AsVariant() (Variant, error) {
	if v.kind != TokenVariant {
		return Variant{}, TypeMismatchError{TokenVariant, v.kind}
	}
	return *v.variantVal, nil
}

// DictEntries projects an array-of-dict_entry Value into its ordered
// pairs, preserving wire order as required by the Dict invariant (§3).
// It returns TypeMismatchError if v is not such an array.
func (v Value) DictEntries() ([]DictEntry, error) {
	elems, elemSig, err := v.AsArray()
	if err != nil {
		return nil, err
	}
	if elemSig.str == "" {
		return nil, TypeMismatchError{TokenDictOpen, 0}
	}
	if elemSig.str[0] != byte(TokenDictOpen) {
		return nil, TypeMismatchError{TokenDictOpen, elemSig.Tokens()[0]}
	}
	out := make([]DictEntry, len(elems))
	for i, e := range elems {
		entry, err := e.AsDictEntry()
		if err != nil {
			return nil, err
		}
		out[i] = entry
	}
	return out, nil
}

// ToMap converts a Dict Value into a map keyed by its formatted key
// value, for callers that accept the dict's order-indifferent
// higher-level semantics (§3). On duplicate keys, the last entry wins,
// matching wire decode behavior.
func (v Value) ToMap() (map[string]Value, error) {
	entries, err := v.DictEntries()
	if err != nil {
		return nil, err
	}
	m := make(map[string]Value, len(entries))
	for _, e := range entries {
		m[e.Key.formatKey()] = e.Value
	}
	return m, nil
}

func (v Value) formatKey() string {
	switch v.kind {
	case TokenString:
		return v.stringVal
	case TokenObjectPath:
		return string(v.pathVal)
	default:
		return fmt.Sprint(v.goValueForFormat())
	}
}

func (v Value) goValueForFormat() interface{} {
	switch v.kind {
	case TokenByte:
		return v.byteVal
	case TokenBoolean:
		return v.boolVal
	case TokenInt16:
		return v.int16Val
	case TokenUint16:
		return v.uint16Val
	case TokenInt32:
		return v.int32Val
	case TokenUint32:
		return v.uint32Val
	case TokenInt64:
		return v.int64Val
	case TokenUint64:
		return v.uint64Val
	case TokenDouble:
		return v.doubleVal
	default:
		return nil
	}
}

// SignatureOf returns the Signature describing v's type, recursing into
// containers.
func SignatureOf(v Value) Signature {
	switch v.kind {
	case TokenArray:
		return Signature{"a" + v.arrayElem.str}
	case TokenStructOpen:
		var inner []Signature
		for _, f := range v.structVal {
			inner = append(inner, SignatureOf(f))
		}
		return Signature{"(" + joinSignatures(inner) + ")"}
	case TokenDictOpen:
		return Signature{"{" + SignatureOf(v.entryVal.Key).str + SignatureOf(v.entryVal.Value).str + "}"}
	case TokenVariant:
		return Signature{"v"}
	default:
		return Signature{string(byte(v.kind))}
	}
}

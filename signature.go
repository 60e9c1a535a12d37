package dbus

import "strings"

// SignatureToken is a single byte of the D-Bus type alphabet.
type SignatureToken byte

const (
	TokenByte       SignatureToken = 'y'
	TokenBoolean    SignatureToken = 'b'
	TokenInt16      SignatureToken = 'n'
	TokenUint16     SignatureToken = 'q'
	TokenInt32      SignatureToken = 'i'
	TokenUint32     SignatureToken = 'u'
	TokenInt64      SignatureToken = 'x'
	TokenUint64     SignatureToken = 't'
	TokenDouble     SignatureToken = 'd'
	TokenString     SignatureToken = 's'
	TokenObjectPath SignatureToken = 'o'
	TokenSignature  SignatureToken = 'g'
	TokenVariant    SignatureToken = 'v'
	TokenUnixFD     SignatureToken = 'h'
	TokenArray      SignatureToken = 'a'
	TokenStructOpen SignatureToken = '('
	TokenStructEnd  SignatureToken = ')'
	TokenDictOpen   SignatureToken = '{'
	TokenDictEnd    SignatureToken = '}'
)

func (t SignatureToken) String() string {
	return string(byte(t))
}

// isBasic reports whether t is one of the fixed-width or length-prefixed
// scalar tokens (everything except array, struct, dict_entry and
// variant containers).
func (t SignatureToken) isBasic() bool {
	switch t {
	case TokenByte, TokenBoolean, TokenInt16, TokenUint16, TokenInt32, TokenUint32,
		TokenInt64, TokenUint64, TokenDouble, TokenString, TokenObjectPath,
		TokenSignature, TokenUnixFD:
		return true
	}
	return false
}

// alignment returns the token's natural wire alignment, as required by
// the D-Bus specification.
func (t SignatureToken) alignment() int {
	switch t {
	case TokenByte, TokenSignature, TokenVariant:
		return 1
	case TokenInt16, TokenUint16:
		return 2
	case TokenInt32, TokenUint32, TokenBoolean, TokenString, TokenObjectPath,
		TokenUnixFD, TokenArray:
		return 4
	case TokenInt64, TokenUint64, TokenDouble, TokenStructOpen, TokenDictOpen:
		return 8
	}
	return 1
}

// maxSignatureNesting bounds recursion while parsing or walking a
// signature, matching the D-Bus specification's container-depth limit.
const maxSignatureNesting = 32

// Signature is a correct, parsed D-Bus type signature: an ordered
// sequence of complete types, stored in its ASCII wire form. The zero
// value is the empty signature.
type Signature struct {
	str string
}

// ParseSignature parses s into a Signature, validating that it is a
// concatenation of zero or more complete types per §4.7: a basic token;
// 'a' followed by one complete type; '(' followed by one or more
// complete types then ')'; '{' basic-type complete-type '}' (legal only
// immediately after an 'a'); or 'v'.
func ParseSignature(s string) (Signature, error) {
	if len(s) > 255 {
		return Signature{}, MalformedSignatureError{s, "signature longer than 255 bytes"}
	}
	rest := s
	for rest != "" {
		var err error
		rest, err = consumeCompleteType(rest, 0)
		if err != nil {
			return Signature{}, err
		}
	}
	return Signature{s}, nil
}

// MustParseSignature behaves like ParseSignature but panics on error.
// It is intended for package-level signature constants.
func MustParseSignature(s string) Signature {
	sig, err := ParseSignature(s)
	if err != nil {
		panic(err)
	}
	return sig
}

// consumeCompleteType validates one complete type at the front of s and
// returns the unconsumed remainder.
func consumeCompleteType(s string, depth int) (string, error) {
	if s == "" {
		return "", MalformedSignatureError{s, "expected a type, found end of signature"}
	}
	if depth > maxSignatureNesting {
		return "", MalformedSignatureError{s, "container nesting too deep"}
	}

	tok := SignatureToken(s[0])
	switch {
	case tok.isBasic() || tok == TokenVariant:
		return s[1:], nil
	case tok == TokenArray:
		if len(s) > 1 && s[1] == '{' {
			return consumeDictEntry(s[1:], depth+1)
		}
		return consumeCompleteType(s[1:], depth+1)
	case tok == TokenStructOpen:
		rest := s[1:]
		if rest != "" && rest[0] == ')' {
			return "", MalformedSignatureError{s, "struct must have at least one field"}
		}
		for {
			if rest == "" {
				return "", MalformedSignatureError{s, "unmatched '('"}
			}
			if rest[0] == ')' {
				return rest[1:], nil
			}
			var err error
			rest, err = consumeCompleteType(rest, depth+1)
			if err != nil {
				return "", err
			}
		}
	case tok == TokenDictOpen:
		return "", MalformedSignatureError{s, "'{' not immediately preceded by 'a'"}
	default:
		return "", InvalidSignatureTokenError{s[0]}
	}
}

// consumeDictEntry validates "{basic-type complete-type}" where s begins
// with '{'.
func consumeDictEntry(s string, depth int) (string, error) {
	rest := s[1:]
	if rest == "" || !SignatureToken(rest[0]).isBasic() {
		return "", MalformedSignatureError{s, "dict_entry key must be a basic type"}
	}
	rest = rest[1:]
	if rest == "" || rest[0] == '}' {
		return "", MalformedSignatureError{s, "dict_entry must have exactly two types"}
	}
	var err error
	rest, err = consumeCompleteType(rest, depth)
	if err != nil {
		return "", err
	}
	if rest == "" || rest[0] != '}' {
		return "", MalformedSignatureError{s, "dict_entry must have exactly two types"}
	}
	return rest[1:], nil
}

// Empty reports whether s is the empty signature.
func (s Signature) Empty() bool {
	return s.str == ""
}

// Single reports whether s represents exactly one complete type, the
// requirement for a variant's embedded signature.
func (s Signature) Single() bool {
	if s.str == "" {
		return false
	}
	rest, err := consumeCompleteType(s.str, 0)
	return err == nil && rest == ""
}

// String renders s back to its ASCII wire form.
func (s Signature) String() string {
	return s.str
}

// Tokens flattens the signature into its raw token sequence, including
// container delimiters. For example "a{sv}" flattens to
// [Array, DictOpen, String, Variant, DictEnd].
func (s Signature) Tokens() []SignatureToken {
	toks := make([]SignatureToken, 0, len(s.str))
	for i := 0; i < len(s.str); i++ {
		toks = append(toks, SignatureToken(s.str[i]))
	}
	return toks
}

// Types splits s into its top-level complete types, each as its own
// Signature. For "sv(ib)" this returns ["s", "v", "(ib)"].
func (s Signature) Types() []Signature {
	var out []Signature
	rest := s.str
	for rest != "" {
		next, err := consumeCompleteType(rest, 0)
		if err != nil {
			// Signature was validated at construction time; this should
			// not happen, but fail closed rather than loop forever.
			break
		}
		out = append(out, Signature{rest[:len(rest)-len(next)]})
		rest = next
	}
	return out
}

// elementSignature returns the element type of an array signature
// "a<T>", i.e. T, and whether s is actually an array signature.
func (s Signature) elementSignature() (Signature, bool) {
	if s.str == "" || s.str[0] != byte(TokenArray) {
		return Signature{}, false
	}
	return Signature{s.str[1:]}, true
}

// fieldSignatures returns the inner types of a struct signature
// "(T1...Tn)".
func (s Signature) fieldSignatures() ([]Signature, bool) {
	if len(s.str) < 2 || s.str[0] != byte(TokenStructOpen) || s.str[len(s.str)-1] != byte(TokenStructEnd) {
		return nil, false
	}
	return Signature{s.str[1 : len(s.str)-1]}.Types(), true
}

// dictEntrySignatures returns the key and value types of a dict_entry
// signature "{KV}".
func (s Signature) dictEntrySignatures() (key, value Signature, ok bool) {
	if len(s.str) < 3 || s.str[0] != byte(TokenDictOpen) || s.str[len(s.str)-1] != byte(TokenDictEnd) {
		return Signature{}, Signature{}, false
	}
	types := Signature{s.str[1 : len(s.str)-1]}.Types()
	if len(types) != 2 {
		return Signature{}, Signature{}, false
	}
	return types[0], types[1], true
}

func joinSignatures(sigs []Signature) string {
	var b strings.Builder
	for _, s := range sigs {
		b.WriteString(s.str)
	}
	return b.String()
}

package dbus

import "errors"

// InvalidEndiannessError signals that a message's first byte was neither
// 'l' nor 'B'.
type InvalidEndiannessError struct {
	Byte byte
}

func (e InvalidEndiannessError) Error() string {
	return "dbus: invalid endianness byte " + string(e.Byte)
}

// InvalidMessageTypeError signals a message_type byte outside {1,2,3,4}.
type InvalidMessageTypeError struct {
	Type byte
}

func (e InvalidMessageTypeError) Error() string {
	return "dbus: invalid message type " + string(rune('0'+e.Type))
}

// UnsupportedProtocolVersionError signals a protocol_version byte other
// than 1.
type UnsupportedProtocolVersionError struct {
	Version byte
}

func (e UnsupportedProtocolVersionError) Error() string {
	return "dbus: unsupported protocol version " + string(rune('0'+e.Version))
}

// InvalidSignatureTokenError signals a byte outside the D-Bus type
// alphabet appearing where a type token was expected.
type InvalidSignatureTokenError struct {
	Byte byte
}

func (e InvalidSignatureTokenError) Error() string {
	return "dbus: invalid signature token " + string(e.Byte)
}

// MalformedSignatureError signals a balance or completeness violation in
// a signature string: unmatched parentheses or braces, a dict_entry
// outside an array, a dict_entry with the wrong number of inner types,
// a dangling 'a', or nesting past the recursion limit.
type MalformedSignatureError struct {
	Signature string
	Reason    string
}

func (e MalformedSignatureError) Error() string {
	return "dbus: malformed signature '" + e.Signature + "': " + e.Reason
}

// InvalidHeaderFieldError signals a duplicated header field code in the
// header-fields array, or a recognized field whose variant carries the
// wrong type. Unknown field codes are skipped on decode and do not
// produce this error.
type InvalidHeaderFieldError struct {
	Code   byte
	Reason string
}

func (e InvalidHeaderFieldError) Error() string {
	return "dbus: invalid header field " + string(rune('0'+e.Code)) + ": " + e.Reason
}

// MissingRequiredHeaderFieldError signals that a field required for the
// message's type was absent.
type MissingRequiredHeaderFieldError struct {
	Field HeaderField
	Type  MessageType
}

func (e MissingRequiredHeaderFieldError) Error() string {
	return "dbus: missing required header field " + e.Field.String() + " for message type " + e.Type.String()
}

// MalformedObjectPathError signals that an object-path string violates
// the object-path grammar.
type MalformedObjectPathError struct {
	Path string
}

func (e MalformedObjectPathError) Error() string {
	return "dbus: malformed object path '" + e.Path + "'"
}

// InvalidUTF8Error signals that string/object_path/signature bytes were
// not valid UTF-8.
type InvalidUTF8Error struct{}

func (e InvalidUTF8Error) Error() string {
	return "dbus: invalid UTF-8 in string"
}

// MissingNulTerminatorError signals that a length-prefixed string was not
// followed by its mandatory NUL terminator.
type MissingNulTerminatorError struct{}

func (e MissingNulTerminatorError) Error() string {
	return "dbus: missing NUL terminator"
}

// InvalidBooleanError signals that a boolean word was neither 0 nor 1.
type InvalidBooleanError struct {
	Value uint32
}

func (e InvalidBooleanError) Error() string {
	return "dbus: invalid boolean value"
}

// ArrayLengthOverflowError signals that a declared or computed array
// payload length exceeded the 2^26-byte limit.
type ArrayLengthOverflowError struct {
	Length uint32
}

func (e ArrayLengthOverflowError) Error() string {
	return "dbus: array length overflow"
}

// TypeMismatchError signals that a runtime Value does not match the
// requested projection or the enclosing signature.
type TypeMismatchError struct {
	Want, Got SignatureToken
}

func (e TypeMismatchError) Error() string {
	return "dbus: type mismatch: want " + string(e.Want) + ", got " + string(e.Got)
}

// TrailingBytesError signals that decoding succeeded but the buffer was
// not exhausted where exhaustion was required.
type TrailingBytesError struct {
	Remaining int
}

func (e TrailingBytesError) Error() string {
	return "dbus: trailing bytes after decode"
}

// InvalidMessageError describes why a decoded or to-be-encoded message is
// not a well-formed Message.
type InvalidMessageError string

func (e InvalidMessageError) Error() string {
	return "dbus: invalid message: " + string(e)
}

// ErrNeedMoreBytes is a sentinel recoverable error: the supplied buffer
// was too short to decode a complete value or message. Callers driving a
// framing layer should check for it with errors.Is and request more
// input rather than treating it as terminal.
var ErrNeedMoreBytes = errors.New("dbus: need more bytes")

// maxArrayLength is the maximum wire length, in bytes, of an array's
// element payload. The D-Bus specification fixes this at 2^26; some
// historical implementations compute it as "2 ^ 26" (an XOR, evaluating
// to 24) by mistake. This package always uses the correct power of two.
const maxArrayLength = 1 << 26

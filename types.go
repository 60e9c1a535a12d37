package dbus

import "strings"

// Endianness selects the byte order for an entire message. It is fixed
// for the message's whole duration.
type Endianness byte

const (
	LittleEndian Endianness = 'l'
	BigEndian    Endianness = 'B'
)

// String returns "LittleEndian" or "BigEndian", or "InvalidEndianness"
// for any other byte.
func (e Endianness) String() string {
	switch e {
	case LittleEndian:
		return "LittleEndian"
	case BigEndian:
		return "BigEndian"
	default:
		return "InvalidEndianness"
	}
}

func (e Endianness) putUint16(b []byte, v uint16) {
	if e == BigEndian {
		b[0], b[1] = byte(v>>8), byte(v)
	} else {
		b[0], b[1] = byte(v), byte(v>>8)
	}
}

func (e Endianness) uint16(b []byte) uint16 {
	if e == BigEndian {
		return uint16(b[0])<<8 | uint16(b[1])
	}
	return uint16(b[0]) | uint16(b[1])<<8
}

func (e Endianness) putUint32(b []byte, v uint32) {
	if e == BigEndian {
		b[0], b[1], b[2], b[3] = byte(v>>24), byte(v>>16), byte(v>>8), byte(v)
	} else {
		b[0], b[1], b[2], b[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
	}
}

func (e Endianness) uint32(b []byte) uint32 {
	if e == BigEndian {
		return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func (e Endianness) putUint64(b []byte, v uint64) {
	if e == BigEndian {
		for i := 0; i < 8; i++ {
			b[i] = byte(v >> uint((7-i)*8))
		}
	} else {
		for i := 0; i < 8; i++ {
			b[i] = byte(v >> uint(i*8))
		}
	}
}

func (e Endianness) uint64(b []byte) uint64 {
	var v uint64
	if e == BigEndian {
		for i := 0; i < 8; i++ {
			v = v<<8 | uint64(b[i])
		}
	} else {
		for i := 7; i >= 0; i-- {
			v = v<<8 | uint64(b[i])
		}
	}
	return v
}

// MessageType is the kind of a D-Bus message.
type MessageType byte

const (
	_ MessageType = iota // 0 = Invalid, rejected on decode
	TypeMethodCall
	TypeMethodReturn
	TypeError
	TypeSignal
	typeMax
)

func (t MessageType) String() string {
	switch t {
	case TypeMethodCall:
		return "MethodCall"
	case TypeMethodReturn:
		return "MethodReturn"
	case TypeError:
		return "Error"
	case TypeSignal:
		return "Signal"
	default:
		return "Invalid"
	}
}

// Valid reports whether t is one of the four defined message types.
func (t MessageType) Valid() bool {
	return t > 0 && t < typeMax
}

// MessageFlags is a bit-set of optional message behaviors. Unknown bits
// are silently discarded on decode.
type MessageFlags byte

const (
	FlagNoReplyExpected MessageFlags = 1 << iota
	FlagNoAutoStart
	FlagAllowInteractiveAuthorization
)

const knownFlags = FlagNoReplyExpected | FlagNoAutoStart | FlagAllowInteractiveAuthorization

// ObjectPath is a syntactically constrained string naming a remote
// object.
type ObjectPath string

// IsValid reports whether the path matches the D-Bus object-path
// grammar: begins with '/', is either exactly "/" or a sequence of
// '/'-separated non-empty components each matching [A-Za-z0-9_]+, and
// has no trailing slash.
func (o ObjectPath) IsValid() bool {
	s := string(o)
	if len(s) == 0 || s[0] != '/' {
		return false
	}
	if s == "/" {
		return true
	}
	if s[len(s)-1] == '/' {
		return false
	}
	for _, component := range strings.Split(s[1:], "/") {
		if len(component) == 0 {
			return false
		}
		for _, c := range component {
			if !isPathChar(c) {
				return false
			}
		}
	}
	return true
}

func isPathChar(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') ||
		(c >= 'a' && c <= 'z') || c == '_'
}

// UnixFD is a Unix file descriptor sent out-of-band alongside a message.
type UnixFD int32

// UnixFDIndex is the on-wire representation of a UnixFD: an index into
// the message's accompanying file-descriptor array.
type UnixFDIndex uint32

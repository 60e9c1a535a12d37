/*
Package dbus implements the D-Bus wire protocol codec: the marshaller and
unmarshaller that convert between raw byte buffers and a typed, in-memory
value model for D-Bus messages.

The package is alignment-sensitive and endianness-parametric, as required
by the D-Bus specification. Every type has a fixed natural alignment;
every container type aligns its payload; the header is a fixed 12-byte
prefix followed by a variable array of header fields, padded to an
8-byte boundary before the body begins.

Decoding is driven by a Signature, a parsed form of the ASCII type
strings used on the wire (see ParseSignature). A Value is the closed
tagged union over every basic and container type the protocol defines;
EncodeValues and DecodeValues convert between a Signature-typed sequence
of Values and wire bytes.

Message assembles a FixedHeader, HeaderFields and a decoded body;
DecodeMessage and EncodeMessage convert a whole message to and from its
wire form, computing and checking the body length along the way.

This package does not open sockets, authenticate, or route messages —
it is a pure codec over caller-supplied buffers.
*/
package dbus

// BUG(otak): Unix file descriptor passing encodes only the FD index
// carried on the wire; the out-of-band transfer of the descriptors
// themselves is a transport concern outside this package.

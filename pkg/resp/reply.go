// Package resp implements encoding and decoding of the Redis
// Serialization Protocol used on the wire between clients and the
// server.
package resp

import (
	"strconv"
)

// Kind tags the variant held by a Reply. The zero value, KindUnset, is
// distinct from every RESP type and marks a reply that hasn't been
// filled in yet.
type Kind byte

const (
	KindUnset Kind = iota
	KindNil
	KindSimpleString
	KindError
	KindInteger
	KindBulkString
	KindDouble
	KindArray
)

// Reply is the recursive tagged value every command handler fills in
// and the encoder serializes. Only the field matching Kind is read.
type Reply struct {
	Kind   Kind
	Str    string  // SimpleString, Error
	Int    int64   // Integer
	Bulk   []byte  // BulkString
	Double float64 // Double, encoded as a BulkString
	Array  []Reply // Array, elements may be KindNil
}

// Nil returns the null reply ($-1 / *-1 depending on context; the
// encoder always uses the bulk-string form).
func Nil() Reply { return Reply{Kind: KindNil} }

// SimpleString returns a +OK style status reply.
func SimpleString(s string) Reply { return Reply{Kind: KindSimpleString, Str: s} }

// Err returns an error reply. By convention s begins with a category
// token (ERR, WRONGTYPE, ...) followed by a space.
func Err(s string) Reply { return Reply{Kind: KindError, Str: s} }

// Integer returns a :<n> reply.
func Integer(i int64) Reply { return Reply{Kind: KindInteger, Int: i} }

// Bulk returns a binary-safe $<len> reply. A nil slice is distinct
// from an empty slice only in that the latter is never promoted to
// KindNil by callers.
func Bulk(b []byte) Reply { return Reply{Kind: KindBulkString, Bulk: b} }

// BulkFromString is a convenience wrapper around Bulk.
func BulkFromString(s string) Reply { return Reply{Kind: KindBulkString, Bulk: []byte(s)} }

// DoubleVal returns the internal Double variant; the encoder formats
// it to at most 9 significant digits and serializes it as a bulk
// string, matching Redis's float reply convention.
func DoubleVal(f float64) Reply { return Reply{Kind: KindDouble, Double: f} }

// Array returns an array reply. Elements may themselves be KindNil.
func Array(elems ...Reply) Reply { return Reply{Kind: KindArray, Array: elems} }

// IsUnset reports whether the reply was never filled in. The
// dispatcher uses this to suppress writing a response.
func (r Reply) IsUnset() bool { return r.Kind == KindUnset }

// IsError reports whether this reply is an error reply.
func (r Reply) IsError() bool { return r.Kind == KindError }

// FormatDouble renders f the way ZSCORE/INCRBYFLOAT/HINCRBYFLOAT do:
// at most 9 significant digits, not 9 decimal places, with trailing
// zeros already trimmed by the 'g' format itself.
func FormatDouble(f float64) string {
	return strconv.FormatFloat(f, 'g', 9, 64)
}

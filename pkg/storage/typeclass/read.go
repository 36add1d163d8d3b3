// Package typeclass holds the small single-method contracts the
// storage layer and command handlers share instead of passing around
// concrete types.
package typeclass

import (
	"math"
	"strconv"
)

// Stringer is the logical value carrier's canonical stringification
// contract: every value that can cross the RESP boundary as a bulk
// string implements it, whether it started life as an integer, a
// double, or raw bytes.
type Stringer interface {
	String() string
}

// Kind tags the variant held by a Value: a key's string value is
// always one of these four shapes before it is serialized back to the
// backend or handed to a command handler to wrap in a bulk-string
// reply.
type Kind int

const (
	KindEmpty Kind = iota
	KindInteger
	KindDouble
	KindBytes
)

// Value is the tagged carrier itself. Only the field matching Kind is
// meaningful.
type Value struct {
	Kind    Kind
	Integer int64
	Double  float64
	Bytes   []byte
}

// Empty is the carrier's zero variant: no value present.
func Empty() Value { return Value{Kind: KindEmpty} }

// Int wraps an integer value, as produced by INCR/INCRBY/DECRBY.
func Int(n int64) Value { return Value{Kind: KindInteger, Integer: n} }

// Float wraps a floating point value, as produced by INCRBYFLOAT and
// its hash/zset counterparts.
func Float(f float64) Value { return Value{Kind: KindDouble, Double: f} }

// Raw wraps a plain byte string, the shape every other string command
// deals in.
func Raw(b []byte) Value { return Value{Kind: KindBytes, Bytes: b} }

// String renders v the way it is persisted to the backend and the way
// it crosses the RESP boundary as a bulk string: integers in decimal,
// doubles as formatStoredFloat renders them, raw bytes verbatim,
// and the empty variant as the empty string.
func (v Value) String() string {
	switch v.Kind {
	case KindInteger:
		return formatInt(v.Integer)
	case KindDouble:
		return formatStoredFloat(v.Double)
	case KindBytes:
		return string(v.Bytes)
	default:
		return ""
	}
}

var _ Stringer = Value{}

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}

// formatStoredFloat renders the value as it is persisted back to the
// backend, kept distinct from FormatDouble's significant-digit
// rounding since this value may be re-parsed by a later INCRBYFLOAT.
func formatStoredFloat(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

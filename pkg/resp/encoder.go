package resp

import (
	"bytes"
	"strconv"
)

var crlf = []byte("\r\n")

// Encode serializes r per RESP into a freshly allocated buffer.
// Unknown/unset discriminants are kept out by the caller's contract
// (the connection loop never calls Encode on an unset reply); if one
// slips through here it is encoded as a protocol-level error, without
// logging, so the connection is not left holding a half-written frame.
func Encode(r Reply) []byte {
	buf := &bytes.Buffer{}
	encodeInto(buf, r)
	return buf.Bytes()
}

func encodeInto(buf *bytes.Buffer, r Reply) {
	switch r.Kind {
	case KindNil:
		buf.WriteString("$-1\r\n")
	case KindSimpleString:
		buf.WriteByte('+')
		buf.WriteString(r.Str)
		buf.Write(crlf)
	case KindError:
		buf.WriteByte('-')
		buf.WriteString(r.Str)
		buf.Write(crlf)
	case KindInteger:
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatInt(r.Int, 10))
		buf.Write(crlf)
	case KindBulkString:
		encodeBulk(buf, r.Bulk)
	case KindDouble:
		encodeBulk(buf, []byte(FormatDouble(r.Double)))
	case KindArray:
		buf.WriteByte('*')
		buf.WriteString(strconv.Itoa(len(r.Array)))
		buf.Write(crlf)
		for _, e := range r.Array {
			encodeInto(buf, e)
		}
	default:
		buf.WriteString("-ERR internal error\r\n")
	}
}

func encodeBulk(buf *bytes.Buffer, b []byte) {
	buf.WriteByte('$')
	buf.WriteString(strconv.Itoa(len(b)))
	buf.Write(crlf)
	buf.Write(b)
	buf.Write(crlf)
}

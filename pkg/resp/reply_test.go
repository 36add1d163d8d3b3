package resp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeScalarReplies(t *testing.T) {
	assert := assert.New(t)

	assert.Equal([]byte("$-1\r\n"), Encode(Nil()))
	assert.Equal([]byte("+OK\r\n"), Encode(SimpleString("OK")))
	assert.Equal([]byte("-ERR boom\r\n"), Encode(Err("ERR boom")))
	assert.Equal([]byte(":42\r\n"), Encode(Integer(42)))
	assert.Equal([]byte("$3\r\nbar\r\n"), Encode(BulkFromString("bar")))
	assert.Equal([]byte("$0\r\n\r\n"), Encode(Bulk([]byte{})))
}

func TestEncodeArrayNesting(t *testing.T) {
	r := Array(
		BulkFromString("f1"),
		BulkFromString("v1"),
		Nil(),
		Array(Integer(1), Integer(2)),
	)
	want := "*4\r\n$2\r\nf1\r\n$2\r\nv1\r\n$-1\r\n*2\r\n:1\r\n:2\r\n"
	assert.Equal(t, want, string(Encode(r)))
}

func TestEncodeDoubleFormatsAsBulk(t *testing.T) {
	r := DoubleVal(2)
	assert.Equal(t, "$1\r\n2\r\n", string(Encode(r)))

	r = DoubleVal(3.5)
	assert.Equal(t, "$3\r\n3.5\r\n", string(Encode(r)))
}

func TestFormatDoubleUsesSignificantDigitsNotDecimalPlaces(t *testing.T) {
	assert.Equal(t, "2", FormatDouble(2))
	assert.Equal(t, "3.5", FormatDouble(3.5))
	assert.Equal(t, "123456789", FormatDouble(123456789))
	assert.Equal(t, "1.23456789e+10", FormatDouble(12345678900))
}

func TestUnsetReplySuppressed(t *testing.T) {
	var r Reply
	assert.True(t, r.IsUnset())
}

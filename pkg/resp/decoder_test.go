package resp

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func decode(t *testing.T, raw string) [][]byte {
	d := NewDecoder(bufio.NewReader(strings.NewReader(raw)))
	cmd, err := d.ReadCommand()
	assert.NoError(t, err)
	return cmd
}

func TestDecodeMultiBulk(t *testing.T) {
	cmd := decode(t, "*3\r\n$3\r\nSET\r\n$3\r\nfoo\r\n$3\r\nbar\r\n")
	assert.Equal(t, [][]byte{[]byte("SET"), []byte("foo"), []byte("bar")}, cmd)
}

func TestDecodeInline(t *testing.T) {
	cmd := decode(t, "PING\r\n")
	assert.Equal(t, [][]byte{[]byte("PING")}, cmd)
}

func TestDecodeEmptyMultiBulk(t *testing.T) {
	cmd := decode(t, "*0\r\n")
	assert.Equal(t, [][]byte{}, cmd)
}

func TestDecodeSequentialFrames(t *testing.T) {
	d := NewDecoder(bufio.NewReader(strings.NewReader("*1\r\n$4\r\nPING\r\n*1\r\n$4\r\nPING\r\n")))
	for i := 0; i < 2; i++ {
		cmd, err := d.ReadCommand()
		assert.NoError(t, err)
		assert.Equal(t, [][]byte{[]byte("PING")}, cmd)
	}
}

func TestDecodeBadMultiBulkLength(t *testing.T) {
	d := NewDecoder(bufio.NewReader(strings.NewReader("*x\r\n")))
	_, err := d.ReadCommand()
	assert.ErrorIs(t, err, ErrProtocol)
}

package typeclass

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueStringPerKind(t *testing.T) {
	assert.Equal(t, "", Empty().String())
	assert.Equal(t, "42", Int(42).String())
	assert.Equal(t, "-7", Int(-7).String())
	assert.Equal(t, "bar", Raw([]byte("bar")).String())
}

func TestValueStringFloatFormatting(t *testing.T) {
	assert.Equal(t, "3.0", Float(3).String())
	assert.Equal(t, "3.5", Float(3.5).String())
}

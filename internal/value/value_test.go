package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplay(t *testing.T) {
	assert.Equal(t, "nil", Display(nil))
	assert.Equal(t, "true", Display(true))
	assert.Equal(t, "false", Display(false))
	assert.Equal(t, `"hello"`, Display("hello"))
	assert.Equal(t, "7", Display(7.0))
	assert.Equal(t, "1.5", Display(1.5))
	assert.Equal(t, "0", Display(0.0))
}

func TestIsTruthy(t *testing.T) {
	assert.False(t, IsTruthy(nil))
	assert.False(t, IsTruthy(false))
	assert.True(t, IsTruthy(true))
	assert.True(t, IsTruthy(0.0))
	assert.True(t, IsTruthy(""))
	assert.True(t, IsTruthy("anything"))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(nil, false))
	assert.True(t, Equal(1.0, 1.0))
	assert.False(t, Equal(1.0, 2.0))
	assert.False(t, Equal(1.0, "1"))
	assert.True(t, Equal("a", "a"))
	assert.False(t, Equal("a", "b"))
	assert.True(t, Equal(true, true))
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "nil", TypeName(nil))
	assert.Equal(t, "boolean", TypeName(true))
	assert.Equal(t, "number", TypeName(1.0))
	assert.Equal(t, "string", TypeName("x"))
}

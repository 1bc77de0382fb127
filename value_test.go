package relisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSingletons_NilIsEol(t *testing.T) {
	assert.Same(t, Nil, Eol, "Eol must alias Nil, not be a second singleton")
	assert.True(t, IsNil(Nil))
	assert.True(t, IsNil(Eol))
}

func TestIsTrue(t *testing.T) {
	assert.True(t, IsTrue(True))
	assert.False(t, IsTrue(Nil))
	assert.False(t, IsTrue(Fixnum(1)))
}

func TestBool(t *testing.T) {
	assert.Equal(t, Value(True), Bool(true))
	assert.Equal(t, Value(Nil), Bool(false))
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		name     string
		v        Value
		expected bool
	}{
		{"nil is falsy", Nil, false},
		{"true is truthy", True, true},
		{"fixnum zero is truthy", Fixnum(0), true},
		{"undefined is truthy", Undefined, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Truthy(tt.v))
		})
	}
}

func TestFixnum_TypeCode(t *testing.T) {
	assert.Equal(t, typeCodeFixnum, Fixnum(42).typeCode())
}

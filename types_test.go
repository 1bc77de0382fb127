package relisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueCompare_Fixnum(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Value
		wantCmp int
		wantOK  bool
	}{
		{"equal", Fixnum(3), Fixnum(3), 0, true},
		{"less", Fixnum(1), Fixnum(2), -1, true},
		{"greater", Fixnum(5), Fixnum(2), 1, true},
		{"different primary types incomparable", Fixnum(1), Nil, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmp, ok := ValueCompare(tt.a, tt.b)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantCmp, cmp)
			}
		})
	}
}

func TestPrint_Fixnum(t *testing.T) {
	assert.Equal(t, "42", Print(Fixnum(42)))
}

func TestRegisterType_AssignsPluginRange(t *testing.T) {
	code := RegisterType(&TypeDescriptor{Name: "test-plugin-type"})
	assert.GreaterOrEqual(t, code, firstPluginTypeCode)

	d := registry.Descriptor(code)
	require.NotNil(t, d)
	assert.Equal(t, "test-plugin-type", d.Name)
}

func TestTypeOf_UnregisteredCodeIsNil(t *testing.T) {
	assert.Nil(t, registry.Descriptor(TypeCode(60000)))
}

type noPrinterCell struct {
	cellHeader
	code TypeCode
}

func (c *noPrinterCell) typeCode() TypeCode { return c.code }

func TestPrint_OpaqueDefaultForHookless(t *testing.T) {
	code := RegisterType(&TypeDescriptor{Name: "no-printer"})
	v := &noPrinterCell{code: code}
	assert.Equal(t, "#<opaque no-printer>", Print(v))
}

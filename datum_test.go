package relisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatum_RefAndSetRoundTrip(t *testing.T) {
	it := NewInterp(nil)
	id := Intern("test-datum-kind")

	d := it.MakeDatum(Fixnum(1), id)
	assert.True(t, DatumP(d, id))
	assert.False(t, DatumP(d, Intern("other-kind")))

	payload, exc := it.DatumRef(d, id)
	require.Nil(t, exc)
	assert.Equal(t, Fixnum(1), payload)

	exc = it.DatumSet(d, id, Fixnum(2))
	require.Nil(t, exc)
	payload, exc = it.DatumRef(d, id)
	require.Nil(t, exc)
	assert.Equal(t, Fixnum(2), payload)
}

func TestDatum_RefSignalsOnIdentityMismatch(t *testing.T) {
	it := NewInterp(nil)
	d := it.MakeDatum(Fixnum(1), Intern("test-datum-kind-a"))

	_, exc := it.DatumRef(d, Intern("test-datum-kind-b"))
	require.NotNil(t, exc)
	assert.Equal(t, "bad-arg", exc.Tag.Name)
}

func TestDatum_Compare(t *testing.T) {
	id := Intern("test-datum-kind-cmp")
	it := NewInterp(nil)
	a := it.MakeDatum(Fixnum(1), id)
	b := it.MakeDatum(Fixnum(1), id)
	c := it.MakeDatum(Fixnum(2), id)

	cmp, ok := ValueCompare(a, b)
	require.True(t, ok)
	assert.Equal(t, 0, cmp)

	cmp, ok = ValueCompare(a, c)
	require.True(t, ok)
	assert.NotEqual(t, 0, cmp, "datums with unequal payloads are not equal")
}

func TestDatum_CompareIdentityMismatchIsIncomparable(t *testing.T) {
	it := NewInterp(nil)
	a := it.MakeDatum(Fixnum(1), Intern("test-datum-kind-x"))
	b := it.MakeDatum(Fixnum(1), Intern("test-datum-kind-y"))

	_, ok := ValueCompare(a, b)
	assert.False(t, ok, "datums of different identity do not compare")
}

func TestDatum_PrintFallbackChain(t *testing.T) {
	it := NewInterp(nil)

	t.Run("bare default for non-symbol identity", func(t *testing.T) {
		d := it.MakeDatum(Fixnum(1), Fixnum(99))
		assert.Equal(t, "#<datum>", Print(d))
	})

	t.Run("symbol-named default", func(t *testing.T) {
		d := it.MakeDatum(Fixnum(1), Intern("test-datum-print-name"))
		assert.Equal(t, "#<datum test-datum-print-name>", Print(d))
	})

	t.Run("registered printer wins", func(t *testing.T) {
		id := Intern("test-datum-print-custom")
		DefineDatumPrinter(id, func(d *Datum, s Stream) *Exception {
			_, exc := it.PutS(s, []byte("custom!"), false)
			return exc
		})
		d := it.MakeDatum(Fixnum(1), id)
		assert.Equal(t, "custom!", Print(d))
	})
}

func TestDatum_DefineDatumPrinterReplacesExisting(t *testing.T) {
	id := Intern("test-datum-print-replace")
	DefineDatumPrinter(id, func(d *Datum, s Stream) *Exception {
		return writeStringToStream(s, "first")
	})
	DefineDatumPrinter(id, func(d *Datum, s Stream) *Exception {
		return writeStringToStream(s, "second")
	})
	assert.Len(t, filterDatumPrinters(id), 1, "re-defining a printer must replace, not append")
}

func writeStringToStream(s Stream, msg string) *Exception {
	out := s.(*StringOutputStream)
	out.buf.WriteString(msg)
	return nil
}

func filterDatumPrinters(id Value) []datumPrinterEntry {
	var out []datumPrinterEntry
	for _, e := range datumPrinters {
		if cmp, ok := ValueCompare(e.id, id); ok && cmp == 0 {
			out = append(out, e)
		}
	}
	return out
}

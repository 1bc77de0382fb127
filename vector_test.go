package relisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVector_NewVectorFillsWithInit(t *testing.T) {
	it := NewInterp(nil)
	v, exc := it.NewVector(3, Fixnum(9))
	require.Nil(t, exc)
	assert.Equal(t, []Value{Fixnum(9), Fixnum(9), Fixnum(9)}, v.Elems())
}

func TestVector_NewVectorNegativeSizeSignalsBadArg(t *testing.T) {
	it := NewInterp(nil)
	_, exc := it.NewVector(-1, Nil)
	require.NotNil(t, exc)
	assert.Equal(t, "bad-arg", exc.Tag.Name)
}

func TestVector_RefAndSet(t *testing.T) {
	it := NewInterp(nil)
	v, _ := it.NewVector(2, Fixnum(0))

	exc := it.VectorSet(v, 0, Fixnum(42))
	require.Nil(t, exc)

	got, exc := it.VectorRef(v, 0)
	require.Nil(t, exc)
	assert.Equal(t, Fixnum(42), got)
}

func TestVector_RefOutOfBoundsSignalsBadArg(t *testing.T) {
	it := NewInterp(nil)
	v, _ := it.NewVector(2, Fixnum(0))

	_, exc := it.VectorRef(v, 5)
	require.NotNil(t, exc)
	assert.Equal(t, "bad-arg", exc.Tag.Name)
}

func TestVector_SetOnFrozenSignalsSettingConstantEvenForBadIndex(t *testing.T) {
	it := NewInterp(nil)
	v, _ := it.NewVector(2, Fixnum(0))
	v.Freeze()

	exc := it.VectorSet(v, 99, Fixnum(1))
	require.NotNil(t, exc)
	assert.Equal(t, "setting-constant", exc.Tag.Name, "immutable check must run before the bounds check")
}

func TestVector_ListConversionsRoundTrip(t *testing.T) {
	it := NewInterp(nil)
	h := it.Heap()
	lst := h.NewCons(Fixnum(1), h.NewCons(Fixnum(2), h.NewCons(Fixnum(3), Nil)))

	v, exc := it.ListToVector(lst)
	require.Nil(t, exc)
	assert.Equal(t, []Value{Fixnum(1), Fixnum(2), Fixnum(3)}, v.Elems())

	back := it.VectorToList(v)
	out, ok := ListToSlice(back)
	require.True(t, ok)
	assert.Equal(t, []Value{Fixnum(1), Fixnum(2), Fixnum(3)}, out)
}

func TestVector_ListToVectorSignalsOnImproperList(t *testing.T) {
	it := NewInterp(nil)
	h := it.Heap()
	improper := h.NewCons(Fixnum(1), Fixnum(2))

	_, exc := it.ListToVector(improper)
	require.NotNil(t, exc)
	assert.Equal(t, "bad-arg", exc.Tag.Name)
}

func TestVector_MapUsesShortestVectorLength(t *testing.T) {
	it := NewInterp(nil)
	a := it.NewVectorFromArgs([]Value{Fixnum(1), Fixnum(2), Fixnum(3)})
	b := it.NewVectorFromArgs([]Value{Fixnum(10), Fixnum(20)})

	add := DefSubrN("test-vector-map-add", Arity2, func(x, y Value) (Value, *Exception) {
		return Fixnum(x.(Fixnum) + y.(Fixnum)), nil
	})

	result, exc := it.VectorMap(add, []Value{a, b})
	require.Nil(t, exc)
	out := result.(*Vector)
	assert.Equal(t, []Value{Fixnum(11), Fixnum(22)}, out.Elems())
}

func TestVector_ForEachDiscardsResultsAndReturnsUndefined(t *testing.T) {
	it := NewInterp(nil)
	a := it.NewVectorFromArgs([]Value{Fixnum(1), Fixnum(2)})

	var seen []Value
	collect := DefSubrN("test-vector-for-each-collect", Arity1, func(x Value) (Value, *Exception) {
		seen = append(seen, x)
		return Nil, nil
	})

	result, exc := it.VectorForEach(collect, []Value{a})
	require.Nil(t, exc)
	assert.Same(t, Value(Undefined), result)
	assert.Equal(t, []Value{Fixnum(1), Fixnum(2)}, seen)
}

func TestVector_Predicate(t *testing.T) {
	it := NewInterp(nil)
	v := it.NewVectorFromArgs([]Value{Fixnum(1)})
	assert.True(t, VectorP(v))
	assert.False(t, VectorP(Fixnum(1)))
}

func TestVector_CompareUnequalLengthsIncomparable(t *testing.T) {
	it := NewInterp(nil)
	a := it.NewVectorFromArgs([]Value{Fixnum(1)})
	b := it.NewVectorFromArgs([]Value{Fixnum(1), Fixnum(2)})

	_, ok := ValueCompare(a, b)
	assert.False(t, ok)
}

func TestVector_Print(t *testing.T) {
	it := NewInterp(nil)
	v := it.NewVectorFromArgs([]Value{Fixnum(1), Fixnum(2)})
	assert.Equal(t, "#[1 2]", Print(v))
}

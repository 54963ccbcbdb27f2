package jtree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePreservesMemberOrder(t *testing.T) {
	v, err := Parse([]byte(`{"zebra":1,"alpha":2,"mid":{"b":1,"a":2}}`))
	require.NoError(t, err)
	require.Equal(t, KindObject, v.Kind())

	var keys []string
	for _, m := range v.Members() {
		keys = append(keys, m.Key)
	}
	assert.Equal(t, []string{"zebra", "alpha", "mid"}, keys)
	assert.Equal(t, `{"zebra":1,"alpha":2,"mid":{"b":1,"a":2}}`, v.String())
}

func TestParseNumberLadder(t *testing.T) {
	v, err := Parse([]byte(`[1, -9223372036854775808, 18446744073709551615, 1.5, 1e3]`))
	require.NoError(t, err)
	items := v.Items()
	require.Len(t, items, 5)

	assert.Equal(t, KindInt, items[0].Kind())
	assert.Equal(t, KindInt, items[1].Kind())
	i, err := items[1].AsInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), i)

	// beyond MaxInt64: kept exactly as uint
	assert.Equal(t, KindUint, items[2].Kind())
	u, err := items[2].AsUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), u)

	assert.Equal(t, KindFloat, items[3].Kind())
	assert.Equal(t, KindFloat, items[4].Kind(), "exponent form is a float even when integral")
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(nil)
	require.Error(t, err)
	_, err = Parse([]byte(`{broken`))
	require.Error(t, err)
	_, err = Parse([]byte(`{"a":1} trailing`))
	require.ErrorContains(t, err, "trailing")
	_, err = Parse([]byte(`{"a":1}{"b":2}`))
	require.ErrorContains(t, err, "trailing")
}

func TestTextRoundTrip(t *testing.T) {
	in := `{"id":7,"tags":["a","b"],"price":2.5,"ok":true,"gone":null,"nest":{"deep":[1,2,3]}}`
	v, err := Parse([]byte(in))
	require.NoError(t, err)
	assert.Equal(t, in, v.String())
}

func TestStringEscaping(t *testing.T) {
	v := Object()
	v.Set("s", Str("a\"b\\c\nd\te\x01f"))
	want := "{\"s\":\"a\\\"b\\\\c\\nd\\te\\u0001f\"}"
	assert.Equal(t, want, v.String())

	back, err := Parse([]byte(v.String()))
	require.NoError(t, err)
	got, err := back.Get("s").AsStr()
	require.NoError(t, err)
	assert.Equal(t, "a\"b\\c\nd\te\x01f", got)
}

func TestNonFiniteFloatsEmitNull(t *testing.T) {
	v := Array(Float(math.NaN()), Float(math.Inf(1)), Float(math.Inf(-1)))
	assert.Equal(t, `[null,null,null]`, v.String())
}

func TestSetReplacesInPlace(t *testing.T) {
	v := Object()
	v.Set("a", Int(1))
	v.Set("b", Int(2))
	v.Set("a", Int(9))
	require.Equal(t, 2, v.Len())
	assert.Equal(t, `{"a":9,"b":2}`, v.String(), "replacement keeps position")
}

func TestNumericCoercions(t *testing.T) {
	i, err := Float(5.0).AsInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(5), i)

	_, err = Float(5.5).AsInt64()
	require.Error(t, err)

	_, err = Int(-1).AsUint64()
	require.Error(t, err)

	f, err := Uint(3).AsFloat64()
	require.NoError(t, err)
	assert.Equal(t, 3.0, f)

	_, err = Str("x").AsInt64()
	require.Error(t, err)
}

func TestNilValueReadsAsNull(t *testing.T) {
	var v *Value
	assert.True(t, v.IsNull())
	assert.Equal(t, KindNull, v.Kind())
	assert.False(t, Object().Get("missing").Has("x"))
	assert.True(t, Object().Get("missing").IsNull())
}

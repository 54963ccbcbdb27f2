package structon

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type allScalars struct {
	I8  int8     `json:"i8"`
	I16 int16    `json:"i16"`
	I32 int32    `json:"i32"`
	I64 int64    `json:"i64"`
	U8  uint8    `json:"u8"`
	U16 uint16   `json:"u16"`
	U32 uint32   `json:"u32"`
	U64 uint64   `json:"u64"`
	F32 float32  `json:"f32"`
	F64 float64  `json:"f64"`
	B   bool     `json:"b"`
	Arr [4]int16 `json:"arr"`
}

func TestScalarRoundTripQuick(t *testing.T) {
	r := NewRegistry()
	_, err := r.RegisterStruct(allScalars{})
	require.NoError(t, err)

	viaTree := func(in allScalars) bool {
		v, ferrs, err := r.EncodeValue(&in)
		if err != nil || len(ferrs) != 0 {
			return false
		}
		var out allScalars
		ferrs, err = r.DecodeValue(v, &out)
		if err != nil || len(ferrs) != 0 {
			return false
		}
		return assert.ObjectsAreEqual(in, out)
	}
	require.NoError(t, quick.Check(viaTree, nil))

	viaText := func(in allScalars) bool {
		text, ferrs, err := r.EncodeValueToText(&in)
		if err != nil || len(ferrs) != 0 {
			return false
		}
		var out allScalars
		ferrs, err = r.DecodeValueFromText(text, &out)
		if err != nil || len(ferrs) != 0 {
			return false
		}
		return assert.ObjectsAreEqual(in, out)
	}
	require.NoError(t, quick.Check(viaText, nil))
}

type depth5 struct {
	V    int64    `json:"v"`
	Tags [2]int32 `json:"tags"`
}

type depth4 struct {
	N   depth5    `json:"n"`
	Pts [2]depth5 `json:"pts"`
}

type depth3 struct {
	N    depth4  `json:"n"`
	Cost float64 `json:"cost"`
}

type depth2 struct {
	N depth3 `json:"n"`
	B bool   `json:"b"`
}

type depth1 struct {
	N    depth2   `json:"n"`
	Name [16]byte `json:"name"`
}

func TestDeepNestingRoundTrip(t *testing.T) {
	r := NewRegistry()
	_, err := r.RegisterStruct(depth1{})
	require.NoError(t, err)

	in := depth1{
		N: depth2{
			N: depth3{
				N: depth4{
					N:   depth5{V: -42, Tags: [2]int32{7, 8}},
					Pts: [2]depth5{{V: 1, Tags: [2]int32{1, 2}}, {V: 2, Tags: [2]int32{3, 4}}},
				},
				Cost: 0.125,
			},
			B: true,
		},
	}
	copy(in.Name[:], "deep")

	text, ferrs, err := r.EncodeValueToText(&in)
	require.NoError(t, err)
	require.Empty(t, ferrs)

	var out depth1
	ferrs, err = r.DecodeValueFromText(text, &out)
	require.NoError(t, err)
	require.Empty(t, ferrs)
	assert.Equal(t, in, out)
}

func FuzzDecodeFromText(f *testing.F) {
	f.Add(`{"age":30,"name":"John Doe","salary":50000.5}`)
	f.Add(`{"age":null}`)
	f.Add(`{"phone_numbers":[1,2,3,4,5,6,7]}`)
	f.Add(`{"car":{"id":1,"price":2.5}}`)
	f.Add(``)
	f.Add(`{not json`)
	f.Add(`[1,2,3]`)
	f.Add(`{"name":"é😀"}`)

	r := NewRegistry()
	if _, err := r.RegisterStruct(person{}); err != nil {
		f.Fatal(err)
	}

	f.Fuzz(func(t *testing.T, text string) {
		var p person
		ferrs, err := r.DecodeValueFromText(text, &p)
		if err != nil {
			return // rejected input, fine
		}
		_ = ferrs
		// whatever got written, encoding it back must not fail
		if _, _, err := r.EncodeValueToText(&p); err != nil {
			t.Fatalf("re-encode after decode: %v", err)
		}
	})
}

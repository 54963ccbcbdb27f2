package structon

import (
	"testing"
	"unsafe"

	"gopkg.in/yaml.v3"
)

func benchRegistry(b *testing.B) (*Registry, *person) {
	b.Helper()
	r := NewRegistry()
	if _, err := r.RegisterStruct(person{}); err != nil {
		b.Fatal(err)
	}
	p := &person{
		Age:    28,
		Name:   text32("Alice"),
		Car:    car{ID: 7, Price: 19999.99, Brand: text32("Toyota"), Model: text32("Corolla")},
		Phones: [5]int32{600, 601, 602, 603, 604},
	}
	return r, p
}

func BenchmarkEncode(b *testing.B) {
	r, p := benchRegistry(b)
	id := TypeIDFor(p)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := r.Encode(id, unsafe.Pointer(p)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncodeToText(b *testing.B) {
	r, p := benchRegistry(b)
	id := TypeIDFor(p)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := r.EncodeToText(id, unsafe.Pointer(p)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecodeFromText(b *testing.B) {
	r, p := benchRegistry(b)
	id := TypeIDFor(p)
	text, _, err := r.EncodeToText(id, unsafe.Pointer(p))
	if err != nil {
		b.Fatal(err)
	}
	var out person
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.DecodeFromText(id, text, unsafe.Pointer(&out)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncodeCompressed(b *testing.B) {
	r, p := benchRegistry(b)
	id := TypeIDFor(p)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := r.EncodeToCompressedText(id, unsafe.Pointer(p)); err != nil {
			b.Fatal(err)
		}
	}
}

// baseline: the same record through a reflection marshaller
func BenchmarkYamlMarshal(b *testing.B) {
	_, p := benchRegistry(b)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := yaml.Marshal(p); err != nil {
			b.Fatal(err)
		}
	}
}

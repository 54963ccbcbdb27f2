package main

import (
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/rawbytedev/structon"
)

// Heap profiling harness for the encode/decode hot path.
func main() {
	go func() {
		log.Println(http.ListenAndServe("localhost:6060", nil))
	}()
	f, err := os.Create("mem.prof")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	runtime.MemProfileRate = 1

	type record struct {
		ID     int64    `json:"id"`
		Name   [32]byte `json:"name"`
		Scores [8]int32 `json:"scores"`
		Rate   float64  `json:"rate"`
	}
	rec := record{ID: 42, Scores: [8]int32{9, 8, 7, 6, 5, 4, 3, 2}, Rate: 0.875}
	copy(rec.Name[:], "profiling record")

	r := structon.NewRegistry()
	if _, err := r.RegisterStruct(record{}); err != nil {
		log.Fatal(err)
	}
	for i := 0; i < 10000; i++ {
		text, _, err := r.EncodeValueToText(&rec)
		if err != nil {
			log.Fatal(err)
		}
		var out record
		if _, err := r.DecodeValueFromText(text, &out); err != nil {
			log.Fatal(err)
		}
	}
	pprof.WriteHeapProfile(f)
	time.Sleep(5 * time.Minute)
}

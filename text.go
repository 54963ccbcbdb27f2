package structon

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/klauspost/compress/zstd"

	"github.com/rawbytedev/structon/jtree"
)

// EncodeToText encodes the record and serializes the tree to compact
// JSON text. Field order follows descriptor order and is stable; it is
// part of the wire contract for consumers of the output.
func (r *Registry) EncodeToText(id TypeID, rec unsafe.Pointer) (string, []FieldError, error) {
	v, ferrs, err := r.Encode(id, rec)
	if err != nil {
		return "", nil, err
	}
	return v.String(), ferrs, nil
}

// DecodeFromText parses JSON text and decodes it into the record.
// Empty input fails with ErrEmptyInput, malformed input with ErrParse.
func (r *Registry) DecodeFromText(id TypeID, text string, rec unsafe.Pointer) ([]FieldError, error) {
	if text == "" {
		return nil, ErrEmptyInput
	}
	v, err := jtree.Parse([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return r.Decode(id, v, rec)
}

var (
	zstdOnce sync.Once
	zstdEnc  *zstd.Encoder
	zstdDec  *zstd.Decoder
)

func zstdInit() {
	zstdOnce.Do(func() {
		// both are concurrency-safe in EncodeAll/DecodeAll mode
		zstdEnc, _ = zstd.NewWriter(nil)
		zstdDec, _ = zstd.NewReader(nil)
	})
}

// EncodeToCompressedText is EncodeToText followed by zstd framing, for
// records persisted in bulk. The compressed payload is not part of the
// stable wire contract; the JSON inside it is.
func (r *Registry) EncodeToCompressedText(id TypeID, rec unsafe.Pointer) ([]byte, []FieldError, error) {
	text, ferrs, err := r.EncodeToText(id, rec)
	if err != nil {
		return nil, nil, err
	}
	zstdInit()
	return zstdEnc.EncodeAll([]byte(text), nil), ferrs, nil
}

// DecodeFromCompressedText reverses EncodeToCompressedText. A corrupt
// frame surfaces as ErrParse, empty input as ErrEmptyInput.
func (r *Registry) DecodeFromCompressedText(id TypeID, data []byte, rec unsafe.Pointer) ([]FieldError, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	zstdInit()
	plain, err := zstdDec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %v", ErrParse, err)
	}
	return r.DecodeFromText(id, string(plain), rec)
}

package tabular

import (
	"fmt"
	"sync"

	"github.com/pimops/pigman/internal/errs"
)

// Decoder turns encoded file bytes into a Table.
type Decoder func(data []byte) (Table, error)

var (
	decoders   = make(map[FileFormat]Decoder)
	decodersMu sync.RWMutex
)

// RegisterDecoder adds a decoder for a file format. The CSV and Excel
// decoders register themselves here; the Parquet decoder lives with the
// dataset schema and registers from there.
// Panics if the format already has a decoder.
func RegisterDecoder(format FileFormat, dec Decoder) {
	decodersMu.Lock()
	defer decodersMu.Unlock()

	if _, exists := decoders[format]; exists {
		panic(fmt.Sprintf("decoder already registered: %s", format))
	}
	decoders[format] = dec
}

// Decode decodes file bytes using the registered decoder for the format.
func Decode(format FileFormat, data []byte) (Table, error) {
	decodersMu.RLock()
	dec, ok := decoders[format]
	decodersMu.RUnlock()

	if !ok {
		return Table{}, errs.Errorf(errs.KindInput, "tabular.Decode", "no decoder for format %q", format)
	}
	return dec(data)
}

// CanDecode reports whether a decoder is registered for the format.
func CanDecode(format FileFormat) bool {
	decodersMu.RLock()
	defer decodersMu.RUnlock()
	_, ok := decoders[format]
	return ok
}

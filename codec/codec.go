// Package codec centralizes interchange-record encoding.
//
// Codec selection is a compatibility boundary: bytes written by one codec
// decode only with the same codec. Self-describing consumers should store
// the codec name next to the payload and resolve it with ByName.
package codec

import "github.com/catbits/catbits"

// Codec encodes and decodes interchange records.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(r *catbits.Record) ([]byte, error)
	Unmarshal(data []byte) (*catbits.Record, error)
	Name() string
}

// Default is the codec used when none is configured.
var Default Codec = JSON{}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "binary":
		return Binary{}, true
	case "binary-lz4":
		return Binary{Compression: CompressionLZ4}, true
	case "binary-zstd":
		return Binary{Compression: CompressionZstd}, true
	default:
		return nil, false
	}
}

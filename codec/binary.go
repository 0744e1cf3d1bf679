package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/catbits/catbits"
	"github.com/catbits/catbits/rowset"
)

// Binary layout:
//
//	magic "CBIX" (4) | version (1) | compression (1) |
//	xxhash64 of body, little-endian (8) | body
//
// body, after optional compression:
//
//	uvarint rows | uvarint entries |
//	per entry: uvarint len + label, uvarint len + category |
//	per entry: uvarint len + roaring column bytes
const (
	binaryMagic   = "CBIX"
	binaryVersion = 1
	headerSize    = 4 + 1 + 1 + 8
)

var (
	// ErrBadMagic is returned when the payload does not start with the
	// binary codec's magic bytes.
	ErrBadMagic = errors.New("codec: bad magic")

	// ErrUnsupportedVersion is returned for payloads written by a newer
	// format version.
	ErrUnsupportedVersion = errors.New("codec: unsupported version")

	// ErrChecksum is returned when the body does not match its checksum.
	ErrChecksum = errors.New("codec: checksum mismatch")

	// ErrCorrupt is returned for truncated or otherwise unparsable
	// payloads.
	ErrCorrupt = errors.New("codec: truncated or corrupt payload")
)

// Compression selects the body compression of the binary codec.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionLZ4
	CompressionZstd
)

// String returns the string representation of the Compression.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return "unknown"
	}
}

// Binary encodes records in a compact checksummed binary format with
// optional compression. The zero value compresses nothing.
type Binary struct {
	Compression Compression
}

// Name implements Codec.
func (b Binary) Name() string {
	if b.Compression == CompressionNone {
		return "binary"
	}
	return "binary-" + b.Compression.String()
}

// Marshal implements Codec.
func (b Binary) Marshal(r *catbits.Record) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	body := binary.AppendUvarint(nil, uint64(r.Rows))
	body = binary.AppendUvarint(body, uint64(len(r.Labels)))
	for i, label := range r.Labels {
		body = appendString(body, label)
		body = appendString(body, r.Categories[i])
	}
	for _, col := range r.Membership {
		cb, err := col.Bytes()
		if err != nil {
			return nil, fmt.Errorf("codec: encode column: %w", err)
		}
		body = binary.AppendUvarint(body, uint64(len(cb)))
		body = append(body, cb...)
	}

	body, err := compress(b.Compression, body)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, headerSize+len(body))
	out = append(out, binaryMagic...)
	out = append(out, binaryVersion, byte(b.Compression))
	out = binary.LittleEndian.AppendUint64(out, xxhash.Sum64(body))
	return append(out, body...), nil
}

// Unmarshal implements Codec. The compression mode is taken from the
// header, so any Binary value decodes any Binary payload. The decoded
// record is validated before it is returned.
func (Binary) Unmarshal(data []byte) (*catbits.Record, error) {
	if len(data) < headerSize {
		return nil, ErrCorrupt
	}
	if string(data[:4]) != binaryMagic {
		return nil, ErrBadMagic
	}
	if data[4] != binaryVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, data[4])
	}
	mode := Compression(data[5])
	sum := binary.LittleEndian.Uint64(data[6:14])
	body := data[headerSize:]
	if xxhash.Sum64(body) != sum {
		return nil, ErrChecksum
	}

	body, err := decompress(mode, body)
	if err != nil {
		return nil, err
	}

	rows, body, err := readUvarint(body)
	if err != nil {
		return nil, err
	}
	count, body, err := readUvarint(body)
	if err != nil {
		return nil, err
	}

	r := &catbits.Record{
		Labels:     make([]string, count),
		Categories: make([]string, count),
		Rows:       int(rows),
		Membership: make([]*rowset.Set, count),
	}
	for i := range r.Labels {
		if r.Labels[i], body, err = readString(body); err != nil {
			return nil, err
		}
		if r.Categories[i], body, err = readString(body); err != nil {
			return nil, err
		}
	}
	for i := range r.Membership {
		var cb []byte
		if cb, body, err = readBytes(body); err != nil {
			return nil, err
		}
		if r.Membership[i], err = rowset.FromBytes(int(rows), cb); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
	}
	if len(body) != 0 {
		return nil, ErrCorrupt
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func appendString(buf []byte, s string) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}

func readUvarint(buf []byte) (uint64, []byte, error) {
	v, n := binary.Uvarint(buf)
	if n <= 0 {
		return 0, nil, ErrCorrupt
	}
	return v, buf[n:], nil
}

func readBytes(buf []byte) ([]byte, []byte, error) {
	l, buf, err := readUvarint(buf)
	if err != nil {
		return nil, nil, err
	}
	if uint64(len(buf)) < l {
		return nil, nil, ErrCorrupt
	}
	return buf[:l], buf[l:], nil
}

func readString(buf []byte) (string, []byte, error) {
	b, rest, err := readBytes(buf)
	if err != nil {
		return "", nil, err
	}
	return string(b), rest, nil
}

var (
	zstdOnce sync.Once
	zstdEnc  *zstd.Encoder
	zstdDec  *zstd.Decoder
)

func zstdInit() {
	zstdOnce.Do(func() {
		var err error
		if zstdEnc, err = zstd.NewWriter(nil); err != nil {
			panic(fmt.Errorf("codec: init zstd encoder: %w", err))
		}
		if zstdDec, err = zstd.NewReader(nil); err != nil {
			panic(fmt.Errorf("codec: init zstd decoder: %w", err))
		}
	})
}

func compress(mode Compression, body []byte) ([]byte, error) {
	switch mode {
	case CompressionNone:
		return body, nil
	case CompressionLZ4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(body); err != nil {
			return nil, fmt.Errorf("codec: lz4 compress: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("codec: lz4 compress: %w", err)
		}
		return buf.Bytes(), nil
	case CompressionZstd:
		zstdInit()
		return zstdEnc.EncodeAll(body, nil), nil
	default:
		return nil, fmt.Errorf("codec: unknown compression %d", mode)
	}
}

func decompress(mode Compression, body []byte) ([]byte, error) {
	switch mode {
	case CompressionNone:
		return body, nil
	case CompressionLZ4:
		out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(body)))
		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %w", ErrCorrupt, err)
		}
		return out, nil
	case CompressionZstd:
		zstdInit()
		out, err := zstdDec.DecodeAll(body, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %w", ErrCorrupt, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("codec: unknown compression %d", mode)
	}
}

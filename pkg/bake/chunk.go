package bake

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// pngSignature is the fixed 8-byte header every PNG file starts with.
var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// chunk is a single PNG chunk: 4-byte big-endian length, 4-byte type,
// data, CRC-32 over type+data.
type chunk struct {
	typ  string
	data []byte
}

// crc computes the chunk's CRC-32 (IEEE) over type and data.
func (c chunk) crc() uint32 {
	h := crc32.NewIEEE()
	h.Write([]byte(c.typ))
	h.Write(c.data)
	return h.Sum32()
}

// IsPNG reports whether the bytes start with the PNG signature.
func IsPNG(b []byte) bool {
	if len(b) < len(pngSignature) {
		return false
	}
	for i, v := range pngSignature {
		if b[i] != v {
			return false
		}
	}
	return true
}

// readChunks parses the chunk sequence after the PNG signature. It validates
// framing and CRCs but not chunk semantics; pixel data passes through opaque.
func readChunks(b []byte) ([]chunk, error) {
	if !IsPNG(b) {
		return nil, ErrUnsupportedFormat
	}

	var chunks []chunk
	rest := b[len(pngSignature):]
	sawEnd := false

	for len(rest) > 0 {
		if len(rest) < 8 {
			return nil, fmt.Errorf("%w: truncated chunk header", ErrCorruptImage)
		}
		length := binary.BigEndian.Uint32(rest[:4])
		if uint64(length)+12 > uint64(len(rest)) {
			return nil, fmt.Errorf("%w: chunk length exceeds file size", ErrCorruptImage)
		}
		c := chunk{
			typ:  string(rest[4:8]),
			data: rest[8 : 8+length],
		}
		want := binary.BigEndian.Uint32(rest[8+length : 12+length])
		if c.crc() != want {
			return nil, fmt.Errorf("%w: CRC mismatch in %s chunk", ErrCorruptImage, c.typ)
		}
		chunks = append(chunks, c)
		rest = rest[12+length:]
		if c.typ == "IEND" {
			sawEnd = true
			break
		}
	}

	if !sawEnd {
		return nil, fmt.Errorf("%w: missing IEND chunk", ErrCorruptImage)
	}
	if len(chunks) == 0 || chunks[0].typ != "IHDR" {
		return nil, fmt.Errorf("%w: missing IHDR chunk", ErrCorruptImage)
	}
	return chunks, nil
}

// writeChunks serializes the signature and chunk sequence. Untouched chunks
// round-trip byte-identically because length and CRC are pure functions of
// type and data.
func writeChunks(chunks []chunk) []byte {
	size := len(pngSignature)
	for _, c := range chunks {
		size += 12 + len(c.data)
	}

	out := make([]byte, 0, size)
	out = append(out, pngSignature...)
	for _, c := range chunks {
		var hdr [8]byte
		binary.BigEndian.PutUint32(hdr[:4], uint32(len(c.data)))
		copy(hdr[4:], c.typ)
		out = append(out, hdr[:]...)
		out = append(out, c.data...)

		var tail [4]byte
		binary.BigEndian.PutUint32(tail[:], c.crc())
		out = append(out, tail[:]...)
	}
	return out
}

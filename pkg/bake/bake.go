// Package bake embeds signed assertions into PNG images as retrievable
// metadata ("baking"), and extracts them back out. The assertion travels in
// an ancillary iTXt chunk keyed "openbadges", so any standard PNG reader
// still renders the image and any JOSE-aware consumer can recover the badge.
package bake

import (
	"bytes"
	"errors"
	"fmt"
)

// Keyword is the iTXt keyword identifying the badge chunk.
const Keyword = "openbadges"

var (
	// ErrUnsupportedFormat is returned when the input is not a PNG.
	ErrUnsupportedFormat = errors.New("input is not a PNG image")

	// ErrCorruptImage is returned when the PNG chunk structure cannot be parsed.
	ErrCorruptImage = errors.New("corrupt PNG image")

	// ErrNotFound is returned by Unbake when no badge chunk is present.
	ErrNotFound = errors.New("no badge metadata found")
)

// Bake embeds the signed assertion token into the image, producing a new
// PNG. The output carries exactly one badge chunk: any existing one is
// replaced, never duplicated. All other chunks are copied byte-identically,
// so baking is additive and never touches pixel data.
func Bake(img []byte, token string) ([]byte, error) {
	chunks, err := readChunks(img)
	if err != nil {
		return nil, err
	}

	kept := make([]chunk, 0, len(chunks)+1)
	for _, c := range chunks {
		if isBadgeChunk(c) {
			continue
		}
		if c.typ == "IEND" {
			kept = append(kept, badgeChunk(token), c)
			continue
		}
		kept = append(kept, c)
	}

	return writeChunks(kept), nil
}

// Unbake extracts the signed assertion token a previous Bake embedded.
// It is an exact inverse: the returned token is byte-identical to the one
// baked in. Returns ErrNotFound if the image carries no badge chunk.
func Unbake(img []byte) (string, error) {
	chunks, err := readChunks(img)
	if err != nil {
		return "", err
	}

	for _, c := range chunks {
		if !isBadgeChunk(c) {
			continue
		}
		text, err := chunkText(c)
		if err != nil {
			return "", err
		}
		return text, nil
	}
	return "", ErrNotFound
}

// badgeChunk builds the iTXt chunk carrying the token. Layout per the PNG
// spec: keyword, NUL, compression flag (0), compression method (0),
// language tag, NUL, translated keyword, NUL, text.
func badgeChunk(token string) chunk {
	data := make([]byte, 0, len(Keyword)+5+len(token))
	data = append(data, Keyword...)
	data = append(data, 0, 0, 0) // NUL, uncompressed, method 0
	data = append(data, 0, 0)    // empty language tag, empty translated keyword
	data = append(data, token...)
	return chunk{typ: "iTXt", data: data}
}

// isBadgeChunk reports whether the chunk is a textual chunk keyed with the
// badge keyword. Both iTXt and tEXt are recognized so a re-bake replaces
// badges written by other tooling.
func isBadgeChunk(c chunk) bool {
	if c.typ != "iTXt" && c.typ != "tEXt" {
		return false
	}
	i := bytes.IndexByte(c.data, 0)
	if i < 0 {
		return false
	}
	return string(c.data[:i]) == Keyword
}

// chunkText pulls the text field out of a badge chunk.
func chunkText(c chunk) (string, error) {
	switch c.typ {
	case "tEXt":
		i := bytes.IndexByte(c.data, 0)
		if i < 0 {
			return "", fmt.Errorf("%w: malformed tEXt chunk", ErrCorruptImage)
		}
		return string(c.data[i+1:]), nil
	case "iTXt":
		rest := c.data
		i := bytes.IndexByte(rest, 0)
		if i < 0 || len(rest) < i+3 {
			return "", fmt.Errorf("%w: malformed iTXt chunk", ErrCorruptImage)
		}
		if rest[i+1] != 0 {
			return "", fmt.Errorf("%w: compressed badge chunk not supported", ErrCorruptImage)
		}
		// Skip keyword NUL, compression flag and method, then the language
		// tag and translated keyword fields.
		rest = rest[i+3:]
		for k := 0; k < 2; k++ {
			j := bytes.IndexByte(rest, 0)
			if j < 0 {
				return "", fmt.Errorf("%w: malformed iTXt chunk", ErrCorruptImage)
			}
			rest = rest[j+1:]
		}
		return string(rest), nil
	}
	return "", fmt.Errorf("%w: not a textual chunk", ErrCorruptImage)
}

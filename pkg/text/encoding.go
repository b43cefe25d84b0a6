package text

import (
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"gitlab.com/tozd/go/errors"
)

// 🔤 Encoding is the byte encoding a file was read with
type Encoding int

const (
	UTF8 Encoding = iota
	Latin1
)

func (e Encoding) String() string {
	if e == Latin1 {
		return "latin-1"
	}
	return "utf-8"
}

// Decode reads raw file bytes as UTF-8, falling back to ISO-8859-1 which
// accepts any byte sequence
func Decode(raw []byte) (string, Encoding, error) {
	if utf8.Valid(raw) {
		return string(raw), UTF8, nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", Latin1, errors.Errorf("decoding latin-1: %w", err)
	}
	return string(out), Latin1, nil
}

// Encode writes text back with the encoding it was decoded with. Runes that
// do not exist in latin-1 are replaced.
func Encode(s string, enc Encoding) ([]byte, error) {
	if enc == UTF8 {
		return []byte(s), nil
	}
	out, err := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()).Bytes([]byte(s))
	if err != nil {
		return nil, errors.Errorf("encoding latin-1: %w", err)
	}
	return out, nil
}

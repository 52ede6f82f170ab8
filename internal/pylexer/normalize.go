package pylexer

import (
	"bytes"

	"golang.org/x/text/unicode/norm"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Normalize performs input normalization at the lexer boundary:
//  1. Strips a UTF-8 byte-order mark if present.
//  2. Applies Unicode NFC normalization.
//
// This guarantees that lexically equivalent Python source produces an
// identical token stream regardless of how the source file happened to be
// encoded (e.g. a NFD-encoded identifier vs. its NFC form).
func Normalize(src []byte) []byte {
	src = bytes.TrimPrefix(src, bomUTF8)
	if !norm.NFC.IsNormal(src) {
		src = norm.NFC.Bytes(src)
	}
	return src
}

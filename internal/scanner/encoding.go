package scanner

import (
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/ianaindex"
)

// DecodeText converts raw file bytes to a UTF-8 string. Valid UTF-8 passes
// through untouched; anything else goes through charset detection, and if
// detection or decoding fails the bytes are decoded as UTF-8 with
// replacement runes so a scan never fails on encoding alone.
func DecodeText(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}

	detector := chardet.NewTextDetector()
	if result, err := detector.DetectBest(raw); err == nil && result != nil {
		if enc, err := ianaindex.IANA.Encoding(result.Charset); err == nil && enc != nil {
			if decoded, err := enc.NewDecoder().Bytes(raw); err == nil && utf8.Valid(decoded) {
				return string(decoded)
			}
		}
	}

	return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
}

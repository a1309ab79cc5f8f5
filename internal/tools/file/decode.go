package file

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// decodeText returns data as a string, decoding it as Latin-1 when it is
// not valid UTF-8. Latin-1 maps every byte to a rune, so it cannot fail.
func decodeText(data []byte) (text string, fallback bool, err error) {
	if utf8.Valid(data) {
		return string(data), false, nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", true, err
	}
	return string(decoded), true, nil
}

// lossyText returns data as UTF-8 with invalid sequences dropped.
func lossyText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), "")
}

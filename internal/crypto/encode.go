package crypto

import (
	"encoding/base64"
	"strings"
)

// encodeBits base64-encodes the first bits of key the way the web clients'
// bit-array codec does: one character per started 6-bit group, then "="
// padding up to a multiple of four characters.
func encodeBits(key []byte, bits int) string {
	chars := (bits + 5) / 6
	raw := base64.RawStdEncoding.EncodeToString(key)
	if len(raw) > chars {
		raw = raw[:chars]
	}
	if pad := len(raw) % 4; pad != 0 {
		raw += strings.Repeat("=", 4-pad)
	}
	return raw
}

var passwordAlphabet = strings.NewReplacer("+", "K", "/", "S")

// bitsToPassword encodes key material into the password alphabet.
// Padding is left in place.
func bitsToPassword(key []byte, bits int) string {
	return passwordAlphabet.Replace(encodeBits(key, bits))
}

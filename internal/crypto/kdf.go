package crypto

import (
	"crypto/sha256"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	innerIterations = 1
	innerBits       = 256

	passwordIterations = 50000
	passwordBits       = 96 // 12 bytes, 16 base64 characters

	referenceSite       = "referenceCode"
	referenceIterations = 10
	referenceBits       = 12
)

// stretch runs PBKDF2-HMAC-SHA256 and clamps the output to bits.
// The trailing bits of the last byte are zeroed when bits is not a multiple of 8.
func stretch(password, salt []byte, iterations, bits int) []byte {
	key := pbkdf2.Key(password, salt, iterations, (bits+7)/8, sha256.New)
	if rem := bits % 8; rem != 0 {
		key[len(key)-1] &= byte(0xff << (8 - rem))
	}
	return key
}

// siteKey binds the site identifier to the master secret in a single
// PBKDF2 round. The site identifier is lowercased before encoding.
func siteKey(site, master string) []byte {
	pass := []byte(master)
	inp := []byte(strings.ToLower(site))
	key := stretch(pass, inp, innerIterations, innerBits)
	for i := range pass {
		pass[i] = 0
	}
	return key
}

// chain runs the inner and outer rounds. The outer round keys PBKDF2 with the
// master string itself; web clients hand the raw string to PBKDF2, which
// UTF-8 encodes it, so the bytes match the inner round's encoding.
func chain(site, master string, iterations, bits int) []byte {
	salt := siteKey(site, master)
	return stretch(stringKey(master), salt, iterations, bits)
}

// stringKey is the encoding PBKDF2 applies to a string password.
func stringKey(s string) []byte {
	return []byte(s)
}

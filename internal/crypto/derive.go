package crypto

import "strings"

// NoPasswordYet is shown in place of a reference code while the master
// secret is empty.
const NoPasswordYet = "-no password yet-"

// Derive returns the 16-character base secret for site under master.
// It runs 50000 PBKDF2 iterations and is deliberately slow.
func Derive(site, master string) string {
	return bitsToPassword(chain(site, master, passwordIterations, passwordBits), passwordBits)
}

// ReferenceCode returns a short non-secret fingerprint of master, used to
// check that the same master secret was typed as last time.
func ReferenceCode(master string) string {
	if master == "" {
		return NoPasswordYet
	}
	code := bitsToPassword(chain(referenceSite, master, referenceIterations, referenceBits), referenceBits)
	return strings.ReplaceAll(code, "=", "")
}

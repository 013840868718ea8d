// Package generator composes per-site passwords from the derived base secret.
package generator

import (
	"context"
	"unicode/utf16"

	"github.com/lovincyrus/passwords101/internal/crypto"
)

// NoLimit disables the max length. Any value <= 0 behaves the same way.
const NoLimit = -1

// Generate derives the base secret for site and applies suffix and maxLength.
func Generate(site, master, suffix string, maxLength int) string {
	return Compose(crypto.Derive(site, master), suffix, maxLength)
}

// Compose appends suffix to base and caps the result at maxLength.
// The suffix wins over the base: base is cut first, and the suffix itself is
// cut only when it alone exceeds maxLength.
//
// Lengths are UTF-16 code units, the unit the web clients count in, so a
// character outside the Basic Multilingual Plane counts as two.
func Compose(base, suffix string, maxLength int) string {
	if maxLength <= 0 {
		return base + suffix
	}
	core := truncate(base, maxLength-unitLen(suffix))
	return truncate(core+suffix, maxLength)
}

func unitLen(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// truncate keeps at most n UTF-16 code units of s. A surrogate pair that
// would straddle the cut is dropped whole.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	units := 0
	for pos, r := range s {
		units += utf16.RuneLen(r)
		if units > n {
			return s[:pos]
		}
	}
	return s
}

// Result is delivered by GenerateAsync.
type Result struct {
	Password string
	Err      error
}

// GenerateAsync runs Generate on its own goroutine. The channel receives
// exactly one Result and is then closed. Cancelling ctx does not stop the
// derivation; it only turns the result into ctx.Err().
func GenerateAsync(ctx context.Context, site, master, suffix string, maxLength int) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		pw := Generate(site, master, suffix, maxLength)
		if err := ctx.Err(); err != nil {
			out <- Result{Err: err}
			return
		}
		out <- Result{Password: pw}
	}()
	return out
}

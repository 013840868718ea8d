package generator

import "strings"

// NormalizeSite reduces a URL to the last two labels of its host, lowercased.
// "https://accounts.example.com/login" becomes "example.com". Multi-part
// TLDs are not special-cased: "https://www.example.co.uk/" becomes "co.uk",
// which is what every existing client stores.
func NormalizeSite(url string) string {
	host := url
	if i := strings.Index(url, "://"); i >= 0 {
		host = url[i+3:]
	}
	if i := strings.Index(host, "/"); i >= 0 {
		host = host[:i]
	}

	cut := strings.LastIndex(host, ".")
	if cut > 0 {
		cut = strings.LastIndex(host[:cut], ".")
	}
	return strings.ToLower(host[cut+1:])
}

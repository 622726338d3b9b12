package utils

import "strings"

// Slugify converts a title into a URL-safe slug: lower-cased ASCII with
// runs of non-alphanumeric characters collapsed into single hyphens.
// "Coq au Vin!" becomes "coq-au-vin".
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

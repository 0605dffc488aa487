package verify

import "strings"

// Decide reports whether marker appears in the extracted text, ignoring case.
// An empty marker never matches.
func Decide(extracted, marker string) bool {
	if marker == "" || extracted == "" {
		return false
	}
	return strings.Contains(strings.ToLower(extracted), strings.ToLower(marker))
}

// MarkerFromText picks the marker derived from an example image: the first
// non-empty line of its extracted text.
func MarkerFromText(extracted string) string {
	for _, line := range strings.Split(extracted, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

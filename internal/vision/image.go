package vision

import (
	"regexp"
	"strings"
)

var dataURIPrefix = regexp.MustCompile(`^data:image/\w+;base64,`)

// EnsureDataURI wraps a raw base64 payload in a JPEG data URI. Payloads that
// already carry a data URI prefix are returned unchanged.
func EnsureDataURI(image string) string {
	if strings.HasPrefix(image, "data:") {
		return image
	}
	return "data:image/jpeg;base64," + image
}

// StripDataURI removes a data URI prefix, leaving the bare base64 payload.
func StripDataURI(image string) string {
	return dataURIPrefix.ReplaceAllString(image, "")
}

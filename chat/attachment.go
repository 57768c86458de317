package chat

import "strings"

// ParseDataURL splits a data URL of the form data:<mime>;base64,<payload>
// into its MIME type and base64 payload. Malformed input falls back to
// image/png with the whole remainder treated as payload.
func ParseDataURL(s string) (mime, data string) {
	mime = "image/png"
	rest := strings.TrimPrefix(s, "data:")
	marker := ";base64,"
	idx := strings.Index(rest, marker)
	if idx < 0 {
		return mime, rest
	}
	if m := rest[:idx]; m != "" {
		mime = m
	}
	return mime, rest[idx+len(marker):]
}

package verify

import (
	"path/filepath"
	"strings"
)

// mimeFormats maps declared content types to container format names.
var mimeFormats = map[string]string{
	"audio/mpeg":  "mp3",
	"audio/mp3":   "mp3",
	"audio/wav":   "wav",
	"audio/x-wav": "wav",
	"audio/wave":  "wav",
	"audio/mp4":   "m4a",
	"audio/x-m4a": "m4a",
	"audio/ogg":   "ogg",
	"audio/webm":  "webm",
	"audio/flac":  "flac",
}

// formatHint resolves the container format from a declared content type,
// falling back to the filename extension, then to wav. Content types may
// carry parameters ("audio/ogg; codecs=opus").
func formatHint(contentType, filename string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if format, ok := mimeFormats[ct]; ok {
		return format
	}
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), "."); ext != "" {
		return ext
	}
	return "wav"
}

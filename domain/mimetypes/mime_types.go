package mimetypes

import (
	"mime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/samber/lo"
)

type MIME string

const (
	Unknown   MIME = "unknown"
	TextPlain MIME = "text/plain"

	ApplicationPDF  MIME = "application/pdf"
	ApplicationJSON MIME = "application/json"
	ApplicationZIP  MIME = "application/zip"

	ImagePNG  MIME = "image/png"
	ImageJPEG MIME = "image/jpeg"
	ImageGIF  MIME = "image/gif"
	ImageWEBP MIME = "image/webp"

	AudioMPEG MIME = "audio/mpeg"
	VideoMP4  MIME = "video/mp4"
)

// Parse strips parameters such as charset from a detected media type.
func Parse(detected string) MIME {
	mt, _, err := mime.ParseMediaType(detected)
	if err != nil || !strings.Contains(mt, "/") {
		return Unknown
	}
	return MIME(mt)
}

// ParseList reads a comma separated list, as found in configuration.
// Entries may be patterns such as "image/*".
func ParseList(list string) []MIME {
	var out []MIME
	for _, item := range strings.Split(list, ",") {
		if m := Parse(strings.TrimSpace(item)); m != Unknown {
			out = append(out, m)
		}
	}
	return out
}

// AllowedBy reports whether m matches one of the allowed types or patterns.
// An empty list allows everything.
func (m MIME) AllowedBy(allowed []MIME) bool {
	if len(allowed) == 0 {
		return true
	}
	return lo.ContainsBy(allowed, func(pattern MIME) bool {
		ok, err := doublestar.Match(string(pattern), string(m))
		return err == nil && ok
	})
}

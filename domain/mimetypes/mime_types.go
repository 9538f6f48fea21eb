package mimetypes

import (
	"mime"
	"strings"
)

type MIME string

const (
	Unknown   MIME = "unknown"
	TextPlain MIME = "text/plain"

	ApplicationPDF  MIME = "application/pdf"
	ApplicationZip  MIME = "application/zip"
	ApplicationRar  MIME = "application/x-rar-compressed"
	ApplicationDoc  MIME = "application/msword"
	ApplicationDocx MIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	ImagePNG  MIME = "image/png"
	ImageJPEG MIME = "image/jpeg"
	ImageGIF  MIME = "image/gif"
	ImageWebP MIME = "image/webp"
)

// MaxRecommendedSize is the advisory per-file ceiling surfaced to users.
// It is guidance, not a hard server-side rejection threshold.
const MaxRecommendedSize = 10 << 20 // 10MB

// allowed lists the exact non-image types accepted as attachments.
var allowed = map[MIME]struct{}{
	TextPlain:       {},
	ApplicationPDF:  {},
	ApplicationZip:  {},
	ApplicationRar:  {},
	ApplicationDoc:  {},
	ApplicationDocx: {},
}

// Allowed reports whether a detected media type may be attached to a message.
// Any image/* type is accepted; other types must match the allow-list.
func Allowed(detected string) (MIME, bool) {
	mt, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return Unknown, false
	}
	if strings.HasPrefix(mt, "image/") {
		return MIME(mt), true
	}
	_, ok := allowed[MIME(mt)]
	if !ok {
		return Unknown, false
	}
	return MIME(mt), true
}

// Matches checks a detected content type against an expected one.
func Matches(detected string, expected MIME) (MIME, bool) {
	mt, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return Unknown, false
	}
	return expected, mt == string(expected)
}

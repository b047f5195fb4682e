package mime

import (
	"path/filepath"
	"strings"
)

type MIME = string

const (
	OctetStream    MIME = "application/octet-stream"
	Plain          MIME = "text/plain"
	HTML           MIME = "text/html"
	CSS            MIME = "text/css"
	JS             MIME = "text/javascript"
	XML            MIME = "text/xml"
	JSON           MIME = "application/json"
	PDF            MIME = "application/pdf"
	WASM           MIME = "application/wasm"
	FormUrlencoded MIME = "application/x-www-form-urlencoded"
	GIF            MIME = "image/gif"
	JPEG           MIME = "image/jpeg"
	PNG            MIME = "image/png"
	SVG            MIME = "image/svg+xml"
	ICO            MIME = "image/vnd.microsoft.icon"
	WEBP           MIME = "image/webp"
)

var Extension = map[string]MIME{
	".html": HTML,
	".htm":  HTML,
	".txt":  Plain,
	".css":  CSS,
	".js":   JS,
	".mjs":  JS,
	".xml":  XML,
	".json": JSON,
	".pdf":  PDF,
	".wasm": WASM,
	".gif":  GIF,
	".jpeg": JPEG,
	".jpg":  JPEG,
	".png":  PNG,
	".svg":  SVG,
	".ico":  ICO,
	".webp": WEBP,
}

// ByExtension looks the file extension up, ignoring its case.
func ByExtension(path string) (MIME, bool) {
	mime, found := Extension[strings.ToLower(filepath.Ext(path))]
	return mime, found
}

// Complies returns whether two MIMEs are compatible. Parameters are ignored and an empty
// MIME is considered compatible with any other one.
func Complies(mime MIME, with string) bool {
	with, _, _ = strings.Cut(with, ";")
	with = strings.TrimSpace(with)
	return len(with) == 0 || strings.EqualFold(with, mime)
}

package http1

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/indigo-web/pollbin/http"
	"github.com/indigo-web/pollbin/kv"
	"github.com/indigo-web/utils/uf"
)

const (
	crlf = "\r\n"
	// requestLineTokens is how many whitespace-separated tokens the request line consists of:
	// method, URI and protocol.
	requestLineTokens = 3
	// preallocHeaders is a rough guess of how many headers an average request carries.
	preallocHeaders = 8
)

var headersEnd = []byte("\r\n\r\n")

// Parse parses the whole buffered request at once. It never fails: if the data can't be
// parsed, the returned request is flagged as malformed. The body is everything after the
// headers section, no matter whether it's complete in terms of Content-Length.
//
// The strings in the request share memory with the data, so it must not be modified afterwards.
func Parse(data []byte) *http.Request {
	head, body, found := bytes.Cut(data, headersEnd)
	if !found || !utf8.Valid(head) {
		return http.Malformed()
	}

	requestLine, rest, _ := strings.Cut(uf.B2S(head), crlf)
	tokens := strings.Fields(requestLine)
	if len(tokens) != requestLineTokens {
		return http.Malformed()
	}

	headers, ok := parseHeaders(rest)
	if !ok {
		return http.Malformed()
	}

	return http.NewRequest(tokens[0], tokens[1], tokens[2], headers, body)
}

// parseHeaders parses CRLF-separated header lines. A line is split by the first colon,
// the value is trimmed. A line without a colon invalidates the whole headers section.
// Repeating header overrides the value of the previous one.
func parseHeaders(section string) (headers *kv.Storage, ok bool) {
	headers = kv.NewPrealloc(preallocHeaders)
	if len(section) == 0 {
		return headers, true
	}

	for _, line := range strings.Split(section, crlf) {
		key, value, found := strings.Cut(line, ":")
		if !found {
			return nil, false
		}

		headers.Set(key, strings.TrimSpace(value))
	}

	return headers, true
}

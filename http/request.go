package http

import (
	"strings"

	"github.com/indigo-web/pollbin/kv"
)

type (
	Headers = *kv.Storage
	Header  = kv.Pair
)

// Request represents a parsed HTTP request. All the string fields and the body may reference
// the receive buffer of the connection the request came from, which is never modified after
// the request was judged complete.
type Request struct {
	// Method is the method token exactly as it was received. Normalization is up to the
	// dispatcher.
	Method string
	// URI is raw, including the query string.
	URI string
	// Proto is the protocol version token, e.g. HTTP/1.0.
	Proto string
	// Headers keep the case of names as received. A repeated name overrides the previous value.
	Headers Headers
	// Body holds everything past the headers section, whatever the Content-Length says.
	Body []byte
	// Malformed marks a request that couldn't be parsed. Malformed request carries no other
	// valid fields.
	Malformed bool
}

func NewRequest(method, uri, proto string, headers Headers, body []byte) *Request {
	if headers == nil {
		headers = kv.New()
	}

	return &Request{
		Method:  method,
		URI:     uri,
		Proto:   proto,
		Headers: headers,
		Body:    body,
	}
}

// Malformed returns a request flagged as malformed.
func Malformed() *Request {
	return &Request{
		Headers:   kv.New(),
		Malformed: true,
	}
}

// RequestLine renders the request line as it's usually seen in access logs.
func (r *Request) RequestLine() string {
	if r.Malformed {
		return "-"
	}

	return r.Method + " " + r.URI + " " + r.Proto
}

// Path returns the URI without the query string.
func (r *Request) Path() string {
	path, _, _ := strings.Cut(r.URI, "?")
	return path
}

// Query returns the raw query string. It's empty if there's none.
func (r *Request) Query() string {
	_, query, _ := strings.Cut(r.URI, "?")
	return query
}

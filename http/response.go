package http

import (
	"iter"

	"github.com/indigo-web/pollbin/http/status"
	"github.com/indigo-web/pollbin/kv"
)

// Response is immutable once constructed: its serialized length is computed exactly once,
// so there is no way to add a header afterwards.
type Response struct {
	proto   string
	code    status.Code
	message string
	headers Headers
	body    []byte
	length  int
}

// NewResponse takes ownership of the headers. They must not be modified by the caller anymore.
// Header names and values must not contain CRLF, as they are written to the wire verbatim.
func NewResponse(
	proto string, code status.Code, message string, headers Headers, body []byte,
) *Response {
	if headers == nil {
		headers = kv.New()
	}

	r := &Response{
		proto:   proto,
		code:    code,
		message: message,
		headers: headers,
		body:    body,
	}
	r.length = r.measure()

	return r
}

// measure returns the number of bytes the response takes on the wire.
func (r *Response) measure() int {
	const (
		sp       = len(" ")
		crlf     = len("\r\n")
		colonSep = len(": ")
	)

	n := len(r.proto) + sp + len(status.StringCode(r.code)) + sp + len(r.message) + crlf

	for key, value := range r.headers.Pairs() {
		n += len(key) + colonSep + len(value) + crlf
	}

	return n + crlf + len(r.body)
}

func (r *Response) Proto() string {
	return r.proto
}

func (r *Response) Code() status.Code {
	return r.code
}

func (r *Response) Message() string {
	return r.message
}

// Header returns the first value of the header. The lookup is case-insensitive.
func (r *Response) Header(key string) (string, bool) {
	return r.headers.Get(key)
}

// Headers iterates over headers in the order they were added.
func (r *Response) Headers() iter.Seq2[string, string] {
	return r.headers.Pairs()
}

// HeadersCopy returns a copy of the headers, suitable for building a derived response.
func (r *Response) HeadersCopy() Headers {
	return r.headers.Clone()
}

func (r *Response) Body() []byte {
	return r.body
}

// Len returns the length of the serialized response.
func (r *Response) Len() int {
	return r.length
}

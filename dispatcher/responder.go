package dispatcher

import (
	"strconv"

	"github.com/indigo-web/pollbin/http"
	"github.com/indigo-web/pollbin/http/mime"
	"github.com/indigo-web/pollbin/http/status"
	"github.com/indigo-web/pollbin/kv"
	"github.com/indigo-web/utils/uf"
)

const (
	contentType   = "Content-type"
	contentLength = "Content-length"
	location      = "Location"
)

// Responder builds the responses shared by the dispatcher and the handlers, so all of them
// carry the same protocol version and the same error page.
type Responder struct {
	version   string
	errorPage *ErrorPage
}

func NewResponder(version string, errorPage *ErrorPage) *Responder {
	if errorPage == nil {
		errorPage = DefaultErrorPage()
	}

	return &Responder{
		version:   version,
		errorPage: errorPage,
	}
}

func (r *Responder) Version() string {
	return r.version
}

// Respond builds an arbitrary response.
func (r *Responder) Respond(
	code status.Code, message string, headers http.Headers, body []byte,
) *http.Response {
	return http.NewResponse(r.version, code, message, headers, body)
}

// Error returns an error response with an html page describing it.
func (r *Responder) Error(code status.Code, message string) *http.Response {
	return r.Respond(
		code, message, kv.New().Add(contentType, mime.HTML), r.errorPage.Render(code, message),
	)
}

// HTTPError turns the error into an error response. Errors other than status.HTTPError
// result in 500 Internal Server Error.
func (r *Responder) HTTPError(err error) *http.Response {
	httpErr, ok := err.(status.HTTPError)
	if !ok {
		httpErr = status.ErrInternalServerError.(status.HTTPError)
	}

	return r.Error(httpErr.Code, httpErr.Message)
}

// Redirect returns 303 See Other to the location.
func (r *Responder) Redirect(to string) *http.Response {
	return r.Respond(status.SeeOther, status.Text(status.SeeOther), kv.New().Add(location, to), nil)
}

// File returns 200 Ok with the content of the given MIME type.
func (r *Responder) File(mimeType string, content []byte) *http.Response {
	return r.Respond(status.OK, status.Text(status.OK), kv.New().Add(contentType, mimeType), content)
}

// HTML is a shorthand for File with text/html content-type.
func (r *Responder) HTML(page string) *http.Response {
	return r.File(mime.HTML, uf.S2B(page))
}

// Headers returns the response carrying only the headers describing the entity: its
// content-type and length, without the entity itself.
func (r *Responder) Headers(mimeType string, size int64) *http.Response {
	headers := kv.New().
		Add(contentType, mimeType).
		Add(contentLength, strconv.FormatInt(size, 10))

	return r.Respond(status.OK, status.Text(status.OK), headers, nil)
}

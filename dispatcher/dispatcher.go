package dispatcher

import (
	"strconv"

	"github.com/indigo-web/pollbin/http"
	"github.com/indigo-web/pollbin/http/method"
	"github.com/indigo-web/pollbin/http/status"
)

// Handler produces a response for a request. Failures, like a missing resource, must be
// expressed as ordinary responses, as the dispatcher passes the response on verbatim.
type Handler func(request *http.Request) *http.Response

// Handlers is the capability set of an application: which methods it serves and how.
type Handlers map[method.Method]Handler

type Dispatcher struct {
	responder *Responder
	handlers  Handlers
}

func New(responder *Responder, handlers Handlers) *Dispatcher {
	return &Dispatcher{
		responder: responder,
		handlers:  handlers,
	}
}

// Dispatch selects the handler by the request method. Malformed requests result in
// 400 Bad Request and methods without a handler in 501 Not Implemented, in both cases no
// handler is called.
func (d *Dispatcher) Dispatch(request *http.Request) *http.Response {
	if request.Malformed {
		return d.responder.Error(status.BadRequest, status.Text(status.BadRequest))
	}

	handler, found := d.handlers[method.Normalize(request.Method)]
	if !found || handler == nil {
		return d.responder.Error(status.NotImplemented, status.Text(status.NotImplemented))
	}

	return handler(request)
}

// Head derives a HEAD handler from a GET one: the response is the same, except the body is
// replaced by its length in Content-length.
func Head(get Handler) Handler {
	return func(request *http.Request) *http.Response {
		response := get(request)
		headers := response.HeadersCopy().Set(contentLength, strconv.Itoa(len(response.Body())))

		return http.NewResponse(response.Proto(), response.Code(), response.Message(), headers, nil)
	}
}

package status

import "errors"

// HTTPError is an error that knows which response it must turn into.
type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

var (
	ErrBadRequest          = NewError(BadRequest, Text(BadRequest))
	ErrURLDecoding         = NewError(BadRequest, "invalid urlencoded sequence")
	ErrUnsupportedForm     = NewError(BadRequest, "unsupported form content type")
	ErrForbidden           = NewError(Forbidden, Text(Forbidden))
	ErrNotFound            = NewError(NotFound, Text(NotFound))
	ErrNotImplemented      = NewError(NotImplemented, Text(NotImplemented))
	ErrInternalServerError = NewError(InternalServerError, Text(InternalServerError))
)

var (
	// ErrShutdown is returned by the event loop after it was asked to stop.
	ErrShutdown = errors.New("graceful shutdown")
	// ErrTimeout is returned when a peer didn't accept the response in time.
	ErrTimeout = errors.New("i/o timeout")
)

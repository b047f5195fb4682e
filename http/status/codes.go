package status

import "strconv"

type Code uint16

// Codes the server and its handlers actually produce. The answered protocol is HTTP/1.0,
// so most of the IANA registry isn't of any use here.
const (
	OK                  Code = 200
	Created             Code = 201
	NoContent           Code = 204
	MovedPermanently    Code = 301
	Found               Code = 302
	SeeOther            Code = 303
	NotModified         Code = 304
	BadRequest          Code = 400
	Forbidden           Code = 403
	NotFound            Code = 404
	MethodNotAllowed    Code = 405
	RequestTimeout      Code = 408
	InternalServerError Code = 500
	NotImplemented      Code = 501
	ServiceUnavailable  Code = 503
)

// KnownCodes lists every code having a registered text.
var KnownCodes = []Code{
	OK, Created, NoContent, MovedPermanently, Found, SeeOther, NotModified, BadRequest,
	Forbidden, NotFound, MethodNotAllowed, RequestTimeout, InternalServerError,
	NotImplemented, ServiceUnavailable,
}

// Text returns the reason phrase used on the status line. Unlike net/http, 200 is "Ok",
// as the pages have always been served with it. Unknown codes result in an empty string.
func Text(code Code) string {
	switch code {
	case OK:
		return "Ok"
	case Created:
		return "Created"
	case NoContent:
		return "No Content"
	case MovedPermanently:
		return "Moved Permanently"
	case Found:
		return "Found"
	case SeeOther:
		return "See Other"
	case NotModified:
		return "Not Modified"
	case BadRequest:
		return "Bad Request"
	case Forbidden:
		return "Forbidden"
	case NotFound:
		return "Not Found"
	case MethodNotAllowed:
		return "Method Not Allowed"
	case RequestTimeout:
		return "Request Timeout"
	case InternalServerError:
		return "Internal Server Error"
	case NotImplemented:
		return "Not Implemented"
	case ServiceUnavailable:
		return "Service Unavailable"
	}

	return ""
}

// StringCode returns the decimal representation of the code.
func StringCode(code Code) string {
	return strconv.FormatUint(uint64(code), 10)
}

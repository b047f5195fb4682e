package http1

import (
	"strconv"

	"github.com/indigo-web/pollbin/http"
)

// Serialize renders the whole response into a single buffer, so nothing is sent until
// the response is complete.
func Serialize(response *http.Response) []byte {
	return AppendResponse(make([]byte, 0, response.Len()), response)
}

// AppendResponse appends the wire representation of the response to the buffer. Headers are
// rendered in the order they were added. Neither header values nor the body are escaped or
// encoded in any way.
func AppendResponse(buff []byte, response *http.Response) []byte {
	buff = append(buff, response.Proto()...)
	buff = append(buff, ' ')
	buff = strconv.AppendUint(buff, uint64(response.Code()), 10)
	buff = append(buff, ' ')
	buff = append(buff, response.Message()...)
	buff = append(buff, crlf...)

	for key, value := range response.Headers() {
		buff = append(buff, key...)
		buff = append(buff, ':', ' ')
		buff = append(buff, value...)
		buff = append(buff, crlf...)
	}

	buff = append(buff, crlf...)

	return append(buff, response.Body()...)
}

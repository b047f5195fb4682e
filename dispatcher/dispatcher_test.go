package dispatcher

import (
	"errors"
	"testing"

	"github.com/indigo-web/pollbin/http"
	"github.com/indigo-web/pollbin/http/method"
	"github.com/indigo-web/pollbin/http/status"
	"github.com/indigo-web/pollbin/kv"
	"github.com/stretchr/testify/require"
)

func getDispatcher(t *testing.T) (*Dispatcher, *int) {
	calls := new(int)
	responder := NewResponder("HTTP/1.0", nil)

	get := func(request *http.Request) *http.Response {
		*calls++
		if request.Path() != "/" {
			return responder.Error(status.NotFound, status.Text(status.NotFound))
		}

		return responder.File("text/plain", []byte("Hello, world!"))
	}

	handlers := Handlers{
		method.GET:  get,
		method.HEAD: Head(get),
	}

	return New(responder, handlers), calls
}

func TestDispatcher(t *testing.T) {
	t.Run("malformed", func(t *testing.T) {
		d, calls := getDispatcher(t)
		response := d.Dispatch(http.Malformed())
		require.Equal(t, status.BadRequest, response.Code())
		require.Equal(t, "Bad Request", response.Message())
		require.Contains(t, string(response.Body()), "400")
		require.Zero(t, *calls)
	})

	t.Run("no handler", func(t *testing.T) {
		d, calls := getDispatcher(t)
		for _, token := range []string{"POST", "DELETE", "BREW", "PRI"} {
			response := d.Dispatch(http.NewRequest(token, "/", "HTTP/1.0", nil, nil))
			require.Equal(t, status.NotImplemented, response.Code(), token)
			require.Equal(t, "Not Implemented", response.Message())
			contentType, _ := response.Header("Content-type")
			require.Equal(t, "text/html", contentType)
		}
		require.Zero(t, *calls)
	})

	t.Run("handler response is verbatim", func(t *testing.T) {
		d, calls := getDispatcher(t)
		response := d.Dispatch(http.NewRequest("GET", "/", "HTTP/1.0", nil, nil))
		require.Equal(t, status.OK, response.Code())
		require.Equal(t, "Hello, world!", string(response.Body()))
		require.Equal(t, 1, *calls)

		response = d.Dispatch(http.NewRequest("GET", "/missing", "HTTP/1.0", nil, nil))
		require.Equal(t, status.NotFound, response.Code())
	})

	t.Run("method is case-normalized", func(t *testing.T) {
		d, calls := getDispatcher(t)
		response := d.Dispatch(http.NewRequest("get", "/", "HTTP/1.0", nil, nil))
		require.Equal(t, status.OK, response.Code())
		require.Equal(t, 1, *calls)
	})
}

func TestHead(t *testing.T) {
	d, _ := getDispatcher(t)
	get := d.Dispatch(http.NewRequest("GET", "/", "HTTP/1.0", nil, nil))
	head := d.Dispatch(http.NewRequest("HEAD", "/", "HTTP/1.0", nil, nil))

	require.Equal(t, get.Code(), head.Code())
	require.Empty(t, head.Body())

	contentType, _ := head.Header("Content-type")
	require.Equal(t, "text/plain", contentType)
	contentLength, _ := head.Header("Content-length")
	require.Equal(t, "13", contentLength)
}

func TestResponder(t *testing.T) {
	t.Run("redirect", func(t *testing.T) {
		response := NewResponder("HTTP/1.0", nil).Redirect("/0")
		require.Equal(t, status.SeeOther, response.Code())
		require.Equal(t, "See Other", response.Message())
		require.Equal(t, []kv.Pair{{"Location", "/0"}}, response.HeadersCopy().Expose())
		require.Empty(t, response.Body())
	})

	t.Run("custom error page", func(t *testing.T) {
		page, err := ParseErrorPage("<b>{{.Code}}: {{.Message}}</b>")
		require.NoError(t, err)

		response := NewResponder("HTTP/1.0", page).Error(status.NotFound, "Not Found")
		require.Equal(t, "<b>404: Not Found</b>", string(response.Body()))
	})

	t.Run("message is escaped", func(t *testing.T) {
		page, err := ParseErrorPage("{{.Message}}")
		require.NoError(t, err)

		response := NewResponder("HTTP/1.0", page).Error(status.BadRequest, "<script>")
		require.Equal(t, "&lt;script&gt;", string(response.Body()))
	})

	t.Run("http error", func(t *testing.T) {
		responder := NewResponder("HTTP/1.0", nil)
		require.Equal(t, status.NotFound, responder.HTTPError(status.ErrNotFound).Code())
		require.Equal(t, status.InternalServerError, responder.HTTPError(errors.New("some error")).Code())
	})

	t.Run("headers only", func(t *testing.T) {
		response := NewResponder("HTTP/1.0", nil).Headers("image/png", 1024)
		require.Equal(t, []kv.Pair{
			{"Content-type", "image/png"},
			{"Content-length", "1024"},
		}, response.HeadersCopy().Expose())
		require.Empty(t, response.Body())
	})
}

func TestLoadErrorPage(t *testing.T) {
	_, err := LoadErrorPage("/definitely/not/existing.html")
	require.Error(t, err)

	_, err = ParseErrorPage("{{.Code")
	require.Error(t, err)
}

package pastebin

import (
	"errors"
	"net/url"
	"strconv"
	"testing"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/pollbin/dispatcher"
	"github.com/indigo-web/pollbin/http"
	"github.com/indigo-web/pollbin/http/method"
	"github.com/indigo-web/pollbin/http/status"
	"github.com/indigo-web/pollbin/kv"
	"github.com/indigo-web/pollbin/storage/memory"
	"github.com/stretchr/testify/require"
)

func newRequest(m method.Method, uri string, body string) *http.Request {
	return http.NewRequest(m.String(), uri, "HTTP/1.0", kv.New(), []byte(body))
}

func newPastebin() (*Pastebin, *memory.Storage) {
	store := memory.New()
	return New(dispatcher.NewResponder("HTTP/1.0", nil), store), store
}

func requireHTML(t *testing.T, response *http.Response) {
	contentType, found := response.Header("content-type")
	require.True(t, found)
	require.Equal(t, "text/html", contentType)
}

type brokenStorage struct{}

var errBroken = errors.New("disk is on fire")

func (brokenStorage) Create(string) (int, error) { return 0, errBroken }
func (brokenStorage) Read(int) (string, error)   { return "", errBroken }
func (brokenStorage) Count() (int, error)        { return 0, errBroken }

func TestPastebin_Get(t *testing.T) {
	t.Run("index", func(t *testing.T) {
		p, _ := newPastebin()
		response := p.Get(newRequest(method.GET, "/", ""))
		require.Equal(t, status.OK, response.Code())
		require.Equal(t, "Ok", response.Message())
		requireHTML(t, response)
		require.Contains(t, string(response.Body()), `<textarea name="paste">`)
		require.Contains(t, string(response.Body()), "<title>Pastebin</title>")
	})

	t.Run("stats", func(t *testing.T) {
		p, store := newPastebin()
		response := p.Get(newRequest(method.GET, "/stats", ""))
		require.Equal(t, status.OK, response.Code())
		require.Contains(t, string(response.Body()), "<p>0 paste(s)</p>")

		for range 3 {
			_, err := store.Create(uniuri.New())
			require.NoError(t, err)
		}

		response = p.Get(newRequest(method.GET, "/stats", ""))
		require.Contains(t, string(response.Body()), "<p>3 paste(s)</p>")
		require.Contains(t, string(response.Body()), "<title>Pastebin - statistics</title>")
	})

	t.Run("paste", func(t *testing.T) {
		p, store := newPastebin()
		content := uniuri.New()
		id, err := store.Create(content)
		require.NoError(t, err)

		response := p.Get(newRequest(method.GET, "/"+strconv.Itoa(id), ""))
		require.Equal(t, status.OK, response.Code())
		requireHTML(t, response)
		require.Contains(t, string(response.Body()), "<pre>"+content+"</pre>")
		require.Contains(t, string(response.Body()), "<h1>Paste 0</h1>")
	})

	t.Run("escaping", func(t *testing.T) {
		p, store := newPastebin()
		_, err := store.Create("<script>alert(1)</script>")
		require.NoError(t, err)

		body := string(p.Get(newRequest(method.GET, "/0", "")).Body())
		require.NotContains(t, body, "<script>")
		require.Contains(t, body, "&lt;script&gt;")
	})

	t.Run("not found", func(t *testing.T) {
		p, _ := newPastebin()
		for _, uri := range []string{"/9999", "/-1", "/hello", "/1.5", "/stats/"} {
			response := p.Get(newRequest(method.GET, uri, ""))
			require.Equal(t, status.NotFound, response.Code(), uri)
			require.Equal(t, "Not Found", response.Message(), uri)
		}
	})

	t.Run("broken storage", func(t *testing.T) {
		p := New(dispatcher.NewResponder("HTTP/1.0", nil), brokenStorage{})
		require.Equal(t, status.InternalServerError, p.Get(newRequest(method.GET, "/0", "")).Code())
		require.Equal(t, status.InternalServerError, p.Get(newRequest(method.GET, "/stats", "")).Code())
	})
}

func TestPastebin_Post(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		p, store := newPastebin()

		for i, content := range []string{"hello", "<b>hello</b> & world", uniuri.NewLen(1024)} {
			body := url.Values{"paste": {content}}.Encode()
			response := p.Post(newRequest(method.POST, "/", body))
			require.Equal(t, status.SeeOther, response.Code())
			require.Equal(t, "See Other", response.Message())

			location, found := response.Header("Location")
			require.True(t, found)
			require.Equal(t, "/"+strconv.Itoa(i), location)

			stored, err := store.Read(i)
			require.NoError(t, err)
			require.Equal(t, content, stored)
		}
	})

	t.Run("multiple values are joined", func(t *testing.T) {
		p, store := newPastebin()
		response := p.Post(newRequest(method.POST, "/", "paste=hello&paste=world"))
		require.Equal(t, status.SeeOther, response.Code())

		stored, err := store.Read(0)
		require.NoError(t, err)
		require.Equal(t, "helloworld", stored)
	})

	t.Run("bad requests", func(t *testing.T) {
		p, store := newPastebin()
		for _, tc := range []struct{ uri, body string }{
			{"/0", "paste=hello"},
			{"/stats", "paste=hello"},
			{"/", ""},
			{"/", "paste="},
			{"/", "content=hello"},
			{"/", "paste=%zz"},
		} {
			response := p.Post(newRequest(method.POST, tc.uri, tc.body))
			require.Equal(t, status.BadRequest, response.Code(), tc)
		}

		count, err := store.Count()
		require.NoError(t, err)
		require.Zero(t, count)
	})

	t.Run("content type", func(t *testing.T) {
		p, _ := newPastebin()
		for contentType, want := range map[string]status.Code{
			"application/x-www-form-urlencoded":                status.SeeOther,
			"application/x-www-form-urlencoded; charset=utf-8": status.SeeOther,
			"multipart/form-data; boundary=x":                  status.BadRequest,
			"application/json":                                 status.BadRequest,
		} {
			request := newRequest(method.POST, "/", "paste=hello")
			request.Headers.Add("Content-type", contentType)
			require.Equal(t, want, p.Post(request).Code(), contentType)
		}
	})

	t.Run("broken storage", func(t *testing.T) {
		p := New(dispatcher.NewResponder("HTTP/1.0", nil), brokenStorage{})
		response := p.Post(newRequest(method.POST, "/", "paste=hello"))
		require.Equal(t, status.InternalServerError, response.Code())
	})
}

func TestPastebin_Head(t *testing.T) {
	p, _ := newPastebin()
	handlers := p.Handlers()
	get := handlers[method.GET](newRequest(method.GET, "/", ""))
	head := handlers[method.HEAD](newRequest(method.HEAD, "/", ""))

	require.Equal(t, get.Code(), head.Code())
	require.Empty(t, head.Body())
	length, found := head.Header("Content-length")
	require.True(t, found)
	require.Equal(t, strconv.Itoa(len(get.Body())), length)
}

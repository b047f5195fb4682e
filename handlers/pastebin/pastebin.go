// Package pastebin serves a minimal pastebin: a form to submit pastes, the pastes themselves
// and the overall statistics.
package pastebin

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"strconv"
	"strings"

	"github.com/indigo-web/pollbin/dispatcher"
	"github.com/indigo-web/pollbin/http"
	"github.com/indigo-web/pollbin/http/method"
	"github.com/indigo-web/pollbin/http/mime"
	"github.com/indigo-web/pollbin/http/status"
	"github.com/indigo-web/pollbin/internal/urlencoded"
	"github.com/indigo-web/pollbin/storage"
	"github.com/indigo-web/utils/uf"
)

//go:embed templates
var templatesFS embed.FS

var (
	indexPage = parsePage("index.html")
	pastePage = parsePage("paste.html")
	statsPage = parsePage("stats.html")
)

func parsePage(name string) *template.Template {
	return template.Must(template.ParseFS(templatesFS, "templates/base.html", "templates/"+name))
}

// formField is the name of the form field carrying the paste content.
const formField = "paste"

type Pastebin struct {
	responder *dispatcher.Responder
	store     storage.Storage
}

func New(responder *dispatcher.Responder, store storage.Storage) *Pastebin {
	return &Pastebin{
		responder: responder,
		store:     store,
	}
}

// Handlers returns the capability set. HEAD is derived from GET.
func (p *Pastebin) Handlers() dispatcher.Handlers {
	return dispatcher.Handlers{
		method.GET:  p.Get,
		method.HEAD: dispatcher.Head(p.Get),
		method.POST: p.Post,
	}
}

func (p *Pastebin) Get(request *http.Request) *http.Response {
	switch request.URI {
	case "/":
		return p.render(indexPage, nil)
	case "/stats":
		count, err := p.store.Count()
		if err != nil {
			return p.responder.HTTPError(err)
		}

		return p.render(statsPage, struct{ Count int }{count})
	default:
		return p.paste(strings.TrimPrefix(request.URI, "/"))
	}
}

func (p *Pastebin) paste(rawID string) *http.Response {
	id, err := strconv.Atoi(rawID)
	if err != nil {
		return p.responder.HTTPError(status.ErrNotFound)
	}

	content, err := p.store.Read(id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return p.responder.HTTPError(status.ErrNotFound)
	case err != nil:
		return p.responder.HTTPError(err)
	}

	return p.render(pastePage, struct {
		ID      int
		Content string
	}{id, content})
}

// Post accepts a urlencoded form at the root only and redirects to the created paste. A
// request without Content-type is treated as a urlencoded one.
func (p *Pastebin) Post(request *http.Request) *http.Response {
	if request.URI != "/" {
		return p.responder.HTTPError(status.ErrBadRequest)
	}

	if !mime.Complies(mime.FormUrlencoded, request.Headers.Value("Content-type")) {
		return p.responder.HTTPError(status.ErrUnsupportedForm)
	}

	form, err := urlencoded.ParseForm(uf.B2S(request.Body))
	if err != nil {
		return p.responder.HTTPError(err)
	}

	content := strings.Join(urlencoded.Values(form, formField), "")
	if len(content) == 0 {
		return p.responder.HTTPError(status.ErrBadRequest)
	}

	// the body belongs to the connection's buffer
	id, err := p.store.Create(strings.Clone(content))
	if err != nil {
		return p.responder.HTTPError(err)
	}

	return p.responder.Redirect("/" + strconv.Itoa(id))
}

func (p *Pastebin) render(page *template.Template, data any) *http.Response {
	var buff bytes.Buffer
	if err := page.ExecuteTemplate(&buff, "base", data); err != nil {
		return p.responder.HTTPError(err)
	}

	return p.responder.File(mime.HTML, buff.Bytes())
}

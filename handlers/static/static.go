// Package static serves files from a directory.
package static

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/indigo-web/pollbin/dispatcher"
	"github.com/indigo-web/pollbin/http"
	"github.com/indigo-web/pollbin/http/method"
	"github.com/indigo-web/pollbin/http/mime"
	"github.com/indigo-web/pollbin/http/status"
	"github.com/indigo-web/pollbin/internal/urlencoded"
)

const indexFile = "index.html"

type Static struct {
	responder *dispatcher.Responder
	root      string
}

// New returns the handler set serving files from the base directory. A relative base
// directory is resolved against the current working directory.
func New(responder *dispatcher.Responder, baseDir string) (*Static, error) {
	root, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("static: %w", err)
	}

	return &Static{
		responder: responder,
		root:      root,
	}, nil
}

func (s *Static) Root() string {
	return s.root
}

func (s *Static) Handlers() dispatcher.Handlers {
	return dispatcher.Handlers{
		method.GET:  s.Get,
		method.HEAD: s.Head,
	}
}

func (s *Static) Get(request *http.Request) *http.Response {
	path, err := s.resolve(request.Path())
	if err != nil {
		return s.responder.HTTPError(err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return s.fail(err)
	}

	mimeType, found := mime.ByExtension(path)
	if !found {
		mimeType = mimetype.Detect(content).String()
	}

	return s.responder.File(mimeType, content)
}

// Head reports the content type and the size of the file without reading it, unless its
// extension is unknown and the content must be sniffed.
func (s *Static) Head(request *http.Request) *http.Response {
	path, err := s.resolve(request.Path())
	if err != nil {
		return s.responder.HTTPError(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return s.fail(err)
	}

	if info.IsDir() {
		return s.responder.HTTPError(status.ErrNotFound)
	}

	mimeType, found := mime.ByExtension(path)
	if !found {
		detected, err := mimetype.DetectFile(path)
		if err != nil {
			return s.fail(err)
		}

		mimeType = detected.String()
	}

	return s.responder.Headers(mimeType, info.Size())
}

// resolve maps the request path onto the file system. Segments are percent-decoded one by
// one, then empty, current and parent directory segments are dropped, so the result never
// escapes the root. A segment which decoded into something containing a separator can't name
// a file. Directories are substituted by their index file.
func (s *Static) resolve(uriPath string) (string, error) {
	segments, err := urlencoded.DecodePath(uriPath)
	if err != nil {
		return "", err
	}

	clean := segments[:0]
	for _, segment := range segments {
		switch {
		case segment == "", segment == ".", segment == "..":
		case strings.ContainsAny(segment, "/\\\x00"):
			return "", status.ErrNotFound
		default:
			clean = append(clean, segment)
		}
	}

	path := filepath.Join(s.root, filepath.Join(clean...))
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, indexFile)
	}

	return path, nil
}

func (s *Static) fail(err error) *http.Response {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s.responder.HTTPError(status.ErrNotFound)
	case errors.Is(err, fs.ErrPermission):
		return s.responder.HTTPError(status.ErrForbidden)
	default:
		return s.responder.HTTPError(err)
	}
}

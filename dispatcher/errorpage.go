package dispatcher

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"os"

	"github.com/indigo-web/pollbin/http/status"
)

//go:embed error.html
var defaultErrorPage string

// ErrorPage is a lightweight html page rendered for every error response.
type ErrorPage struct {
	tmpl *template.Template
}

type errorPageData struct {
	Code    status.Code
	Message string
}

// DefaultErrorPage returns the built-in page.
func DefaultErrorPage() *ErrorPage {
	return &ErrorPage{
		tmpl: template.Must(template.New("error").Parse(defaultErrorPage)),
	}
}

// LoadErrorPage reads and parses the template once. {{.Code}} and {{.Message}} are
// available inside of it.
func LoadErrorPage(path string) (*ErrorPage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error page: %w", err)
	}

	return ParseErrorPage(string(data))
}

func ParseErrorPage(text string) (*ErrorPage, error) {
	tmpl, err := template.New("error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("error page: %w", err)
	}

	return &ErrorPage{tmpl: tmpl}, nil
}

// Render renders the page. In case the template fails, the code and the message are
// returned as a plain text.
func (e *ErrorPage) Render(code status.Code, message string) []byte {
	var buff bytes.Buffer
	if err := e.tmpl.Execute(&buff, errorPageData{Code: code, Message: message}); err != nil {
		return []byte(status.StringCode(code) + " " + message)
	}

	return buff.Bytes()
}

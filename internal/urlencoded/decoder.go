// Package urlencoded decodes percent-encoded request paths and form bodies.
package urlencoded

import (
	"strings"

	"github.com/indigo-web/pollbin/http/status"
	"github.com/indigo-web/pollbin/kv"
)

// Decode decodes percent-encoded sequences. When form is set, plus signs are decoded as
// spaces as well, as application/x-www-form-urlencoded demands.
func Decode(str string, form bool) (string, error) {
	if strings.IndexByte(str, '%') == -1 && (!form || strings.IndexByte(str, '+') == -1) {
		return str, nil
	}

	var b strings.Builder
	b.Grow(len(str))

	for i := 0; i < len(str); i++ {
		switch c := str[i]; {
		case c == '+' && form:
			b.WriteByte(' ')
		case c == '%':
			if len(str)-i < 3 {
				return "", status.ErrURLDecoding
			}

			x, y := halfbyte[str[i+1]], halfbyte[str[i+2]]
			if x|y > 0x0F {
				return "", status.ErrURLDecoding
			}

			b.WriteByte(x<<4 | y)
			i += 2
		default:
			b.WriteByte(c)
		}
	}

	return b.String(), nil
}

// DecodePath decodes the request path segment-wise, so an encoded slash never introduces a
// new segment. The segments are returned as is, including the empty ones.
func DecodePath(path string) ([]string, error) {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		decoded, err := Decode(segment, false)
		if err != nil {
			return nil, err
		}

		segments[i] = decoded
	}

	return segments, nil
}

// ParseForm parses the application/x-www-form-urlencoded body. Pairs keep their order,
// repeated keys are kept as well. A pair without the equality sign is a key with an empty
// value.
func ParseForm(body string) (*kv.Storage, error) {
	form := kv.New()

	for len(body) > 0 {
		var pair string
		pair, body, _ = strings.Cut(body, "&")
		if len(pair) == 0 {
			continue
		}

		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := Decode(rawKey, true)
		if err != nil {
			return nil, err
		}

		value, err := Decode(rawValue, true)
		if err != nil {
			return nil, err
		}

		form.Add(key, value)
	}

	return form, nil
}

// Values returns every value of the key in their original order. Unlike headers, form keys
// are case-sensitive.
func Values(form *kv.Storage, key string) []string {
	var values []string
	for k, v := range form.Pairs() {
		if k == key {
			values = append(values, v)
		}
	}

	return values
}

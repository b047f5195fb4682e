package method

import "strings"

// Method is a closed enumeration of the request methods a handler set may serve. Extending the
// set means adding a constant here and teaching Parse and String about it.
type Method uint8

const (
	Unknown Method = iota
	GET
	HEAD
	POST
	PUT
	DELETE
	OPTIONS

	// Count is the last one enum, so contains the greatest integer value of all the
	// methods. So real number of methods is lower by 1
	Count = iota - 1
)

// List contains all the known methods, sorted by their integer value. Unknown isn't included.
var List = []Method{GET, HEAD, POST, PUT, DELETE, OPTIONS}

// Parse matches the token exactly. Use Normalize for tokens of arbitrary case.
func Parse(str string) Method {
	switch len(str) {
	case 3:
		if str == "GET" {
			return GET
		} else if str == "PUT" {
			return PUT
		}
	case 4:
		if str == "POST" {
			return POST
		} else if str == "HEAD" {
			return HEAD
		}
	case 6:
		if str == "DELETE" {
			return DELETE
		}
	case 7:
		if str == "OPTIONS" {
			return OPTIONS
		}
	}

	return Unknown
}

// Normalize upper-cases the token before parsing it, so "get" and "Get" are both GET.
func Normalize(str string) Method {
	return Parse(strings.ToUpper(str))
}

func (m Method) String() string {
	switch m {
	case GET:
		return "GET"
	case HEAD:
		return "HEAD"
	case POST:
		return "POST"
	case PUT:
		return "PUT"
	case DELETE:
		return "DELETE"
	case OPTIONS:
		return "OPTIONS"
	}

	return "Unknown"
}

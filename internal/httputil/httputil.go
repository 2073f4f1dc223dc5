// Package httputil provides HTTP method and status code helpers for
// walking OpenAPI path items and responses.
package httputil

import (
	"mime"
	"net/http"
	"slices"
	"strconv"
	"strings"
)

// Operation keys of a path item.
const (
	MethodGet     = "get"
	MethodPut     = "put"
	MethodPost    = "post"
	MethodDelete  = "delete"
	MethodOptions = "options"
	MethodHead    = "head"
	MethodPatch   = "patch"
	MethodTrace   = "trace"
)

// Methods lists the operation keys of a path item in rendering order.
var Methods = []string{
	MethodGet, MethodPut, MethodPost, MethodDelete,
	MethodOptions, MethodHead, MethodPatch, MethodTrace,
}

// IsMethod reports whether key names an operation of a path item.
// Matching is exact: "Get" and "getter" are not operations.
func IsMethod(key string) bool {
	return slices.Contains(Methods, key)
}

// ValidateStatusCode reports whether code is a valid responses key:
// "default", an "x-" extension, a 1XX-5XX wildcard, or 100-599.
func ValidateStatusCode(code string) bool {
	if code == "default" || strings.HasPrefix(code, "x-") {
		return true
	}
	if len(code) != 3 {
		return false
	}
	if code[1] == 'X' && code[2] == 'X' {
		return code[0] >= '1' && code[0] <= '5'
	}
	n, err := strconv.Atoi(code)
	return err == nil && code[0] != '+' && code[0] != '-' && n >= 100 && n <= 599
}

// StatusText returns a reason phrase for a responses key, used when a
// response carries no description. Unknown codes yield "".
func StatusText(code string) string {
	switch {
	case code == "default":
		return "Default response"
	case len(code) == 3 && code[1] == 'X' && code[2] == 'X':
		return code[:1] + "xx response"
	}
	n, err := strconv.Atoi(code)
	if err != nil {
		return ""
	}
	return http.StatusText(n)
}

// IsValidMediaType validates a media type per RFC 2045/2046, accepting
// "*/*" and "type/*" wildcards but not "*/subtype".
func IsValidMediaType(mediaType string) bool {
	if mediaType == "*/*" {
		return true
	}
	if strings.HasPrefix(mediaType, "*/") {
		return false
	}
	if main, ok := strings.CutSuffix(mediaType, "/*"); ok {
		return main != "" && main != "*" && !strings.Contains(main, "/")
	}
	_, _, err := mime.ParseMediaType(mediaType)
	return err == nil
}

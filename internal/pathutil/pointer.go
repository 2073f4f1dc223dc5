package pathutil

import (
	"fmt"
	"strings"
)

// RootPointer addresses the whole document.
const RootPointer = "#"

// Escape encodes a mapping key as a JSON Pointer reference token.
// Per RFC 6901, ~ becomes ~0 and / becomes ~1.
func Escape(token string) string {
	if !strings.ContainsAny(token, "~/") {
		return token
	}
	token = strings.ReplaceAll(token, "~", "~0")
	return strings.ReplaceAll(token, "/", "~1")
}

// Unescape decodes a JSON Pointer reference token.
// Per RFC 6901, ~1 represents / and ~0 represents ~.
func Unescape(token string) string {
	if !strings.Contains(token, "~") {
		return token
	}
	token = strings.ReplaceAll(token, "~1", "/")
	return strings.ReplaceAll(token, "~0", "~")
}

// SplitPointer splits a local pointer of the form "#/a/b" into its
// segments. "#" and "#/" yield no segments. When raw is false, each
// segment is unescaped. Pointers that do not start with "#" are rejected.
func SplitPointer(ptr string, raw bool) ([]string, error) {
	if !strings.HasPrefix(ptr, RootPointer) {
		return nil, fmt.Errorf("pathutil: pointer %q is not a local reference", ptr)
	}
	rest := ptr[len(RootPointer):]
	if rest == "" || rest == "/" {
		return nil, nil
	}
	if rest[0] != '/' {
		return nil, fmt.Errorf("pathutil: pointer %q must start with \"#/\"", ptr)
	}
	parts := strings.Split(rest[1:], "/")
	if !raw {
		for i, part := range parts {
			parts[i] = Unescape(part)
		}
	}
	return parts, nil
}

// IsRoot reports whether ptr addresses the whole document.
func IsRoot(ptr string) bool {
	return ptr == RootPointer || ptr == RootPointer+"/"
}

// IsWithin reports whether ptr equals base or addresses a location
// underneath it. "#/a/bc" is not within "#/a/b".
func IsWithin(ptr, base string) bool {
	if ptr == base {
		return true
	}
	return strings.HasPrefix(ptr, base) && len(ptr) > len(base) && ptr[len(base)] == '/'
}

// Rebase moves ptr from underneath base to underneath target, keeping the
// remainder. ptr must satisfy IsWithin(ptr, base).
//
//	Rebase("#/components/schemas/Foo/bar", "#/components/schemas/Foo", "#/x") == "#/x/bar"
func Rebase(ptr, base, target string) string {
	return target + ptr[len(base):]
}

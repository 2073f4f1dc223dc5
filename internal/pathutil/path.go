package pathutil

import "regexp"

// PathParamRegex matches path template parameters like {paramName}.
// It captures the parameter name inside the braces.
var PathParamRegex = regexp.MustCompile(`\{([^}]+)\}`)

// ExpandPath replaces each {name} in path with value(name).
func ExpandPath(path string, value func(name string) string) string {
	return PathParamRegex.ReplaceAllStringFunc(path, func(match string) string {
		return value(match[1 : len(match)-1])
	})
}

// Package oaserrors provides structured error types for openapi-gui.
//
// Import path: github.com/erraggy/openapi-gui/oaserrors
//
// # Error Types
//
//   - [ParseError]: YAML/JSON parsing failures
//   - [ReferenceError]: $ref resolution failures
//   - [ResourceLimitError]: pass cap and depth limits
//   - [ConfigError]: invalid options or inputs
//   - [StorageError]: schema and apidoc store failures
//
// # Sentinel Errors
//
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrReference]: Matches any [ReferenceError]
//   - [ErrReferenceNotFound]: Matches [ReferenceError] with IsMissing=true
//   - [ErrCircularReference]: Matches [ReferenceError] with IsCircular=true
//   - [ErrResourceLimit]: Matches any [ResourceLimitError]
//   - [ErrCycleDepthExceeded]: Matches [ResourceLimitError] for the dereference pass cap
//   - [ErrConfig]: Matches any [ConfigError]
//   - [ErrStorage]: Matches any [StorageError]
//   - [ErrNotFound]: Matches [StorageError] with IsNotFound=true
//
// # Usage Examples
//
//	var refErr *oaserrors.ReferenceError
//	for _, u := range result.Unresolved {
//	    if errors.As(u, &refErr) {
//	        fmt.Printf("unresolved %s at %s\n", refErr.Ref, refErr.Path)
//	    }
//	}
package oaserrors

// Package storage persists documents per module on the local file system
// and keeps a timestamped backup of every overwritten version.
//
// Layout below the store root:
//
//	<module>/<id>.json
//	<module>/.history/<id>.<20060102T150405.000000000>.json
//
// Identifiers combine a document name and version with [Identifier]. Module
// and identifier are single path segments; anything else is rejected with an
// [oaserrors.ConfigError] before the file system is touched.
package storage

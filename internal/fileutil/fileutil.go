// Package fileutil holds file mode constants shared by the writers.
package fileutil

import "os"

// ReadableByAll is the mode for stored schema and documentation files,
// which the HTTP server serves back to the browser.
const ReadableByAll os.FileMode = 0o644

// OwnerReadWrite is the mode for documents written back to a
// user-supplied definition file.
const OwnerReadWrite os.FileMode = 0o600

// DirMode is the mode for module and history directories.
const DirMode os.FileMode = 0o755

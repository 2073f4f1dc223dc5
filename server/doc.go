// Package server implements the HTTP backend of the browser editor.
//
// A [Session] holds the definition being edited; a [Server] exposes it
// together with two [storage.Store] instances, one for generated schemas
// and one for their rendered apidoc pages. Form posts follow the editor's
// protocol: multipart or urlencoded bodies, and a plain "OK" reply from
// /store and /generate whatever the outcome, with failures logged.
//
// Configuration comes from OPENAPI_GUI_* environment variables through
// [LoadConfig]:
//
//	OPENAPI_GUI_HOST, OPENAPI_GUI_PORT           listen address (localhost:3000)
//	OPENAPI_GUI_DEFINITION                       definition file to edit
//	OPENAPI_GUI_WRITE_BACK                       rewrite the file on every store
//	OPENAPI_GUI_SCHEMA_DIR, OPENAPI_GUI_DOC_DIR  store roots (schema, apidoc)
//	OPENAPI_GUI_STATIC_DIR                       editor files served at /
//	OPENAPI_GUI_API2HTML, OPENAPI_GUI_LOGO       external apidoc renderer
//	OPENAPI_GUI_SHUTDOWN_TIMEOUT                 graceful shutdown bound (5s)
package server

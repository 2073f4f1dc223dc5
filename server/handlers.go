package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	openapigui "github.com/erraggy/openapi-gui"
	"github.com/erraggy/openapi-gui/deref"
	"github.com/erraggy/openapi-gui/document"
	"github.com/erraggy/openapi-gui/normalize"
	"github.com/erraggy/openapi-gui/oaserrors"
	"github.com/erraggy/openapi-gui/render"
	"github.com/erraggy/openapi-gui/storage"
)

const (
	maxFormMemory = 32 << 20

	schemaPrefix = "/schema/"
	apidocPrefix = "/apidoc/"

	// DefaultModule and DefaultName apply to /generate when the form
	// leaves them out.
	DefaultModule = "global"
	DefaultName   = "default"
)

// parseForm accepts multipart and urlencoded bodies.
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(maxFormMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	return nil
}

func writeOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}

// handleStore replaces the session definition with the "source" field.
// The editor ignores the outcome, so failures are logged and the reply
// is always OK.
func (s *Server) handleStore(w http.ResponseWriter, r *http.Request) {
	defer writeOK(w)
	if err := parseForm(r); err != nil {
		s.logger().Warn("store: bad form", "error", err)
		return
	}
	doc, err := document.Parse([]byte(r.FormValue("source")), "source")
	if err != nil {
		s.logger().Warn("store: bad source", "error", err)
		return
	}
	if err := s.Session.Store(doc); err != nil {
		s.logger().Error("store: write back failed", "error", err)
	}
}

// schemaRef names a stored document.
type schemaRef struct {
	Module  string
	Name    string
	Version string
}

func (ref schemaRef) id() string {
	return storage.Identifier(ref.Name, ref.Version)
}

// formRef reads the module, name and version fields, or the JSON object
// in the "swdschema" field, applying the defaults.
func formRef(r *http.Request) (schemaRef, error) {
	ref := schemaRef{
		Module:  r.FormValue("module"),
		Name:    r.FormValue("name"),
		Version: r.FormValue("version"),
	}
	if raw := r.FormValue("swdschema"); raw != "" {
		n, err := document.Parse([]byte(raw), "swdschema")
		if err != nil {
			return ref, err
		}
		if !n.IsMapping() {
			return ref, &oaserrors.ConfigError{Option: "swdschema", Message: "must be an object"}
		}
		for key, dst := range map[string]*string{"module": &ref.Module, "name": &ref.Name, "version": &ref.Version} {
			if v, ok := n.Get(key); ok && v.Text() != "" {
				*dst = v.Text()
			}
		}
	}
	if ref.Module == "" {
		ref.Module = DefaultModule
	}
	if ref.Name == "" {
		ref.Name = DefaultName
	}
	return ref, nil
}

// handleGenerate stores the "schema" field in the schema store, makes it
// the session definition and renders its apidoc. Failures are logged and
// the reply is always OK.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	defer writeOK(w)
	if err := parseForm(r); err != nil {
		s.logger().Warn("generate: bad form", "error", err)
		return
	}
	doc, err := document.Parse([]byte(r.FormValue("schema")), "schema")
	if err != nil {
		s.logger().Warn("generate: bad schema", "error", err)
		return
	}
	ref, err := formRef(r)
	if err != nil {
		s.logger().Warn("generate: bad schema reference", "error", err)
		return
	}
	s.Session.SetDefinition(doc)

	entry, err := s.Schemas.SaveDocument(r.Context(), ref.Module, ref.id(), doc)
	if err != nil {
		s.logger().Error("generate: save schema failed", "module", ref.Module, "id", ref.id(), "error", err)
		return
	}
	if err := s.generateDoc(r.Context(), ref, doc); err != nil {
		s.logger().Error("generate: render apidoc failed", "module", ref.Module, "id", ref.id(), "error", err)
		return
	}
	s.logger().Info("schema generated", "path", entry.Path)
}

// generateDoc renders doc into the apidoc store under ref.
func (s *Server) generateDoc(ctx context.Context, ref schemaRef, doc *document.Node) error {
	var page []byte
	if s.API2HTML != nil {
		schemaPath, err := s.Schemas.FilePath(ref.Module, ref.id())
		if err != nil {
			return err
		}
		dir, err := os.MkdirTemp("", "openapi-gui-apidoc")
		if err != nil {
			return err
		}
		defer func() { _ = os.RemoveAll(dir) }()
		out := filepath.Join(dir, "index.html")
		if err := s.API2HTML.Run(ctx, schemaPath, s.Logo, out); err != nil {
			return err
		}
		if page, err = os.ReadFile(out); err != nil { //nolint:gosec // temp file created above
			return err
		}
	} else {
		md, err := s.markdown(doc)
		if err != nil {
			return err
		}
		opts := s.HTML
		opts.Inline = true
		html, err := render.HTML(md, opts)
		if err != nil {
			return err
		}
		page = []byte(html)
	}
	_, err := s.Docs.Save(ctx, ref.Module, ref.id(), page)
	return err
}

// handleServe returns the session definition prepared for the editor.
// A pointer query parameter narrows the response to one sub-document.
func (s *Server) handleServe(w http.ResponseWriter, r *http.Request) {
	doc := normalize.PreProcess(s.Session.Definition())
	if ptr := r.URL.Query().Get("pointer"); ptr != "" {
		sub, err := deref.Resolve(doc, ptr)
		if err != nil {
			s.fail(w, err)
			return
		}
		doc = sub
	}
	data, err := document.Encode(doc, document.FormatJSON)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

// markdown dereferences doc against its own components and renders it.
func (s *Server) markdown(doc *document.Node) (string, error) {
	d := deref.New()
	d.Logger = s.logger()
	result, err := d.Dereference(doc, nil)
	if err != nil {
		return "", err
	}
	return render.Markdown(normalize.PostProcess(result.Document), s.Render)
}

func (s *Server) handleMarkdown(w http.ResponseWriter, _ *http.Request) {
	md, err := s.markdown(s.Session.Definition())
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(md))
}

func (s *Server) handleShins(w http.ResponseWriter, _ *http.Request) {
	md, err := s.markdown(s.Session.Definition())
	if err != nil {
		s.fail(w, err)
		return
	}
	page, err := render.HTML(md, s.HTML)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}

// listing is one stored file as the editor lists it.
type listing struct {
	storage.Entry
	Name string `json:"name"`
	URL  string `json:"url"`
}

func fileURL(prefix string, store *storage.Store, module, id string) string {
	return prefix + url.PathEscape(module) + "/" + url.PathEscape(id+store.Ext)
}

// handleList returns the files of the "module" field as JSON.
func (s *Server) handleList(store *storage.Store, prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := parseForm(r); err != nil {
			s.fail(w, &oaserrors.ConfigError{Option: "form", Cause: err})
			return
		}
		module := r.FormValue("module")
		if module == "" {
			module = DefaultModule
		}
		entries, err := store.List(r.Context(), module)
		if err != nil {
			s.fail(w, err)
			return
		}
		out := make([]listing, 0, len(entries))
		for _, e := range entries {
			out = append(out, listing{Entry: e, Name: e.ID, URL: fileURL(prefix, store, e.Module, e.ID)})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}

// handleLocate returns the URL of the stored file named by the form.
func (s *Server) handleLocate(store *storage.Store, prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := parseForm(r); err != nil {
			s.fail(w, &oaserrors.ConfigError{Option: "form", Cause: err})
			return
		}
		ref, err := formRef(r)
		if err != nil {
			s.fail(w, err)
			return
		}
		path, err := store.FilePath(ref.Module, ref.id())
		if err != nil {
			s.fail(w, err)
			return
		}
		if _, err := os.Stat(path); err != nil {
			s.fail(w, &oaserrors.StorageError{Op: "locate", Module: ref.Module, ID: ref.id(), IsNotFound: errors.Is(err, os.ErrNotExist), Cause: err})
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(fileURL(prefix, store, ref.Module, ref.id())))
	}
}

// handleFile serves <module>/<id><ext> from store.
func (s *Server) handleFile(store *storage.Store, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := strings.CutSuffix(r.PathValue("file"), store.Ext)
		if !ok {
			http.NotFound(w, r)
			return
		}
		data, err := store.Fetch(r.Context(), r.PathValue("module"), id)
		if err != nil {
			s.fail(w, err)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(data)
	}
}

func handleStylesheet(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write(render.Stylesheet())
}

const placeholderPage = `<!doctype html>
<html><head><title>OpenAPI GUI</title></head>
<body><p>OpenAPI GUI %s. <a href="/shins">Documentation</a> &middot; <a href="/serve">Definition</a></p></body>
</html>
`

// staticHandler serves the editor files with the version header.
func (s *Server) staticHandler() http.Handler {
	var files http.Handler
	if s.StaticDir != "" {
		files = http.FileServer(http.Dir(s.StaticDir))
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(VersionHeader, openapigui.Version())
		if files != nil {
			files.ServeHTTP(w, r)
			return
		}
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprintf(w, placeholderPage, openapigui.Version())
	})
}

// fail maps err to a status code and logs it.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, oaserrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, oaserrors.ErrConfig), errors.Is(err, oaserrors.ErrParse):
		status = http.StatusBadRequest
	case errors.Is(err, oaserrors.ErrReference), errors.Is(err, oaserrors.ErrResourceLimit):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.logger().Error("request failed", "error", err)
	} else {
		s.logger().Warn("request rejected", "status", status, "error", err)
	}
	http.Error(w, err.Error(), status)
}

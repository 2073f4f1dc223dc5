package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"golang.org/x/sync/errgroup"

	openapigui "github.com/erraggy/openapi-gui"
	"github.com/erraggy/openapi-gui/oaslog"
	"github.com/erraggy/openapi-gui/render"
	"github.com/erraggy/openapi-gui/storage"
)

// VersionHeader carries the server version on static responses.
const VersionHeader = "X-OpenAPI-GUI"

// Server exposes the editor routes over HTTP.
type Server struct {
	Session *Session
	// Schemas stores generated schemas as JSON.
	Schemas *storage.Store
	// Docs stores rendered apidoc pages.
	Docs *storage.Store
	// StaticDir holds the browser editor. Empty serves a placeholder.
	StaticDir string
	// API2HTML renders stored apidocs when set; otherwise the built-in
	// HTML renderer is used.
	API2HTML *render.API2HTML
	// Logo is passed to API2HTML.
	Logo string

	Render render.Options
	HTML   render.HTMLOptions

	Logger          oaslog.Logger
	ShutdownTimeout time.Duration
}

// New builds a server from cfg. The session starts with cfg.Definition
// when set, or the sample petstore otherwise.
func New(cfg Config, logger oaslog.Logger) (*Server, error) {
	logger = oaslog.OrNop(logger)

	session := NewSession(nil, "", false, logger)
	if cfg.Definition != "" {
		var err error
		session, err = LoadSession(cfg.Definition, cfg.WriteBack, logger)
		if err != nil {
			return nil, err
		}
	}

	schemas, err := storage.NewStore(cfg.SchemaDir, ".json", storage.WithLogger(logger.With("store", "schema")))
	if err != nil {
		return nil, err
	}
	docs, err := storage.NewStore(cfg.DocDir, ".html", storage.WithLogger(logger.With("store", "apidoc")))
	if err != nil {
		return nil, err
	}

	s := &Server{
		Session:         session,
		Schemas:         schemas,
		Docs:            docs,
		StaticDir:       cfg.StaticDir,
		Logo:            cfg.Logo,
		Render:          render.DefaultOptions(),
		HTML:            render.DefaultHTMLOptions(),
		Logger:          logger,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}
	if cfg.API2HTML != "" {
		s.API2HTML = &render.API2HTML{Command: cfg.API2HTML, Logger: logger}
	}
	return s, nil
}

func (s *Server) logger() oaslog.Logger {
	return oaslog.OrNop(s.Logger)
}

// Handler returns the routes:
//
//	POST /store        replace the session definition
//	POST /generate     store a schema and its rendered apidoc
//	GET  /serve        session definition, prepared for editing
//	GET  /markdown     session definition as Markdown
//	GET  /shins        session definition as an HTML page
//	POST /swdschemas   list stored schemas of a module
//	POST /swdschema    URL of a stored schema
//	POST /swdapidocs   list stored apidocs of a module
//	POST /swdapidoc    URL of a stored apidoc
//	GET  /schema/...   stored schema files
//	GET  /apidoc/...   stored apidoc files
//	GET  /             the browser editor
//
// Responses are gzip-compressed for clients that accept it.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /store", s.handleStore)
	mux.HandleFunc("POST /generate", s.handleGenerate)
	mux.HandleFunc("GET /serve", s.handleServe)
	mux.HandleFunc("GET /markdown", s.handleMarkdown)
	mux.HandleFunc("GET /shins", s.handleShins)
	mux.HandleFunc("POST /swdschemas", s.handleList(s.Schemas, schemaPrefix))
	mux.HandleFunc("POST /swdschema", s.handleLocate(s.Schemas, schemaPrefix))
	mux.HandleFunc("POST /swdapidocs", s.handleList(s.Docs, apidocPrefix))
	mux.HandleFunc("POST /swdapidoc", s.handleLocate(s.Docs, apidocPrefix))
	mux.HandleFunc("GET "+schemaPrefix+"{module}/{file}", s.handleFile(s.Schemas, "application/json"))
	mux.HandleFunc("GET "+apidocPrefix+"{module}/{file}", s.handleFile(s.Docs, "text/html; charset=utf-8"))
	mux.HandleFunc("GET /css/screen.css", handleStylesheet)
	mux.Handle("GET /", s.staticHandler())
	return s.logRequests(gzhttp.GzipHandler(mux))
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
// ready, when not nil, is called with the bound address once the
// listener is open.
func (s *Server) Run(ctx context.Context, addr string, ready func(net.Addr)) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen: %w", err)
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	s.logger().Info("OpenAPI GUI server listening", "addr", ln.Addr().String(), "version", openapigui.Version())
	if ready != nil {
		ready(ln.Addr())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		timeout := s.ShutdownTimeout
		if timeout <= 0 {
			timeout = DefaultShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()
		s.logger().Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		w.Header().Set("Server", openapigui.UserAgent())
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger().Debug("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
	})
}

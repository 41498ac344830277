package site

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	perrors "github.com/matzehuels/mmcifsite/pkg/errors"
	"github.com/matzehuels/mmcifsite/pkg/observability"
)

// maxIncludeDepth bounds nested include expansion.
const maxIncludeDepth = 8

var includeDirective = regexp.MustCompile(`<!--#include virtual="([^"]+)"\s*-->`)

// Server previews a generated tree. HTML pages have their server-side
// include directives expanded; everything else is served as is.
type Server struct {
	roots    []string
	logger   *log.Logger
	gatherer prometheus.Gatherer
	router   chi.Router
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithAssets adds a directory searched after the document root, typically
// the one holding /includes and /assets.
func WithAssets(dir string) ServerOption {
	return func(s *Server) {
		if dir != "" {
			s.roots = append(s.roots, dir)
		}
	}
}

func WithServerLogger(l *log.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithGatherer serves g on /metrics. Without it the default registry is used.
func WithGatherer(g prometheus.Gatherer) ServerOption {
	return func(s *Server) { s.gatherer = g }
}

// NewServer returns a Server for the tree under docsPath.
func NewServer(docsPath string, opts ...ServerOption) *Server {
	s := &Server{
		roots:    []string{docsPath},
		logger:   log.Default(),
		gatherer: prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, s.observe)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Get("/*", s.serveFile)
	s.router = r
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is canceled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, time.Since(start))
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status,
			"bytes", ww.BytesWritten(), "elapsed", time.Since(start))
	})
}

// resolve maps a URL path to an existing file below one of the roots.
// Directories resolve to their index.html.
func (s *Server) resolve(urlPath string) (string, bool) {
	clean := path.Clean("/" + urlPath)
	for _, root := range s.roots {
		name := filepath.Join(root, filepath.FromSlash(clean))
		st, err := os.Stat(name)
		if err != nil {
			continue
		}
		if st.IsDir() {
			name = filepath.Join(name, "index.html")
			if _, err := os.Stat(name); err != nil {
				continue
			}
		}
		return name, true
	}
	return "", false
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request) {
	name, ok := s.resolve(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if !strings.HasSuffix(name, ".html") {
		http.ServeFile(w, r, name)
		return
	}
	data, err := os.ReadFile(name)
	if err != nil {
		code := perrors.ErrCodeInternal
		if errors.Is(err, fs.ErrNotExist) {
			code = perrors.ErrCodeFileNotFound
		}
		e := perrors.Wrap(code, err, "read %s", r.URL.Path)
		observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, e)
		http.Error(w, perrors.UserMessage(e), perrors.HTTPStatus(e))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(s.ExpandIncludes(string(data))))
}

// ExpandIncludes replaces include directives with the referenced files,
// recursively. Missing files leave a comment in place of the directive.
func (s *Server) ExpandIncludes(page string) string {
	return s.expand(page, 0)
}

func (s *Server) expand(page string, depth int) string {
	if depth >= maxIncludeDepth {
		return page
	}
	return includeDirective.ReplaceAllStringFunc(page, func(m string) string {
		virtual := includeDirective.FindStringSubmatch(m)[1]
		name, ok := s.resolve(virtual)
		if !ok {
			s.logger.Debug("include not found", "virtual", virtual)
			return fmt.Sprintf("<!-- include not found: %s -->", virtual)
		}
		data, err := os.ReadFile(name)
		if err != nil {
			s.logger.Warn("include unreadable", "virtual", virtual, "err", err)
			return fmt.Sprintf("<!-- include not readable: %s -->", virtual)
		}
		return s.expand(string(data), depth+1)
	})
}

// Package server exposes the dashboard over HTTP.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jellydator/ttlcache/v3"
	"github.com/jub0bs/fcors"

	"rent-dashboard/charts"
	"rent-dashboard/services"
	"rent-dashboard/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options tunes chart rendering and caching.
type Options struct {
	ChartSize     charts.Size
	ChartCacheTTL time.Duration
	// MaxTableRows caps the rows rendered in the HTML table; the CSV
	// download always carries the full filtered set.
	MaxTableRows int
}

// Server serves the dashboard page, the JSON API and rendered charts.
type Server struct {
	dash    *services.Dashboard
	opts    Options
	cache   *ttlcache.Cache[string, []byte]
	tmpl    *template.Template
	logger  *utils.Logger
	handler http.Handler
}

// New wires routes and middleware around dash.
func New(dash *services.Dashboard, opts Options, logger *utils.Logger) (*Server, error) {
	if opts.ChartSize.Width <= 0 || opts.ChartSize.Height <= 0 {
		opts.ChartSize = charts.Size{Width: 900, Height: 480}
	}
	if opts.ChartCacheTTL <= 0 {
		opts.ChartCacheTTL = 5 * time.Minute
	}
	if opts.MaxTableRows <= 0 {
		opts.MaxTableRows = 500
	}

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("server: parse templates: %w", err)
	}

	cors, err := fcors.AllowAccess(fcors.FromAnyOrigin())
	if err != nil {
		return nil, fmt.Errorf("server: cors: %w", err)
	}

	s := &Server{
		dash: dash,
		opts: opts,
		cache: ttlcache.New[string, []byte](
			ttlcache.WithTTL[string, []byte](opts.ChartCacheTTL),
			ttlcache.WithCapacity[string, []byte](512),
		),
		tmpl:   tmpl,
		logger: logger,
	}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/bounds", s.handleBounds).Methods(http.MethodGet)
	api.HandleFunc("/aggregates/{field}", s.handleAggregate).Methods(http.MethodGet)
	api.HandleFunc("/listings", s.handleListings).Methods(http.MethodGet)
	api.HandleFunc("/listings.csv", s.handleListingsCSV).Methods(http.MethodGet)
	api.HandleFunc("/view", s.handleView).Methods(http.MethodGet)

	r.HandleFunc("/charts/{name:[a-z-]+}.{ext:png|svg}", s.handleChart).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	s.handler = s.withRequestLog(cors(r))
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[http] Listening on %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("[http] Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

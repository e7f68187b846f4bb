// Package httpserver wires the distribution API onto its listeners.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/space-cow-boy/certificate-distribution-platform/internal/certificate"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/config"
	derrors "github.com/space-cow-boy/certificate-distribution-platform/internal/errors"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/events"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/issuance"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/landing"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/metrics"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/roster"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/server/handlers"
	smw "github.com/space-cow-boy/certificate-distribution-platform/internal/server/middleware"
)

// Options carries the collaborators the server hands to its handlers.
type Options struct {
	Roster    *roster.Roster
	Generator *certificate.Generator
	Issuance  *issuance.Log
	Publisher events.Publisher
	Recorder  metrics.Recorder
	// PrometheusHandler, when set, is mounted at /metrics on the admin listener.
	PrometheusHandler http.Handler
	// Landing is the pre-rendered landing page; nil falls back to the built-in one.
	Landing *landing.Page
}

// Server manages the public and admin HTTP listeners.
type Server struct {
	cfg  *config.Config
	opts Options

	publicServer *http.Server
	adminServer  *http.Server

	monitoringHandlers  *handlers.MonitoringHandlers
	certificateHandlers *handlers.CertificateHandlers

	// middleware chain
	mchain func(http.Handler) http.Handler
}

// New constructs a new HTTP server wiring instance.
func New(cfg *config.Config, opts Options) *Server {
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Landing == nil {
		page, err := landing.Load(cfg.Paths.TemplatesDir, "certdist")
		if err != nil {
			slog.Warn("landing page render failed, using fallback", "error", err)
			page, _ = landing.Load("", "certdist")
		}
		opts.Landing = page
	}

	s := &Server{cfg: cfg, opts: opts}

	startTime := time.Now()
	s.monitoringHandlers = handlers.NewMonitoringHandlers(cfg, opts.Roster, opts.Generator, opts.Issuance, opts.Landing, startTime)
	s.certificateHandlers = handlers.NewCertificateHandlers(opts.Roster, opts.Generator, opts.Issuance, opts.Publisher, opts.Recorder, cfg.Server.AdminKey)

	s.mchain = smw.Chain(slog.Default(), derrors.NewHTTPErrorAdapter(slog.Default()), opts.Recorder, cfg.Server.CORSAllowOrigins)

	return s
}

// Start binds and starts the public listener and, when configured, the admin
// listener.
//
// All required ports are pre-bound so startup fails fast with an aggregate
// error instead of logging independent 'address already in use' lines after
// partial initialization.
func (s *Server) Start(ctx context.Context) error {
	type preBind struct {
		name string
		addr string
		ln   net.Listener
	}
	binds := []preBind{
		{name: "public", addr: s.cfg.Server.Listen},
	}
	if s.cfg.Server.AdminListen != "" {
		binds = append(binds, preBind{name: "admin", addr: s.cfg.Server.AdminListen})
	}

	var bindErrs []error
	lc := net.ListenConfig{}
	for i := range binds {
		ln, err := lc.Listen(ctx, "tcp", binds[i].addr)
		if err != nil {
			bindErrs = append(bindErrs, fmt.Errorf("%s listener %s: %w", binds[i].name, binds[i].addr, err))
			continue
		}
		binds[i].ln = ln
	}
	if len(bindErrs) > 0 {
		for _, b := range binds {
			if b.ln != nil {
				_ = b.ln.Close()
			}
		}
		return fmt.Errorf("http startup failed: %w", errors.Join(bindErrs...))
	}

	if err := s.startPublicServerWithListener(binds[0].ln); err != nil {
		return fmt.Errorf("failed to start public server: %w", err)
	}
	if s.cfg.Server.AdminListen != "" {
		if err := s.startAdminServerWithListener(binds[1].ln); err != nil {
			return fmt.Errorf("failed to start admin server: %w", err)
		}
		slog.Info("HTTP servers started",
			slog.String("listen", s.cfg.Server.Listen),
			slog.String("admin_listen", s.cfg.Server.AdminListen))
	} else {
		slog.Info("HTTP server started", slog.String("listen", s.cfg.Server.Listen))
	}
	return nil
}

// Stop gracefully shuts down all HTTP servers.
func (s *Server) Stop(ctx context.Context) error {
	var errs []error

	if s.adminServer != nil {
		if err := s.adminServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("admin server shutdown: %w", err))
		}
	}
	if s.publicServer != nil {
		if err := s.publicServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("public server shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}

	slog.Info("HTTP servers stopped")
	return nil
}

func (s *Server) startPublicServerWithListener(ln net.Listener) error {
	s.publicServer = &http.Server{
		Handler:      s.mchain(s.PublicMux()),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s.startServerWithListener("public", s.publicServer, ln)
}

func (s *Server) startAdminServerWithListener(ln net.Listener) error {
	s.adminServer = &http.Server{
		Handler:      s.mchain(s.AdminMux()),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s.startServerWithListener("admin", s.adminServer, ln)
}

// PublicMux builds the public endpoint routing.
func (s *Server) PublicMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.monitoringHandlers.HandleRoot)
	mux.HandleFunc("/health", s.monitoringHandlers.HandleHealthCheck)
	mux.HandleFunc("/healthz", s.monitoringHandlers.HandleHealthCheck) // Kubernetes-style alias

	mux.HandleFunc("/verify", s.certificateHandlers.HandleVerify)
	mux.HandleFunc("/certificate", s.certificateHandlers.HandleCertificate)
	mux.HandleFunc("/generate-all", s.certificateHandlers.HandleGenerateAll)

	mux.HandleFunc("/verify-management", s.certificateHandlers.HandleVerifyManagement)
	mux.HandleFunc("/certificate-management", s.certificateHandlers.HandleCertificateManagement)
	mux.HandleFunc("/generate-all-management", s.certificateHandlers.HandleGenerateAllManagement)

	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(s.cfg.Paths.TemplatesDir))))
	mux.Handle("/dist/", http.StripPrefix("/dist/", http.FileServer(http.Dir(s.cfg.Paths.PublishDir))))

	return mux
}

// AdminMux builds the admin endpoint routing.
func (s *Server) AdminMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.monitoringHandlers.HandleHealthCheck)
	mux.HandleFunc("/status", s.monitoringHandlers.HandleStatus)
	if s.opts.PrometheusHandler != nil {
		mux.Handle("/metrics", s.opts.PrometheusHandler)
	}

	return mux
}

// startServerWithListener launches an http.Server on a pre-bound listener or binds itself.
// It standardizes goroutine startup and error logging across server types.
func (s *Server) startServerWithListener(kind string, srv *http.Server, ln net.Listener) error {
	go func() {
		var err error
		if ln != nil {
			err = srv.Serve(ln)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			slog.Error(fmt.Sprintf("%s server error", kind), "error", err)
		}
	}()
	return nil
}

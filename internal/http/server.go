package http

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/MDTrapaglia/status-page/internal/device"
	"github.com/MDTrapaglia/status-page/internal/history"
	"github.com/MDTrapaglia/status-page/internal/market"
)

// Seeder triggers the one-off synchronous sample on a cold start.
type Seeder interface {
	SeedIfEmpty()
}

type PriceSource interface {
	Fetch(ctx context.Context) ([]market.Row, error)
}

type DeviceSource interface {
	Fetch(ctx context.Context) (device.Status, error)
}

type SessionSource interface {
	Totals() (device.Totals, bool)
}

type Options struct {
	Port int
	// MaxPoints caps the downsampled full-history payload.
	MaxPoints int
	Store     *history.Store
	Seeder    Seeder
	Prices    PriceSource
	Device    DeviceSource
	Session   SessionSource
	Log       logrus.FieldLogger
}

type Server struct {
	port      int
	maxPoints int
	r         *chi.Mux
	store     *history.Store
	seeder    Seeder
	prices    PriceSource
	device    DeviceSource
	session   SessionSource
	log       logrus.FieldLogger
}

func New(opts Options) *Server {
	s := &Server{
		port:      opts.Port,
		maxPoints: opts.MaxPoints,
		r:         chi.NewRouter(),
		store:     opts.Store,
		seeder:    opts.Seeder,
		prices:    opts.Prices,
		device:    opts.Device,
		session:   opts.Session,
		log:       opts.Log,
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	s.r.Use(middleware.RequestID)
	s.r.Use(middleware.RealIP)
	s.r.Use(newRequestLogger(s.log, "/api/dashboard", "/api/metrics/recent", "/healthz"))
	s.r.Use(middleware.Recoverer)
	s.r.Use(middleware.Timeout(60 * time.Second))
	s.addRoutes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.r }

// Serve listens in the background and blocks until the process receives an
// interrupt or termination signal.
func (s *Server) Serve() {
	go func() {
		addr := fmt.Sprintf(":%d", s.port)
		s.log.WithField("addr", addr).Info("listening")
		if err := http.ListenAndServe(addr, s.r); err != nil {
			s.log.WithError(err).Fatal("http server stopped")
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}

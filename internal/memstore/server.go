package memstore

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type ServerConfig struct {
	Addr     string
	SeedPath string
}

type Server struct {
	cfg    ServerConfig
	store  *Store
	logger *zap.Logger
}

// NewServer builds a store from cfg.SeedPath (if any) and creates the seed users.
func NewServer(cfg ServerConfig, logger *zap.Logger) (*Server, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("memstore: missing addr")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	var opts []StoreOption
	var users []string
	if p := strings.TrimSpace(cfg.SeedPath); p != "" {
		seed, err := LoadSeed(p)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithTemplate(seed.Template))
		users = seed.Users
	}
	s := New(opts...)
	for _, u := range users {
		if _, err := s.CreateUser(u); err != nil {
			return nil, err
		}
	}
	return &Server{cfg: cfg, store: s, logger: logger}, nil
}

func (s *Server) Store() *Store { return s.store }

func (s *Server) Handler() http.Handler { return NewRouter(s.store, s.logger) }

// Serve accepts on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("task store listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		s.logger.Info("task store stopped")
		return nil
	})
	return g.Wait()
}

// Addr returns the configured bind address.
func (s *Server) Addr() string { return strings.TrimSpace(s.cfg.Addr) }

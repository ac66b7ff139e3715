package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"gotwitter/internal/config"
)

const (
	healthInterval  = 15 * time.Second
	shutdownTimeout = 30 * time.Second
)

type Server struct {
	cfg    *config.Config
	http   *http.Server
	grpc   *grpc.Server
	health *health.Server
	check  Checker
}

func New(cfg *config.Config, handler http.Handler, check Checker) *Server {
	hs := health.NewServer()
	gs := grpc.NewServer(grpc.UnaryInterceptor(loggingUnaryInterceptor))
	healthpb.RegisterHealthServer(gs, hs)
	reflection.Register(gs)

	return &Server{
		cfg: cfg,
		http: &http.Server{
			Addr:           fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
			Handler:        handler,
			ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
			WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
			MaxHeaderBytes: 1 << 20,
		},
		grpc:   gs,
		health: hs,
		check:  check,
	}
}

// Run serves HTTP and gRPC health until ctx is cancelled or either listener
// fails, then shuts both down.
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", ":"+s.cfg.Server.GRPCHealthPort)
	if err != nil {
		return fmt.Errorf("failed to listen on port %s: %w", s.cfg.Server.GRPCHealthPort, err)
	}

	errs := make(chan error, 2)
	go func() {
		log.Infof("gRPC health listening on %s", lis.Addr())
		errs <- s.grpc.Serve(lis)
	}()
	go func() {
		log.Infof("HTTP API listening on %s", s.http.Addr)
		if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go s.watch(watchCtx)

	select {
	case <-ctx.Done():
	case err = <-errs:
		log.WithError(err).Error("listener stopped")
	}

	s.health.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if serr := s.http.Shutdown(shutdownCtx); serr != nil {
		log.WithError(serr).Warn("HTTP server forced to shut down")
	}
	s.grpc.GracefulStop()
	return err
}

func (s *Server) watch(ctx context.Context) {
	ticker := time.NewTicker(healthInterval)
	defer ticker.Stop()
	for {
		refresh(ctx, s.health, s.check)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// refresh sets the overall serving status from one check.
func refresh(ctx context.Context, hs *health.Server, check Checker) {
	status := healthpb.HealthCheckResponse_SERVING
	if check != nil {
		checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := check(checkCtx); err != nil {
			log.WithError(err).Warn("health check failed")
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	hs.SetServingStatus("", status)
}

func loggingUnaryInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	entry := log.WithFields(log.Fields{"method": info.FullMethod, "duration": time.Since(start).String()})
	if err != nil {
		entry.WithError(err).Warn("gRPC call failed")
	} else {
		entry.Debug("gRPC call completed")
	}
	return resp, err
}

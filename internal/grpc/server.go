package grpcserver

import (
	"context"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health-checked service. The empty name reports the
// same status for callers that probe the whole server.
const ServiceName = "sweetshop"

const probeInterval = 10 * time.Second

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server is a gRPC listener serving grpc.health.v1.Health.
type Server struct {
	srv    *grpc.Server
	health *health.Server
	lis    net.Listener
	probe  Pinger
	log    *zap.Logger

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// StartGRPC listens on addr and serves health checks until Shutdown. With a
// probe the status follows the probe's result; without one it stays SERVING.
func StartGRPC(addr string, probe Pinger, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if addr == "" {
		addr = ":50051"
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	s := &Server{
		srv:    grpc.NewServer(),
		health: health.NewServer(),
		lis:    lis,
		probe:  probe,
		log:    log,
		stop:   make(chan struct{}),
	}
	healthpb.RegisterHealthServer(s.srv, s.health)
	reflection.Register(s.srv)

	s.check()
	if probe != nil {
		s.wg.Add(1)
		go s.watch()
	}
	go func() {
		if err := s.srv.Serve(lis); err != nil {
			log.Error("grpc serve", zap.Error(err))
		}
	}()
	return s, nil
}

func (s *Server) Addr() net.Addr { return s.lis.Addr() }

func (s *Server) watch() {
	defer s.wg.Done()
	t := time.NewTicker(probeInterval)
	defer t.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-t.C:
			s.check()
		}
	}
}

func (s *Server) check() {
	status := healthpb.HealthCheckResponse_SERVING
	if s.probe != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := s.probe.PingContext(ctx)
		cancel()
		if err != nil {
			s.log.Warn("health probe failed", zap.Error(err))
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Shutdown marks every service NOT_SERVING and stops gracefully, falling
// back to a hard stop when ctx expires first.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.stop) })
	s.wg.Wait()
	s.health.Shutdown()

	done := make(chan struct{})
	go func() { s.srv.GracefulStop(); close(done) }()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.srv.Stop()
		return ctx.Err()
	}
}

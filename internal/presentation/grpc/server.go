package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"runtime/debug"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/sanjanarawald/CreditApprovalSystem/pkg/auth"
	"github.com/sanjanarawald/CreditApprovalSystem/pkg/tlsutil"
)

// ServerConfig configures the gRPC server.
type ServerConfig struct {
	Handler *CreditHandler
	Logger  *slog.Logger

	// JWT enables bearer-token auth when set. Health checks stay open and
	// writes need one of auth.WriterRoles.
	JWT *auth.JWTService
	// TLS is enabled when both files are set.
	CertFile, KeyFile string
	Reflection        bool
	// ServiceName is reported by the health service.
	ServiceName string
}

// Server wraps a gRPC server with the credit handler registered.
type Server struct {
	gs     *grpc.Server
	health *health.Server
	logger *slog.Logger
}

// NewServer creates and configures the gRPC server.
func NewServer(cfg ServerConfig) (*Server, error) {
	interceptors := []grpc.UnaryServerInterceptor{
		loggingInterceptor(cfg.Logger),
		recoveryInterceptor(cfg.Logger),
	}
	if cfg.JWT != nil {
		interceptors = append(interceptors,
			auth.UnaryAuthInterceptor(cfg.JWT, []string{
				"/grpc.health.v1.Health/Check",
				"/grpc.health.v1.Health/Watch",
			}),
			auth.RequireRole([]string{MethodRegisterCustomer, MethodCreateLoan}, auth.WriterRoles...),
		)
	}

	opts := []grpc.ServerOption{grpc.ChainUnaryInterceptor(interceptors...)}

	if cfg.CertFile != "" && cfg.KeyFile != "" {
		creds, err := tlsutil.ServerCredentials(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("grpc tls: %w", err)
		}
		opts = append(opts, grpc.Creds(creds))
		cfg.Logger.Info("gRPC TLS enabled", "cert", cfg.CertFile)
	} else {
		cfg.Logger.Info("gRPC TLS not configured, running without TLS")
	}

	gs := grpc.NewServer(opts...)

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(gs, healthSrv)
	healthSrv.SetServingStatus(cfg.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthSrv.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)

	if cfg.Reflection {
		reflection.Register(gs)
	}

	RegisterCreditServiceServer(gs, cfg.Handler)

	return &Server{gs: gs, health: healthSrv, logger: cfg.Logger}, nil
}

// Serve starts the gRPC server on the specified address.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	s.logger.Info("gRPC server listening", "addr", addr)
	return s.ServeListener(lis)
}

// ServeListener serves on an existing listener.
func (s *Server) ServeListener(lis net.Listener) error {
	return s.gs.Serve(lis)
}

// GracefulStop marks the service as not serving and drains in-flight calls.
func (s *Server) GracefulStop() {
	s.logger.Info("gRPC server shutting down")
	s.health.Shutdown()
	s.gs.GracefulStop()
}

func loggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		level := slog.LevelInfo
		if err != nil {
			level = slog.LevelWarn
		}
		logger.Log(ctx, level, "grpc request",
			"method", info.FullMethod,
			"code", code.String(),
			"latency_ms", time.Since(start).Milliseconds(),
		)
		return resp, err
	}
}

// recoveryInterceptor turns a handler panic into codes.Internal so one bad
// call cannot take the process down.
func recoveryInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.ErrorContext(ctx, "grpc handler panic",
					"method", info.FullMethod,
					"panic", fmt.Sprint(r),
					"stack", string(debug.Stack()),
				)
				resp, err = nil, status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}

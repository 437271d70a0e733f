package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/bootstrap"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/infrastructure/config"
	grpcPresentation "github.com/sanjanarawald/CreditApprovalSystem/internal/presentation/grpc"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/presentation/rest"
	"github.com/sanjanarawald/CreditApprovalSystem/pkg/observability"
	"github.com/sanjanarawald/CreditApprovalSystem/pkg/tlsutil"
)

func main() {
	if err := run(); err != nil {
		slog.Error("credit-service failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.ServiceName,
	})
	logger.Info("starting credit-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"timezone", cfg.Timezone,
	)

	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		Insecure:    cfg.Telemetry.OTLPInsecure,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() { _ = shutdownTracer(context.Background()) }() //nolint:errcheck // best-effort tracer shutdown
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: cfg.ServiceName})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck // best-effort meter shutdown

	startCtx, startCancel := context.WithTimeout(ctx, 30*time.Second)
	app, err := bootstrap.New(startCtx, cfg, logger, bootstrap.Options{})
	startCancel()
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("close backends", "error", err)
		}
	}()

	jwtSvc, err := bootstrap.NewJWT(cfg.Auth)
	if err != nil {
		return err
	}
	if jwtSvc == nil {
		logger.Warn("authentication disabled")
	}

	// gRPC server.
	grpcServer, err := grpcPresentation.NewServer(grpcPresentation.ServerConfig{
		Handler:     grpcPresentation.NewCreditHandler(app.API, logger),
		Logger:      logger,
		JWT:         jwtSvc,
		CertFile:    cfg.TLS.CertFile,
		KeyFile:     cfg.TLS.KeyFile,
		Reflection:  cfg.GRPCReflection,
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		return err
	}

	// HTTP server.
	if !strings.EqualFold(cfg.Log.Level, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}
	router := rest.NewRouter(rest.RouterConfig{
		Handler:     rest.NewHandler(app.API, logger),
		Logger:      logger,
		JWT:         jwtSvc,
		Metrics:     metricsHandler,
		Ready:       app,
		ServiceName: cfg.ServiceName,
	})
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if cfg.TLS.CertFile != "" {
		tlsCfg, err := tlsutil.ServerConfig(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		if err != nil {
			return fmt.Errorf("http tls: %w", err)
		}
		httpServer.TLSConfig = tlsCfg
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "addr", httpServer.Addr, "tls", httpServer.TLSConfig != nil)
		var err error
		if httpServer.TLSConfig != nil {
			err = httpServer.ListenAndServeTLS("", "")
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for shutdown signal.
	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr = <-errCh:
		logger.Error("server error", "error", serveErr)
	}

	// Graceful shutdown.
	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("credit-service stopped")
	return serveErr
}

// Package bootstrap wires configuration into repositories, adapters and use
// cases. creditd and creditctl share it.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/application/usecase"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/port"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/service"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/infrastructure/adapter"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/infrastructure/cache"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/infrastructure/config"
	infrakafka "github.com/sanjanarawald/CreditApprovalSystem/internal/infrastructure/kafka"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/infrastructure/persistence/postgres"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/infrastructure/spreadsheet"
	"github.com/sanjanarawald/CreditApprovalSystem/pkg/auth"
	pkgkafka "github.com/sanjanarawald/CreditApprovalSystem/pkg/kafka"
	pkgpg "github.com/sanjanarawald/CreditApprovalSystem/pkg/postgres"
)

// Options tweak what New builds.
type Options struct {
	// Clock overrides the configured wall clock.
	Clock port.Clock
	// SkipMigrations leaves the schema alone even when auto_migrate is set.
	SkipMigrations bool
}

// App holds the wired dependencies of the credit service.
type App struct {
	Config config.Config
	Logger *slog.Logger
	Pool   *pgxpool.Pool
	Clock  port.Clock

	Publisher port.EventPublisher
	Cache     port.ScoreCache

	// API is what the REST and gRPC layers serve.
	API       usecase.Set
	Ingest    *usecase.IngestDataUseCase
	Recompute *usecase.RecomputeDebtUseCase

	redis   redis.UniversalClient
	closers []func() error
}

// New connects to the configured backends and builds every use case. The
// caller owns the returned App and must Close it.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, opts Options) (_ *App, err error) {
	app := &App{Config: cfg, Logger: logger, Clock: opts.Clock}
	defer func() {
		if err != nil {
			_ = app.Close()
		}
	}()

	if app.Clock == nil {
		loc, err := cfg.Location()
		if err != nil {
			return nil, err
		}
		app.Clock = adapter.NewSystemClock(loc)
	}

	pgCfg := cfg.Postgres()
	pool, err := pkgpg.NewPool(ctx, pgCfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	app.Pool = pool
	app.closers = append(app.closers, func() error { pool.Close(); return nil })
	logger.Info("connected to database", "host", cfg.DB.Host, "name", cfg.DB.Name)

	if cfg.DB.AutoMigrate && !opts.SkipMigrations {
		if err := pkgpg.RunMigrations(pgCfg.DSN(), cfg.DB.MigrationsPath); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("database migrations applied", "source", cfg.DB.MigrationsPath)
	}

	if err := app.connectPublisher(); err != nil {
		return nil, err
	}
	if err := app.connectCache(ctx); err != nil {
		return nil, err
	}

	app.buildUseCases()
	return app, nil
}

func (a *App) connectPublisher() error {
	if !a.Config.Kafka.Enabled {
		a.Publisher = infrakafka.NewLogPublisher(a.Logger)
		a.Logger.Info("kafka disabled, events are logged only")
		return nil
	}

	producer, err := pkgkafka.NewProducer(a.Config.Kafka.Client())
	if err != nil {
		return fmt.Errorf("kafka producer: %w", err)
	}
	a.closers = append(a.closers, producer.Close)
	a.Publisher = infrakafka.NewEventPublisher(producer, a.Config.Kafka.Topic, a.Logger)
	a.Logger.Info("publishing events to kafka", "brokers", a.Config.Kafka.Brokers, "topic", a.Config.Kafka.Topic)
	return nil
}

func (a *App) connectCache(ctx context.Context) error {
	if !a.Config.Redis.Enabled {
		a.Cache = cache.NoopScoreCache{}
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     a.Config.Redis.Addr,
		Password: a.Config.Redis.Password,
		DB:       a.Config.Redis.DB,
	})
	a.closers = append(a.closers, client.Close)
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("connect redis %s: %w", a.Config.Redis.Addr, err)
	}

	a.redis = client
	a.Cache = cache.NewRedisScoreCache(client, a.Config.Redis.ScoreTTL)
	a.Logger.Info("score cache enabled", "addr", a.Config.Redis.Addr, "ttl", a.Config.Redis.ScoreTTL)
	return nil
}

func (a *App) buildUseCases() {
	customers := postgres.NewCustomerRepo(a.Pool)
	loans := postgres.NewLoanRepo(a.Pool)
	transactor := postgres.NewTransactor(a.Pool)
	engine := service.NewUnderwritingEngine()

	a.API = usecase.Set{
		RegisterCustomer: usecase.NewRegisterCustomerUseCase(customers, a.Publisher, a.Logger),
		CheckEligibility: usecase.NewCheckEligibilityUseCase(customers, loans, a.Cache, engine, a.Clock, a.Logger),
		CreateLoan:       usecase.NewCreateLoanUseCase(customers, loans, transactor, a.Cache, a.Publisher, engine, a.Clock, a.Logger),
		ViewLoan:         usecase.NewViewLoanUseCase(loans, customers),
		ViewLoans:        usecase.NewViewLoansUseCase(loans, customers),
		ScoreCustomer:    usecase.NewScoreCustomerUseCase(customers, loans, a.Cache, engine, a.Clock, a.Logger),
	}
	a.Recompute = usecase.NewRecomputeDebtUseCase(customers, loans, a.Cache, a.Publisher, a.Clock, a.Logger)
	a.Ingest = usecase.NewIngestDataUseCase(spreadsheet.NewExcelReader(), customers, loans, a.Recompute, a.Logger)
}

// Ping checks the database and, when enabled, the cache.
func (a *App) Ping(ctx context.Context) error {
	if err := pkgpg.HealthCheck(ctx, a.Pool); err != nil {
		return err
	}
	if a.redis != nil {
		if err := a.redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: health check: %w", err)
		}
	}
	return nil
}

// Close releases every backend connection in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// NewJWT builds the token validator, or returns nil when auth is off.
func NewJWT(cfg config.AuthConfig) (*auth.JWTService, error) {
	if !cfg.Required {
		return nil, nil
	}
	svc, err := auth.NewJWTServiceFromFiles(cfg.PublicKeyPath, cfg.JWTSecret, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}
	return svc, nil
}

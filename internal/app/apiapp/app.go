package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/config"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/domain/enums"
	"github.com/ideaSquared/adopt-dont-shop-moderation/internal/infra/notify"
	s3infra "github.com/ideaSquared/adopt-dont-shop-moderation/internal/infra/s3"
	expiryjob "github.com/ideaSquared/adopt-dont-shop-moderation/internal/jobs/expiry"
	pgrepo "github.com/ideaSquared/adopt-dont-shop-moderation/internal/repo/postgres"
	redrepo "github.com/ideaSquared/adopt-dont-shop-moderation/internal/repo/redis"
	actionsvc "github.com/ideaSquared/adopt-dont-shop-moderation/internal/services/actions"
	auditsvc "github.com/ideaSquared/adopt-dont-shop-moderation/internal/services/audit"
	casesvc "github.com/ideaSquared/adopt-dont-shop-moderation/internal/services/cases"
	reportsvc "github.com/ideaSquared/adopt-dont-shop-moderation/internal/services/reports"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
	sweeper    *expiryjob.Sweeper
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
	} else {
		s3Client = c
	}

	reportRepo := pgrepo.NewReportRepo(pool)
	actionRepo := pgrepo.NewActionRepo(pool)
	auditRepo := pgrepo.NewAuditRepo(pool)
	metricsRepo := pgrepo.NewMetricsRepo(pool)
	metricsCache := redrepo.NewMetricsCacheRepo(redisClient)

	severity := enums.Severity(cfg.Moderation.DefaultSeverity)
	if severity != "" && !severity.Valid() {
		return nil, fmt.Errorf("invalid default severity %q", cfg.Moderation.DefaultSeverity)
	}

	reportService := reportsvc.NewService(reportRepo, reportsvc.Config{
		DefaultSeverity: severity,
		OverdueAfter:    cfg.Moderation.OverdueAfter,
		EvidenceURLTTL:  cfg.Moderation.EvidenceURLTTL,
	}, log)
	if s3Client != nil {
		evidence := s3infra.NewEvidenceStore(s3Client, cfg.S3.Bucket)
		if err := evidence.EnsureBucket(ctx); err != nil {
			log.Warn("s3 bucket ensure failed, continuing in degraded mode", zap.Error(err))
		}
		reportService.AttachSigner(evidence)
	}

	var notifier actionsvc.Notifier
	if cfg.Notify.WebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.Notify.WebhookURL, cfg.Notify.Timeout, log)
	}
	actionService := actionsvc.NewService(actionRepo, notifier, log)

	auditRecorder := auditsvc.NewRecorder(auditRepo, log)

	caseService := casesvc.NewService(reportService, actionService, auditRecorder, casesvc.Config{
		MaxBulkSize:     cfg.Moderation.MaxBulkSize,
		MetricsCacheTTL: cfg.Moderation.MetricsCacheTTL,
	}, log)
	caseService.AttachMetrics(metricsRepo, metricsCache)

	var sweeper *expiryjob.Sweeper
	if cfg.Moderation.ExpirySweepInterval > 0 {
		sweeper = expiryjob.NewSweeper(caseService, cfg.Moderation.ExpirySweepInterval, log)
	}

	RegisterRoutes(r, Dependencies{
		CaseService: caseService,
		Logger:      log,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
		sweeper:    sweeper,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	if a.sweeper != nil {
		a.sweeper.Start()
	}
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if a.sweeper != nil {
		a.sweeper.Stop()
	}
	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}

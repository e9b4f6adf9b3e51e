package bootstrap

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/baechuer/job-portal/internal/application/auth"
	"github.com/baechuer/job-portal/internal/application/jobs"
	"github.com/baechuer/job-portal/internal/audit"
	"github.com/baechuer/job-portal/internal/config"
	"github.com/baechuer/job-portal/internal/domain"
	"github.com/baechuer/job-portal/internal/infrastructure/db/postgres"
	"github.com/baechuer/job-portal/internal/infrastructure/memory"
	rabbitmq_pub "github.com/baechuer/job-portal/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/job-portal/internal/infrastructure/redis"
	"github.com/baechuer/job-portal/internal/infrastructure/security"
	"github.com/baechuer/job-portal/internal/infrastructure/storage"
	"github.com/baechuer/job-portal/internal/logger"
	http_handlers "github.com/baechuer/job-portal/internal/transport/http/handlers"
	"github.com/baechuer/job-portal/internal/transport/http/middleware"
	"github.com/baechuer/job-portal/internal/transport/http/response"
	"github.com/baechuer/job-portal/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

// Deps holds the constructors newServer calls. A nil NewDB runs the service
// on in-memory stores; nil NewRedis, NewPublisher or NewResumeStore disable
// the matching optional backend.
type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB func(addr string, debug bool) (*sql.DB, error)

	NewRedis func(addr, password string, db int) RedisClient

	NewPublisher func(url, exchange string) (Publisher, error)

	NewResumeStore func(ctx context.Context, cfg config.S3Config) (ResumeStore, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

type RedisClient interface {
	Ping(ctx context.Context) error
	Close() error
}

type Publisher interface {
	jobs.EventPublisher
}

type ResumeStore interface {
	jobs.ResumeStore
	EnsureBucket(ctx context.Context) error
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	var cleanupFns []func()
	fail := func(err error) (*http.Server, func(), error) {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 1) stores
	var (
		sqlDB    *sql.DB
		userRepo auth.UserRepo
		appRepo  jobs.ApplicationRepo
		appRead  auth.ApplicationReader
	)
	if deps.NewDB != nil {
		db, err := deps.NewDB(cfg.DBAddr, cfg.DBDebug)
		if err != nil {
			return fail(err)
		}
		cleanupFns = append(cleanupFns, func() { _ = db.Close() })

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = postgres.EnsureSchema(ctx, db)
		cancel()
		if err != nil {
			return fail(err)
		}

		sqlDB = db
		userRepo = postgres.NewUserRepo(db)
		pgApps := postgres.NewApplicationRepo(db)
		appRepo, appRead = pgApps, pgApps
	} else {
		logger.Logger.Warn().Msg("no database configured; using in-memory stores")
		memUsers := memory.NewUserRepo()
		memApps := memory.NewApplicationRepo(memUsers)
		userRepo = memUsers
		appRepo, appRead = memApps, memApps
	}

	// 2) redis (best-effort)
	var redisCli *redis.Client
	if deps.NewRedis != nil && cfg.RedisAddr != "" {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := c.Ping(ctx)
		cancel()

		if err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; using in-process rate limits")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
			if rc, ok := c.(*redis.Client); ok {
				redisCli = rc
			}
		}
	}

	// 3) publisher
	var pub jobs.EventPublisher = memory.NewNoopPublisher()
	if deps.NewPublisher != nil && cfg.RabbitURL != "" {
		p, err := deps.NewPublisher(cfg.RabbitURL, cfg.RabbitExch)
		switch {
		case err != nil && cfg.Env == "dev":
			logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
		case err != nil:
			return fail(err)
		default:
			pub = p
			if c, ok := p.(interface{ Close() error }); ok {
				cleanupFns = append(cleanupFns, func() { _ = c.Close() })
			}
		}
	}

	// 4) resume blob store
	var resumes jobs.ResumeStore
	if cfg.ResumeStorage == config.ResumeStorageS3 && deps.NewResumeStore != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		store, err := deps.NewResumeStore(ctx, cfg.S3)
		if err == nil {
			err = store.EnsureBucket(ctx)
		}
		cancel()
		if err != nil {
			return fail(err)
		}
		logger.Logger.Info().Str("bucket", cfg.S3.Bucket).Msg("storing resumes in s3")
		resumes = store
	}

	// 5) security
	logger.Logger.Info().Str("issuer", cfg.JWTIssuer).Msg("initializing jwt signer")
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	signer := security.NewJWTSigner(cfg.JWTSecret, cfg.JWTIssuer)

	// seed (explicit opt-in; the accounts have well-known passwords)
	if cfg.SeedDevUsers {
		logger.Logger.Warn().Str("env", cfg.Env).Msg("seeding demo accounts")
		postgres.SeedUsers(context.Background(), userRepo, hasher)
	}

	// 6) services
	auditLog := audit.New(logger.Logger)

	authSvc := auth.NewService(userRepo, appRead, hasher, signer).WithAudit(auditLog.Record)
	jobsSvc := jobs.NewService(appRepo, resumes, pub, jobs.Config{
		MaxResumeBytes: cfg.MaxResumeBytes,
	}).WithAudit(auditLog.Record)

	// 7) handlers + middleware
	authH := http_handlers.NewAuthHandler(authSvc)
	jobsH := http_handlers.NewJobsHandler(jobsSvc, cfg.MaxResumeBytes)
	healthH := http_handlers.NewHealthHandler(sqlDB)

	authMW := middleware.Auth(signer, response.WriteError)
	userMW := middleware.RequireRole(domain.RoleUser, response.WriteError)
	adminMW := middleware.RequireRole(domain.RoleAdmin, response.WriteError)

	// rate limit: redis when available (fail-open), otherwise per-process
	rl := func(key string) func(http.Handler) http.Handler {
		if !cfg.RLEnabled {
			return nil
		}
		if redisCli != nil {
			return middleware.RateLimitFixedWindow(
				redis.NewFixedWindowLimiter(redisCli),
				middleware.FixedWindowConfig{
					RouteKey: key,
					Limit:    cfg.RLLimit,
					Window:   cfg.RLWindow,
				},
				response.WriteError,
			)
		}
		return httprate.Limit(cfg.RLLimit, cfg.RLWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				response.WriteError(w, r, domain.ErrRateLimited(key))
			}),
		)
	}

	// 8) router
	mux, err := deps.NewRouter(router.Deps{
		Health:      healthH,
		Auth:        authH,
		Jobs:        jobsH,
		APIPrefix:   cfg.APIPrefix,
		CORSOrigins: cfg.CORSOrigins,
		AuthMW:      authMW,
		UserMW:      userMW,
		AdminMW:     adminMW,
		RegisterRL:  rl("user.register"),
		LoginRL:     rl("user.login"),
	})
	if err != nil {
		return fail(err)
	}

	// 9) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB:      config.NewDB,
		NewRedis: func(addr, password string, db int) RedisClient {
			return redis.New(addr, password, db)
		},
		NewPublisher: func(url, exchange string) (Publisher, error) {
			return rabbitmq_pub.NewPublisher(url, exchange)
		},
		NewResumeStore: func(ctx context.Context, cfg config.S3Config) (ResumeStore, error) {
			return storage.NewS3ResumeStore(ctx, cfg)
		},
		NewRouter: router.New,
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}

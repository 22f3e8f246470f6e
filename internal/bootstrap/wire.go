package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/httprate"

	"github.com/baechuer/company-registry/internal/application/auth"
	"github.com/baechuer/company-registry/internal/application/company"
	"github.com/baechuer/company-registry/internal/audit"
	"github.com/baechuer/company-registry/internal/config"
	"github.com/baechuer/company-registry/internal/infrastructure/db/postgres"
	"github.com/baechuer/company-registry/internal/infrastructure/memory"
	rabbitmq_pub "github.com/baechuer/company-registry/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/company-registry/internal/infrastructure/redis"
	"github.com/baechuer/company-registry/internal/infrastructure/security"
	"github.com/baechuer/company-registry/internal/infrastructure/storage"
	"github.com/baechuer/company-registry/internal/logger"
	http_handlers "github.com/baechuer/company-registry/internal/transport/http/handlers"
	"github.com/baechuer/company-registry/internal/transport/http/middleware"
	"github.com/baechuer/company-registry/internal/transport/http/response"
	"github.com/baechuer/company-registry/internal/transport/http/router"
	"github.com/baechuer/company-registry/internal/transport/http/validate"
)

// Version is reported by GET /. Overridden at build time via -ldflags.
var Version = "dev"

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

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB func(dsn string, debug bool) (*sql.DB, error)

	NewRedis func(addr, password string, db int) *redis.Client

	NewPublisher func(rabbitURL, exchange string) (Publisher, error)

	NewMediaStore func(ctx context.Context, cfg config.S3Config, baseURL string) (RemoteMediaStore, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

// Publisher carries every domain event the services emit.
type Publisher interface {
	auth.EventPublisher
	company.EventPublisher
}

type RemoteMediaStore interface {
	company.MediaStore
	Ping(ctx context.Context) error
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

	health := http_handlers.NewHealthHandler(Version)

	// 1) stores (postgres, or in-memory in dev)
	var (
		userRepo    auth.UserRepo
		companyRepo company.Repo
		seedRepo    postgres.SeederRepo
	)
	if cfg.DBAddr != "" {
		db, err := deps.NewDB(cfg.DBAddr, cfg.DBDebug)
		if err != nil {
			return fail(err)
		}
		cleanupFns = append(cleanupFns, func() { _ = db.Close() })

		pgUsers := postgres.NewUserRepo(db)
		userRepo, seedRepo = pgUsers, pgUsers
		companyRepo = postgres.NewCompanyRepo(db)
		health.WithCheck("database", db.PingContext)
	} else {
		if !cfg.IsDev() {
			return fail(errors.New("bootstrap: DB_ADDR is required outside dev"))
		}
		logger.Logger.Warn().Msg("DB_ADDR not set; using in-memory stores")
		memUsers := memory.NewUserRepo()
		userRepo, seedRepo = memUsers, memUsers
		companyRepo = memory.NewCompanyRepo()
	}

	// 2) redis (best-effort)
	var redisCli *redis.Client
	if cfg.RedisAddr != "" && deps.NewRedis != nil {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := c.Ping(context.Background()); err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; rate limiting falls back to per-IP memory")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			redisCli = c
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
			health.WithCheck("redis", c.Ping)
		}
	}

	var ottStore auth.OneTimeTokenStore
	if redisCli != nil {
		ottStore = redis.NewOneTimeTokenStore(redisCli)
	} else {
		ottStore = memory.NewOneTimeTokenStore()
	}

	// 3) publisher
	var pub Publisher
	if cfg.RabbitURL != "" {
		pub, err = deps.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
	} else {
		err = errors.New("bootstrap: RABBIT_URL not set")
	}
	if err != nil {
		if !cfg.IsDev() {
			return fail(err)
		}
		logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
		pub = memory.NewNoopPublisher()
	}
	if c, ok := pub.(interface{ Close() error }); ok {
		cleanupFns = append(cleanupFns, func() { _ = c.Close() })
	}
	if c, ok := pub.(interface{ Ping(context.Context) error }); ok {
		health.WithCheck("broker", c.Ping)
	}

	// 4) media host
	var (
		media  company.MediaStore
		mediaH *http_handlers.MediaHandler
	)
	if cfg.S3.Bucket != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		s3Store, err := deps.NewMediaStore(ctx, cfg.S3, cfg.MediaBaseURL)
		cancel()
		if err != nil {
			return fail(err)
		}
		media = s3Store
		health.WithCheck("media", s3Store.Ping)
	} else {
		logger.Logger.Warn().Str("base_url", cfg.MediaBaseURL).Msg("S3_BUCKET not set; serving media from memory")
		memMedia := memory.NewMediaStore(cfg.MediaBaseURL)
		media = memMedia
		mediaH = http_handlers.NewMediaHandler(memMedia)
	}

	// 5) security
	logger.Logger.Info().Str("issuer", cfg.TokenIssuer).Msg("initializing jwt signer")
	hasher := security.NewBcryptHasher(cfg.PasswordHashCost)
	logger.Logger.Info().Int("bcrypt_cost", hasher.Cost()).Msg("initializing password hasher")
	signer := security.NewJWTSigner(cfg.TokenSecret, cfg.TokenIssuer)

	// seed (dev only)
	if cfg.IsDev() {
		postgres.SeedUsers(context.Background(), seedRepo, hasher)
	}

	// 6) services
	recorder := audit.New(logger.Logger)

	authSvc := auth.NewService(
		userRepo,
		hasher,
		signer,
		ottStore,
		pub,
		auth.Config{
			TokenTTL:            cfg.TokenTTL,
			VerifyEmailBaseURL:  cfg.VerifyEmailBaseURL,
			VerifyEmailTokenTTL: cfg.VerifyEmailTokenTTL,
			VerifyMobileCodeTTL: cfg.VerifyMobileCodeTTL,
		},
	).WithAudit(recorder.Record)

	companySvc := company.NewService(
		companyRepo,
		media,
		pub,
		company.Config{MaxUploadSize: cfg.MaxUploadSize},
	).WithAudit(recorder.Record)

	// 7) validation
	mobile, err := regexp.Compile(cfg.MobilePattern)
	if err != nil {
		return fail(err)
	}
	val, err := validate.New(validate.Options{
		PasswordMinLength: cfg.PasswordMinLength,
		MobilePattern:     mobile,
	})
	if err != nil {
		return fail(err)
	}

	// 8) handlers + middleware
	authH := http_handlers.NewAuthHandler(authSvc, val)
	companyH := http_handlers.NewCompanyHandler(companySvc, val)
	authMW := middleware.Auth(signer, response.WriteError)

	// rate limit (fail-open); per-IP in-memory limit when redis is absent
	var (
		fwLimiter   *redis.FixedWindowLimiter
		authGroupRL func(http.Handler) http.Handler
	)
	if redisCli != nil {
		fwLimiter = redis.NewFixedWindowLimiter(redisCli)
	} else {
		authGroupRL = httprate.LimitByIP(30, time.Minute)
	}

	rl := func(key string, limit int, window time.Duration) func(http.Handler) http.Handler {
		if fwLimiter == nil {
			return nil
		}
		return middleware.RateLimitFixedWindow(
			fwLimiter,
			middleware.FixedWindowConfig{
				RouteKey: key,
				Limit:    limit,
				Window:   window,
			},
			response.WriteError,
		)
	}

	// 9) router
	rd := router.Deps{
		RequestIDMW: middleware.RequestID,
		MetricsMW:   middleware.Metrics,
		Health:      health,
		Auth:        authH,
		Company:     companyH,
		AuthMW:      authMW,

		RLRegister:      rl("auth.register", 5, time.Minute),
		RLLogin:         rl("auth.login", 10, time.Minute),
		RLVerifyRequest: rl("auth.verify.request", 3, 10*time.Minute),
		RLVerifyConfirm: rl("auth.verify.confirm", 5, 10*time.Minute),
		AuthGroupRL:     authGroupRL,
	}
	if mediaH != nil {
		rd.Media = mediaH
	}
	mux, err := deps.NewRouter(rd)
	if err != nil {
		return fail(err)
	}

	// 10) server
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
		NewRedis:   redis.New,
		NewPublisher: func(url, exchange string) (Publisher, error) {
			return rabbitmq_pub.NewPublisher(url, exchange)
		},
		NewMediaStore: func(ctx context.Context, cfg config.S3Config, baseURL string) (RemoteMediaStore, error) {
			return storage.NewS3Store(ctx, cfg, baseURL, logger.Logger)
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

package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/klauspost/compress/gzhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"inkwell/internal/common/pagination"
	"inkwell/internal/config"
	pgRepo "inkwell/internal/infra/adapter/persistence/postgres"
	"inkwell/internal/infra/db"
	"inkwell/internal/infra/storage"
	"inkwell/internal/observability/logging"
	"inkwell/internal/observability/tracing"
	"inkwell/internal/resilience/circuitbreaker"
	envcfg "inkwell/pkg/config"

	activityUC "inkwell/internal/usecase/activity"
	artUC "inkwell/internal/usecase/article"
	catUC "inkwell/internal/usecase/category"
	commentUC "inkwell/internal/usecase/comment"
	mediaUC "inkwell/internal/usecase/media"
	searchUC "inkwell/internal/usecase/search"
	settingUC "inkwell/internal/usecase/setting"
	statsUC "inkwell/internal/usecase/stats"
	subUC "inkwell/internal/usecase/subscriber"

	hhttp "inkwell/internal/handler/http"
	hactivity "inkwell/internal/handler/http/activity"
	harticle "inkwell/internal/handler/http/article"
	hauth "inkwell/internal/handler/http/auth"
	hcategory "inkwell/internal/handler/http/category"
	hcomment "inkwell/internal/handler/http/comment"
	hmedia "inkwell/internal/handler/http/media"
	"inkwell/internal/handler/http/middleware"
	"inkwell/internal/handler/http/requestid"
	"inkwell/internal/handler/http/respond"
	hsearch "inkwell/internal/handler/http/search"
	hsetting "inkwell/internal/handler/http/setting"
	hstats "inkwell/internal/handler/http/stats"
	hsubscriber "inkwell/internal/handler/http/subscriber"
	authservice "inkwell/internal/service/auth"

	_ "inkwell/docs" // swagger docs
)

// @title           Inkwell Blog API
// @version         1.0
// @description     個人ブログの REST API
// @description     記事・カテゴリ・コメント・検索の公開 API と、JWT 認証付きの管理 API を提供します。

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT トークンによる認証。ヘッダーに "Bearer {token}" 形式で指定してください。

func main() {
	logger := initLogger()
	app := config.LoadApp()
	security := loadSecurity(logger, app)
	validateAdminCredentials(logger, app, security)
	validateJWTSecret(logger, app)

	// 本番環境ではエラー詳細をレスポンスに含めない
	respond.SetDetails(!app.Production())

	shutdownTracing := tracing.Init(tracing.ConfigFromEnv())
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("failed to shut down tracer provider", slog.Any("error", err))
		}
	}()

	database := initDatabase(logger, app)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	components := setupServer(logger, database, app, security)
	runServer(logger, components, app)
}

// initLogger initializes and returns a structured logger based on environment configuration.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// loadSecurity reads SECURITY_CONFIG_FILE when set; otherwise the built-in policy applies.
func loadSecurity(logger *slog.Logger, app config.App) *config.Security {
	if app.SecurityFile == "" {
		return config.DefaultSecurity()
	}
	security, err := config.LoadSecurity(app.SecurityFile)
	if err != nil {
		logger.Error("failed to load security configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("security configuration loaded", slog.String("path", app.SecurityFile))
	return security
}

// validateAdminCredentials prevents the server from starting with empty or weak admin credentials.
func validateAdminCredentials(logger *slog.Logger, app config.App, security *config.Security) {
	weak := append(append([]string{}, hauth.DefaultWeakPasswords...), security.Auth.WeakPasswords...)
	if err := hauth.ValidateAdminCredentials(app.AdminUser, app.AdminPassword, security.Auth.MinPasswordLength, weak); err != nil {
		logger.Error("admin credentials validation failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// validateJWTSecret validates the JWT_SECRET environment variable for security requirements.
func validateJWTSecret(logger *slog.Logger, app config.App) {
	if err := config.ValidateJWTSecret(app.JWTSecret); err != nil {
		logger.Error("JWT secret validation failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// initDatabase opens the database connection and runs migrations.
func initDatabase(logger *slog.Logger, app config.App) *sql.DB {
	database, err := db.Open(context.Background(), app.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// ServerComponents holds components needed for server operation and cleanup.
type ServerComponents struct {
	Handler         http.Handler
	Limiters        []*middleware.RateLimiter
	CleanupInterval time.Duration
	Pool            db.StatsSource
}

// services groups the use cases shared by the public and admin routes.
type services struct {
	articles    *artUC.Service
	categories  *catUC.Service
	comments    *commentUC.Service
	search      *searchUC.Service
	subscribers *subUC.Service
	settings    *settingUC.Service
	stats       *statsUC.Service
	activity    *activityUC.Service
	media       *mediaUC.Service
}

func newServices(dbtx pgRepo.DBTX, app config.App) services {
	opt := pgRepo.WithQueryTimeout(app.QueryTimeout)
	articleRepo := pgRepo.NewArticleRepo(dbtx, opt)
	categoryRepo := pgRepo.NewCategoryRepo(dbtx, opt)

	return services{
		articles:    &artUC.Service{Repo: articleRepo, Categories: categoryRepo},
		categories:  &catUC.Service{Repo: categoryRepo, Articles: articleRepo},
		comments:    &commentUC.Service{Repo: pgRepo.NewCommentRepo(dbtx, opt), Articles: articleRepo},
		search:      &searchUC.Service{Repo: pgRepo.NewSearchRepo(dbtx, opt)},
		subscribers: &subUC.Service{Repo: pgRepo.NewSubscriberRepo(dbtx, opt)},
		settings:    &settingUC.Service{Repo: pgRepo.NewSettingRepo(dbtx, opt)},
		stats:       &statsUC.Service{Repo: pgRepo.NewStatsRepo(dbtx, opt), Articles: articleRepo},
		activity:    &activityUC.Service{Repo: pgRepo.NewActivityRepo(dbtx, opt)},
		media: &mediaUC.Service{
			Repo:     pgRepo.NewMediaRepo(dbtx, opt),
			Storage:  storage.NewLocal(app.UploadDir, app.UploadURLPrefix),
			MaxBytes: app.UploadMaxBytes,
		},
	}
}

// setupServer configures and returns the HTTP handler with all routes and middleware.
func setupServer(logger *slog.Logger, database *sql.DB, app config.App, security *config.Security) *ServerComponents {
	breaker := circuitbreaker.NewDBCircuitBreaker(database)
	svcs := newServices(breaker, app)

	rateLimitConfig := envcfg.LoadRateLimitConfig()
	loginLimiter := middleware.NewRateLimiter("login", rateLimitConfig)
	commentLimiter := middleware.NewRateLimiter("comment", rateLimitConfig)
	subscribeLimiter := middleware.NewRateLimiter("subscribe", rateLimitConfig)
	if rateLimitConfig.Enabled {
		logger.Info("rate limiting initialized",
			slog.Float64("rps", rateLimitConfig.RPS),
			slog.Int("burst", rateLimitConfig.Burst),
			slog.Duration("idle_ttl", rateLimitConfig.IdleTTL))
	} else {
		logger.Warn("rate limiting is DISABLED - not recommended for production")
	}
	limit := func(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
		if !rateLimitConfig.Enabled {
			return func(next http.Handler) http.Handler { return next }
		}
		return rl.Middleware
	}

	provider := hauth.NewBasicAuthProvider(app.AdminUser, app.AdminPassword, security.Auth.MinPasswordLength, security.Auth.WeakPasswords)
	authSvc := authservice.NewAuthService(provider, []byte(app.JWTSecret), security.TokenTTL())
	authz := hauth.Authz(authSvc)

	paginationCfg := pagination.LoadFromEnv()
	mux := http.NewServeMux()

	// 公開 API
	harticle.Register(mux, svcs.articles, paginationCfg)
	hcategory.Register(mux, svcs.categories, paginationCfg)
	hcomment.Register(mux, svcs.comments, paginationCfg, limit(commentLimiter))
	hsearch.Register(mux, svcs.search, paginationCfg)
	hsubscriber.Register(mux, svcs.subscribers, limit(subscribeLimiter))
	hsetting.Register(mux, svcs.settings)

	// 管理 API
	mux.Handle("POST /api/admin/auth/login", limit(loginLimiter)(hauth.LoginHandler{Svc: authSvc, Activity: svcs.activity}))
	mux.Handle("GET /api/admin/auth/profile", authz(hauth.ProfileHandler{}))
	harticle.RegisterAdmin(mux, svcs.articles, svcs.activity, paginationCfg, authz)
	hcategory.RegisterAdmin(mux, svcs.categories, svcs.activity, paginationCfg, authz)
	hcomment.RegisterAdmin(mux, svcs.comments, svcs.activity, paginationCfg, authz)
	hsubscriber.RegisterAdmin(mux, svcs.subscribers, svcs.activity, paginationCfg, authz)
	hsetting.RegisterAdmin(mux, svcs.settings, svcs.activity, authz)
	hstats.RegisterAdmin(mux, svcs.stats, authz)
	hactivity.RegisterAdmin(mux, svcs.activity, paginationCfg, authz)
	hmedia.RegisterAdmin(mux, hmedia.Handler{
		Svc:           svcs.media,
		Activity:      svcs.activity,
		PaginationCfg: paginationCfg,
		MaxBytes:      app.UploadMaxBytes,
	}, authz)

	// アップロード済みファイル
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(app.UploadDir))))

	// ヘルスチェックエンドポイント（認証不要）
	mux.Handle("GET /health", &hhttp.HealthHandler{
		DB:      database,
		Breaker: breaker,
		Limiters: map[string]hhttp.LimiterSize{
			"login":     loginLimiter,
			"comment":   commentLimiter,
			"subscribe": subscribeLimiter,
		},
		Storage: storage.NewLocal(app.UploadDir, app.UploadURLPrefix),
		Version: app.Version,
	})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	// Swagger UI（認証不要）
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	handler := applyMiddleware(logger, mux, app)

	var limiters []*middleware.RateLimiter
	if rateLimitConfig.Enabled {
		limiters = []*middleware.RateLimiter{loginLimiter, commentLimiter, subscribeLimiter}
	}
	return &ServerComponents{
		Handler:         handler,
		Limiters:        limiters,
		CleanupInterval: rateLimitConfig.CleanupInterval,
		Pool:            database,
	}
}

// applyMiddleware wraps the handler with the middleware chain.
// Order (outermost first): Recover → Request ID → Tracing → Metrics → Logging →
// Client IP → Security headers → CORS → Input validation → Timeout → Gzip.
func applyMiddleware(logger *slog.Logger, handler http.Handler, app config.App) http.Handler {
	corsConfig := middleware.LoadCORSConfig()
	logger.Info("CORS configured",
		slog.Any("allowed_origins", corsConfig.AllowedOrigins),
		slog.Any("allowed_methods", corsConfig.AllowedMethods),
		slog.Int("max_age", corsConfig.MaxAge))

	clients, err := middleware.NewClientResolver(envcfg.GetEnvString("TRUSTED_PROXIES", ""))
	if err != nil {
		logger.Error("failed to parse TRUSTED_PROXIES", slog.Any("error", err))
		os.Exit(1)
	}
	if clients.Proxied() {
		logger.Info("client IP: trusted proxy mode enabled", slog.Int("proxies", len(clients.Trusted)))
	}

	return hhttp.Chain(handler,
		hhttp.Recover(logger),
		requestid.Middleware,
		tracing.Middleware,
		hhttp.MetricsMiddleware,
		hhttp.Logging(logger),
		middleware.ClientIP(clients),
		middleware.SecurityHeaders(middleware.DefaultCSP, map[string]string{"/swagger/": middleware.SwaggerCSP}),
		middleware.CORS(corsConfig),
		hhttp.InputValidation(hhttp.DefaultInputLimits(app.UploadMaxBytes)),
		hhttp.Timeout(app.RequestTimeout),
		gzip,
	)
}

func gzip(next http.Handler) http.Handler {
	return gzhttp.GzipHandler(next)
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, components *ServerComponents, app config.App) {
	// Create a context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, rl := range components.Limiters {
		go rl.RunCleanup(ctx, components.CleanupInterval)
	}
	if len(components.Limiters) > 0 {
		logger.Info("rate limit cleanup started", slog.Duration("interval", components.CleanupInterval))
	}

	if components.Pool != nil {
		go db.ReportPoolStats(ctx, components.Pool, envcfg.GetEnvDuration("DB_STATS_INTERVAL", 15*time.Second))
	}

	srv := &http.Server{
		Addr:              app.HTTPAddr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", app.HTTPAddr),
			slog.String("version", app.Version),
			slog.String("env", app.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	// Cancel background goroutines (rate limit cleanup, pool stats)
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}

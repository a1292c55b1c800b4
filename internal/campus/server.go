// Package campus assembles the CampusGPT service from its options.
package campus

import (
	"context"
	"errors"
	"fmt"

	gocasbin "github.com/casbin/casbin/v3"
	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/kart-io/campusgpt/internal/campus/biz/assistant"
	"github.com/kart-io/campusgpt/internal/campus/biz/identity"
	"github.com/kart-io/campusgpt/internal/campus/biz/knowledge"
	"github.com/kart-io/campusgpt/internal/campus/biz/post"
	"github.com/kart-io/campusgpt/internal/campus/biz/session"
	"github.com/kart-io/campusgpt/internal/campus/biz/ticket"
	"github.com/kart-io/campusgpt/internal/campus/handler"
	"github.com/kart-io/campusgpt/internal/campus/router"
	"github.com/kart-io/campusgpt/internal/campus/store"
	"github.com/kart-io/campusgpt/pkg/component/mysql"
	"github.com/kart-io/campusgpt/pkg/component/postgres"
	rediscomp "github.com/kart-io/campusgpt/pkg/component/redis"
	"github.com/kart-io/campusgpt/pkg/component/sqlite"
	"github.com/kart-io/campusgpt/pkg/component/storage"
	"github.com/kart-io/campusgpt/pkg/infra/app"
	"github.com/kart-io/campusgpt/pkg/infra/middleware"
	"github.com/kart-io/campusgpt/pkg/infra/server"
	httpserver "github.com/kart-io/campusgpt/pkg/infra/server/http"
	"github.com/kart-io/campusgpt/pkg/infra/tracing"
	"github.com/kart-io/campusgpt/pkg/llm"
	// 导入 LLM 供应商以自动注册
	_ "github.com/kart-io/campusgpt/pkg/llm/deepseek"
	_ "github.com/kart-io/campusgpt/pkg/llm/gemini"
	_ "github.com/kart-io/campusgpt/pkg/llm/openai"
	_ "github.com/kart-io/campusgpt/pkg/llm/siliconflow"
	"github.com/kart-io/campusgpt/pkg/llm/resilience"
	cacheopts "github.com/kart-io/campusgpt/pkg/options/cache"
	identityopts "github.com/kart-io/campusgpt/pkg/options/identity"
	jwtopts "github.com/kart-io/campusgpt/pkg/options/jwt"
	llmopts "github.com/kart-io/campusgpt/pkg/options/llm"
	logopts "github.com/kart-io/campusgpt/pkg/options/logger"
	mwopts "github.com/kart-io/campusgpt/pkg/options/middleware"
	mysqlopts "github.com/kart-io/campusgpt/pkg/options/mysql"
	postgresopts "github.com/kart-io/campusgpt/pkg/options/postgres"
	redisopts "github.com/kart-io/campusgpt/pkg/options/redis"
	httpopts "github.com/kart-io/campusgpt/pkg/options/server/http"
	sqliteopts "github.com/kart-io/campusgpt/pkg/options/sqlite"
	storeopts "github.com/kart-io/campusgpt/pkg/options/store"
	"github.com/kart-io/campusgpt/pkg/security/auth/jwt"
	"github.com/kart-io/campusgpt/pkg/security/authz/casbin"
	"github.com/kart-io/campusgpt/pkg/storage/kv"
)

// Name is the name of the application.
const Name = "campusgpt"

// Config contains application-related configurations.
type Config struct {
	HTTPOptions       *httpopts.Options
	MiddlewareOptions *mwopts.Options
	LogOptions        *logopts.Options
	StoreOptions      *storeopts.Options
	RedisOptions      *redisopts.Options
	MySQLOptions      *mysqlopts.Options
	PostgresOptions   *postgresopts.Options
	SQLiteOptions     *sqliteopts.Options
	JWTOptions        *jwtopts.Options
	ChatOptions       *llmopts.ProviderOptions
	CacheOptions      *cacheopts.Options
	IdentityOptions   *identityopts.Options
	TracingOptions    *tracing.Options
}

// Server represents the CampusGPT server.
type Server struct {
	srv  *server.Manager
	http *httpserver.Server
}

// resources collects what NewServer opened so a failed build can release it.
type resources struct {
	storages *storage.Manager
	tracer   *tracing.Provider
	redis    *goredis.Client
	db       *gorm.DB
}

func (r *resources) release(ctx context.Context) {
	if err := r.storages.CloseAll(); err != nil {
		logger.Warnw("failed to close storages", "error", err.Error())
	}
	if r.tracer != nil {
		_ = r.tracer.Shutdown(ctx)
	}
}

// NewServer initializes and returns a new Server instance.
func (cfg *Config) NewServer(ctx context.Context) (*Server, error) {
	// 1. 初始化日志
	cfg.LogOptions.AddInitialField("service.name", Name)
	cfg.LogOptions.AddInitialField("service.version", app.Version().GitVersion)
	if err := cfg.LogOptions.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Infow("Starting CampusGPT service...", "store.driver", cfg.StoreOptions.Driver)

	res := &resources{storages: storage.NewManager()}
	srv, err := cfg.build(ctx, res)
	if err != nil {
		res.release(ctx)
		return nil, err
	}
	return srv, nil
}

func (cfg *Config) build(ctx context.Context, res *resources) (*Server, error) {
	// 2. 初始化链路追踪
	tracer, err := tracing.NewProvider(ctx, cfg.TracingOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	res.tracer = tracer
	logger.Infow("Tracing initialized", "enabled", tracer.Enabled())

	// 3. 初始化存储客户端
	if err := cfg.openStorages(ctx, res); err != nil {
		return nil, err
	}

	// 4. 初始化 Store 层
	backends := store.Backends{DB: res.db}
	if cfg.StoreOptions.Driver == storeopts.DriverRedis {
		backends.KV = kv.NewRedis(res.redis, "")
	} else {
		backends.KV = kv.NewMemory()
	}
	st, err := store.New(cfg.StoreOptions.Driver, backends)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	if cfg.StoreOptions.Seed {
		if err := st.Initialize(ctx); err != nil {
			return nil, fmt.Errorf("failed to seed store: %w", err)
		}
		logger.Info("Store seeded")
	}

	// 5. 初始化 LLM 供应商
	provider, err := llm.NewProvider(cfg.ChatOptions.Provider, cfg.ChatOptions.ToConfigMap())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chat provider: %w", err)
	}
	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = cfg.ChatOptions.MaxRetries + 1
	breaker := resilience.DefaultCircuitBreakerConfig()
	breaker.MaxFailures = cfg.ChatOptions.BreakerFailures
	breaker.Timeout = cfg.ChatOptions.BreakerTimeout
	chat := resilience.Wrap(provider, retry, breaker)
	logger.Infow("Chat provider initialized",
		"provider", cfg.ChatOptions.Provider,
		"model", cfg.ChatOptions.Model,
		"max_retries", cfg.ChatOptions.MaxRetries,
	)

	// 6. 初始化回答缓存
	kb := knowledge.New(st)
	assistantOpts := []assistant.Option{assistant.WithWebSearch(cfg.ChatOptions.WebSearch)}
	if cfg.CacheOptions.Enabled {
		var cacheKV kv.Storage = kv.NewMemory()
		if cfg.CacheOptions.Backend == "redis" {
			cacheKV = kv.NewRedis(res.redis, cfg.CacheOptions.KeyPrefix)
		}
		assistantOpts = append(assistantOpts, assistant.WithCache(assistant.NewKVReplyCache(cacheKV, cfg.CacheOptions.TTL)))
		logger.Infow("Reply cache initialized", "backend", cfg.CacheOptions.Backend, "ttl", cfg.CacheOptions.TTL)
	} else {
		logger.Info("Reply cache is disabled")
	}

	// 7. 初始化认证与授权
	var revoked jwt.Store
	if res.redis != nil {
		revoked = jwt.NewRedisStore(res.redis, "campusgpt:jwt:revoked:")
		logger.Info("Using Redis for JWT token revocation")
	} else {
		revoked = jwt.NewMemoryStore()
		logger.Warn("Using in-memory store for JWT token revocation")
	}
	tokens, err := jwt.New(jwt.WithOptions(cfg.JWTOptions), jwt.WithStore(revoked))
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT authenticator: %w", err)
	}
	if cfg.JWTOptions != nil && cfg.JWTOptions.KeyGenerated() {
		logger.Warn("jwt.key is not configured, using a random key; sessions will not survive restarts")
	}

	enforcer, err := cfg.newEnforcer(res.db)
	if err != nil {
		return nil, err
	}
	authorizer, err := casbin.New(enforcer, router.Policies(), router.Groupings())
	if err != nil {
		return nil, fmt.Errorf("failed to install policies: %w", err)
	}

	// 8. 初始化 Biz 与 Handler 层
	handlers := &router.Handlers{
		Auth:      handler.NewAuthHandler(session.New(identity.NewDomainVerifier(cfg.IdentityOptions), tokens)),
		Chat:      handler.NewChatHandler(assistant.New(kb, chat, assistantOpts...)),
		Post:      handler.NewPostHandler(post.New(st, kb)),
		Ticket:    handler.NewTicketHandler(ticket.New(st, kb)),
		Knowledge: handler.NewKnowledgeHandler(kb),
		System:    handler.NewSystemHandler(res.storages),
	}

	// 9. 初始化 HTTP 服务器
	httpSrv := httpserver.NewServer(cfg.HTTPOptions, newMiddleware(cfg.MiddlewareOptions)...)
	router.Register(httpSrv.Engine(), tokens, authorizer, handlers)

	mgr := server.NewManager(cfg.HTTPOptions.ShutdownTimeout)
	mgr.AddServer(httpSrv)
	mgr.AddCloser(func(context.Context) error {
		if err := st.Close(); err != nil {
			return fmt.Errorf("failed to close store: %w", err)
		}
		return nil
	})
	mgr.AddCloser(func(context.Context) error { return res.storages.CloseAll() })
	mgr.AddCloser(tracer.Shutdown)

	logger.Infow("CampusGPT service initialized", "addr", cfg.HTTPOptions.Addr)
	return &Server{srv: mgr, http: httpSrv}, nil
}

// openStorages connects the clients the configured store and cache need and
// registers them for health checks.
func (cfg *Config) openStorages(ctx context.Context, res *resources) error {
	needRedis := cfg.StoreOptions.Driver == storeopts.DriverRedis ||
		(cfg.CacheOptions.Enabled && cfg.CacheOptions.Backend == "redis")
	if needRedis {
		client, err := rediscomp.New(ctx, cfg.RedisOptions)
		if err != nil {
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		if err := res.storages.Register(client.Name(), client); err != nil {
			_ = client.Close()
			return err
		}
		res.redis = client.Client()
		logger.Infow("Redis client initialized", "addr", cfg.RedisOptions.Addr())
	}

	var (
		db  *storage.GormClient
		err error
	)
	switch cfg.StoreOptions.Driver {
	case storeopts.DriverSQLite:
		db, err = sqlite.New(ctx, cfg.SQLiteOptions)
	case storeopts.DriverMySQL:
		db, err = mysql.New(ctx, cfg.MySQLOptions)
	case storeopts.DriverPostgres:
		db, err = postgres.New(ctx, cfg.PostgresOptions)
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to initialize %s: %w", cfg.StoreOptions.Driver, err)
	}
	if err := res.storages.Register(db.Name(), db); err != nil {
		_ = db.Close()
		return err
	}
	res.db = db.DB()
	logger.Infow("Database initialized", "driver", cfg.StoreOptions.Driver)
	return nil
}

// newEnforcer keeps policies in the database when one is open, else in memory.
func (cfg *Config) newEnforcer(db *gorm.DB) (*gocasbin.SyncedEnforcer, error) {
	if db != nil {
		e, err := casbin.NewGormEnforcer(db)
		if err != nil {
			return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
		}
		return e, nil
	}
	e, err := casbin.NewEnforcer(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	return e, nil
}

// newMiddleware builds the global middleware chain, outermost first.
func newMiddleware(opts *mwopts.Options) []gin.HandlerFunc {
	if opts == nil {
		opts = mwopts.NewOptions()
	}
	chain := []gin.HandlerFunc{
		middleware.RecoveryWithConfig(middleware.RecoveryConfig{EnableStackTrace: opts.Recovery.EnableStackTrace}),
		middleware.RequestID(),
		middleware.Tracing(),
		middleware.LoggerWithConfig(middleware.LoggerConfig{SkipPaths: opts.Logger.SkipPaths}),
	}
	if opts.CORS.Enabled {
		chain = append(chain, middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     opts.CORS.AllowOrigins,
			AllowCredentials: opts.CORS.AllowCredentials,
			MaxAge:           opts.CORS.MaxAge,
		}))
	}
	if opts.Timeout.Timeout > 0 {
		chain = append(chain, middleware.Timeout(opts.Timeout.Timeout))
	}
	return chain
}

// Addr returns the HTTP listen address, resolved once the server started.
func (s *Server) Addr() string {
	return s.http.Addr()
}

// Run starts the servers and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/wodcycle/internal/auth"
	"github.com/2beens/wodcycle/internal/config"
	"github.com/2beens/wodcycle/internal/db"
	"github.com/2beens/wodcycle/internal/middleware"
	"github.com/2beens/wodcycle/internal/misc"
	"github.com/2beens/wodcycle/internal/overrides"
	"github.com/2beens/wodcycle/internal/schedule"
	"github.com/2beens/wodcycle/internal/telemetry/metrics"
	"github.com/2beens/wodcycle/internal/telemetry/tracing"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/multierr"
)

const (
	sessionsCleanupInterval = 8 * time.Hour
	materializeTimeout      = 30 * time.Second
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config   *config.Config
	location *time.Location
	dbPool   *pgxpool.Pool

	overridesStore overrides.Store
	// set when the store holds resources of its own (sqlite file)
	storeCloser    io.Closer
	projector      *schedule.Projector
	generationJob  *schedule.GenerationJob
	rateLimiter    middleware.RequestRateLimiter
	redisClient    *redis.Client
	loginChecker   *auth.LoginChecker
	authService    *auth.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	AdminUsername           string
	AdminPasswordHash       string
	RedisPassword           string
	PostgresPassword        string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	location, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("reference timezone: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "wodcycle-backend", rdb)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:       cfg,
		location:     location,
		versionInfo:  params.VersionInfo,
		redisClient:  rdb,
		rateLimiter:  redis_rate.NewLimiter(rdb),
		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),
		authService: auth.NewAuthService(&auth.Admin{
			Username:     params.AdminUsername,
			PasswordHash: params.AdminPasswordHash,
		}, auth.DefaultTTL, rdb),
		otelShutdown: otelShutdown,
	}

	var extraCollectors []prometheus.Collector
	if cfg.OverridesBackend == config.BackendPostgres {
		s.dbPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBPassword:     params.PostgresPassword,
			TracingEnabled: params.HoneycombTracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := s.dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}
		extraCollectors = append(extraCollectors, pgxpoolprometheus.NewCollector(
			s.dbPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		))
	}

	s.promRegistry = metrics.SetupPrometheus(extraCollectors...)
	s.metricsManager = metrics.NewManager("wodcycle", "main", s.promRegistry)
	s.metricsManager.GaugeLifeSignal.Set(0)

	store, closer, err := newOverridesStore(ctx, cfg, s.dbPool, rdb)
	if err != nil {
		return nil, fmt.Errorf("overrides store: %w", err)
	}
	s.storeCloser = closer
	if cfg.OverrideCacheTTL > 0 {
		store = overrides.NewCachedStore(store, cfg.OverrideCacheTTL, s.metricsManager)
	}
	s.overridesStore = store
	s.projector = schedule.NewProjector(store, s.metricsManager)

	if cfg.GenerationEnabled {
		s.generationJob, err = schedule.NewGenerationJob(
			s.projector,
			schedule.NewRedisGenerationLedger(rdb),
			schedule.NewHTTPMaterializer(cfg.ContentServiceURL, materializeTimeout),
			s.metricsManager,
			location,
			cfg.GenerationTime,
		)
		if err != nil {
			return nil, fmt.Errorf("new generation job: %w", err)
		}
	}

	return s, nil
}

// newOverridesStore picks the persistence adapter for the configured backend.
// The returned closer is nil unless the store owns a resource of its own.
func newOverridesStore(
	ctx context.Context,
	cfg *config.Config,
	dbPool *pgxpool.Pool,
	rdb *redis.Client,
) (overrides.Store, io.Closer, error) {
	switch cfg.OverridesBackend {
	case config.BackendPostgres:
		if dbPool == nil {
			return nil, nil, errors.New("postgres backend without db pool")
		}
		psqlStore := overrides.NewPsqlStore(dbPool)
		if err := psqlStore.EnsureSchema(ctx); err != nil {
			return nil, nil, err
		}
		return psqlStore, nil, nil
	case config.BackendRedis:
		if rdb == nil {
			return nil, nil, errors.New("redis backend without redis client")
		}
		return overrides.NewRedisStore(rdb), nil, nil
	case config.BackendSqlite:
		sqliteStore, err := overrides.NewSqliteStore(cfg.SqlitePath)
		if err != nil {
			return nil, nil, err
		}
		return sqliteStore, sqliteStore, nil
	case config.BackendMemory, "":
		log.Warnln("overrides kept in memory, they will not survive a restart")
		return overrides.NewMemoryStore(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown overrides backend: %s", cfg.OverridesBackend)
	}
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("wodcycle-router"))

	miscHandler := misc.NewHandler(s.versionInfo, s.authService, s.location)
	miscHandler.SetupRoutes(r, s.rateLimiter, s.metricsManager)

	scheduleHandler := schedule.NewHandler(s.projector, s.location, s.config.PreviewDays)
	r.HandleFunc("/schedule/preview", scheduleHandler.HandlePreview).Methods("GET", "OPTIONS").Name("schedule-preview")
	r.HandleFunc("/schedule/day/{date}", scheduleHandler.HandleDay).Methods("GET", "OPTIONS").Name("schedule-day")

	overridesHandler := overrides.NewHandler(s.overridesStore, s.metricsManager, s.location)
	writeLimit := middleware.RateLimit(s.rateLimiter, "overrides", s.config.AdminRateLimitPerMin, s.metricsManager)
	r.HandleFunc("/overrides", overridesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-overrides")
	r.HandleFunc("/overrides/{date}", overridesHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-override")
	r.Handle("/overrides/{date}", writeLimit(http.HandlerFunc(overridesHandler.HandlePut))).Methods("PUT").Name("set-override")
	r.Handle("/overrides/{date}", writeLimit(http.HandlerFunc(overridesHandler.HandleDelete))).Methods("DELETE").Name("remove-override")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{Registry: s.promRegistry},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	go s.cleanSessions(ctx)

	if s.generationJob != nil {
		s.generationJob.Start(ctx)
	} else {
		log.Infoln("wod generation job disabled")
	}

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) cleanSessions(ctx context.Context) {
	ticker := time.NewTicker(sessionsCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.authService.ScanAndClean(ctx, now)
		}
	}
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if err := s.closeResources(); err != nil {
		log.Errorf("close resources: %s", err)
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
}

func (s *Server) closeResources() error {
	var err error
	if s.storeCloser != nil {
		err = multierr.Append(err, s.storeCloser.Close())
	}
	if s.redisClient != nil {
		err = multierr.Append(err, s.redisClient.Close())
	}
	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}
	return err
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}

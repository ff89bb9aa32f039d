package internal

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/mmtreino/internal/config"
	"github.com/2beens/mmtreino/internal/db"
	"github.com/2beens/mmtreino/internal/exercises"
	"github.com/2beens/mmtreino/internal/middleware"
	"github.com/2beens/mmtreino/internal/plan"
	"github.com/2beens/mmtreino/internal/schema"
	"github.com/2beens/mmtreino/internal/stats"
	"github.com/2beens/mmtreino/internal/telemetry/metrics"
	"github.com/2beens/mmtreino/internal/telemetry/tracing"
	"github.com/2beens/mmtreino/internal/visitor"
	"github.com/2beens/mmtreino/internal/workouts"
	"github.com/2beens/mmtreino/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	store       *db.Store
	redisClient *redis.Client
	rateLimiter middleware.RequestRateLimiter

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, tracing.ServiceName)
	if err != nil {
		return nil, err
	}

	storeOpts := db.Options{
		DSN:            params.Config.DatabaseURL,
		TracingEnabled: params.HoneycombTracingEnabled,
		LogLevel:       gormLogLevel(params.Config.LogLevel),
		OnPool: func(pool *pgxpool.Pool) {
			metrics.RegisterDBPool(promRegistry, pool, "mmtreino")
		},
	}
	if params.Config.AutoMigrate {
		storeOpts.OnOpen = schema.Migrate
	}
	store := db.NewStore(storeOpts)

	// the store stays lazy: a database that is down now is retried per request
	if err := store.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	s := &Server{
		config:         params.Config,
		store:          store,
		versionInfo:    params.VersionInfo,
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	if params.Config.RedisEnabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
			Password: params.RedisPassword,
			DB:       0, // use default DB
		})
		rdb.AddHook(redisotel.NewTracingHook())

		rdbStatus := rdb.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}

		s.redisClient = rdb
		s.rateLimiter = redis_rate.NewLimiter(rdb)
	} else {
		log.Infoln("redis not configured, workout writes are not rate limited")
	}

	return s, nil
}

type RouterParams struct {
	Conn           db.Conn
	MetricsManager *metrics.Manager
	// RateLimiter is optional
	RateLimiter          middleware.RequestRateLimiter
	WriteRateLimitPerMin int
	AllowedOrigins       []string
	SecureCookie         bool
	VersionInfo          string
}

// NewRouter wires every API route on top of one store connection.
func NewRouter(params RouterParams) *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	// router middlewares skip unmatched requests, so these carry the
	// visitor cookie themselves
	identify := visitor.Identify(params.SecureCookie)
	r.NotFoundHandler = identify(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteErrorEnvelope(w, http.StatusNotFound, "not found", nil)
	}))
	r.MethodNotAllowedHandler = identify(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, "method not allowed", nil)
	}))

	exercisesRepo := exercises.NewRepo(params.Conn)
	planRepo := plan.NewRepo(params.Conn)
	workoutsRepo := workouts.NewRepo(params.Conn)

	exercisesHandler := exercises.NewHandler(exercisesRepo)
	r.HandleFunc("/exercises", exercisesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-exercises")
	r.HandleFunc("/exercises/{id}", exercisesHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-exercise")

	planHandler := plan.NewHandler(planRepo)
	r.HandleFunc("/plan", planHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-plan")
	r.HandleFunc("/plan/week/{weekNumber}", planHandler.HandleWeek).Methods("GET", "OPTIONS").Name("get-plan-week")

	workoutsHandler := workouts.NewHandler(
		workouts.NewService(workoutsRepo, planRepo),
		params.MetricsManager,
	)
	r.HandleFunc("/workouts", workoutsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-workouts")
	r.HandleFunc("/workouts/start", workoutsHandler.HandleStart).Methods("POST", "OPTIONS").Name("start-workout")
	r.HandleFunc("/workouts/{id}", workoutsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-workout")
	r.HandleFunc("/workouts/{id}/set", workoutsHandler.HandleRecordSet).Methods("POST", "OPTIONS").Name("record-set")
	r.HandleFunc("/workouts/{id}/complete", workoutsHandler.HandleComplete).Methods("POST", "OPTIONS").Name("complete-workout")

	statsHandler := stats.NewHandler(stats.NewAnalyzer(workoutsRepo, planRepo))
	r.HandleFunc("/stats", statsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-stats")

	r.HandleFunc("/health", healthHandler(params.Conn, params.VersionInfo)).Methods("GET").Name("health")

	r.Use(middleware.PanicRecovery(params.MetricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(params.MetricsManager))
	r.Use(middleware.Cors(params.AllowedOrigins))
	r.Use(identify)
	if params.RateLimiter != nil {
		r.Use(middleware.RateLimit(
			params.RateLimiter,
			params.MetricsManager,
			"mmtreino-writes",
			params.WriteRateLimitPerMin,
		))
	}
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func healthHandler(conn db.Conn, versionInfo string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if err := ping(ctx, conn); err != nil {
			log.Warnf("health: %s", err)
			pkg.WriteErrorEnvelope(w, http.StatusServiceUnavailable, "database connection error", map[string]string{"code": "connection"})
			return
		}

		pkg.WriteOK(w, map[string]string{
			"status":  "ok",
			"version": versionInfo,
		})
	}
}

func ping(ctx context.Context, conn db.Conn) error {
	gdb, err := conn.Get(ctx)
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Server) Serve(host string, port int) {
	router := NewRouter(RouterParams{
		Conn:                 s.store,
		MetricsManager:       s.metricsManager,
		RateLimiter:          s.rateLimiter,
		WriteRateLimitPerMin: s.config.WriteRateLimitPerMin,
		AllowedOrigins:       s.config.AllowedOrigins,
		SecureCookie:         s.config.SecureCookie,
		VersionInfo:          s.versionInfo,
	})

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
		promhttp.HandlerOpts{},
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

	if s.config.PrometheusMetricsPort != "" {
		go func() {
			log.Debugf(" > metrics listening on: [%s]", metricsAddr)
			err := s.metricsHttpServer.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("metrics service, listen and serve: %s", err)
			}
		}()
	}

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

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

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	log.Debugln("closing db store ...")
	s.store.Close()

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
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

// gormLogLevel keeps SQL logging quiet unless the service itself logs at
// debug or below.
func gormLogLevel(level string) string {
	switch level {
	case "trace":
		return "info"
	case "debug":
		return "warn"
	default:
		return "error"
	}
}

package mockserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/chizen/internal/config"
	"github.com/2beens/chizen/internal/middleware"
	"github.com/2beens/chizen/internal/telemetry/metrics"
	"github.com/2beens/chizen/internal/telemetry/tracing"
	"github.com/2beens/chizen/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"golang.org/x/crypto/bcrypt"
)

const loginRateLimitKey = "chizen-mock::login"

type Server struct {
	httpServer *http.Server
	config     *config.Config

	store  *Store
	gen    *generator
	today  *todayRoutines
	tokens *TokenIssuer

	redisClient  *redis.Client
	rateLimiter  middleware.RequestRateLimiter
	passwordCost int
	now          func() time.Time

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	RedisPassword           string
	JWTSecret               string
	HoneycombTracingEnabled bool

	// optional, mostly for tests
	RateLimiter  middleware.RequestRateLimiter
	PasswordCost int
	Now          func() time.Time
}

func NewServer(ctx context.Context, params NewServerParams) (*Server, error) {
	if params.Config == nil {
		return nil, errors.New("config is nil")
	}

	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("chizen", "mockserver", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	tokens, err := NewTokenIssuer(params.JWTSecret, DefaultTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("new token issuer: %w", err)
	}

	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "chizen-mockserver")
	if err != nil {
		return nil, err
	}

	now := params.Now
	if now == nil {
		now = time.Now
	}
	passwordCost := params.PasswordCost
	if passwordCost == 0 {
		passwordCost = bcrypt.DefaultCost
	}

	s := &Server{
		config:         params.Config,
		store:          NewStore(now()),
		gen:            newGenerator(params.Config.FakeDataSeed),
		today:          newTodayRoutines(),
		tokens:         tokens,
		rateLimiter:    params.RateLimiter,
		passwordCost:   passwordCost,
		now:            now,
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	if s.rateLimiter == nil && params.Config.RedisEnabled() {
		s.redisClient = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
			Password: params.RedisPassword,
			DB:       0, // use default DB
		})
		s.redisClient.AddHook(redisotel.NewTracingHook())
		rdbStatus := s.redisClient.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}
		s.rateLimiter = redis_rate.NewLimiter(s.redisClient)
	}

	return s, nil
}

func (s *Server) Store() *Store {
	return s.store
}

func (s *Server) Tokens() *TokenIssuer {
	return s.tokens
}

func (s *Server) MetricsManager() *metrics.Manager {
	return s.metricsManager
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("chizen-mock-router"))

	var loginLimiter func(http.Handler) http.Handler
	if s.rateLimiter != nil && s.config.LoginRateLimitAllowedPerMin > 0 {
		loginLimiter = middleware.RateLimit(s.rateLimiter, loginRateLimitKey, s.config.LoginRateLimitAllowedPerMin, s.metricsManager)
	}

	NewMiscHandler(s.store, s.now).SetupRoutes(r)
	NewAuthHandler(s.store, s.gen, s.tokens, s.metricsManager, s.passwordCost, s.now).SetupRoutes(r, loginLimiter)
	NewRoutineHandler(s.store, s.gen, s.today, s.metricsManager, s.now).SetupRoutes(r)
	NewProgressHandler(s.store, s.gen).SetupRoutes(r)
	NewAdminHandler(s.store, s.gen, s.now).SetupRoutes(r)

	r.Handle("/metrics", promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{})).Methods("GET").Name("metrics")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteErrorDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteErrorDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.tokens, s.config.RequireAdminAuth, "/api/admin")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.Router(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	go func() {
		log.Infof(" > mock backend listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("mock backend, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	if s.httpServer == nil {
		return
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	}
}

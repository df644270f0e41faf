package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/2beens/chizen/internal/apiclient"
	"github.com/2beens/chizen/internal/chizen"
	"github.com/2beens/chizen/internal/config"
	"github.com/2beens/chizen/internal/logging"
	"github.com/2beens/chizen/internal/session"
	"github.com/2beens/chizen/internal/telemetry/metrics"

	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	token := flag.String("token", "", "bearer token to use (overrides the session store and CHIZEN_TOKEN)")
	sessionID := flag.String("session-id", "", "redis session id (overrides session_id from config)")
	showStats := flag.Bool("stats", false, "print api client call stats to stderr when done")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: chizen [flags] <command> [args]\n\nflags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(flag.CommandLine.Output(), "\ncommands:\n")
		printCommands(flag.CommandLine.Output())
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %s\n", err)
		os.Exit(1)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		SentryServerName: "chizen-cli",
	})
	if cfg.LogsPath == "" {
		// stdout is for results
		log.SetOutput(os.Stderr)
	}

	if *sessionID != "" {
		cfg.SessionID = *sessionID
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	provider, tokens, closeSessions, err := newSessionProvider(ctx, cfg, *token)
	if err != nil {
		log.Errorf("session provider: %s", err)
		os.Exit(1)
	}
	defer closeSessions()

	promRegistry := prometheus.NewRegistry()
	metricsManager := metrics.NewManager("chizen", "cli", promRegistry)

	exec := apiclient.New(
		cfg.APIBaseURL,
		apiclient.WithSessionProvider(provider),
		apiclient.WithRetryPolicy(apiclient.RetryPolicy{
			MaxAttempts:    cfg.MaxAttempts,
			AttemptTimeout: cfg.AttemptTimeout,
			Backoff:        apiclient.ExponentialBackoff(cfg.BackoffBase),
		}),
		apiclient.WithMetrics(metricsManager),
	)
	log.Debugf("api base url: %s", exec.BaseURL())

	a := &app{
		client: chizen.NewClient(exec),
		tokens: tokens,
		out:    os.Stdout,
		errOut: os.Stderr,
	}
	exitCode := a.run(ctx, flag.Args())

	if *showStats {
		if err := writeClientStats(os.Stderr, promRegistry); err != nil {
			log.Errorf("client stats: %s", err)
		}
	}

	closeSessions()
	os.Exit(exitCode)
}

// newSessionProvider picks the token source: an explicit token, then the redis
// session store when redis is configured, then the CHIZEN_TOKEN env var.
// The returned token store is nil when logins cannot be persisted.
func newSessionProvider(ctx context.Context, cfg *config.Config, token string) (apiclient.SessionProvider, tokenStore, func(), error) {
	noop := func() {}
	if token != "" {
		return session.NewStatic(token), nil, noop, nil
	}

	if !cfg.RedisEnabled() {
		return session.NewEnv(session.DefaultTokenEnvVar), nil, noop, nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: os.Getenv("CHIZEN_REDIS_PASS"),
		DB:       0, // use default DB
	})
	redisClient.AddHook(redisotel.NewTracingHook())
	closed := false
	closeClient := func() {
		if closed {
			return
		}
		closed = true
		if err := redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if err := redisClient.Ping(ctx).Err(); err != nil {
		closeClient()
		return nil, nil, noop, fmt.Errorf("ping redis: %w", err)
	}

	sessionID := cfg.SessionID
	if sessionID == "" {
		sessionID = "default"
	}
	store, err := session.NewRedis(redisClient, sessionID, session.DefaultTTL)
	if err != nil {
		closeClient()
		return nil, nil, noop, err
	}
	log.Debugf("using redis session [%s]", sessionID)
	return store, store, closeClient, nil
}

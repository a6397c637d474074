package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	adminhandler "consentvault/internal/admin/handler"
	adminservice "consentvault/internal/admin/service"
	outboxmetrics "consentvault/internal/audit/outbox/metrics"
	outboxworker "consentvault/internal/audit/outbox/worker"
	auditservice "consentvault/internal/audit/service"
	"consentvault/internal/deletion/delivery"
	deletionhandler "consentvault/internal/deletion/handler"
	deletionservice "consentvault/internal/deletion/service"
	identityhandler "consentvault/internal/identity/handler"
	identityservice "consentvault/internal/identity/service"
	jwttoken "consentvault/internal/jwt_token"
	"consentvault/internal/platform/config"
	"consentvault/internal/platform/database"
	"consentvault/internal/platform/health"
	"consentvault/internal/platform/kafka"
	"consentvault/internal/platform/kafka/producer"
	"consentvault/internal/platform/logger"
	"consentvault/internal/platform/metrics"
	"consentvault/internal/platform/redis"
	prefhandler "consentvault/internal/preference/handler"
	prefmetrics "consentvault/internal/preference/metrics"
	prefservice "consentvault/internal/preference/service"
	"consentvault/internal/processing/geolocation"
	procservice "consentvault/internal/processing/service"
	retentionmetrics "consentvault/internal/retention/metrics"
	"consentvault/internal/retention/workers/sweeper"
	secservice "consentvault/internal/security/service"
	httptransport "consentvault/internal/transport/http"
	"consentvault/pkg/platform/credential"
	"consentvault/pkg/platform/middleware/metadata"
	"consentvault/pkg/platform/middleware/request"
)

const (
	shutdownTimeout   = 10 * time.Second
	poolStatsInterval = 15 * time.Second
)

// main loads configuration, wires the ledgers and workers, and serves HTTP
// until SIGINT or SIGTERM. Business logic lives in the internal service packages.
func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("consentvault exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	log.Info("initializing consentvault",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"anonymize_ip", cfg.AnonymizeIP,
	)

	pool, err := database.New(cfg.Database)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close() //nolint:errcheck // shutdown path

	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	if rdb != nil {
		defer rdb.Close() //nolint:errcheck // shutdown path
	}

	publisher, err := newPublisher(ctx, cfg.Kafka, log)
	if err != nil {
		return fmt.Errorf("kafka: %w", err)
	}
	defer publisher.Close() //nolint:errcheck // shutdown path

	st := buildStores(cfg, pool, rdb, log)
	appMetrics := metrics.New()

	hasher := credential.NewHasher(bcrypt.DefaultCost)
	tokens := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer, cfg.Auth.Audience,
		cfg.Auth.UserTokenTTL, cfg.Auth.AdminTokenTTL)

	security := secservice.New(st.security,
		secservice.WithLogger(log),
		secservice.WithMetrics(appMetrics),
		secservice.WithHorizon(cfg.Retention.SecurityEventHorizon),
		secservice.WithAnonymization(cfg.AnonymizeIP),
	)
	audit := auditservice.New(st.audit,
		auditservice.WithLogger(log),
		auditservice.WithMetrics(appMetrics),
		auditservice.WithAnonymization(cfg.AnonymizeIP),
	)

	var locator procservice.Locator
	if cfg.Geolocation.URL != "" {
		locator = geolocation.New(cfg.Geolocation.URL, cfg.Geolocation.Token, cfg.Geolocation.Timeout)
	} else {
		log.Warn("GEOLOCATION_URL not set, processing contexts store placeholder geography")
	}
	processing := procservice.New(st.contexts, locator,
		procservice.WithLogger(log),
		procservice.WithMetrics(appMetrics),
		procservice.WithPurgeGrace(cfg.Retention.ContextPurgeGrace),
		procservice.WithAnonymization(cfg.AnonymizeIP),
	)
	preferences := prefservice.New(st.preferences, processing,
		prefservice.WithLogger(log),
		prefservice.WithMetrics(prefmetrics.New()),
	)
	identities := identityservice.New(st.identities, hasher, tokens,
		identityservice.WithLogger(log),
		identityservice.WithMetrics(appMetrics),
		identityservice.WithSecurityRecorder(security),
	)

	var sender deletionservice.Sender = delivery.NewLogSender(log)
	if cfg.Kafka.Brokers != "" {
		sender = delivery.NewKafkaSender(publisher, cfg.Kafka.NotificationTopic)
	}
	deletion := deletionservice.New(st.codes, sender, identities, preferences, audit,
		deletionservice.WithLogger(log),
		deletionservice.WithMetrics(appMetrics),
		deletionservice.WithThrottle(st.throttle),
		deletionservice.WithSecurityRecorder(security),
		deletionservice.WithDeliveryTimeout(cfg.Deletion.DeliveryTimeout),
	)
	admin := adminservice.New(st.admins, hasher, tokens, st.revocations, identities, preferences, processing, audit,
		adminservice.WithLogger(log),
		adminservice.WithMetrics(appMetrics),
		adminservice.WithSecurityLog(security),
	)
	if cfg.Bootstrap.Login != "" {
		if err := admin.Bootstrap(ctx, cfg.Bootstrap.Login, cfg.Bootstrap.Password); err != nil {
			return fmt.Errorf("bootstrap administrator: %w", err)
		}
	}

	healthHandler := health.New(cfg.Environment)
	if pool != nil {
		healthHandler.RegisterCheck("postgres", pool.Health)
	}
	if rdb != nil {
		healthHandler.RegisterCheck("redis", rdb.Health)
	}
	if cfg.Kafka.Brokers != "" {
		healthHandler.RegisterCheck("kafka", kafka.NewHealthChecker(publisher).Check)
	}

	trusted, err := metadata.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return fmt.Errorf("trusted proxies: %w", err)
	}
	router := httptransport.NewRouter(httptransport.Handlers{
		Identity:    identityhandler.New(identities, log),
		Preferences: prefhandler.New(preferences, log),
		Deletion:    deletionhandler.New(deletion, log),
		Admin:       adminhandler.New(admin, log),
		Health:      healthHandler,
	}, httptransport.Config{
		Tokens:         jwttoken.NewJWTServiceAdapter(tokens),
		Revocations:    st.revocations,
		Metadata:       metadata.New(trusted),
		RequestMetrics: request.NewMetrics(),
		RequestTimeout: cfg.HTTP.RequestTimeout,
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		AuthRateLimit:  cfg.HTTP.AuthRateLimit,
		AuthRateWindow: cfg.HTTP.AuthRateWindow,
		ExposeMetrics:  true,
	}, log)

	sw, err := sweeper.New(st.security, st.contexts, st.preferences, st.identities, sweeper.Policy{
		PreferenceRetention:         cfg.Retention.PreferenceRetention,
		IdentityDeletedRetention:    cfg.Retention.IdentityDeletedRetention,
		IdentityInactivityRetention: cfg.Retention.IdentityInactivityRetention,
		AuditRetention:              cfg.Retention.AuditRetention,
		OutboxRetention:             cfg.Retention.OutboxRetention,
	},
		sweeper.WithInterval(cfg.Retention.SweepInterval),
		sweeper.WithLogger(log),
		sweeper.WithMetrics(retentionmetrics.New()),
		sweeper.WithAuditStore(st.audit),
		sweeper.WithOutboxStore(st.outbox),
	)
	if err != nil {
		return fmt.Errorf("retention sweeper: %w", err)
	}

	exporter := outboxworker.New(st.outbox, publisher,
		outboxworker.WithTopic(cfg.Kafka.AuditTopic),
		outboxworker.WithMetrics(outboxmetrics.New()),
		outboxworker.WithLogger(log),
	)
	exporter.Start()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		return errors.Join(srv.Shutdown(shutdownCtx), exporter.Stop(shutdownCtx))
	})
	g.Go(func() error { return ignoreCancel(sw.Start(gctx)) })
	for _, task := range st.sweepers {
		g.Go(func() error { return ignoreCancel(task(gctx)) })
	}
	if pool != nil || rdb != nil {
		g.Go(func() error { return recordPoolStats(pool, rdb, poolStatsInterval)(gctx) })
	}

	return g.Wait()
}

func newPublisher(ctx context.Context, cfg config.KafkaConfig, log *slog.Logger) (producer.Publisher, error) {
	if cfg.Brokers == "" {
		log.Warn("KAFKA_BROKERS not set, audit export and code delivery only log")
		return producer.NewNoopProducer(log), nil
	}
	p, err := producer.New(producer.Config{
		Brokers:         cfg.Brokers,
		ClientID:        cfg.ClientID,
		Acks:            "all",
		Retries:         5,
		DeliveryTimeout: 10 * time.Second,
	}, log)
	if err != nil {
		return nil, err
	}
	topicCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	err = kafka.EnsureTopics(topicCtx, p.Client(),
		kafka.TopicSpec{Name: cfg.AuditTopic, Partitions: 3, ReplicationFactor: 1},
		kafka.TopicSpec{Name: cfg.NotificationTopic, Partitions: 1, ReplicationFactor: 1, RetentionMs: "86400000"},
	)
	if err != nil {
		// topics may be managed outside the service; produce will surface real problems
		log.Warn("could not ensure kafka topics", "error", err)
	}
	return p, nil
}

func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

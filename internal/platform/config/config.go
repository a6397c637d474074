package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr           string
	Environment    string
	LogLevel       string
	TrustedProxies string
	AnonymizeIP    bool

	HTTP        HTTPConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	Auth        AuthConfig
	Retention   RetentionConfig
	Geolocation GeolocationConfig
	Deletion    DeletionConfig
	Bootstrap   AdminBootstrap
}

// HTTPConfig covers the browser-facing edge: the origins allowed to call the
// API from a consent banner and the per-IP limit on credential endpoints.
type HTTPConfig struct {
	CORSOrigins    []string
	AuthRateLimit  int
	AuthRateWindow time.Duration
	RequestTimeout time.Duration
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type KafkaConfig struct {
	Brokers           string
	AuditTopic        string
	NotificationTopic string
	ClientID          string
}

type AuthConfig struct {
	JWTSigningKey string
	Issuer        string
	Audience      string
	UserTokenTTL  time.Duration
	AdminTokenTTL time.Duration
}

// RetentionConfig names every retention window. Business code never carries
// a literal retention period.
type RetentionConfig struct {
	PreferenceRetention         time.Duration
	IdentityDeletedRetention    time.Duration
	IdentityInactivityRetention time.Duration
	ContextPurgeGrace           time.Duration
	SecurityEventHorizon        time.Duration
	AuditRetention              time.Duration
	OutboxRetention             time.Duration
	SweepInterval               time.Duration
}

type GeolocationConfig struct {
	URL     string
	Token   string
	Timeout time.Duration
}

type DeletionConfig struct {
	DeliveryTimeout    time.Duration
	CodeRequestLimit   int
	CodeRequestWindow  time.Duration
	CodeStoreSweepFreq time.Duration
}

type AdminBootstrap struct {
	Login    string
	Password string
}

const day = 24 * time.Hour

// Defaults
var (
	DefaultPreferenceRetention         = 730 * day
	DefaultIdentityDeletedRetention    = 365 * day
	DefaultIdentityInactivityRetention = 365 * day
	DefaultContextPurgeGrace           = 30 * day
	DefaultSecurityEventHorizon        = 30 * day
	DefaultAuditRetention              = 730 * day
	DefaultOutboxRetention             = 7 * day
	DefaultSweepInterval               = time.Hour
	DefaultUserTokenTTL                = time.Hour
	DefaultAdminTokenTTL               = time.Hour
)

// FromEnv builds a Server config from environment variables so main stays lean.
// Malformed values are reported rather than silently replaced by defaults.
func FromEnv() (Server, error) {
	p := &envParser{}

	cfg := Server{
		Addr:           p.str("CONSENTVAULT_ADDR", ":8080"),
		Environment:    p.str("ENVIRONMENT", "local"),
		LogLevel:       p.str("LOG_LEVEL", "info"),
		TrustedProxies: p.str("TRUSTED_PROXIES", ""),
		AnonymizeIP:    p.boolean("ANONYMIZE_IP", true),
		HTTP: HTTPConfig{
			CORSOrigins:    splitList(p.str("CORS_ORIGINS", "")),
			AuthRateLimit:  p.integer("AUTH_RATE_LIMIT", 20),
			AuthRateWindow: p.duration("AUTH_RATE_WINDOW", time.Minute),
			RequestTimeout: p.duration("REQUEST_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			URL:             p.str("DATABASE_URL", ""),
			MaxOpenConns:    p.integer("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    p.integer("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: p.duration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL:          p.str("REDIS_URL", ""),
			PoolSize:     p.integer("REDIS_POOL_SIZE", 10),
			MinIdleConns: p.integer("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  p.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  p.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: p.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:           p.str("KAFKA_BROKERS", ""),
			AuditTopic:        p.str("KAFKA_AUDIT_TOPIC", "consentvault.audit.records"),
			NotificationTopic: p.str("KAFKA_NOTIFICATION_TOPIC", "consentvault.notifications.deletion-codes"),
			ClientID:          p.str("KAFKA_CLIENT_ID", "consentvault"),
		},
		Auth: AuthConfig{
			JWTSigningKey: p.str("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			Issuer:        p.str("JWT_ISSUER", "consentvault"),
			Audience:      p.str("JWT_AUDIENCE", "consentvault-api"),
			UserTokenTTL:  p.duration("USER_TOKEN_TTL", DefaultUserTokenTTL),
			AdminTokenTTL: p.duration("ADMIN_TOKEN_TTL", DefaultAdminTokenTTL),
		},
		Retention: RetentionConfig{
			PreferenceRetention:         p.duration("PREFERENCE_RETENTION", DefaultPreferenceRetention),
			IdentityDeletedRetention:    p.duration("IDENTITY_DELETED_RETENTION", DefaultIdentityDeletedRetention),
			IdentityInactivityRetention: p.duration("IDENTITY_INACTIVITY_RETENTION", DefaultIdentityInactivityRetention),
			ContextPurgeGrace:           p.duration("CONTEXT_PURGE_GRACE", DefaultContextPurgeGrace),
			SecurityEventHorizon:        p.duration("SECURITY_EVENT_HORIZON", DefaultSecurityEventHorizon),
			AuditRetention:              p.duration("AUDIT_RETENTION", DefaultAuditRetention),
			OutboxRetention:             p.duration("OUTBOX_RETENTION", DefaultOutboxRetention),
			SweepInterval:               p.duration("SWEEP_INTERVAL", DefaultSweepInterval),
		},
		Geolocation: GeolocationConfig{
			URL:     p.str("GEOLOCATION_URL", ""),
			Token:   p.str("GEOLOCATION_TOKEN", ""),
			Timeout: p.duration("GEOLOCATION_TIMEOUT", 2*time.Second),
		},
		Deletion: DeletionConfig{
			DeliveryTimeout:    p.duration("DELIVERY_TIMEOUT", 5*time.Second),
			CodeRequestLimit:   p.integer("CODE_REQUEST_LIMIT", 5),
			CodeRequestWindow:  p.duration("CODE_REQUEST_WINDOW", time.Hour),
			CodeStoreSweepFreq: p.duration("CODE_STORE_SWEEP_INTERVAL", time.Minute),
		},
		Bootstrap: AdminBootstrap{
			Login:    p.str("ADMIN_BOOTSTRAP_LOGIN", ""),
			Password: p.str("ADMIN_BOOTSTRAP_PASSWORD", ""),
		},
	}

	if p.err != nil {
		return Server{}, p.err
	}
	return cfg, nil
}

// ParseDuration extends time.ParseDuration with a whole-day suffix, so
// retention windows read the way policy documents state them ("730d").
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid day duration %q", s)
		}
		return time.Duration(n) * day, nil
	}
	return time.ParseDuration(s)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// envParser records the first malformed variable so FromEnv can report it.
type envParser struct {
	err error
}

func (p *envParser) str(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func (p *envParser) duration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := ParseDuration(raw)
	if err != nil || d <= 0 {
		p.fail(fmt.Errorf("%s: invalid duration %q", key, raw))
		return def
	}
	return d
}

func (p *envParser) integer(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		p.fail(fmt.Errorf("%s: invalid integer %q", key, raw))
		return def
	}
	return n
}

func (p *envParser) boolean(key string, def bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(fmt.Errorf("%s: invalid boolean %q", key, raw))
		return def
	}
	return b
}

func (p *envParser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

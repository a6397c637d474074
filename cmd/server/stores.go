package main

import (
	"context"
	"log/slog"
	"time"

	adminservice "consentvault/internal/admin/service"
	adminstore "consentvault/internal/admin/store"
	"consentvault/internal/audit/outbox"
	auditservice "consentvault/internal/audit/service"
	auditstore "consentvault/internal/audit/store"
	deletionservice "consentvault/internal/deletion/service"
	deletionstore "consentvault/internal/deletion/store"
	identityservice "consentvault/internal/identity/service"
	identitystore "consentvault/internal/identity/store"
	"consentvault/internal/platform/config"
	"consentvault/internal/platform/database"
	"consentvault/internal/platform/redis"
	prefservice "consentvault/internal/preference/service"
	prefstore "consentvault/internal/preference/store"
	procservice "consentvault/internal/processing/service"
	procstore "consentvault/internal/processing/store"
	"consentvault/internal/retention/workers/sweeper"
	secservice "consentvault/internal/security/service"
	secstore "consentvault/internal/security/store"
	"consentvault/pkg/platform/middleware/auth"
)

type identityStore interface {
	identityservice.Store
	sweeper.IdentityStore
}

type preferenceStore interface {
	prefservice.Store
	sweeper.PreferenceStore
}

type contextStore interface {
	procservice.Store
	sweeper.ContextStore
}

type securityStore interface {
	secservice.Store
	sweeper.SecurityEventStore
}

type auditStore interface {
	auditservice.Store
	sweeper.AuditStore
}

type revocationList interface {
	adminservice.RevocationList
	auth.TokenRevocationChecker
}

// backgroundTask runs until ctx is cancelled.
type backgroundTask func(ctx context.Context) error

// stores holds one implementation per ledger. Postgres backs the ledgers when
// DATABASE_URL is set; Redis backs deletion codes, the code-request throttle
// and admin revocations when REDIS_URL is set. Everything else is in memory.
type stores struct {
	identities  identityStore
	preferences preferenceStore
	contexts    contextStore
	security    securityStore
	audit       auditStore
	outbox      outbox.Store
	admins      adminservice.Store
	codes       deletionservice.CodeStore
	throttle    deletionservice.Throttle
	revocations revocationList

	// sweepers clean the in-memory stores that have no TTL of their own.
	sweepers []backgroundTask
}

func buildStores(cfg config.Server, pool *database.Pool, rdb *redis.Client, logger *slog.Logger) *stores {
	s := &stores{}

	if pool != nil {
		db := pool.DB()
		s.identities = identitystore.NewPostgres(db)
		s.preferences = prefstore.NewPostgres(db)
		s.contexts = procstore.NewPostgres(db)
		s.security = secstore.NewPostgres(db)
		s.audit = auditstore.NewPostgres(db)
		s.outbox = outbox.NewPostgres(db)
		s.admins = adminstore.NewPostgres(db)
		logger.Info("using postgres ledgers")
	} else {
		memOutbox := outbox.NewInMemory()
		s.identities = identitystore.NewInMemory()
		s.preferences = prefstore.NewInMemory()
		s.contexts = procstore.NewInMemory()
		s.security = secstore.NewInMemory()
		s.audit = auditstore.NewInMemory(auditstore.WithOutbox(memOutbox))
		s.outbox = memOutbox
		s.admins = adminstore.NewInMemory()
		logger.Warn("DATABASE_URL not set, ledgers are in memory and lost on restart")
	}

	if rdb != nil {
		s.codes = deletionstore.NewRedisCodeStore(rdb.Client)
		s.throttle = deletionstore.NewRedisThrottle(rdb.Client, cfg.Deletion.CodeRequestLimit, cfg.Deletion.CodeRequestWindow)
		s.revocations = adminstore.NewRedisRevocationList(rdb.Client)
		logger.Info("using redis for deletion codes and token revocation")
	} else {
		codes := deletionstore.NewInMemoryCodeStore()
		revocations := adminstore.NewInMemoryRevocationList()
		s.codes = codes
		s.throttle = deletionstore.NewInMemoryThrottle(cfg.Deletion.CodeRequestLimit, cfg.Deletion.CodeRequestWindow)
		s.revocations = revocations
		sweepEvery := cfg.Deletion.CodeStoreSweepFreq
		s.sweepers = append(s.sweepers,
			func(ctx context.Context) error { return codes.StartSweeper(ctx, sweepEvery) },
			func(ctx context.Context) error { return revocations.StartSweeper(ctx, sweepEvery) },
		)
	}

	return s
}

// recordPoolStats exports connection pool gauges until ctx is cancelled.
func recordPoolStats(pool *database.Pool, rdb *redis.Client, interval time.Duration) backgroundTask {
	return func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				pool.RecordPoolStats()
				if rdb != nil {
					rdb.RecordPoolStats()
				}
			}
		}
	}
}

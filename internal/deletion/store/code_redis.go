package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"consentvault/internal/deletion/models"
	id "consentvault/pkg/domain"
	"consentvault/pkg/platform/sentinel"
)

const codeKeyPrefix = "deletion_code:"

type codeJSON struct {
	IdentityID string `json:"identity_id"`
	ConsentKey string `json:"consent_key"`
	Value      string `json:"value"`
	IssuedAt   int64  `json:"issued_at"`  // Unix nano
	ExpiresAt  int64  `json:"expires_at"` // Unix nano
}

// RedisCodeStore shares codes across instances. Keys expire with the
// tombstone window so Redis does the sweeping.
type RedisCodeStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisCodeStore(client *redis.Client) *RedisCodeStore {
	return &RedisCodeStore{client: client, now: time.Now}
}

func codeKey(identityID id.IdentityID) string {
	return codeKeyPrefix + identityID.String()
}

func encodeCode(code *models.Code) ([]byte, error) {
	payload, err := json.Marshal(codeJSON{
		IdentityID: code.IdentityID.String(),
		ConsentKey: string(code.ConsentKey),
		Value:      code.Value,
		IssuedAt:   code.IssuedAt.UnixNano(),
		ExpiresAt:  code.ExpiresAt.UnixNano(),
	})
	if err != nil {
		return nil, fmt.Errorf("encode deletion code: %w", err)
	}
	return payload, nil
}

func (s *RedisCodeStore) Save(ctx context.Context, code *models.Code) error {
	payload, err := encodeCode(code)
	if err != nil {
		return err
	}
	ttl := code.RetainUntil().Sub(s.now())
	if ttl <= 0 {
		ttl = time.Second
	}
	if err := s.client.Set(ctx, codeKey(code.IdentityID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("save deletion code: %w", err)
	}
	return nil
}

// Take uses GETDEL so two concurrent verifications cannot both consume a code.
func (s *RedisCodeStore) Take(ctx context.Context, identityID id.IdentityID) (*models.Code, error) {
	raw, err := s.client.GetDel(ctx, codeKey(identityID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("deletion code: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("take deletion code: %w", err)
	}
	var j codeJSON
	if err := json.Unmarshal(raw, &j); err != nil {
		return nil, fmt.Errorf("decode deletion code: %w", err)
	}
	parsed, err := uuid.Parse(j.IdentityID)
	if err != nil {
		return nil, fmt.Errorf("parse identity id: %w", err)
	}
	return &models.Code{
		IdentityID: id.IdentityID(parsed),
		ConsentKey: id.ConsentKey(j.ConsentKey),
		Value:      j.Value,
		IssuedAt:   time.Unix(0, j.IssuedAt),
		ExpiresAt:  time.Unix(0, j.ExpiresAt),
	}, nil
}

// Compare-and-delete on the exact encoded payload.
var discardScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Discard drops the identity's code only if it was not replaced meanwhile.
func (s *RedisCodeStore) Discard(ctx context.Context, code *models.Code) error {
	payload, err := encodeCode(code)
	if err != nil {
		return err
	}
	err = discardScript.Run(ctx, s.client, []string{codeKey(code.IdentityID)}, string(payload)).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("discard deletion code: %w", err)
	}
	return nil
}

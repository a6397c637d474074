package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consentvault/internal/platform/kafka/producer"
	id "consentvault/pkg/domain"
)

type capturePublisher struct {
	msg *producer.Message
	err error
}

func (c *capturePublisher) Produce(_ context.Context, msg *producer.Message) error {
	c.msg = msg
	return c.err
}
func (c *capturePublisher) Healthy(context.Context) bool { return true }
func (c *capturePublisher) Close() error                 { return nil }

func TestKafkaSender(t *testing.T) {
	pub := &capturePublisher{}
	sender := NewKafkaSender(pub, "notifications")
	identityID := id.IdentityID(uuid.New())
	expires := time.Date(2026, 4, 1, 10, 5, 0, 0, time.UTC)

	require.NoError(t, sender.Send(context.Background(), Notification{
		IdentityID: identityID, Contact: "ada@example.com", Code: "123456", ExpiresAt: expires,
	}))
	require.NotNil(t, pub.msg)
	assert.Equal(t, "notifications", pub.msg.Topic)
	assert.Equal(t, identityID.String(), string(pub.msg.Key))

	var body notificationJSON
	require.NoError(t, json.Unmarshal(pub.msg.Value, &body))
	assert.Equal(t, "deletion_code", body.Type)
	assert.Equal(t, "123456", body.Code)
	assert.True(t, expires.Equal(body.ExpiresAt))
}

func TestKafkaSenderPropagatesFailure(t *testing.T) {
	pub := &capturePublisher{err: errors.New("no brokers")}
	err := NewKafkaSender(pub, "notifications").Send(context.Background(), Notification{IdentityID: id.IdentityID(uuid.New())})
	assert.Error(t, err)
}

func TestLogSenderMasksContact(t *testing.T) {
	var buf bytes.Buffer
	sender := NewLogSender(slog.New(slog.NewJSONHandler(&buf, nil)))
	require.NoError(t, sender.Send(context.Background(), Notification{
		IdentityID: id.IdentityID(uuid.New()), Contact: "ada@example.com", Code: "654321",
	}))
	assert.NotContains(t, buf.String(), "ada@example.com")
	assert.Contains(t, buf.String(), "654321")
}

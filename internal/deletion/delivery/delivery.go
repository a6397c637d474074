// Package delivery hands deletion codes to an out-of-band channel.
package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"consentvault/internal/platform/kafka/producer"
	id "consentvault/pkg/domain"
	s "consentvault/pkg/string"
)

// Notification is one code to deliver.
type Notification struct {
	IdentityID id.IdentityID
	Contact    string
	Code       string
	ExpiresAt  time.Time
}

type notificationJSON struct {
	Type       string    `json:"type"`
	IdentityID string    `json:"identity_id"`
	Contact    string    `json:"contact"`
	Code       string    `json:"code"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// KafkaSender publishes notifications for the mail/SMS dispatcher. Produce is
// synchronous, so a returned nil means the broker acknowledged the record.
type KafkaSender struct {
	publisher producer.Publisher
	topic     string
}

func NewKafkaSender(publisher producer.Publisher, topic string) *KafkaSender {
	return &KafkaSender{publisher: publisher, topic: topic}
}

func (k *KafkaSender) Send(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(notificationJSON{
		Type:       "deletion_code",
		IdentityID: n.IdentityID.String(),
		Contact:    n.Contact,
		Code:       n.Code,
		ExpiresAt:  n.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	msg := &producer.Message{
		Topic: k.topic,
		Key:   []byte(n.IdentityID.String()),
		Value: payload,
		Headers: map[string]string{
			"event_type": "deletion_code",
		},
	}
	if err := k.publisher.Produce(ctx, msg); err != nil {
		return fmt.Errorf("publish deletion code: %w", err)
	}
	return nil
}

// LogSender writes the code to the log. It only exists for standalone local runs.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (l *LogSender) Send(ctx context.Context, n Notification) error {
	l.logger.InfoContext(ctx, "deletion code issued (log delivery)",
		"identity_id", n.IdentityID.String(),
		"contact", s.MaskContact(n.Contact),
		"code", n.Code,
		"expires_at", n.ExpiresAt,
	)
	return nil
}

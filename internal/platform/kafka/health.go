package kafka

import (
	"context"
	"errors"
)

type pinger interface {
	Healthy(ctx context.Context) bool
}

// HealthChecker adapts a producer to the readiness check signature.
type HealthChecker struct {
	producer pinger
}

func NewHealthChecker(p pinger) *HealthChecker {
	return &HealthChecker{producer: p}
}

func (h *HealthChecker) Check(ctx context.Context) error {
	if h.producer == nil || !h.producer.Healthy(ctx) {
		return errors.New("no kafka brokers reachable")
	}
	return nil
}

func (h *HealthChecker) Name() string {
	return "kafka"
}

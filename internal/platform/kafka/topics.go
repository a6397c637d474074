package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// TopicSpec describes a topic the service publishes to.
type TopicSpec struct {
	Name              string
	Partitions        int32
	ReplicationFactor int16
	// RetentionMs is passed as retention.ms; empty keeps the broker default.
	RetentionMs string
}

// EnsureTopics creates missing topics. Topics that already exist are left
// untouched, so calling it on every start is safe.
func EnsureTopics(ctx context.Context, client *kgo.Client, topics ...TopicSpec) error {
	adm := kadm.NewClient(client)

	var errs []error
	for _, t := range topics {
		var configs map[string]*string
		if t.RetentionMs != "" {
			v := t.RetentionMs
			configs = map[string]*string{"retention.ms": &v}
		}
		resp, err := adm.CreateTopic(ctx, t.Partitions, t.ReplicationFactor, configs, t.Name)
		if err != nil {
			errs = append(errs, fmt.Errorf("create topic %s: %w", t.Name, err))
			continue
		}
		if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
			errs = append(errs, fmt.Errorf("create topic %s: %w", t.Name, resp.Err))
		}
	}
	return errors.Join(errs...)
}

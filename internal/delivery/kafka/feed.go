package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/otakucart/storefront/internal/usecase"
)

// Feed publishes change events to the per-table topics.
type Feed struct {
	client *kgo.Client
}

func NewFeed(client *kgo.Client) *Feed {
	return &Feed{client: client}
}

func (f *Feed) Publish(ctx context.Context, event, table string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	value, err := json.Marshal(ChangeEvent{
		SchemaVersion: 1,
		Event:         event,
		Schema:        "public",
		Table:         table,
		Payload:       raw,
	})
	if err != nil {
		return fmt.Errorf("encode change event: %w", err)
	}

	record := &kgo.Record{
		Topic: TopicForTable(table),
		Key:   []byte(table),
		Value: value,
	}
	return f.client.ProduceSync(ctx, record).FirstErr()
}

var _ usecase.ChangeFeed = (*Feed)(nil)

// NoopFeed stands in when the change feed is disabled; local snapshot
// invalidation still happens at the service layer.
type NoopFeed struct{}

func (NoopFeed) Publish(context.Context, string, string, any) error { return nil }

var _ usecase.ChangeFeed = NoopFeed{}

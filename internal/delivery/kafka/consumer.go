package kafka

import (
	"context"
	"encoding/json"
	"log"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Consumer polls the change topics and hands each decoded event to the
// handler, which invalidates the matching snapshot. Invalidation is cheap and
// idempotent, so events from this instance's own writes are not filtered out.
type Consumer struct {
	client  *kgo.Client
	handler func(ChangeEvent)
	ready   chan struct{}
}

func NewConsumer(client *kgo.Client, handler func(ChangeEvent)) *Consumer {
	return &Consumer{
		client:  client,
		handler: handler,
		ready:   make(chan struct{}),
	}
}

func (c *Consumer) Start(ctx context.Context) {
	close(c.ready)
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return
		}
		if errs := fetches.Errors(); len(errs) > 0 {
			log.Printf("Consumer poll errors: %v", errs)
		}

		iter := fetches.RecordIter()
		for !iter.Done() {
			record := iter.Next()
			c.processRecord(record)
		}

		if err := c.client.CommitRecords(ctx, fetches.Records()...); err != nil {
			log.Printf("Failed to commit records: %v", err)
		}
	}
}

func (c *Consumer) Ready() <-chan struct{} {
	return c.ready
}

func (c *Consumer) processRecord(record *kgo.Record) {
	var event ChangeEvent
	if err := json.Unmarshal(record.Value, &event); err != nil {
		log.Printf("Skipping malformed change event on %s: %v", record.Topic, err)
		return
	}
	c.handler(event)
}

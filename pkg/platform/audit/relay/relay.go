// Package relay drains the audit outbox to Kafka. Rows are produced in commit
// order per source entity (the record key) and marked published only after the
// broker acknowledges, so delivery is at-least-once and consumers must
// de-duplicate on row id.
package relay

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"

	"fellgate/pkg/platform/audit/store/postgres"
)

const defaultBatchSize = 100

// Outbox is the slice of the postgres store the relay needs.
type Outbox interface {
	PendingBatch(ctx context.Context, limit int) ([]postgres.PendingRow, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID) error
}

type Relay struct {
	outbox    Outbox
	client    *kgo.Client
	topic     string
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
}

type Option func(*Relay)

func WithBatchSize(n int) Option {
	return func(r *Relay) { r.batchSize = n }
}

func WithInterval(d time.Duration) Option {
	return func(r *Relay) { r.interval = d }
}

func New(outbox Outbox, client *kgo.Client, topic string, logger *slog.Logger, opts ...Option) *Relay {
	r := &Relay{
		outbox:    outbox,
		client:    client,
		topic:     topic,
		interval:  time.Second,
		batchSize: defaultBatchSize,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run polls the outbox until ctx is cancelled. Produce failures leave rows
// unpublished; they are retried on the next tick.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.relayOnce(ctx); err != nil {
				r.logger.ErrorContext(ctx, "audit relay pass failed", "error", err)
			}
		}
	}
}

func (r *Relay) relayOnce(ctx context.Context) error {
	rows, err := r.outbox.PendingBatch(ctx, r.batchSize)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	published := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		record := &kgo.Record{
			Topic: r.topic,
			Key:   []byte(row.SourceEntityID),
			Value: row.Envelope,
		}
		if err := r.client.ProduceSync(ctx, record).FirstErr(); err != nil {
			r.logger.ErrorContext(ctx, "failed to produce audit record",
				"error", err,
				"row_id", row.ID.String(),
			)
			break
		}
		published = append(published, row.ID)
	}

	return r.outbox.MarkPublished(ctx, published)
}

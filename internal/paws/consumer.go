package paws

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	id "fellgate/pkg/domain"
)

// checkEnvelope is the wire form of a CheckMessage on the check topic.
type checkEnvelope struct {
	ApplicationID     string `json:"applicationId"`
	PropertyProfileID string `json:"propertyProfileId"`
	WoodlandOwnerID   string `json:"woodlandOwnerId"`
}

// Consumer polls the PAWS check topic and runs one requirement check per
// record. Malformed records are logged and skipped; check failures are already
// audited by the service, so the consumer only logs and moves on.
type Consumer struct {
	client  *kgo.Client
	service *Service
	logger  *slog.Logger
}

func NewConsumer(client *kgo.Client, service *Service, logger *slog.Logger) *Consumer {
	return &Consumer{client: client, service: service, logger: logger}
}

// Run consumes until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if err := ctx.Err(); err != nil {
			return err
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.ErrorContext(ctx, "paws check fetch error",
				"error", err,
				"topic", topic,
				"partition", partition,
			)
		})
		fetches.EachRecord(func(record *kgo.Record) {
			c.handle(ctx, record)
		})
	}
}

func (c *Consumer) handle(ctx context.Context, record *kgo.Record) {
	msg, err := decodeCheckMessage(record.Value)
	if err != nil {
		c.logger.ErrorContext(ctx, "skipping malformed paws check record", "error", err)
		return
	}
	if err := c.service.CheckAndUpdateApplicationForPaws(ctx, msg); err != nil {
		c.logger.ErrorContext(ctx, "paws requirement check failed",
			"error", err,
			"application_id", msg.ApplicationID.String(),
		)
	}
}

func decodeCheckMessage(value []byte) (CheckMessage, error) {
	var env checkEnvelope
	if err := json.Unmarshal(value, &env); err != nil {
		return CheckMessage{}, err
	}
	appID, err := id.ParseApplicationID(env.ApplicationID)
	if err != nil {
		return CheckMessage{}, err
	}
	profileID, err := id.ParsePropertyProfileID(env.PropertyProfileID)
	if err != nil {
		return CheckMessage{}, err
	}
	ownerID, err := id.ParseWoodlandOwnerID(env.WoodlandOwnerID)
	if err != nil {
		return CheckMessage{}, err
	}
	return CheckMessage{
		ApplicationID:     appID,
		PropertyProfileID: profileID,
		WoodlandOwnerID:   ownerID,
	}, nil
}

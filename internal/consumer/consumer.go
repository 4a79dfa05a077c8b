package consumer

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"github.com/Olatundeawo/ordora/internal/entity"
	"github.com/Olatundeawo/ordora/internal/service"
)

// Consumer listens to order events and keeps the goods cache in step with
// fulfillment. Stock itself is changed transactionally by the payment
// reconcile path; this only refreshes what readers see.
type Consumer struct {
	goodsSvc *service.GoodsService
	reader   *kafka.Reader
}

func NewConsumer(goodsSvc *service.GoodsService, reader *kafka.Reader) *Consumer {
	return &Consumer{goodsSvc: goodsSvc, reader: reader}
}

// Start reads order events until the context is canceled.
func (c *Consumer) Start(ctx context.Context) {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Msgf("Error reading message: %v", err)
			continue
		}

		c.processMessage(ctx, msg)
	}
}

// processMessage handles one order event. Keys look like
// "order.created.<id>" or "order.paid.<id>".
func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) {
	var order entity.Order
	if err := json.Unmarshal(msg.Value, &order); err != nil {
		log.Error().Msgf("Error unmarshalling message: %v", err)
		return
	}

	parts := strings.Split(string(msg.Key), ".")
	if len(parts) < 2 {
		log.Error().Msgf("Unknown event key: %s", string(msg.Key))
		return
	}
	eventType := parts[1]

	switch eventType {
	case "paid", "created":
		for _, item := range order.Items {
			if err := c.goodsSvc.RefreshCache(ctx, item.ProductID); err != nil {
				log.Error().Msgf("Error refreshing cache for goods %d: %v", item.ProductID, err)
			}
		}
	default:
		log.Error().Msgf("Unknown order event type: %s", eventType)
	}
}

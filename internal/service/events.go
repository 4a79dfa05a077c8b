package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/Olatundeawo/ordora/internal/entity"
)

// publishOrderEvent pushes the order state to the order topic with a
// "order.<action>.<id>" key so consumers can dispatch on the action.
// A nil writer disables publishing (tests, single-process deployments).
func publishOrderEvent(ctx context.Context, w *kafka.Writer, order *entity.Order, action string) error {
	if w == nil {
		return nil
	}

	orderJSON, err := json.Marshal(order)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order.%s.%d", action, order.ID)),
		Value: orderJSON,
	}

	return w.WriteMessages(ctx, msg)
}

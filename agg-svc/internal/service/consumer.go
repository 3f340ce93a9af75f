package service

import (
	"context"
	"encoding/json"
	"log"

	"bakery-preorder/agg-svc/internal/domain"
)

type Consumer struct {
	Reader MessageReader
	Store  StoreInterface
}

func NewConsumer(reader MessageReader, store StoreInterface) *Consumer {
	return &Consumer{
		Reader: reader,
		Store:  store,
	}
}

// Start reads order events until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	log.Println("[agg-svc] consuming order events...")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Println("[agg-svc] consumer stopped")
				return
			}
			log.Printf("[agg-svc] error reading message: %v", err)
			continue
		}

		var msg domain.OrderMessage
		if err := json.Unmarshal(message.Value, &msg); err != nil {
			log.Printf("[agg-svc] error unmarshaling message at offset %d: %v", message.Offset, err)
			continue
		}

		c.ProcessOrder(ctx, msg)
	}
}

// ProcessOrder folds one order into the popularity counters. Redelivered
// events are recognised by reference and counted once.
func (c *Consumer) ProcessOrder(ctx context.Context, msg domain.OrderMessage) {
	if msg.Type != domain.OrderPlaced {
		return
	}
	if msg.Reference == "" || len(msg.Items) == 0 {
		log.Printf("[agg-svc] skipping malformed order event %q", msg.Reference)
		return
	}

	seen, err := c.Store.Seen(ctx, msg.Reference)
	if err != nil {
		log.Printf("[agg-svc] error checking order %s: %v", msg.Reference, err)
		return
	}
	if seen {
		log.Printf("[agg-svc] order %s already counted", msg.Reference)
		return
	}

	if err := c.Store.RecordOrder(ctx, msg); err != nil {
		log.Printf("[agg-svc] error recording order %s: %v", msg.Reference, err)
		return
	}

	log.Printf("[agg-svc] counted order %s (%d lines)", msg.Reference, len(msg.Items))
}

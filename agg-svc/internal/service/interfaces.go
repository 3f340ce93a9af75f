package service

import (
	"context"

	"bakery-preorder/agg-svc/internal/domain"
	"bakery-preorder/agg-svc/internal/storage"

	"github.com/segmentio/kafka-go"
)

type StoreInterface interface {
	Seen(ctx context.Context, reference string) (bool, error)
	RecordOrder(ctx context.Context, msg domain.OrderMessage) error
}

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type ConsumerInterface interface {
	Start(ctx context.Context)
	ProcessOrder(ctx context.Context, msg domain.OrderMessage)
}

var (
	_ StoreInterface    = (*storage.Store)(nil)
	_ MessageReader     = (*kafka.Reader)(nil)
	_ ConsumerInterface = (*Consumer)(nil)
)

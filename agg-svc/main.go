package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"bakery-preorder/agg-svc/internal/service"
	"bakery-preorder/agg-svc/internal/storage"
	"bakery-preorder/config"
)

func main() {
	config.LoadEnv()
	if os.Getenv("KAFKA_BROKER") == "" {
		log.Fatal("KAFKA_BROKER is required")
	}

	rdb := config.MustInitRedis()
	defer rdb.Close()

	reader := config.NewKafkaReader(config.GetEnv("ORDERS_TOPIC", "orders"), config.GetEnv("KAFKA_GROUP_ID", "agg-svc-consumer"))
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := service.NewConsumer(reader, storage.NewStore(rdb, config.Location()))
	consumer.Start(ctx)
}

package storage

import (
	"context"
	"time"

	"bakery-preorder/agg-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	AllTimeKey = "popularity:alltime"
	dailyTTL   = 7 * 24 * time.Hour
	markerTTL  = 7 * 24 * time.Hour
)

func DailyKey(date string) string {
	return "popularity:daily:" + date
}

func ItemKey(itemID string) string {
	return "item:" + itemID
}

func ProcessedKey(reference string) string {
	return "order:processed:" + reference
}

type Store struct {
	rdb *redis.Client
	loc *time.Location

	Now func() time.Time
}

func NewStore(rdb *redis.Client, loc *time.Location) *Store {
	if loc == nil {
		loc = time.Local
	}
	return &Store{
		rdb: rdb,
		loc: loc,
		Now: time.Now,
	}
}

func (s *Store) Seen(ctx context.Context, reference string) (bool, error) {
	n, err := s.rdb.Exists(ctx, ProcessedKey(reference)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RecordOrder adds each line's quantity to the daily and all-time sorted
// sets, refreshes the item's name hash and marks the reference processed,
// all in one transaction. The day is the order's own timestamp on the
// bakery's calendar.
func (s *Store) RecordOrder(ctx context.Context, msg domain.OrderMessage) error {
	placed := msg.Timestamp
	if placed.IsZero() {
		placed = s.Now()
	}
	dailyKey := DailyKey(placed.In(s.loc).Format("2006-01-02"))

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, item := range msg.Items {
			if item.ItemID == "" || item.Quantity <= 0 {
				continue
			}
			qty := float64(item.Quantity)
			pipe.ZIncrBy(ctx, dailyKey, qty, item.ItemID)
			pipe.ZIncrBy(ctx, AllTimeKey, qty, item.ItemID)
			pipe.HSet(ctx, ItemKey(item.ItemID), map[string]interface{}{
				"name":         item.Name,
				"last_ordered": placed.Unix(),
			})
			pipe.HIncrBy(ctx, ItemKey(item.ItemID), "orders", 1)
		}
		pipe.Expire(ctx, dailyKey, dailyTTL)
		if msg.Reference != "" {
			pipe.Set(ctx, ProcessedKey(msg.Reference), "1", markerTTL)
		}
		return nil
	})
	return err
}

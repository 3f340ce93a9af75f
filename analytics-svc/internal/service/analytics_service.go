package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"bakery-preorder/analytics-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50
	allTimeKey   = "popularity:alltime"
)

func dailyKey(date string) string {
	return "popularity:daily:" + date
}

func itemKey(itemID string) string {
	return "item:" + itemID
}

type AnalyticsService struct {
	rdb *redis.Client
	loc *time.Location

	Now func() time.Time
}

func NewAnalyticsService(rdb *redis.Client, loc *time.Location) *AnalyticsService {
	if loc == nil {
		loc = time.Local
	}
	return &AnalyticsService{
		rdb: rdb,
		loc: loc,
		Now: time.Now,
	}
}

func (s *AnalyticsService) today() string {
	return s.Now().In(s.loc).Format("2006-01-02")
}

func (s *AnalyticsService) PopularToday(ctx context.Context, limit int) ([]domain.ItemPopularity, error) {
	return s.top(ctx, dailyKey(s.today()), limit)
}

func (s *AnalyticsService) PopularAllTime(ctx context.Context, limit int) ([]domain.ItemPopularity, error) {
	return s.top(ctx, allTimeKey, limit)
}

func (s *AnalyticsService) Summary(ctx context.Context) (domain.PopularitySummary, error) {
	summary := domain.PopularitySummary{Date: s.today()}

	today, err := s.PopularToday(ctx, 1)
	if err != nil {
		return summary, err
	}
	if len(today) > 0 {
		summary.MostPopularToday = &today[0]
	}

	allTime, err := s.PopularAllTime(ctx, 1)
	if err != nil {
		return summary, err
	}
	if len(allTime) > 0 {
		summary.MostPopularAllTime = &allTime[0]
	}
	return summary, nil
}

func (s *AnalyticsService) ItemStats(ctx context.Context, itemID string) (*domain.ItemStats, error) {
	fields, err := s.rdb.HGetAll(ctx, itemKey(itemID)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, domain.ErrItemNotFound
	}

	total, err := s.rdb.ZScore(ctx, allTimeKey, itemID).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	orders, _ := strconv.ParseInt(fields["orders"], 10, 64)
	lastOrdered, _ := strconv.ParseInt(fields["last_ordered"], 10, 64)
	return &domain.ItemStats{
		ItemID:        itemID,
		Name:          fields["name"],
		TotalQuantity: int64(total),
		Orders:        orders,
		LastOrdered:   lastOrdered,
	}, nil
}

// top reads the highest-scoring members of a popularity set and resolves
// their display names. Items without a name hash fall back to their id.
func (s *AnalyticsService) top(ctx context.Context, key string, limit int) ([]domain.ItemPopularity, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	results, err := s.rdb.ZRevRangeWithScores(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	items := make([]domain.ItemPopularity, 0, len(results))
	if len(results) == 0 {
		return items, nil
	}

	pipe := s.rdb.Pipeline()
	names := make([]*redis.StringCmd, len(results))
	for i, r := range results {
		names[i] = pipe.HGet(ctx, itemKey(r.Member.(string)), "name")
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	for i, r := range results {
		id := r.Member.(string)
		name := names[i].Val()
		if name == "" {
			name = id
		}
		items = append(items, domain.ItemPopularity{
			ItemID:   id,
			Name:     name,
			Quantity: int64(r.Score),
		})
	}
	return items, nil
}

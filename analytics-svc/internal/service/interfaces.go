package service

import (
	"context"

	"bakery-preorder/analytics-svc/internal/domain"
)

type AnalyticsInterface interface {
	PopularToday(ctx context.Context, limit int) ([]domain.ItemPopularity, error)
	PopularAllTime(ctx context.Context, limit int) ([]domain.ItemPopularity, error)
	Summary(ctx context.Context) (domain.PopularitySummary, error)
	ItemStats(ctx context.Context, itemID string) (*domain.ItemStats, error)
}

var _ AnalyticsInterface = (*AnalyticsService)(nil)

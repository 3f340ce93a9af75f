package mocks

import (
	context "context"

	domain "bakery-preorder/analytics-svc/internal/domain"

	mock "github.com/stretchr/testify/mock"
)

// AnalyticsInterface is a mock type for the AnalyticsInterface type
type AnalyticsInterface struct {
	mock.Mock
}

// ItemStats provides a mock function with given fields: ctx, itemID
func (_m *AnalyticsInterface) ItemStats(ctx context.Context, itemID string) (*domain.ItemStats, error) {
	ret := _m.Called(ctx, itemID)

	if len(ret) == 0 {
		panic("no return value specified for ItemStats")
	}

	var r0 *domain.ItemStats
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*domain.ItemStats, error)); ok {
		return rf(ctx, itemID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *domain.ItemStats); ok {
		r0 = rf(ctx, itemID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.ItemStats)
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, itemID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// PopularAllTime provides a mock function with given fields: ctx, limit
func (_m *AnalyticsInterface) PopularAllTime(ctx context.Context, limit int) ([]domain.ItemPopularity, error) {
	ret := _m.Called(ctx, limit)

	if len(ret) == 0 {
		panic("no return value specified for PopularAllTime")
	}

	var r0 []domain.ItemPopularity
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int) ([]domain.ItemPopularity, error)); ok {
		return rf(ctx, limit)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int) []domain.ItemPopularity); ok {
		r0 = rf(ctx, limit)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.ItemPopularity)
	}

	if rf, ok := ret.Get(1).(func(context.Context, int) error); ok {
		r1 = rf(ctx, limit)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// PopularToday provides a mock function with given fields: ctx, limit
func (_m *AnalyticsInterface) PopularToday(ctx context.Context, limit int) ([]domain.ItemPopularity, error) {
	ret := _m.Called(ctx, limit)

	if len(ret) == 0 {
		panic("no return value specified for PopularToday")
	}

	var r0 []domain.ItemPopularity
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int) ([]domain.ItemPopularity, error)); ok {
		return rf(ctx, limit)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int) []domain.ItemPopularity); ok {
		r0 = rf(ctx, limit)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.ItemPopularity)
	}

	if rf, ok := ret.Get(1).(func(context.Context, int) error); ok {
		r1 = rf(ctx, limit)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Summary provides a mock function with given fields: ctx
func (_m *AnalyticsInterface) Summary(ctx context.Context) (domain.PopularitySummary, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Summary")
	}

	var r0 domain.PopularitySummary
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) (domain.PopularitySummary, error)); ok {
		return rf(ctx)
	}
	if rf, ok := ret.Get(0).(func(context.Context) domain.PopularitySummary); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Get(0).(domain.PopularitySummary)
	}

	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewAnalyticsInterface creates a new instance of AnalyticsInterface. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewAnalyticsInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *AnalyticsInterface {
	mock := &AnalyticsInterface{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}

package mocks

import (
	context "context"

	domain "bakery-preorder/order-svc/internal/domain"

	mock "github.com/stretchr/testify/mock"
)

// CatalogSource is a mock type for the CatalogSource type
type CatalogSource struct {
	mock.Mock
}

// LoadMenu provides a mock function with given fields: ctx
func (_m *CatalogSource) LoadMenu(ctx context.Context) ([]domain.MenuItem, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for LoadMenu")
	}

	var r0 []domain.MenuItem
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) ([]domain.MenuItem, error)); ok {
		return rf(ctx)
	}
	if rf, ok := ret.Get(0).(func(context.Context) []domain.MenuItem); ok {
		r0 = rf(ctx)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.MenuItem)
	}

	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewCatalogSource creates a new instance of CatalogSource. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewCatalogSource(t interface {
	mock.TestingT
	Cleanup(func())
}) *CatalogSource {
	mock := &CatalogSource{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}

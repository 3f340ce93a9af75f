package mocks

import (
	context "context"

	notify "bakery-preorder/notify"

	mock "github.com/stretchr/testify/mock"
)

// SMSSender is a mock type for the SMSSender type
type SMSSender struct {
	mock.Mock
}

// SendSMS provides a mock function with given fields: ctx, msg
func (_m *SMSSender) SendSMS(ctx context.Context, msg notify.SMS) (string, error) {
	ret := _m.Called(ctx, msg)

	if len(ret) == 0 {
		panic("no return value specified for SendSMS")
	}

	var r0 string
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, notify.SMS) (string, error)); ok {
		return rf(ctx, msg)
	}
	if rf, ok := ret.Get(0).(func(context.Context, notify.SMS) string); ok {
		r0 = rf(ctx, msg)
	} else {
		r0 = ret.Get(0).(string)
	}

	if rf, ok := ret.Get(1).(func(context.Context, notify.SMS) error); ok {
		r1 = rf(ctx, msg)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewSMSSender creates a new instance of SMSSender. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewSMSSender(t interface {
	mock.TestingT
	Cleanup(func())
}) *SMSSender {
	mock := &SMSSender{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}

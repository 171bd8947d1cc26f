package usecasemock

import (
	context "context"

	gameweek "github.com/riskibarqy/fpl-league-analyzer/internal/domain/gameweek"
	mock "github.com/stretchr/testify/mock"
)

// GameweekStatus is a mock type for the GameweekStatus type
type GameweekStatus struct {
	mock.Mock
}

// FetchEvents provides a mock function with given fields: ctx
func (_m *GameweekStatus) FetchEvents(ctx context.Context) ([]gameweek.Event, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for FetchEvents")
	}

	var r0 []gameweek.Event
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) ([]gameweek.Event, error)); ok {
		return rf(ctx)
	}
	if rf, ok := ret.Get(0).(func(context.Context) []gameweek.Event); ok {
		r0 = rf(ctx)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]gameweek.Event)
	}

	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// FixturesStarted provides a mock function with given fields: ctx, _a1
func (_m *GameweekStatus) FixturesStarted(ctx context.Context, _a1 int) (bool, error) {
	ret := _m.Called(ctx, _a1)

	if len(ret) == 0 {
		panic("no return value specified for FixturesStarted")
	}

	var r0 bool
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int) (bool, error)); ok {
		return rf(ctx, _a1)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int) bool); ok {
		r0 = rf(ctx, _a1)
	} else {
		r0 = ret.Get(0).(bool)
	}

	if rf, ok := ret.Get(1).(func(context.Context, int) error); ok {
		r1 = rf(ctx, _a1)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewGameweekStatus creates a new instance of GameweekStatus. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewGameweekStatus(t interface {
	mock.TestingT
	Cleanup(func())
}) *GameweekStatus {
	m := &GameweekStatus{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

package usecasemock

import (
	context "context"

	league "github.com/riskibarqy/fpl-league-analyzer/internal/domain/league"
	mock "github.com/stretchr/testify/mock"
)

// LeagueDirectory is a mock type for the LeagueDirectory type
type LeagueDirectory struct {
	mock.Mock
}

// FetchLeagueEntries provides a mock function with given fields: ctx, leagueID, phase
func (_m *LeagueDirectory) FetchLeagueEntries(ctx context.Context, leagueID int64, phase int) ([]league.Entry, error) {
	ret := _m.Called(ctx, leagueID, phase)

	if len(ret) == 0 {
		panic("no return value specified for FetchLeagueEntries")
	}

	var r0 []league.Entry
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64, int) ([]league.Entry, error)); ok {
		return rf(ctx, leagueID, phase)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64, int) []league.Entry); ok {
		r0 = rf(ctx, leagueID, phase)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]league.Entry)
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64, int) error); ok {
		r1 = rf(ctx, leagueID, phase)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewLeagueDirectory creates a new instance of LeagueDirectory. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewLeagueDirectory(t interface {
	mock.TestingT
	Cleanup(func())
}) *LeagueDirectory {
	m := &LeagueDirectory{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

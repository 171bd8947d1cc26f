package usecasemock

import (
	context "context"

	usecase "github.com/riskibarqy/fpl-league-analyzer/internal/usecase"
	mock "github.com/stretchr/testify/mock"
)

// HistoryFetcher is a mock type for the HistoryFetcher type
type HistoryFetcher struct {
	mock.Mock
}

// FetchHistory provides a mock function with given fields: ctx, entryID
func (_m *HistoryFetcher) FetchHistory(ctx context.Context, entryID int64) (usecase.EntryHistory, error) {
	ret := _m.Called(ctx, entryID)

	if len(ret) == 0 {
		panic("no return value specified for FetchHistory")
	}

	var r0 usecase.EntryHistory
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, int64) (usecase.EntryHistory, error)); ok {
		return rf(ctx, entryID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, int64) usecase.EntryHistory); ok {
		r0 = rf(ctx, entryID)
	} else {
		r0 = ret.Get(0).(usecase.EntryHistory)
	}

	if rf, ok := ret.Get(1).(func(context.Context, int64) error); ok {
		r1 = rf(ctx, entryID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewHistoryFetcher creates a new instance of HistoryFetcher. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewHistoryFetcher(t interface {
	mock.TestingT
	Cleanup(func())
}) *HistoryFetcher {
	m := &HistoryFetcher{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

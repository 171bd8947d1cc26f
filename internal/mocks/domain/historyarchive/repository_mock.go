package historyarchivemock

import (
	context "context"

	historyarchive "github.com/riskibarqy/fpl-league-analyzer/internal/domain/historyarchive"
	mock "github.com/stretchr/testify/mock"
)

// Repository is a mock type for the Repository type
type Repository struct {
	mock.Mock
}

// UpsertMany provides a mock function with given fields: ctx, items
func (_m *Repository) UpsertMany(ctx context.Context, items []historyarchive.Snapshot) error {
	ret := _m.Called(ctx, items)

	if len(ret) == 0 {
		panic("no return value specified for UpsertMany")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, []historyarchive.Snapshot) error); ok {
		r0 = rf(ctx, items)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// NewRepository creates a new instance of Repository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *Repository {
	m := &Repository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

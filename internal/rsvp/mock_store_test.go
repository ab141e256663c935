package rsvp

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/connorkuehl/dinklebot/internal/dinkle"
)

type mockStore struct {
	mock.Mock
}

func newMockStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *mockStore {
	m := &mockStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *mockStore) PlayerByPsnID(ctx context.Context, psnID string) (dinkle.Player, error) {
	ret := m.Called(ctx, psnID)
	return ret.Get(0).(dinkle.Player), ret.Error(1)
}

func (m *mockStore) PlayerByTelegramID(ctx context.Context, telegramID int64) (dinkle.Player, error) {
	ret := m.Called(ctx, telegramID)
	return ret.Get(0).(dinkle.Player), ret.Error(1)
}

func (m *mockStore) RegisterTelegramID(ctx context.Context, playerID, telegramID int64) error {
	return m.Called(ctx, playerID, telegramID).Error(0)
}

func (m *mockStore) Events(ctx context.Context) ([]dinkle.Event, error) {
	ret := m.Called(ctx)
	events, _ := ret.Get(0).([]dinkle.Event)
	return events, ret.Error(1)
}

func (m *mockStore) EventsFor(ctx context.Context, playerID int64) ([]dinkle.Event, error) {
	ret := m.Called(ctx, playerID)
	events, _ := ret.Get(0).([]dinkle.Event)
	return events, ret.Error(1)
}

func (m *mockStore) Event(ctx context.Context, id int64) (dinkle.Event, error) {
	ret := m.Called(ctx, id)
	return ret.Get(0).(dinkle.Event), ret.Error(1)
}

func (m *mockStore) EventTypeByName(ctx context.Context, name string) (dinkle.EventType, error) {
	ret := m.Called(ctx, name)
	return ret.Get(0).(dinkle.EventType), ret.Error(1)
}

func (m *mockStore) CreateEvent(ctx context.Context, evt dinkle.Event) (int64, error) {
	ret := m.Called(ctx, evt)
	return ret.Get(0).(int64), ret.Error(1)
}

func (m *mockStore) UpdateEvent(ctx context.Context, evt dinkle.Event) error {
	return m.Called(ctx, evt).Error(0)
}

func (m *mockStore) DeleteEvent(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) Join(ctx context.Context, eventID, playerID int64) error {
	return m.Called(ctx, eventID, playerID).Error(0)
}

func (m *mockStore) Leave(ctx context.Context, eventID, playerID int64) error {
	return m.Called(ctx, eventID, playerID).Error(0)
}

package mocks

import (
	"github.com/niftybay/goapi/base/ctx"
	"github.com/niftybay/goapi/domain/marketplace"
	"github.com/stretchr/testify/mock"
)

type EventRepo struct {
	mock.Mock
}

func (m *EventRepo) Insert(c ctx.Ctx, e *marketplace.Event) error {
	ret := m.Called(c, e)
	return ret.Error(0)
}

func (m *EventRepo) FindAll(c ctx.Ctx, opts ...marketplace.FindAllOptionsFunc) ([]*marketplace.Event, error) {
	args := make([]interface{}, 0, len(opts)+1)
	args = append(args, c)
	for _, opt := range opts {
		args = append(args, opt)
	}
	ret := m.Called(args...)

	var r0 []*marketplace.Event
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*marketplace.Event)
	}
	return r0, ret.Error(1)
}

package mocks

import (
	"github.com/niftybay/goapi/base/ctx"
	"github.com/niftybay/goapi/domain"
	"github.com/stretchr/testify/mock"
)

type Mongo struct {
	mock.Mock
}

func (m *Mongo) Insert(c ctx.Ctx, table domain.Table, insert interface{}) error {
	ret := m.Called(c, table, insert)
	return ret.Error(0)
}

func (m *Mongo) FindOne(c ctx.Ctx, table domain.Table, query, result interface{}) error {
	ret := m.Called(c, table, query, result)
	return ret.Error(0)
}

func (m *Mongo) Count(c ctx.Ctx, table domain.Table, selector interface{}) (int, error) {
	ret := m.Called(c, table, selector)
	return ret.Int(0), ret.Error(1)
}

func (m *Mongo) Upsert(c ctx.Ctx, table domain.Table, selector, update interface{}) error {
	ret := m.Called(c, table, selector, update)
	return ret.Error(0)
}

func (m *Mongo) Search(c ctx.Ctx, table domain.Table, offset, limit int, sort string, query, results interface{}) error {
	ret := m.Called(c, table, offset, limit, sort, query, results)
	return ret.Error(0)
}

func (m *Mongo) Remove(c ctx.Ctx, table domain.Table, selector interface{}) error {
	ret := m.Called(c, table, selector)
	return ret.Error(0)
}

func (m *Mongo) Patch(c ctx.Ctx, table domain.Table, selector, update interface{}) error {
	ret := m.Called(c, table, selector, update)
	return ret.Error(0)
}

// RunWithTransaction executes run inline so usecase tests exercise the real
// transactional body without a mongo session.
func (m *Mongo) RunWithTransaction(c ctx.Ctx, run func(ctx.Ctx) error) error {
	return run(c)
}

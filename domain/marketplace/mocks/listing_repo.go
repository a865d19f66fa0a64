package mocks

import (
	"github.com/niftybay/goapi/base/ctx"
	"github.com/niftybay/goapi/domain/marketplace"
	"github.com/stretchr/testify/mock"
)

type ListingRepo struct {
	mock.Mock
}

func (m *ListingRepo) FindOne(c ctx.Ctx, id marketplace.Id) (*marketplace.Listing, error) {
	ret := m.Called(c, id)

	var r0 *marketplace.Listing
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*marketplace.Listing)
	}
	return r0, ret.Error(1)
}

func (m *ListingRepo) Insert(c ctx.Ctx, l *marketplace.Listing) error {
	ret := m.Called(c, l)
	return ret.Error(0)
}

func (m *ListingRepo) Patch(c ctx.Ctx, id marketplace.Id, value marketplace.PatchableListing) error {
	ret := m.Called(c, id, value)
	return ret.Error(0)
}

func (m *ListingRepo) FindAll(c ctx.Ctx, opts ...marketplace.FindAllOptionsFunc) ([]*marketplace.Listing, error) {
	args := make([]interface{}, 0, len(opts)+1)
	args = append(args, c)
	for _, opt := range opts {
		args = append(args, opt)
	}
	ret := m.Called(args...)

	var r0 []*marketplace.Listing
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*marketplace.Listing)
	}
	return r0, ret.Error(1)
}

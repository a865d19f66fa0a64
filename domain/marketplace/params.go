package marketplace

import (
	"github.com/niftybay/goapi/domain"
)

type findAllOptions struct {
	SortBy          *string
	SortDir         *domain.SortDir
	Offset          *int32
	Limit           *int32
	ChainId         *domain.ChainId
	ContractAddress *domain.Address
	TokenId         *domain.TokenId
	Seller          *domain.Address
	Active          *bool
	EventType       *EventType
}

type FindAllOptionsFunc func(*findAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (findAllOptions, error) {
	res := findAllOptions{}

	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}

	return res, nil
}

func WithSort(sortby string, sortdir domain.SortDir) FindAllOptionsFunc {
	return func(options *findAllOptions) error {
		options.SortBy = &sortby
		options.SortDir = &sortdir
		return nil
	}
}

func WithPagination(offset int32, limit int32) FindAllOptionsFunc {
	return func(options *findAllOptions) error {
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

func WithChainId(chainId domain.ChainId) FindAllOptionsFunc {
	return func(options *findAllOptions) error {
		options.ChainId = &chainId
		return nil
	}
}

func WithToken(id Id) FindAllOptionsFunc {
	return func(options *findAllOptions) error {
		options.ChainId = &id.ChainId
		options.ContractAddress = &id.ContractAddress
		options.TokenId = &id.TokenId
		return nil
	}
}

func WithSeller(seller domain.Address) FindAllOptionsFunc {
	return func(options *findAllOptions) error {
		options.Seller = &seller
		return nil
	}
}

func WithActive(active bool) FindAllOptionsFunc {
	return func(options *findAllOptions) error {
		options.Active = &active
		return nil
	}
}

func WithEventType(t EventType) FindAllOptionsFunc {
	return func(options *findAllOptions) error {
		options.EventType = &t
		return nil
	}
}

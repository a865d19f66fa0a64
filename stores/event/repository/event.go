package repository

import (
	bCtx "github.com/niftybay/goapi/base/ctx"
	"github.com/niftybay/goapi/base/log"
	"github.com/niftybay/goapi/domain"
	"github.com/niftybay/goapi/domain/marketplace"
	"github.com/niftybay/goapi/service/query"
	"go.mongodb.org/mongo-driver/bson"
)

type eventRepo struct {
	q query.Mongo
}

func NewEventRepo(q query.Mongo) marketplace.EventRepo {
	return &eventRepo{q}
}

func (r *eventRepo) Insert(c bCtx.Ctx, e *marketplace.Event) error {
	if err := r.q.Insert(c, domain.TableMarketplaceEvents, e); err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"eventId": e.EventId,
			"type":    e.Type,
		}).Error("q.Insert failed")
		return err
	}
	return nil
}

func (r *eventRepo) FindAll(c bCtx.Ctx, optFns ...marketplace.FindAllOptionsFunc) ([]*marketplace.Event, error) {
	opts, err := marketplace.GetFindAllOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("marketplace.GetFindAllOptions failed")
		return nil, err
	}

	offset := 0
	limit := 0
	sort := "-time"

	if opts.Offset != nil {
		offset = int(*opts.Offset)
	}

	if opts.Limit != nil {
		limit = int(*opts.Limit)
	}

	if opts.SortBy != nil && opts.SortDir != nil {
		sort = *opts.SortBy
		if *opts.SortDir == domain.SortDirDesc {
			sort = "-" + sort
		}
	}

	qry := bson.M{}

	if opts.ChainId != nil {
		qry["chainId"] = *opts.ChainId
	}

	if opts.ContractAddress != nil {
		qry["contractAddress"] = *opts.ContractAddress
	}

	if opts.TokenId != nil {
		qry["tokenId"] = *opts.TokenId
	}

	if opts.EventType != nil {
		qry["type"] = *opts.EventType
	}

	res := []*marketplace.Event{}
	if err := r.q.Search(c, domain.TableMarketplaceEvents, offset, limit, sort, qry, &res); err != nil {
		c.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

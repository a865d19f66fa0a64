package repository

import (
	bCtx "github.com/niftybay/goapi/base/ctx"
	"github.com/niftybay/goapi/base/database/mongoclient"
	"github.com/niftybay/goapi/base/log"
	"github.com/niftybay/goapi/domain"
	"github.com/niftybay/goapi/domain/marketplace"
	"github.com/niftybay/goapi/service/query"
	"go.mongodb.org/mongo-driver/bson"
)

func makeFindQuery(optFns ...marketplace.FindAllOptionsFunc) (bson.M, error) {
	opts, err := marketplace.GetFindAllOptions(optFns...)
	if err != nil {
		return nil, err
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

	if opts.Seller != nil {
		qry["seller"] = *opts.Seller
	}

	if opts.Active != nil {
		qry["active"] = *opts.Active
	}

	return qry, nil
}

type auctionRepo struct {
	q query.Mongo
}

func NewAuctionRepo(q query.Mongo) marketplace.AuctionRepo {
	return &auctionRepo{q}
}

func (r *auctionRepo) FindOne(c bCtx.Ctx, id marketplace.Id) (*marketplace.Auction, error) {
	qry, err := mongoclient.MakeBsonM(id)
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("mongoclient.MakeBsonM failed")
		return nil, err
	}

	auction := &marketplace.Auction{}
	if err := r.q.FindOne(c, domain.TableAuctions, qry, auction); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("q.FindOne failed")
		return nil, err
	}
	return auction, nil
}

func (r *auctionRepo) Insert(c bCtx.Ctx, a *marketplace.Auction) error {
	if err := r.q.Insert(c, domain.TableAuctions, a); err == query.ErrDuplicateKey {
		return domain.ErrConflict
	} else if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  a.ToId(),
		}).Error("q.Insert failed")
		return err
	}
	return nil
}

func (r *auctionRepo) Patch(c bCtx.Ctx, id marketplace.Id, value marketplace.PatchableAuction) error {
	slt, err := mongoclient.MakeBsonM(id)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return err
	}

	val, err := mongoclient.MakeBsonM(value)
	if err != nil {
		c.WithField("err", err).Error("mongoclient.MakeBsonM failed")
		return err
	}

	if err := r.q.Patch(c, domain.TableAuctions, slt, val); err == query.ErrNotFound {
		return domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("q.Patch failed")
		return err
	}
	return nil
}

func (r *auctionRepo) FindAll(c bCtx.Ctx, optFns ...marketplace.FindAllOptionsFunc) ([]*marketplace.Auction, error) {
	opts, err := marketplace.GetFindAllOptions(optFns...)
	if err != nil {
		c.WithField("err", err).Error("marketplace.GetFindAllOptions failed")
		return nil, err
	}

	offset := 0
	limit := 0
	sort := "_id"

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

	qry, err := makeFindQuery(optFns...)
	if err != nil {
		return nil, err
	}

	res := []*marketplace.Auction{}
	if err := r.q.Search(c, domain.TableAuctions, offset, limit, sort, qry, &res); err != nil {
		c.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

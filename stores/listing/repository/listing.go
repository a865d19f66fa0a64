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

type listingRepo struct {
	q query.Mongo
}

func NewListingRepo(q query.Mongo) marketplace.ListingRepo {
	return &listingRepo{q}
}

func (r *listingRepo) FindOne(c bCtx.Ctx, id marketplace.Id) (*marketplace.Listing, error) {
	qry, err := mongoclient.MakeBsonM(id)
	if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("mongoclient.MakeBsonM failed")
		return nil, err
	}

	listing := &marketplace.Listing{}
	if err := r.q.FindOne(c, domain.TableListings, qry, listing); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  id,
		}).Error("q.FindOne failed")
		return nil, err
	}
	return listing, nil
}

func (r *listingRepo) Insert(c bCtx.Ctx, l *marketplace.Listing) error {
	if err := r.q.Insert(c, domain.TableListings, l); err == query.ErrDuplicateKey {
		return domain.ErrConflict
	} else if err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"id":  l.ToId(),
		}).Error("q.Insert failed")
		return err
	}
	return nil
}

func (r *listingRepo) Patch(c bCtx.Ctx, id marketplace.Id, value marketplace.PatchableListing) error {
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

	if err := r.q.Patch(c, domain.TableListings, slt, val); err == query.ErrNotFound {
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

func (r *listingRepo) FindAll(c bCtx.Ctx, optFns ...marketplace.FindAllOptionsFunc) ([]*marketplace.Listing, error) {
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

	res := []*marketplace.Listing{}
	if err := r.q.Search(c, domain.TableListings, offset, limit, sort, qry, &res); err != nil {
		c.WithField("err", err).Error("q.Search failed")
		return nil, err
	}
	return res, nil
}

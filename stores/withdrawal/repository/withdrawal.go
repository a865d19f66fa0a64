package repository

import (
	bCtx "github.com/niftybay/goapi/base/ctx"
	"github.com/niftybay/goapi/base/log"
	"github.com/niftybay/goapi/domain"
	"github.com/niftybay/goapi/domain/marketplace"
	"github.com/niftybay/goapi/service/query"
	"go.mongodb.org/mongo-driver/bson"
)

type withdrawalRepo struct {
	q query.Mongo
}

func NewWithdrawalRepo(q query.Mongo) marketplace.WithdrawalRepo {
	return &withdrawalRepo{q}
}

func (r *withdrawalRepo) FindOne(c bCtx.Ctx, chainId domain.ChainId, address domain.Address) (*marketplace.Withdrawal, error) {
	qry := bson.M{"chainId": chainId, "address": address.ToLower()}

	withdrawal := &marketplace.Withdrawal{}
	if err := r.q.FindOne(c, domain.TableWithdrawals, qry, withdrawal); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"chainId": chainId,
			"address": address,
		}).Error("q.FindOne failed")
		return nil, err
	}
	return withdrawal, nil
}

func (r *withdrawalRepo) Upsert(c bCtx.Ctx, w *marketplace.Withdrawal) error {
	slt := bson.M{"chainId": w.ChainId, "address": w.Address.ToLower()}
	if err := r.q.Upsert(c, domain.TableWithdrawals, slt, w); err != nil {
		c.WithFields(log.Fields{
			"err":     err,
			"chainId": w.ChainId,
			"address": w.Address,
		}).Error("q.Upsert failed")
		return err
	}
	return nil
}

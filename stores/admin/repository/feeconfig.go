package repository

import (
	bCtx "github.com/niftybay/goapi/base/ctx"
	"github.com/niftybay/goapi/base/log"
	"github.com/niftybay/goapi/domain"
	"github.com/niftybay/goapi/domain/marketplace"
	"github.com/niftybay/goapi/service/query"
	"go.mongodb.org/mongo-driver/bson"
)

// feeConfigId pins the config to a single document.
const feeConfigId = "feeConfig"

type feeConfigRepo struct {
	q query.Mongo
}

func NewFeeConfigRepo(q query.Mongo) marketplace.FeeConfigRepo {
	return &feeConfigRepo{q}
}

func (r *feeConfigRepo) Get(c bCtx.Ctx) (*marketplace.FeeConfig, error) {
	cfg := &marketplace.FeeConfig{}
	if err := r.q.FindOne(c, domain.TableFeeConfig, bson.M{"configId": feeConfigId}, cfg); err == query.ErrNotFound {
		return nil, domain.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).Error("q.FindOne failed")
		return nil, err
	}
	return cfg, nil
}

func (r *feeConfigRepo) Upsert(c bCtx.Ctx, cfg *marketplace.FeeConfig) error {
	updater := bson.M{
		"configId":     feeConfigId,
		"feeRecipient": cfg.FeeRecipient.ToLower(),
		"feeBps":       cfg.FeeBps,
		"updatedAt":    cfg.UpdatedAt,
	}
	if err := r.q.Upsert(c, domain.TableFeeConfig, bson.M{"configId": feeConfigId}, updater); err != nil {
		c.WithFields(log.Fields{
			"err": err,
			"cfg": cfg,
		}).Error("q.Upsert failed")
		return err
	}
	return nil
}

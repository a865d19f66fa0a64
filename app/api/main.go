package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/go-playground/validator/v10"
	"github.com/niftybay/goapi/base/ctx"
	"github.com/niftybay/goapi/base/database/mongoclient"
	"github.com/niftybay/goapi/base/log"
	bValidator "github.com/niftybay/goapi/base/validator"
	"github.com/niftybay/goapi/domain"
	mmiddleware "github.com/niftybay/goapi/middleware"
	"github.com/niftybay/goapi/service/chain"
	"github.com/niftybay/goapi/service/chain/contract"
	"github.com/niftybay/goapi/service/query"
	admin_delivery "github.com/niftybay/goapi/stores/admin/delivery/http"
	admin_repository "github.com/niftybay/goapi/stores/admin/repository"
	admin_usecase "github.com/niftybay/goapi/stores/admin/usecase"
	auction_delivery "github.com/niftybay/goapi/stores/auction/delivery/http"
	auction_repository "github.com/niftybay/goapi/stores/auction/repository"
	auction_usecase "github.com/niftybay/goapi/stores/auction/usecase"
	auth_delivery "github.com/niftybay/goapi/stores/auth/delivery/http"
	auth_middleware "github.com/niftybay/goapi/stores/auth/delivery/http/middleware"
	auth_usecase "github.com/niftybay/goapi/stores/auth/usecase"
	event_delivery "github.com/niftybay/goapi/stores/event/delivery/http"
	event_repository "github.com/niftybay/goapi/stores/event/repository"
	hc_delivery "github.com/niftybay/goapi/stores/healthcheck/delivery/http"
	hc_repo "github.com/niftybay/goapi/stores/healthcheck/repository"
	hc_usecase "github.com/niftybay/goapi/stores/healthcheck/usecase"
	listing_delivery "github.com/niftybay/goapi/stores/listing/delivery/http"
	listing_repository "github.com/niftybay/goapi/stores/listing/repository"
	listing_usecase "github.com/niftybay/goapi/stores/listing/usecase"
	settlement_usecase "github.com/niftybay/goapi/stores/settlement/usecase"
	withdrawal_delivery "github.com/niftybay/goapi/stores/withdrawal/delivery/http"
	withdrawal_repository "github.com/niftybay/goapi/stores/withdrawal/repository"
	withdrawal_usecase "github.com/niftybay/goapi/stores/withdrawal/usecase"
)

func init() {
	configPath := pflag.String("config", "infra/configs/config.yaml", "path to config file")
	pflag.Parse()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(*configPath)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	// init mongo client
	context.Info("init mongo")
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	checkIndex := viper.GetBool("mongo.checkIndex")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	q := query.New(mongoClient, checkIndex)

	// init chain service
	networks := viper.Sub("networks")
	keys := networks.AllSettings()
	rpcs := make(map[int32]string)
	for k := range keys {
		chainId := networks.GetInt32(fmt.Sprintf("%s.chainId", k))
		rpcUrl := networks.GetString(fmt.Sprintf("%s.rpcUrl", k))
		rpcs[chainId] = rpcUrl
	}
	chainService, err := chain.NewClient(context, &chain.ClientCfg{
		RpcUrls:     rpcs,
		OperatorKey: viper.GetString("operator.privateKey"),
	})
	if err != nil {
		context.WithField("err", err).Panic("chainService init failed")
	}
	registry := contract.NewErc721(chainService)
	royaltyEngine := contract.NewRoyaltyEngine(chainService)
	payout := contract.NewPayout(chainService)
	operator := domain.Address(chainService.Operator().Hex()).ToLower()

	// construct repository, usecase and delivery
	hcRepo := hc_repo.New(mongoClient)
	listingRepo := listing_repository.NewListingRepo(q)
	auctionRepo := auction_repository.NewAuctionRepo(q)
	withdrawalRepo := withdrawal_repository.NewWithdrawalRepo(q)
	feeConfigRepo := admin_repository.NewFeeConfigRepo(q)
	eventRepo := event_repository.NewEventRepo(q)

	hc := hc_usecase.New(hcRepo)
	auth := auth_usecase.New(viper.GetString("auth.jwtSecret"))
	settlement := settlement_usecase.NewSettlementUseCase(feeConfigRepo, royaltyEngine, payout)
	withdrawal := withdrawal_usecase.NewWithdrawalUseCase(q, withdrawalRepo, eventRepo, payout)
	listing := listing_usecase.NewListingUseCase(q, listingRepo, auctionRepo, eventRepo, registry, settlement, payout, operator)
	auction := auction_usecase.NewAuctionUseCase(q, auctionRepo, listingRepo, eventRepo, registry, settlement, withdrawal, operator)

	adminAddresses := viper.GetStringSlice("admin.addresses")
	adminAddress := domain.Address(viper.GetString("admin.address"))
	if adminAddress.IsEmpty() && len(adminAddresses) > 0 {
		adminAddress = domain.Address(adminAddresses[0])
	}
	admin := admin_usecase.NewAdminUseCase(q, feeConfigRepo, eventRepo, payout, adminAddress)

	authMiddleware := auth_middleware.New(auth, adminAddresses)

	hc_delivery.New(e, hc)
	auth_delivery.New(e, auth)
	listing_delivery.New(e, listing, authMiddleware)
	auction_delivery.New(e, auction, authMiddleware)
	withdrawal_delivery.New(e, withdrawal, authMiddleware)
	admin_delivery.New(e, admin, authMiddleware)
	event_delivery.New(e, eventRepo)

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/carson-networks/budget-ledger/api"
	"github.com/carson-networks/budget-ledger/internal/config"
	"github.com/carson-networks/budget-ledger/internal/logging"
	"github.com/carson-networks/budget-ledger/internal/notify"
	"github.com/carson-networks/budget-ledger/internal/operator"
	"github.com/carson-networks/budget-ledger/internal/service"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

func main() {
	_ = godotenv.Load()

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	logger, err := logging.SetupLogging(envConfig.LogLevel)
	if err != nil {
		logrus.WithError(err).Fatal("logging.SetupLogging")
		return
	}
	logger.Info("budget-ledger starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ledgerStorage, err := storage.NewStorage(ctx, envConfig, logger)
	if err != nil {
		logger.WithError(err).Fatal("storage.NewStorage")
		return
	}
	defer ledgerStorage.Close()

	publisher, err := notify.NewPublisher(envConfig, logger)
	if err != nil {
		logger.WithError(err).Fatal("notify.NewPublisher")
		return
	}
	defer publisher.Close()

	delegator := operator.NewOperatorDelegator(ledgerStorage, envConfig.NumOperators, logger)
	delegator.Start()

	svc := service.NewService(ledgerStorage, delegator, publisher, logger)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		httpRest := api.Rest{
			Logger:   logger,
			Port:     envConfig.Port,
			Service:  svc,
			Operator: delegator,
		}
		return httpRest.Serve(groupCtx)
	})

	err = group.Wait()
	delegator.Stop()
	if err != nil {
		logger.WithError(err).Error("budget-ledger stopped with error")
		return
	}
	logger.Info("budget-ledger stopped")
}

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-ledger/internal/handlers/v1/balance"
	"github.com/carson-networks/budget-ledger/internal/handlers/v1/category"
	"github.com/carson-networks/budget-ledger/internal/handlers/v1/categoryrule"
	"github.com/carson-networks/budget-ledger/internal/handlers/v1/message"
	"github.com/carson-networks/budget-ledger/internal/handlers/v1/paymentrequest"
	"github.com/carson-networks/budget-ledger/internal/handlers/v1/savinggoal"
	"github.com/carson-networks/budget-ledger/internal/handlers/v1/status"
	"github.com/carson-networks/budget-ledger/internal/handlers/v1/transaction"
	"github.com/carson-networks/budget-ledger/internal/logging"
	"github.com/carson-networks/budget-ledger/internal/operator"
	"github.com/carson-networks/budget-ledger/internal/service"
)

const shutdownTimeout = 30 * time.Second

type Rest struct {
	Logger   *logrus.Logger
	Port     string
	Service  *service.Service
	Operator *operator.OperatorDelegator
}

type registrar interface {
	Register(api huma.API)
}

// Routes builds the mux serving /status and every v1 operation.
func (r *Rest) Routes() http.Handler {
	mux := http.NewServeMux()

	statusHandler := status.NewHandler(r.Operator)
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	api := humago.New(mux, huma.DefaultConfig("Budget Ledger API", "1.0.0"))
	api.UseMiddleware(logging.Middleware(r.Logger))

	svc := r.Service
	handlers := []registrar{
		transaction.NewCreateTransactionHandler(svc.Transaction),
		transaction.NewGetTransactionHandler(svc.Transaction),
		transaction.NewListTransactionsHandler(svc.Transaction),
		transaction.NewUpdateTransactionHandler(svc.Transaction),
		transaction.NewDeleteTransactionHandler(svc.Transaction),
		category.NewHandler(svc.Category),
		categoryrule.NewHandler(svc.CategoryRule),
		savinggoal.NewHandler(svc.SavingGoal),
		paymentrequest.NewHandler(svc.PaymentRequest),
		message.NewHandler(svc.Message),
		message.NewRuleHandler(svc.Message),
		balance.NewHandler(svc.Balance),
	}
	for _, h := range handlers {
		h.Register(api)
	}

	return mux
}

// Serve listens until ctx is cancelled, then drains in-flight requests.
func (r *Rest) Serve(ctx context.Context) error {
	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Routes(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		r.Logger.Info("HttpServer.Serve.shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownErr <- server.Shutdown(shutdownCtx)
	}()

	r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
		return err
	}

	if err := <-shutdownErr; err != nil {
		r.Logger.WithError(err).Error("HttpServer.Serve.shutdown error")
		return err
	}
	r.Logger.Info("HttpServer.Serve.stopped")
	return nil
}

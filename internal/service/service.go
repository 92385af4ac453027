package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/notify"
	"github.com/carson-networks/budget-ledger/internal/operator/actions"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

// Processor runs an action inside one committed write for a session.
type Processor interface {
	Process(ctx context.Context, session string, action actions.IAction) error
}

// Service holds all business logic services.
type Service struct {
	Transaction    *TransactionService
	Category       *CategoryService
	CategoryRule   *CategoryRuleService
	SavingGoal     *SavingGoalService
	PaymentRequest *PaymentRequestService
	Message        *MessageService
	Balance        *BalanceService
}

// Option adjusts the dependencies shared by all services.
type Option func(*deps)

// WithClock replaces time.Now as the source of "now".
func WithClock(now func() time.Time) Option {
	return func(d *deps) {
		d.now = now
	}
}

// NewService creates every service on top of the same store and processor.
func NewService(store storage.LedgerStore, processor Processor, publisher notify.Publisher, logger logrus.FieldLogger, opts ...Option) *Service {
	d := &deps{
		store:     store,
		processor: processor,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}

	return &Service{
		Transaction:    &TransactionService{deps: d},
		Category:       &CategoryService{deps: d},
		CategoryRule:   &CategoryRuleService{deps: d},
		SavingGoal:     &SavingGoalService{deps: d},
		PaymentRequest: &PaymentRequestService{deps: d},
		Message:        &MessageService{deps: d},
		Balance:        &BalanceService{deps: d},
	}
}

type deps struct {
	store     storage.LedgerStore
	processor Processor
	publisher notify.Publisher
	logger    logrus.FieldLogger
	now       func() time.Time
}

func (d *deps) read(session string) (storage.Reader, error) {
	if err := checkSession(session); err != nil {
		return nil, err
	}
	return d.store.Read(session), nil
}

func (d *deps) process(ctx context.Context, session string, action actions.IAction) error {
	if err := checkSession(session); err != nil {
		return err
	}
	return d.processor.Process(ctx, session, action)
}

// publish hands committed messages to the publisher. Failures are logged only.
func (d *deps) publish(ctx context.Context, session string, messages []ledger.Message) {
	if len(messages) == 0 {
		return
	}
	if err := d.publisher.Publish(context.WithoutCancel(ctx), session, messages); err != nil {
		d.logger.WithError(err).WithField("session", session).Warn("Service.Publish.Error")
	}
}

func (d *deps) actionLogger(session string) logrus.FieldLogger {
	return d.logger.WithField("session", session)
}

func checkSession(session string) error {
	if session == "" {
		return &ledger.ValidationError{Field: "session", Reason: "is required"}
	}
	return nil
}

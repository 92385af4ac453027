package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/operator"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

const testSession = "session-service"

var testNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, session string, messages []ledger.Message) error {
	args := m.Called(ctx, session, messages)
	return args.Error(0)
}

func (m *mockPublisher) Close() error {
	return nil
}

type testService struct {
	*Service
	store     storage.LedgerStore
	publisher *mockPublisher
}

// newTestService wires the services to a memory store and a running delegator.
// The publisher accepts every call unless a test sets stricter expectations first.
func newTestService(t *testing.T) *testService {
	t.Helper()
	logger, _ := test.NewNullLogger()
	store := storage.NewMemoryStorage()

	delegator := operator.NewOperatorDelegator(store, 2, logger)
	delegator.Start()
	t.Cleanup(delegator.Stop)

	publisher := &mockPublisher{}
	svc := NewService(store, delegator, publisher, logger, WithClock(func() time.Time { return testNow }))
	return &testService{Service: svc, store: store, publisher: publisher}
}

func (s *testService) allowPublish() {
	s.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func at(month time.Month, day int) time.Time {
	return time.Date(2024, month, day, 12, 0, 0, 0, time.UTC)
}

func draft(amount string, txType ledger.TransactionType, ts time.Time) ledger.TransactionDraft {
	return ledger.TransactionDraft{
		Timestamp:   ts,
		Amount:      dec(amount),
		Description: "Albert Heijn",
		Type:        txType,
	}
}

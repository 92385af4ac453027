package actions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

var errStore = ledger.StoreError("write", errors.New("connection reset"))

// failingWriter fails selected writer calls and passes the rest through.
type failingWriter struct {
	storage.Writer

	failInternalInsert bool
	failLink           bool
	failMessageInsert  bool
	failListMessages   bool
}

func (w *failingWriter) InsertTransaction(ctx context.Context, tx *ledger.Transaction) error {
	if w.failInternalInsert && tx.Internal {
		return errStore
	}
	return w.Writer.InsertTransaction(ctx, tx)
}

func (w *failingWriter) LinkPaymentRequestTransaction(ctx context.Context, requestID, txID uuid.UUID, filled bool) error {
	if w.failLink {
		return errStore
	}
	return w.Writer.LinkPaymentRequestTransaction(ctx, requestID, txID, filled)
}

func (w *failingWriter) InsertMessage(ctx context.Context, message *ledger.Message) error {
	if w.failMessageInsert {
		return errStore
	}
	return w.Writer.InsertMessage(ctx, message)
}

func (w *failingWriter) ListMessages(ctx context.Context, unreadOnly bool) ([]ledger.Message, error) {
	if w.failListMessages {
		return nil, errStore
	}
	return w.Writer.ListMessages(ctx, unreadOnly)
}

// performFailing runs action like perform, through a failingWriter configured by fail.
func performFailing(t *testing.T, store storage.LedgerStore, fail failingWriter, action IAction) error {
	t.Helper()
	writer, err := store.Write(context.Background(), testSession)
	require.NoError(t, err)
	fail.Writer = writer
	if err := action.Perform(context.Background(), &fail); err != nil {
		require.NoError(t, writer.Rollback())
		return err
	}
	require.NoError(t, writer.Commit())
	return nil
}

func draft(amount string, txType ledger.TransactionType, ts time.Time, description string) ledger.TransactionDraft {
	return ledger.TransactionDraft{
		Timestamp:   ts,
		Amount:      dec(amount),
		Description: description,
		Type:        txType,
	}
}

func descriptions(t *testing.T, store storage.LedgerStore) []string {
	t.Helper()
	all, err := store.Read(testSession).AllTransactions(context.Background())
	require.NoError(t, err)
	result := make([]string, len(all))
	for i, tx := range all {
		result[i] = tx.Description
	}
	return result
}

// -- AddTransaction: atomicity --

func TestAddTransaction_FailedAllocationWritesNothing(t *testing.T) {
	store := storage.NewMemoryStorage()
	ctx := context.Background()
	interest := createCategory(t, store, "Interest")
	require.NoError(t, perform(t, store, &AddCategoryRule{Draft: ledger.CategoryRuleDraft{
		DescriptionPattern: "interest",
		Type:               ledger.Deposit,
		CategoryID:         interest.ID,
	}}))
	goal := addGoal(t, store, "Holiday", "1000", "100", "0")
	addTransaction(t, store, "1000", ledger.Deposit, at(1, 15), "salary")

	action := &AddTransaction{Draft: draft("10", ledger.Deposit, at(3, 3), "interest"), Now: testNow}
	err := performFailing(t, store, failingWriter{failInternalInsert: true}, action)
	assert.ErrorIs(t, err, ledger.ErrStore)

	assert.Equal(t, []string{"salary"}, descriptions(t, store))

	filtered, err := store.Read(testSession).ListTransactions(ctx, ledger.TransactionFilter{CategoryID: &interest.ID})
	require.NoError(t, err)
	assert.Empty(t, filtered)

	stored, err := store.Read(testSession).GetSavingGoal(ctx, goal.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.IsZero(), "goal balance unchanged, got %s", stored.Balance)

	allocations, err := store.Read(testSession).ListGoalAllocations(ctx, goal.ID)
	require.NoError(t, err)
	assert.Empty(t, allocations)
}

func TestAddTransaction_FailedRequestLinkWritesNothing(t *testing.T) {
	store := storage.NewMemoryStorage()
	ctx := context.Background()
	request := &AddPaymentRequest{Draft: ledger.PaymentRequestDraft{
		Description:      "Dinner",
		DueDate:          time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		Amount:           dec("20"),
		NumberOfRequests: 1,
	}}
	require.NoError(t, perform(t, store, request))

	action := &AddTransaction{Draft: draft("20", ledger.Deposit, at(3, 1), "tikkie"), Now: testNow}
	err := performFailing(t, store, failingWriter{failLink: true}, action)
	assert.ErrorIs(t, err, ledger.ErrStore)

	assert.Empty(t, descriptions(t, store))

	stored, err := store.Read(testSession).GetPaymentRequest(ctx, request.Request.ID)
	require.NoError(t, err)
	assert.False(t, stored.Filled)
	assert.Empty(t, stored.SettledTransactionIDs)
}

// -- AddTransaction: advisory messages --

func TestAddTransaction_FailedMessageWriteStillCommits(t *testing.T) {
	store := storage.NewMemoryStorage()
	logger, hook := test.NewNullLogger()

	action := &AddTransaction{Draft: draft("10", ledger.Withdrawal, at(3, 1), "coffee"), Now: testNow, Logger: logger}
	require.NoError(t, performFailing(t, store, failingWriter{failMessageInsert: true}, action))

	assert.Empty(t, action.Messages)
	assert.Equal(t, []string{"coffee"}, descriptions(t, store))

	messages, err := store.Read(testSession).ListMessages(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, messages)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "Actions.WriteMessage.Error", hook.LastEntry().Message)
}

func TestAddTransaction_FailedNotificationReadStillCommits(t *testing.T) {
	store := storage.NewMemoryStorage()
	logger, hook := test.NewNullLogger()

	action := &AddTransaction{Draft: draft("10", ledger.Withdrawal, at(3, 1), "coffee"), Now: testNow, Logger: logger}
	require.NoError(t, performFailing(t, store, failingWriter{failListMessages: true}, action))

	require.NotNil(t, action.Transaction)
	assert.NotContains(t, kinds(action.Messages), ledger.KindNegativeBalance)
	assert.Equal(t, []string{"coffee"}, descriptions(t, store))

	require.NotEmpty(t, hook.Entries)
	assert.Equal(t, "Actions.Advisory.Error", hook.Entries[0].Message)
	assert.Equal(t, "notifications", hook.Entries[0].Data["stage"])
}

// -- AddTransaction: negative balance --

func TestAddTransaction_NegativeBalanceWarnsPerDip(t *testing.T) {
	store := storage.NewMemoryStorage()

	first := addTransaction(t, store, "50", ledger.Withdrawal, at(3, 1), "groceries")
	assert.Equal(t, []ledger.MessageKind{ledger.KindNegativeBalance}, kinds(first.Messages))

	recovered := addTransaction(t, store, "100", ledger.Deposit, at(3, 2), "salary")
	assert.NotContains(t, kinds(recovered.Messages), ledger.KindNegativeBalance)

	dip := addTransaction(t, store, "200", ledger.Withdrawal, at(3, 3), "rent")
	count := 0
	for _, kind := range kinds(dip.Messages) {
		if kind == ledger.KindNegativeBalance {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

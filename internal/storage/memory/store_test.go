package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

const session = "session-a"

func newTx(amount string, txType ledger.TransactionType, ts time.Time) ledger.Transaction {
	return ledger.Transaction{
		ID:          uuid.Must(uuid.NewV4()),
		Timestamp:   ts,
		Amount:      decimal.RequireFromString(amount),
		Description: "Albert Heijn",
		Type:        txType,
	}
}

func day(d int) time.Time {
	return time.Date(2025, 5, d, 12, 0, 0, 0, time.UTC)
}

func mustWrite(t *testing.T, s *Store, sess string) *Writer {
	t.Helper()
	w, err := s.Write(context.Background(), sess)
	require.NoError(t, err)
	return w
}

// -- Commit and rollback --

func TestWriter_CommitMakesChangesVisible(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	tx := newTx("10", ledger.Deposit, day(1))

	w := mustWrite(t, s, session)
	require.NoError(t, w.InsertTransaction(ctx, &tx))

	staged, err := w.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, tx.ID, staged.ID, "writer reads its own staged rows")

	_, err = s.Read(session).GetTransaction(ctx, tx.ID)
	assert.ErrorIs(t, err, ledger.ErrNotFound, "uncommitted rows are invisible")

	require.NoError(t, w.Commit())

	committed, err := s.Read(session).GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.True(t, committed.Amount.Equal(tx.Amount))
}

func TestWriter_RollbackDiscards(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	tx := newTx("10", ledger.Deposit, day(1))

	w := mustWrite(t, s, session)
	require.NoError(t, w.InsertTransaction(ctx, &tx))
	require.NoError(t, w.Rollback())

	balance, err := s.Read(session).Balance(ctx)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	assert.ErrorIs(t, w.Commit(), errWriterClosed)
	assert.NoError(t, w.Rollback(), "second rollback is a no-op")
}

func TestWriter_IsolatedDiscardsOnlyFailedChanges(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	kept := newTx("10", ledger.Deposit, day(1))
	dropped := newTx("5", ledger.Deposit, day(2))

	w := mustWrite(t, s, session)
	require.NoError(t, w.InsertTransaction(ctx, &kept))

	failure := errors.New("stage failed")
	err := w.Isolated(ctx, "stage", func() error {
		require.NoError(t, w.InsertTransaction(ctx, &dropped))
		return failure
	})
	assert.ErrorIs(t, err, failure)

	_, err = w.GetTransaction(ctx, dropped.ID)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
	require.NoError(t, w.Commit())

	balance, err := s.Read(session).Balance(ctx)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(10)), "got %s", balance)
}

func TestWriter_OneWriterPerSession(t *testing.T) {
	s := NewStore()
	first := mustWrite(t, s, session)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := s.Write(ctx, session)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	other := mustWrite(t, s, "session-b")
	require.NoError(t, other.Rollback())

	require.NoError(t, first.Commit())
	second := mustWrite(t, s, session)
	require.NoError(t, second.Rollback())
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	tx := newTx("10", ledger.Deposit, day(1))

	w := mustWrite(t, s, session)
	require.NoError(t, w.InsertTransaction(ctx, &tx))
	require.NoError(t, w.Commit())

	_, err := s.Read("session-b").GetTransaction(ctx, tx.ID)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

// -- Internal visibility --

func TestReader_InternalTransactionsHidden(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	visible := newTx("100", ledger.Deposit, day(1))
	internal := newTx("40", ledger.Withdrawal, day(2))
	internal.Internal = true
	goalID := uuid.Must(uuid.NewV4())
	internal.SavingGoalID = uuid.NullUUID{UUID: goalID, Valid: true}

	w := mustWrite(t, s, session)
	require.NoError(t, w.InsertTransaction(ctx, &visible))
	require.NoError(t, w.InsertTransaction(ctx, &internal))
	require.NoError(t, w.Commit())

	r := s.Read(session)

	_, err := r.GetTransaction(ctx, internal.ID)
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	listed, err := r.ListTransactions(ctx, ledger.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	all, err := r.AllTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	balance, err := r.Balance(ctx)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("60")))

	allocations, err := r.ListGoalAllocations(ctx, goalID)
	require.NoError(t, err)
	assert.Len(t, allocations, 1)

	latest, err := r.LatestTransactionBefore(ctx, day(3), uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, visible.ID, latest.ID)
}

// -- Listing --

func TestReader_ListTransactionsPagination(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	groceries := uuid.Must(uuid.NewV4())

	w := mustWrite(t, s, session)
	for d := 1; d <= 5; d++ {
		tx := newTx("1", ledger.Withdrawal, day(d))
		if d%2 == 1 {
			tx.CategoryID = uuid.NullUUID{UUID: groceries, Valid: true}
		}
		require.NoError(t, w.InsertTransaction(ctx, &tx))
	}
	require.NoError(t, w.Commit())

	page, err := s.Read(session).ListTransactions(ctx, ledger.TransactionFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	if assert.Len(t, page, 2) {
		assert.Equal(t, day(4), page[0].Timestamp, "newest first")
		assert.Equal(t, day(3), page[1].Timestamp)
	}

	filtered, err := s.Read(session).ListTransactions(ctx, ledger.TransactionFilter{CategoryID: &groceries})
	require.NoError(t, err)
	assert.Len(t, filtered, 3)

	empty, err := s.Read(session).ListTransactions(ctx, ledger.TransactionFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestWriter_SequencesIncrease(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	categoryID := uuid.Must(uuid.NewV4())

	w := mustWrite(t, s, session)
	first := ledger.CategoryRule{ID: uuid.Must(uuid.NewV4()), Type: ledger.Deposit, CategoryID: categoryID}
	second := ledger.CategoryRule{ID: uuid.Must(uuid.NewV4()), Type: ledger.Deposit, CategoryID: categoryID}
	require.NoError(t, w.InsertCategoryRule(ctx, &first))
	require.NoError(t, w.InsertCategoryRule(ctx, &second))
	require.NoError(t, w.Commit())

	assert.Less(t, first.Sequence, second.Sequence)

	rules, err := s.Read(session).ListCategoryRules(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, rules[0].ID)

	w = mustWrite(t, s, session)
	first.DescriptionPattern = "Salary"
	require.NoError(t, w.UpdateCategoryRule(ctx, &first))
	require.NoError(t, w.Commit())

	rules, err = s.Read(session).ListCategoryRules(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, rules[0].ID, "updates keep their place")
	assert.Equal(t, "Salary", rules[0].DescriptionPattern)
}

// -- Backfill --

func TestWriter_ApplyCategoryRuleIsIdempotent(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	groceries := uuid.Must(uuid.NewV4())
	other := uuid.Must(uuid.NewV4())

	match := newTx("5", ledger.Withdrawal, day(1))
	match.CategoryID = uuid.NullUUID{UUID: other, Valid: true}
	miss := newTx("5", ledger.Withdrawal, day(2))
	miss.Description = "Rent"
	wrongType := newTx("5", ledger.Deposit, day(3))

	w := mustWrite(t, s, session)
	for _, tx := range []*ledger.Transaction{&match, &miss, &wrongType} {
		require.NoError(t, w.InsertTransaction(ctx, tx))
	}
	rule := ledger.CategoryRule{DescriptionPattern: "Heijn", Type: ledger.Withdrawal, CategoryID: groceries}

	changed, err := w.ApplyCategoryRule(ctx, rule)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	changed, err = w.ApplyCategoryRule(ctx, rule)
	require.NoError(t, err)
	assert.Equal(t, int64(0), changed)
	require.NoError(t, w.Commit())

	got, err := s.Read(session).GetTransaction(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, groceries, got.CategoryID.UUID, "overwrites the earlier assignment")

	untouched, err := s.Read(session).GetTransaction(ctx, miss.ID)
	require.NoError(t, err)
	assert.False(t, untouched.CategoryID.Valid)
}

// -- Cascades --

func TestWriter_DeleteCategoryUncategorises(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	category := ledger.Category{ID: uuid.Must(uuid.NewV4()), Name: "Food"}
	tx := newTx("5", ledger.Withdrawal, day(1))
	tx.CategoryID = uuid.NullUUID{UUID: category.ID, Valid: true}

	w := mustWrite(t, s, session)
	require.NoError(t, w.InsertCategory(ctx, &category))
	require.NoError(t, w.InsertTransaction(ctx, &tx))
	require.NoError(t, w.DeleteCategory(ctx, category.ID))
	require.NoError(t, w.Commit())

	got, err := s.Read(session).GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.False(t, got.CategoryID.Valid)

	assert.ErrorIs(t, mustWrite(t, s, session).DeleteCategory(ctx, category.ID), ledger.ErrNotFound)
}

func TestWriter_PaymentRequestLinks(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	request := ledger.PaymentRequest{ID: uuid.Must(uuid.NewV4()), Description: "Dinner", NumberOfRequests: 2}
	tx := newTx("5", ledger.Deposit, day(1))

	w := mustWrite(t, s, session)
	require.NoError(t, w.InsertPaymentRequest(ctx, &request))
	require.NoError(t, w.InsertTransaction(ctx, &tx))
	require.NoError(t, w.LinkPaymentRequestTransaction(ctx, request.ID, tx.ID, false))
	require.NoError(t, w.Commit())

	got, err := s.Read(session).GetPaymentRequest(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{tx.ID}, got.SettledTransactionIDs)
	assert.False(t, got.Filled)

	w = mustWrite(t, s, session)
	require.NoError(t, w.DeleteTransaction(ctx, tx.ID))
	require.NoError(t, w.Commit())

	got, err = s.Read(session).GetPaymentRequest(ctx, request.ID)
	require.NoError(t, err)
	assert.Empty(t, got.SettledTransactionIDs)
}

func TestWriter_MessagesReadFlag(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	message := ledger.Message{ID: uuid.Must(uuid.NewV4()), Text: "hello", Type: ledger.Info, Kind: ledger.KindNewHigh}

	w := mustWrite(t, s, session)
	require.NoError(t, w.InsertMessage(ctx, &message))
	require.NoError(t, w.Commit())

	unread, err := s.Read(session).ListMessages(ctx, true)
	require.NoError(t, err)
	assert.Len(t, unread, 1)

	w = mustWrite(t, s, session)
	require.NoError(t, w.MarkMessageRead(ctx, message.ID))
	require.NoError(t, w.Commit())

	unread, err = s.Read(session).ListMessages(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, unread)

	all, err := s.Read(session).ListMessages(ctx, false)
	require.NoError(t, err)
	assert.True(t, all[0].Read)
}

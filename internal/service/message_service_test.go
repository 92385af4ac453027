package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-ledger/internal/ledger"
)

// -- Messages --

func TestMarkMessageRead_RemovesFromUnread(t *testing.T) {
	svc := newTestService(t)
	svc.allowPublish()
	ctx := context.Background()

	_, err := svc.Transaction.AddTransaction(ctx, testSession, draft("10", ledger.Withdrawal, at(3, 1)))
	require.NoError(t, err)

	unread, err := svc.Message.ListUnreadMessages(ctx, testSession)
	require.NoError(t, err)
	require.Len(t, unread, 1)

	require.NoError(t, svc.Message.MarkMessageRead(ctx, testSession, unread[0].ID))

	unread, err = svc.Message.ListUnreadMessages(ctx, testSession)
	require.NoError(t, err)
	assert.Empty(t, unread)

	all, err := svc.Message.ListMessages(ctx, testSession, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Read)
}

func TestOverdueRequestsAreReportedOnEveryTransaction(t *testing.T) {
	svc := newTestService(t)
	svc.allowPublish()
	ctx := context.Background()

	_, err := svc.PaymentRequest.AddPaymentRequest(ctx, testSession, ledger.PaymentRequestDraft{
		Description:      "Concert tickets",
		DueDate:          time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Amount:           dec("45"),
		NumberOfRequests: 1,
	})
	require.NoError(t, err)

	for day := 1; day <= 2; day++ {
		_, err = svc.Transaction.AddTransaction(ctx, testSession, draft("10", ledger.Deposit, at(6, day)))
		require.NoError(t, err)
	}

	unread, err := svc.Message.ListUnreadMessages(ctx, testSession)
	require.NoError(t, err)
	var overdue int
	for _, m := range unread {
		if m.Kind == ledger.KindRequestOverdue {
			overdue++
			assert.Equal(t, testNow, m.Timestamp)
		}
	}
	assert.Equal(t, 2, overdue)
}

// -- Message rules --

func TestMessageRules(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	groceries, err := svc.Category.CreateCategory(ctx, testSession, ledger.CategoryDraft{Name: "Groceries"})
	require.NoError(t, err)

	_, err = svc.Message.AddMessageRule(ctx, testSession, ledger.MessageRuleDraft{
		CategoryID: groceries.ID,
		Type:       ledger.Info,
		Value:      dec("-1"),
	})
	assert.ErrorIs(t, err, ledger.ErrValidation)

	rule, err := svc.Message.AddMessageRule(ctx, testSession, ledger.MessageRuleDraft{
		CategoryID: groceries.ID,
		Type:       ledger.Info,
		Value:      dec("200"),
	})
	require.NoError(t, err)

	rules, err := svc.Message.ListMessageRules(ctx, testSession)
	require.NoError(t, err)
	require.Len(t, rules, 1)

	require.NoError(t, svc.Message.DeleteMessageRule(ctx, testSession, rule.ID))
	assert.ErrorIs(t, svc.Message.DeleteMessageRule(ctx, testSession, rule.ID), ledger.ErrNotFound)
}

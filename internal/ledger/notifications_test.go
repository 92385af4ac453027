package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func kinds(messages []Message) []MessageKind {
	out := make([]MessageKind, len(messages))
	for i, m := range messages {
		out[i] = m.Kind
	}
	return out
}

func TestNotifications_NegativeBalance(t *testing.T) {
	trigger := withdrawal("200", at(2025, 1, 2))

	messages := Notifications(NotificationInput{
		Trigger:      trigger,
		Balance:      dec("-150"),
		Transactions: []Transaction{trigger},
		Now:          at(2025, 1, 2),
	})

	if assert.Len(t, messages, 1) {
		assert.Equal(t, KindNegativeBalance, messages[0].Kind)
		assert.Equal(t, Warning, messages[0].Type)
		assert.Equal(t, trigger.Timestamp, messages[0].Timestamp)
	}
}

func TestNotifications_PositiveBalanceIsQuiet(t *testing.T) {
	trigger := deposit("100", at(2025, 1, 2))

	messages := Notifications(NotificationInput{
		Trigger:      trigger,
		Balance:      dec("50"),
		Transactions: []Transaction{withdrawal("50", at(2025, 1, 1)), trigger},
		Now:          at(2025, 1, 2),
	})

	assert.Empty(t, messages)
}

func TestNotifications_NewHighNeedsThreeMonths(t *testing.T) {
	short := []Transaction{deposit("100", at(2025, 1, 1)), deposit("100", at(2025, 3, 28))}
	long := []Transaction{deposit("100", at(2025, 1, 1)), deposit("300", at(2025, 2, 1)), withdrawal("50", at(2025, 4, 1))}

	assert.Empty(t, Notifications(NotificationInput{Trigger: short[1], Balance: dec("200"), Transactions: short, Now: at(2025, 4, 1)}))

	messages := Notifications(NotificationInput{Trigger: long[2], Balance: dec("350"), Transactions: long, Now: at(2025, 4, 1)})
	if assert.Equal(t, []MessageKind{KindNewHigh}, kinds(messages)) {
		assert.Contains(t, messages[0].Text, "400.00")
	}
}

func TestNotifications_InternalEntriesDoNotExtendHistory(t *testing.T) {
	refund := deposit("40", at(2025, 4, 15))
	refund.Internal = true
	txs := []Transaction{deposit("100", at(2025, 1, 10)), withdrawal("40", at(2025, 2, 1)), refund}

	messages := Notifications(NotificationInput{
		Trigger:      txs[1],
		Balance:      dec("100"),
		Transactions: txs,
		Now:          at(2025, 4, 15),
	})

	assert.Empty(t, messages)
}

func TestNotifications_NewHighSuppressedWhileUnread(t *testing.T) {
	txs := []Transaction{deposit("100", at(2025, 1, 1)), deposit("100", at(2025, 6, 1))}

	messages := Notifications(NotificationInput{
		Trigger:      txs[1],
		Balance:      dec("200"),
		Transactions: txs,
		UnreadHigh:   true,
		Now:          at(2025, 6, 1),
	})

	assert.Empty(t, messages)
}

func TestNotifications_OverdueRequestsRepeat(t *testing.T) {
	now := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	overdue := request(1, "10", 2)
	filled := request(2, "10", 1)
	filled.Filled = true
	upcoming := request(3, "10", 1)
	upcoming.DueDate = now.AddDate(0, 1, 0)

	in := NotificationInput{
		Trigger:      deposit("5", now),
		Balance:      dec("5"),
		Transactions: []Transaction{deposit("5", now)},
		Requests:     []PaymentRequest{overdue, filled, upcoming},
		Now:          now,
	}

	first := Notifications(in)
	second := Notifications(in)

	assert.Equal(t, []MessageKind{KindRequestOverdue}, kinds(first))
	assert.Equal(t, kinds(first), kinds(second))
	assert.Equal(t, Warning, first[0].Type)
}

func TestNotifications_Order(t *testing.T) {
	now := at(2025, 9, 1)
	txs := []Transaction{deposit("100", at(2025, 1, 1)), withdrawal("500", now)}

	messages := Notifications(NotificationInput{
		Trigger:      txs[1],
		Balance:      dec("-400"),
		Transactions: txs,
		Requests:     []PaymentRequest{request(1, "1", 1)},
		Now:          now,
	})

	assert.Equal(t, []MessageKind{KindNegativeBalance, KindNewHigh, KindRequestOverdue}, kinds(messages))
}

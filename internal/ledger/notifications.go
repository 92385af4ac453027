package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// HighHistoryMonths is the minimum span of history before new highs are reported.
const HighHistoryMonths = 3

// NotificationInput is the ledger state after a transaction and its derived
// entries have been written.
type NotificationInput struct {
	Trigger      Transaction
	Balance      decimal.Decimal
	Transactions []Transaction
	Requests     []PaymentRequest
	// UnreadHigh is set when an unread new-high message already exists.
	UnreadHigh bool
	Now        time.Time
}

// Notifications derives the messages for one committed transaction, in order:
// negative balance, new high, overdue payment requests. Overdue requests are
// reported on every call.
func Notifications(in NotificationInput) []Message {
	var messages []Message

	if in.Balance.IsNegative() {
		messages = append(messages, Message{
			Text:      "Your balance dropped below zero",
			Timestamp: in.Trigger.Timestamp,
			Type:      Warning,
			Kind:      KindNegativeBalance,
		})
	}

	if !in.UnreadHigh && historySpan(in.Transactions) >= HighHistoryMonths {
		messages = append(messages, Message{
			Text:      fmt.Sprintf("Your balance reached a new high of %s", PeakBalance(in.Transactions).StringFixed(2)),
			Timestamp: in.Trigger.Timestamp,
			Type:      Info,
			Kind:      KindNewHigh,
		})
	}

	for _, request := range in.Requests {
		if request.Filled || !request.DueDate.Before(in.Now) {
			continue
		}
		messages = append(messages, Message{
			Text:      fmt.Sprintf("Payment request %q is past its due date and not yet filled", request.Description),
			Timestamp: in.Now.UTC(),
			Type:      Warning,
			Kind:      KindRequestOverdue,
		})
	}

	return messages
}

// historySpan is the month difference between the first and last
// non-internal transaction.
func historySpan(txs []Transaction) int {
	var first, last time.Time
	for _, tx := range txs {
		if tx.Internal {
			continue
		}
		if first.IsZero() || tx.Timestamp.Before(first) {
			first = tx.Timestamp
		}
		if last.IsZero() || tx.Timestamp.After(last) {
			last = tx.Timestamp
		}
	}
	if first.IsZero() {
		return 0
	}
	return MonthIndex(last) - MonthIndex(first)
}

package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MonthlySpending sums withdrawals in tx's category and calendar month,
// excluding tx itself.
func MonthlySpending(tx Transaction, txs []Transaction) decimal.Decimal {
	total := decimal.Zero
	if !tx.CategoryID.Valid {
		return total
	}
	month := MonthIndex(tx.Timestamp)
	for _, other := range txs {
		if other.ID == tx.ID || other.Internal || other.Type != Withdrawal {
			continue
		}
		if !other.CategoryID.Valid || other.CategoryID.UUID != tx.CategoryID.UUID {
			continue
		}
		if MonthIndex(other.Timestamp) != month {
			continue
		}
		total = total.Add(other.Amount)
	}
	return total
}

// MessageRuleMessages fires every rule on tx's category whose threshold is
// crossed by tx. spentBefore is the month-to-date spending without tx.
func MessageRuleMessages(tx Transaction, categoryName string, rules []MessageRule, spentBefore decimal.Decimal) []Message {
	if tx.Type != Withdrawal || !tx.CategoryID.Valid {
		return nil
	}

	spentAfter := spentBefore.Add(tx.Amount)
	var messages []Message
	for _, rule := range rules {
		if rule.CategoryID != tx.CategoryID.UUID {
			continue
		}
		if spentBefore.GreaterThan(rule.Value) || !spentAfter.GreaterThan(rule.Value) {
			continue
		}
		messages = append(messages, Message{
			Text: fmt.Sprintf("Spending on %s this month is %s, above your limit of %s",
				categoryName, spentAfter.StringFixed(2), rule.Value.StringFixed(2)),
			Timestamp: tx.Timestamp,
			Type:      rule.Type,
			Kind:      KindMessageRule,
		})
	}
	return messages
}

package ledger

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/gofrs/uuid/v5"
)

// Settles reports whether tx can be one installment of the request.
func (p PaymentRequest) Settles(tx Transaction) bool {
	return tx.Type == Deposit &&
		!tx.Internal &&
		!p.Filled &&
		len(p.SettledTransactionIDs) < p.NumberOfRequests &&
		tx.Amount.Equal(p.Amount) &&
		!tx.Timestamp.After(p.DueDate)
}

// Settle records txID as an installment and fills the request on the last one.
func (p PaymentRequest) Settle(txID uuid.UUID) PaymentRequest {
	p.SettledTransactionIDs = append(slices.Clone(p.SettledTransactionIDs), txID)
	if len(p.SettledTransactionIDs) >= p.NumberOfRequests {
		p.Filled = true
	}
	return p
}

// MatchPaymentRequest finds the first open request, by sequence, that tx
// settles. At most one request is matched.
func MatchPaymentRequest(tx Transaction, requests []PaymentRequest) (PaymentRequest, bool) {
	if tx.Type != Deposit {
		return PaymentRequest{}, false
	}

	ordered := slices.Clone(requests)
	slices.SortStableFunc(ordered, func(a, b PaymentRequest) int {
		return cmp.Compare(a.Sequence, b.Sequence)
	})

	for _, request := range ordered {
		if request.Settles(tx) {
			return request, true
		}
	}
	return PaymentRequest{}, false
}

// RequestFilledMessage announces a request receiving its final installment.
func RequestFilledMessage(request PaymentRequest, tx Transaction) Message {
	return Message{
		Text:      fmt.Sprintf("Payment request %q has been filled", request.Description),
		Timestamp: tx.Timestamp,
		Type:      Info,
		Kind:      KindRequestFilled,
	}
}

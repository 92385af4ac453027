package actions

import (
	"context"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

type AddPaymentRequest struct {
	Draft ledger.PaymentRequestDraft

	Request *ledger.PaymentRequest
	IAction
}

func (a *AddPaymentRequest) Perform(ctx context.Context, writer storage.Writer) error {
	id, err := newID()
	if err != nil {
		return err
	}
	request := a.Draft.Build(id)
	if err := writer.InsertPaymentRequest(ctx, &request); err != nil {
		return err
	}
	a.Request = &request
	return nil
}

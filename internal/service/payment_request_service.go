package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/operator/actions"
)

type PaymentRequestService struct {
	*deps
}

func (s *PaymentRequestService) AddPaymentRequest(ctx context.Context, session string, draft ledger.PaymentRequestDraft) (*ledger.PaymentRequest, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	action := &actions.AddPaymentRequest{Draft: draft}
	if err := s.process(ctx, session, action); err != nil {
		return nil, err
	}
	return action.Request, nil
}

func (s *PaymentRequestService) GetPaymentRequest(ctx context.Context, session string, id uuid.UUID) (*ledger.PaymentRequest, error) {
	reader, err := s.read(session)
	if err != nil {
		return nil, err
	}
	return reader.GetPaymentRequest(ctx, id)
}

func (s *PaymentRequestService) ListPaymentRequests(ctx context.Context, session string) ([]ledger.PaymentRequest, error) {
	reader, err := s.read(session)
	if err != nil {
		return nil, err
	}
	return reader.ListPaymentRequests(ctx)
}

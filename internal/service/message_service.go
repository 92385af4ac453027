package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/operator/actions"
)

type MessageService struct {
	*deps
}

func (s *MessageService) ListUnreadMessages(ctx context.Context, session string) ([]ledger.Message, error) {
	return s.ListMessages(ctx, session, true)
}

func (s *MessageService) ListMessages(ctx context.Context, session string, unreadOnly bool) ([]ledger.Message, error) {
	reader, err := s.read(session)
	if err != nil {
		return nil, err
	}
	return reader.ListMessages(ctx, unreadOnly)
}

func (s *MessageService) MarkMessageRead(ctx context.Context, session string, id uuid.UUID) error {
	return s.process(ctx, session, &actions.MarkMessageRead{MessageID: id})
}

func (s *MessageService) AddMessageRule(ctx context.Context, session string, draft ledger.MessageRuleDraft) (*ledger.MessageRule, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	action := &actions.AddMessageRule{Draft: draft}
	if err := s.process(ctx, session, action); err != nil {
		return nil, err
	}
	return action.Rule, nil
}

func (s *MessageService) ListMessageRules(ctx context.Context, session string) ([]ledger.MessageRule, error) {
	reader, err := s.read(session)
	if err != nil {
		return nil, err
	}
	return reader.ListMessageRules(ctx)
}

func (s *MessageService) DeleteMessageRule(ctx context.Context, session string, id uuid.UUID) error {
	return s.process(ctx, session, &actions.DeleteMessageRule{RuleID: id})
}

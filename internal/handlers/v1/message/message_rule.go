package message

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/handlers/v1/common"
	"github.com/carson-networks/budget-ledger/internal/ledger"
)

// MessageRule is the API response model for a spending threshold rule.
type MessageRule struct {
	ID         string `json:"id" doc:"Message rule UUID"`
	CategoryID string `json:"categoryID"`
	Type       string `json:"type" enum:"info,warning"`
	Value      string `json:"value" doc:"Month-to-date spending threshold"`
}

func toMessageRule(r ledger.MessageRule) MessageRule {
	return MessageRule{
		ID:         r.ID.String(),
		CategoryID: r.CategoryID.String(),
		Type:       string(r.Type),
		Value:      r.Value.String(),
	}
}

type CreateMessageRuleInput struct {
	Session string `header:"X-session-ID" doc:"Session token"`
	Body    struct {
		CategoryID string `json:"categoryID" required:"true"`
		Type       string `json:"type" required:"true" enum:"info,warning"`
		Value      string `json:"value" required:"true" doc:"Non-negative decimal threshold"`
	}
}

type ListMessageRulesInput struct {
	Session string `header:"X-session-ID" doc:"Session token"`
}

type MessageRuleIDInput struct {
	Session string `header:"X-session-ID" doc:"Session token"`
	ID      string `path:"id" doc:"Message rule UUID"`
}

type MessageRuleOutput struct {
	Body MessageRule
}

type ListMessageRulesOutput struct {
	Body struct {
		Rules []MessageRule `json:"rules"`
	}
}

type messageRuleService interface {
	AddMessageRule(ctx context.Context, session string, draft ledger.MessageRuleDraft) (*ledger.MessageRule, error)
	ListMessageRules(ctx context.Context, session string) ([]ledger.MessageRule, error)
	DeleteMessageRule(ctx context.Context, session string, id uuid.UUID) error
}

// RuleHandler serves the message rule endpoints under /v1/message-rule.
type RuleHandler struct {
	RuleService messageRuleService
}

func NewRuleHandler(svc messageRuleService) *RuleHandler {
	return &RuleHandler{RuleService: svc}
}

func (h *RuleHandler) Register(api huma.API) {
	tags := []string{"Messages"}

	huma.Register(api, huma.Operation{
		OperationID:   "create-message-rule",
		Method:        http.MethodPost,
		Path:          "/v1/message-rule",
		Summary:       "Create a message rule",
		Description:   "Emits a message once month-to-date withdrawals in the category exceed the value.",
		Tags:          tags,
		DefaultStatus: http.StatusCreated,
	}, h.create)

	huma.Register(api, huma.Operation{
		OperationID: "list-message-rules",
		Method:      http.MethodGet,
		Path:        "/v1/message-rule",
		Summary:     "List message rules",
		Tags:        tags,
	}, h.list)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-message-rule",
		Method:        http.MethodDelete,
		Path:          "/v1/message-rule/{id}",
		Summary:       "Delete a message rule",
		Tags:          tags,
		DefaultStatus: http.StatusNoContent,
	}, h.delete)
}

func (h *RuleHandler) create(ctx context.Context, input *CreateMessageRuleInput) (*MessageRuleOutput, error) {
	session, err := common.Session(input.Session)
	if err != nil {
		return nil, err
	}
	categoryID, err := common.ParseID("categoryID", input.Body.CategoryID)
	if err != nil {
		return nil, err
	}
	value, err := common.ParseAmount("value", input.Body.Value)
	if err != nil {
		return nil, err
	}

	rule, err := h.RuleService.AddMessageRule(ctx, session, ledger.MessageRuleDraft{
		CategoryID: categoryID,
		Type:       ledger.MessageType(input.Body.Type),
		Value:      value,
	})
	if err != nil {
		return nil, common.Error("failed to create message rule", err)
	}
	return &MessageRuleOutput{Body: toMessageRule(*rule)}, nil
}

func (h *RuleHandler) list(ctx context.Context, input *ListMessageRulesInput) (*ListMessageRulesOutput, error) {
	session, err := common.Session(input.Session)
	if err != nil {
		return nil, err
	}

	rules, err := h.RuleService.ListMessageRules(ctx, session)
	if err != nil {
		return nil, common.Error("failed to list message rules", err)
	}

	resp := &ListMessageRulesOutput{}
	resp.Body.Rules = make([]MessageRule, len(rules))
	for i, r := range rules {
		resp.Body.Rules[i] = toMessageRule(r)
	}
	return resp, nil
}

func (h *RuleHandler) delete(ctx context.Context, input *MessageRuleIDInput) (*struct{}, error) {
	session, err := common.Session(input.Session)
	if err != nil {
		return nil, err
	}
	id, err := common.ParseID("id", input.ID)
	if err != nil {
		return nil, err
	}

	if err := h.RuleService.DeleteMessageRule(ctx, session, id); err != nil {
		return nil, common.Error("failed to delete message rule", err)
	}
	return nil, nil
}

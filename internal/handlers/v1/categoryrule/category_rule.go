package categoryrule

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/handlers/v1/common"
	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/logging"
)

// CategoryRule is the API response model for a category rule.
type CategoryRule struct {
	ID                 string `json:"id" doc:"Rule UUID"`
	DescriptionPattern string `json:"descriptionPattern" doc:"Case sensitive substring of the description"`
	IBANPattern        string `json:"ibanPattern" doc:"Case sensitive substring of the counterparty IBAN"`
	Type               string `json:"type" doc:"Transaction type the rule applies to"`
	CategoryID         string `json:"categoryID" doc:"Category assigned on match"`
	ApplyOnHistory     bool   `json:"applyOnHistory" doc:"Whether the rule was applied to existing transactions"`
}

func toCategoryRule(r ledger.CategoryRule) CategoryRule {
	return CategoryRule{
		ID:                 r.ID.String(),
		DescriptionPattern: r.DescriptionPattern,
		IBANPattern:        r.IBANPattern,
		Type:               string(r.Type),
		CategoryID:         r.CategoryID.String(),
		ApplyOnHistory:     r.ApplyOnHistory,
	}
}

type CategoryRuleBody struct {
	DescriptionPattern string `json:"descriptionPattern,omitempty" doc:"Empty matches any description"`
	IBANPattern        string `json:"ibanPattern,omitempty" doc:"Empty matches any IBAN"`
	Type               string `json:"type" required:"true" enum:"deposit,withdrawal"`
	CategoryID         string `json:"categoryID" required:"true" doc:"Category UUID"`
	ApplyOnHistory     bool   `json:"applyOnHistory,omitempty" doc:"On create, recategorise existing matching transactions"`
}

func parseCategoryRuleBody(body CategoryRuleBody) (ledger.CategoryRuleDraft, error) {
	categoryID, err := common.ParseID("categoryID", body.CategoryID)
	if err != nil {
		return ledger.CategoryRuleDraft{}, err
	}
	return ledger.CategoryRuleDraft{
		DescriptionPattern: body.DescriptionPattern,
		IBANPattern:        body.IBANPattern,
		Type:               ledger.TransactionType(body.Type),
		CategoryID:         categoryID,
		ApplyOnHistory:     body.ApplyOnHistory,
	}, nil
}

type CreateCategoryRuleInput struct {
	Session string `header:"X-session-ID" doc:"Session token"`
	Body    CategoryRuleBody
}

type UpdateCategoryRuleInput struct {
	Session string `header:"X-session-ID" doc:"Session token"`
	ID      string `path:"id" doc:"Rule UUID"`
	Body    CategoryRuleBody
}

type CategoryRuleIDInput struct {
	Session string `header:"X-session-ID" doc:"Session token"`
	ID      string `path:"id" doc:"Rule UUID"`
}

type ListCategoryRulesInput struct {
	Session string `header:"X-session-ID" doc:"Session token"`
}

// SavedCategoryRuleOutput reports how many transactions a new rule recategorised.
type SavedCategoryRuleOutput struct {
	Body struct {
		Rule       CategoryRule `json:"rule"`
		Backfilled int64        `json:"backfilled" doc:"Transactions recategorised by applyOnHistory"`
	}
}

type CategoryRuleOutput struct {
	Body CategoryRule
}

type ListCategoryRulesOutput struct {
	Body struct {
		Rules []CategoryRule `json:"rules" doc:"Rules in priority order, oldest first"`
	}
}

type categoryRuleService interface {
	AddCategoryRule(ctx context.Context, session string, draft ledger.CategoryRuleDraft) (*ledger.CategoryRule, int64, error)
	GetCategoryRule(ctx context.Context, session string, id uuid.UUID) (*ledger.CategoryRule, error)
	ListCategoryRules(ctx context.Context, session string) ([]ledger.CategoryRule, error)
	UpdateCategoryRule(ctx context.Context, session string, id uuid.UUID, draft ledger.CategoryRuleDraft) (*ledger.CategoryRule, error)
	DeleteCategoryRule(ctx context.Context, session string, id uuid.UUID) error
}

// Handler serves the category rule endpoints under /v1/category-rule.
type Handler struct {
	RuleService categoryRuleService
}

func NewHandler(svc categoryRuleService) *Handler {
	return &Handler{RuleService: svc}
}

func (h *Handler) Register(api huma.API) {
	tags := []string{"Category rules"}

	huma.Register(api, huma.Operation{
		OperationID:   "create-category-rule",
		Method:        http.MethodPost,
		Path:          "/v1/category-rule",
		Summary:       "Create a category rule",
		Description:   "Adds a rule at the lowest priority. With applyOnHistory every matching transaction is recategorised.",
		Tags:          tags,
		DefaultStatus: http.StatusCreated,
	}, h.create)

	huma.Register(api, huma.Operation{
		OperationID: "list-category-rules",
		Method:      http.MethodGet,
		Path:        "/v1/category-rule",
		Summary:     "List category rules",
		Tags:        tags,
	}, h.list)

	huma.Register(api, huma.Operation{
		OperationID: "get-category-rule",
		Method:      http.MethodGet,
		Path:        "/v1/category-rule/{id}",
		Summary:     "Get a category rule",
		Tags:        tags,
	}, h.get)

	huma.Register(api, huma.Operation{
		OperationID: "update-category-rule",
		Method:      http.MethodPut,
		Path:        "/v1/category-rule/{id}",
		Summary:     "Update a category rule",
		Description: "Replaces the rule's patterns and category. The rule keeps its priority and existing transactions keep their category.",
		Tags:        tags,
	}, h.update)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-category-rule",
		Method:        http.MethodDelete,
		Path:          "/v1/category-rule/{id}",
		Summary:       "Delete a category rule",
		Tags:          tags,
		DefaultStatus: http.StatusNoContent,
	}, h.delete)
}

func savedOutput(rule *ledger.CategoryRule, backfilled int64) *SavedCategoryRuleOutput {
	resp := &SavedCategoryRuleOutput{}
	resp.Body.Rule = toCategoryRule(*rule)
	resp.Body.Backfilled = backfilled
	return resp
}

func (h *Handler) create(ctx context.Context, input *CreateCategoryRuleInput) (*SavedCategoryRuleOutput, error) {
	session, err := common.Session(input.Session)
	if err != nil {
		return nil, err
	}
	draft, err := parseCategoryRuleBody(input.Body)
	if err != nil {
		return nil, err
	}

	stopTimer := logging.GetLogData(ctx).AddTiming("addCategoryRuleMs")
	rule, backfilled, err := h.RuleService.AddCategoryRule(ctx, session, draft)
	stopTimer()
	if err != nil {
		return nil, common.Error("failed to create category rule", err)
	}
	logging.GetLogData(ctx).AddData("backfilled", backfilled)
	return savedOutput(rule, backfilled), nil
}

func (h *Handler) list(ctx context.Context, input *ListCategoryRulesInput) (*ListCategoryRulesOutput, error) {
	session, err := common.Session(input.Session)
	if err != nil {
		return nil, err
	}

	rules, err := h.RuleService.ListCategoryRules(ctx, session)
	if err != nil {
		return nil, common.Error("failed to list category rules", err)
	}

	resp := &ListCategoryRulesOutput{}
	resp.Body.Rules = make([]CategoryRule, len(rules))
	for i, r := range rules {
		resp.Body.Rules[i] = toCategoryRule(r)
	}
	return resp, nil
}

func (h *Handler) get(ctx context.Context, input *CategoryRuleIDInput) (*CategoryRuleOutput, error) {
	session, err := common.Session(input.Session)
	if err != nil {
		return nil, err
	}
	id, err := common.ParseID("id", input.ID)
	if err != nil {
		return nil, err
	}

	rule, err := h.RuleService.GetCategoryRule(ctx, session, id)
	if err != nil {
		return nil, common.Error("failed to get category rule", err)
	}
	return &CategoryRuleOutput{Body: toCategoryRule(*rule)}, nil
}

func (h *Handler) update(ctx context.Context, input *UpdateCategoryRuleInput) (*CategoryRuleOutput, error) {
	session, err := common.Session(input.Session)
	if err != nil {
		return nil, err
	}
	id, err := common.ParseID("id", input.ID)
	if err != nil {
		return nil, err
	}
	draft, err := parseCategoryRuleBody(input.Body)
	if err != nil {
		return nil, err
	}

	rule, err := h.RuleService.UpdateCategoryRule(ctx, session, id, draft)
	if err != nil {
		return nil, common.Error("failed to update category rule", err)
	}
	return &CategoryRuleOutput{Body: toCategoryRule(*rule)}, nil
}

func (h *Handler) delete(ctx context.Context, input *CategoryRuleIDInput) (*struct{}, error) {
	session, err := common.Session(input.Session)
	if err != nil {
		return nil, err
	}
	id, err := common.ParseID("id", input.ID)
	if err != nil {
		return nil, err
	}

	if err := h.RuleService.DeleteCategoryRule(ctx, session, id); err != nil {
		return nil, common.Error("failed to delete category rule", err)
	}
	return nil, nil
}

package savinggoal

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/handlers/v1/common"
	"github.com/carson-networks/budget-ledger/internal/ledger"
)

// SavingGoal is the API response model for a saving goal.
type SavingGoal struct {
	ID                 string `json:"id" doc:"Saving goal UUID"`
	Name               string `json:"name"`
	Goal               string `json:"goal" doc:"Target amount"`
	SavePerMonth       string `json:"savePerMonth" doc:"Amount set aside each month"`
	MinBalanceRequired string `json:"minBalanceRequired" doc:"Balance that must remain after an allocation"`
	Balance            string `json:"balance" doc:"Amount allocated so far"`
}

func toSavingGoal(g ledger.SavingGoal) SavingGoal {
	return SavingGoal{
		ID:                 g.ID.String(),
		Name:               g.Name,
		Goal:               g.Goal.String(),
		SavePerMonth:       g.SavePerMonth.String(),
		MinBalanceRequired: g.MinBalanceRequired.String(),
		Balance:            g.Balance.String(),
	}
}

// Refund is one allocation returned to the main balance when a goal is deleted.
type Refund struct {
	ID     string `json:"id" doc:"Refund transaction UUID"`
	Date   string `json:"date"`
	Amount string `json:"amount"`
}

type SavingGoalBody struct {
	Name               string `json:"name" required:"true"`
	Goal               string `json:"goal" required:"true" doc:"Positive decimal target"`
	SavePerMonth       string `json:"savePerMonth" required:"true" doc:"Positive decimal monthly allocation"`
	MinBalanceRequired string `json:"minBalanceRequired,omitempty" doc:"Non-negative decimal, defaults to 0"`
}

func parseSavingGoalBody(body SavingGoalBody) (ledger.SavingGoalDraft, error) {
	goal, err := common.ParseAmount("goal", body.Goal)
	if err != nil {
		return ledger.SavingGoalDraft{}, err
	}
	perMonth, err := common.ParseAmount("savePerMonth", body.SavePerMonth)
	if err != nil {
		return ledger.SavingGoalDraft{}, err
	}
	draft := ledger.SavingGoalDraft{Name: body.Name, Goal: goal, SavePerMonth: perMonth}
	if body.MinBalanceRequired != "" {
		draft.MinBalanceRequired, err = common.ParseAmount("minBalanceRequired", body.MinBalanceRequired)
		if err != nil {
			return ledger.SavingGoalDraft{}, err
		}
	}
	return draft, nil
}

type CreateSavingGoalInput struct {
	Session string `header:"X-session-ID" doc:"Session token"`
	Body    SavingGoalBody
}

type SavingGoalIDInput struct {
	Session string `header:"X-session-ID" doc:"Session token"`
	ID      string `path:"id" doc:"Saving goal UUID"`
}

type ListSavingGoalsInput struct {
	Session string `header:"X-session-ID" doc:"Session token"`
}

type SavingGoalOutput struct {
	Body SavingGoal
}

type ListSavingGoalsOutput struct {
	Body struct {
		Goals []SavingGoal `json:"goals"`
	}
}

type DeleteSavingGoalOutput struct {
	Body struct {
		Refunds []Refund `json:"refunds" doc:"Allocations returned to the main balance"`
	}
}

type savingGoalService interface {
	AddSavingGoal(ctx context.Context, session string, draft ledger.SavingGoalDraft) (*ledger.SavingGoal, error)
	GetSavingGoal(ctx context.Context, session string, id uuid.UUID) (*ledger.SavingGoal, error)
	ListSavingGoals(ctx context.Context, session string) ([]ledger.SavingGoal, error)
	DeleteSavingGoal(ctx context.Context, session string, id uuid.UUID) ([]ledger.Transaction, error)
}

// Handler serves the saving goal endpoints under /v1/saving-goal.
type Handler struct {
	GoalService savingGoalService
}

func NewHandler(svc savingGoalService) *Handler {
	return &Handler{GoalService: svc}
}

func (h *Handler) Register(api huma.API) {
	tags := []string{"Saving goals"}

	huma.Register(api, huma.Operation{
		OperationID:   "create-saving-goal",
		Method:        http.MethodPost,
		Path:          "/v1/saving-goal",
		Summary:       "Create a saving goal",
		Description:   "Goals receive their monthly allocation when the first transaction of a new month is recorded.",
		Tags:          tags,
		DefaultStatus: http.StatusCreated,
	}, h.create)

	huma.Register(api, huma.Operation{
		OperationID: "list-saving-goals",
		Method:      http.MethodGet,
		Path:        "/v1/saving-goal",
		Summary:     "List saving goals",
		Tags:        tags,
	}, h.list)

	huma.Register(api, huma.Operation{
		OperationID: "get-saving-goal",
		Method:      http.MethodGet,
		Path:        "/v1/saving-goal/{id}",
		Summary:     "Get a saving goal",
		Tags:        tags,
	}, h.get)

	huma.Register(api, huma.Operation{
		OperationID: "delete-saving-goal",
		Method:      http.MethodDelete,
		Path:        "/v1/saving-goal/{id}",
		Summary:     "Delete a saving goal",
		Description: "Deletes the goal and refunds every allocation it received.",
		Tags:        tags,
	}, h.delete)
}

func (h *Handler) create(ctx context.Context, input *CreateSavingGoalInput) (*SavingGoalOutput, error) {
	session, err := common.Session(input.Session)
	if err != nil {
		return nil, err
	}
	draft, err := parseSavingGoalBody(input.Body)
	if err != nil {
		return nil, err
	}

	goal, err := h.GoalService.AddSavingGoal(ctx, session, draft)
	if err != nil {
		return nil, common.Error("failed to create saving goal", err)
	}
	return &SavingGoalOutput{Body: toSavingGoal(*goal)}, nil
}

func (h *Handler) list(ctx context.Context, input *ListSavingGoalsInput) (*ListSavingGoalsOutput, error) {
	session, err := common.Session(input.Session)
	if err != nil {
		return nil, err
	}

	goals, err := h.GoalService.ListSavingGoals(ctx, session)
	if err != nil {
		return nil, common.Error("failed to list saving goals", err)
	}

	resp := &ListSavingGoalsOutput{}
	resp.Body.Goals = make([]SavingGoal, len(goals))
	for i, g := range goals {
		resp.Body.Goals[i] = toSavingGoal(g)
	}
	return resp, nil
}

func (h *Handler) get(ctx context.Context, input *SavingGoalIDInput) (*SavingGoalOutput, error) {
	session, err := common.Session(input.Session)
	if err != nil {
		return nil, err
	}
	id, err := common.ParseID("id", input.ID)
	if err != nil {
		return nil, err
	}

	goal, err := h.GoalService.GetSavingGoal(ctx, session, id)
	if err != nil {
		return nil, common.Error("failed to get saving goal", err)
	}
	return &SavingGoalOutput{Body: toSavingGoal(*goal)}, nil
}

func (h *Handler) delete(ctx context.Context, input *SavingGoalIDInput) (*DeleteSavingGoalOutput, error) {
	session, err := common.Session(input.Session)
	if err != nil {
		return nil, err
	}
	id, err := common.ParseID("id", input.ID)
	if err != nil {
		return nil, err
	}

	refunds, err := h.GoalService.DeleteSavingGoal(ctx, session, id)
	if err != nil {
		return nil, common.Error("failed to delete saving goal", err)
	}

	resp := &DeleteSavingGoalOutput{}
	resp.Body.Refunds = make([]Refund, len(refunds))
	for i, tx := range refunds {
		resp.Body.Refunds[i] = Refund{
			ID:     tx.ID.String(),
			Date:   common.FormatTime(tx.Timestamp),
			Amount: tx.Amount.String(),
		}
	}
	return resp, nil
}

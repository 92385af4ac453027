package category

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-ledger/internal/handlers/v1/common"
	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/logging"
)

// Category is the API response model for a category.
type Category struct {
	ID   string `json:"id" doc:"Category UUID"`
	Name string `json:"name" doc:"Display name"`
}

func toCategory(c ledger.Category) Category {
	return Category{ID: c.ID.String(), Name: c.Name}
}

type CategoryBody struct {
	Name string `json:"name" required:"true" doc:"Display name"`
}

type CreateCategoryInput struct {
	Session string `header:"X-session-ID" doc:"Session token"`
	Body    CategoryBody
}

type UpdateCategoryInput struct {
	Session string `header:"X-session-ID" doc:"Session token"`
	ID      string `path:"id" doc:"Category UUID"`
	Body    CategoryBody
}

type CategoryIDInput struct {
	Session string `header:"X-session-ID" doc:"Session token"`
	ID      string `path:"id" doc:"Category UUID"`
}

type ListCategoriesInput struct {
	Session string `header:"X-session-ID" doc:"Session token"`
}

type CategoryOutput struct {
	Body Category
}

type ListCategoriesOutput struct {
	Body struct {
		Categories []Category `json:"categories" doc:"Every category of the session"`
	}
}

type categoryService interface {
	CreateCategory(ctx context.Context, session string, draft ledger.CategoryDraft) (*ledger.Category, error)
	GetCategory(ctx context.Context, session string, id uuid.UUID) (*ledger.Category, error)
	ListCategories(ctx context.Context, session string) ([]ledger.Category, error)
	UpdateCategory(ctx context.Context, session string, id uuid.UUID, draft ledger.CategoryDraft) (*ledger.Category, error)
	DeleteCategory(ctx context.Context, session string, id uuid.UUID) error
}

// Handler serves the category endpoints under /v1/category.
type Handler struct {
	CategoryService categoryService
}

func NewHandler(svc categoryService) *Handler {
	return &Handler{CategoryService: svc}
}

// Register registers every category endpoint with the Huma API.
func (h *Handler) Register(api huma.API) {
	tags := []string{"Categories"}

	huma.Register(api, huma.Operation{
		OperationID:   "create-category",
		Method:        http.MethodPost,
		Path:          "/v1/category",
		Summary:       "Create a category",
		Tags:          tags,
		DefaultStatus: http.StatusCreated,
	}, h.create)

	huma.Register(api, huma.Operation{
		OperationID: "list-categories",
		Method:      http.MethodGet,
		Path:        "/v1/category",
		Summary:     "List categories",
		Tags:        tags,
	}, h.list)

	huma.Register(api, huma.Operation{
		OperationID: "get-category",
		Method:      http.MethodGet,
		Path:        "/v1/category/{id}",
		Summary:     "Get a category",
		Tags:        tags,
	}, h.get)

	huma.Register(api, huma.Operation{
		OperationID: "update-category",
		Method:      http.MethodPut,
		Path:        "/v1/category/{id}",
		Summary:     "Rename a category",
		Tags:        tags,
	}, h.update)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-category",
		Method:        http.MethodDelete,
		Path:          "/v1/category/{id}",
		Summary:       "Delete a category",
		Description:   "Deletes the category, clears it from its transactions and removes its message rules.",
		Tags:          tags,
		DefaultStatus: http.StatusNoContent,
	}, h.delete)
}

func (h *Handler) create(ctx context.Context, input *CreateCategoryInput) (*CategoryOutput, error) {
	session, err := common.Session(input.Session)
	if err != nil {
		return nil, err
	}

	category, err := h.CategoryService.CreateCategory(ctx, session, ledger.CategoryDraft{Name: input.Body.Name})
	if err != nil {
		return nil, common.Error("failed to create category", err)
	}
	return &CategoryOutput{Body: toCategory(*category)}, nil
}

func (h *Handler) list(ctx context.Context, input *ListCategoriesInput) (*ListCategoriesOutput, error) {
	session, err := common.Session(input.Session)
	if err != nil {
		return nil, err
	}

	categories, err := h.CategoryService.ListCategories(ctx, session)
	if err != nil {
		return nil, common.Error("failed to list categories", err)
	}
	logging.GetLogData(ctx).AddData("categoryCount", len(categories))

	resp := &ListCategoriesOutput{}
	resp.Body.Categories = make([]Category, len(categories))
	for i, c := range categories {
		resp.Body.Categories[i] = toCategory(c)
	}
	return resp, nil
}

func (h *Handler) get(ctx context.Context, input *CategoryIDInput) (*CategoryOutput, error) {
	session, err := common.Session(input.Session)
	if err != nil {
		return nil, err
	}
	id, err := common.ParseID("id", input.ID)
	if err != nil {
		return nil, err
	}

	category, err := h.CategoryService.GetCategory(ctx, session, id)
	if err != nil {
		return nil, common.Error("failed to get category", err)
	}
	return &CategoryOutput{Body: toCategory(*category)}, nil
}

func (h *Handler) update(ctx context.Context, input *UpdateCategoryInput) (*CategoryOutput, error) {
	session, err := common.Session(input.Session)
	if err != nil {
		return nil, err
	}
	id, err := common.ParseID("id", input.ID)
	if err != nil {
		return nil, err
	}

	category, err := h.CategoryService.UpdateCategory(ctx, session, id, ledger.CategoryDraft{Name: input.Body.Name})
	if err != nil {
		return nil, common.Error("failed to update category", err)
	}
	return &CategoryOutput{Body: toCategory(*category)}, nil
}

func (h *Handler) delete(ctx context.Context, input *CategoryIDInput) (*struct{}, error) {
	session, err := common.Session(input.Session)
	if err != nil {
		return nil, err
	}
	id, err := common.ParseID("id", input.ID)
	if err != nil {
		return nil, err
	}

	if err := h.CategoryService.DeleteCategory(ctx, session, id); err != nil {
		return nil, common.Error("failed to delete category", err)
	}
	return nil, nil
}

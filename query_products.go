package storefront

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

type GetProductQuery struct {
	ID uuid.UUID `json:"id"`
}

func (q GetProductQuery) Type() string { return "product.get" }

type GetProductHandler struct {
	repo RepositoryManager
}

func NewGetProductHandler(repo RepositoryManager) *GetProductHandler {
	return &GetProductHandler{repo: repo}
}

func (h *GetProductHandler) Execute(ctx context.Context, query GetProductQuery) (*Product, error) {
	if query.ID == uuid.Nil {
		return nil, goerrors.New("must be a valid id", goerrors.CategoryValidation)
	}
	return h.repo.Products().GetProduct(ctx, query.ID)
}

type ListProductsQuery struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

func (q ListProductsQuery) Type() string { return "product.list" }

type ListProductsHandler struct {
	repo RepositoryManager
}

func NewListProductsHandler(repo RepositoryManager) *ListProductsHandler {
	return &ListProductsHandler{repo: repo}
}

func (h *ListProductsHandler) Execute(ctx context.Context, query ListProductsQuery) (*ProductPage, error) {
	return h.repo.Products().ListPage(ctx, query.Page, query.PerPage)
}

type GetAuditLogsQuery struct {
	Limit int `json:"limit"`
}

func (q GetAuditLogsQuery) Type() string { return "auditlog.list" }

type GetAuditLogsHandler struct {
	repo RepositoryManager
}

func NewGetAuditLogsHandler(repo RepositoryManager) *GetAuditLogsHandler {
	return &GetAuditLogsHandler{repo: repo}
}

func (h *GetAuditLogsHandler) Execute(ctx context.Context, query GetAuditLogsQuery) ([]*AuditLog, error) {
	return h.repo.AuditLogs().Recent(ctx, query.Limit)
}

package storefront

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type DeleteProductMessage struct {
	ID      uuid.UUID `json:"id"`
	ActorID string    `json:"-"`
}

func (e DeleteProductMessage) Type() string { return "product.delete" }

type DeleteProductHandler struct {
	repo  RepositoryManager
	audit *AuditRecorder
}

func NewDeleteProductHandler(repo RepositoryManager, audit *AuditRecorder) *DeleteProductHandler {
	return &DeleteProductHandler{repo: repo, audit: audit}
}

func (h *DeleteProductHandler) Execute(ctx context.Context, event DeleteProductMessage) error {
	if event.ID == uuid.Nil {
		return goerrors.New("must be a valid id", goerrors.CategoryValidation)
	}

	return h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		before, err := h.repo.Products().GetProductTx(ctx, tx, event.ID)
		if err != nil {
			return err
		}

		if err := h.repo.Products().SoftDeleteTx(ctx, tx, event.ID); err != nil {
			return err
		}

		return h.audit.RecordTx(ctx, tx, event.ActorID, AuditActionDelete, "product", event.ID.String(), before, nil)
	})
}

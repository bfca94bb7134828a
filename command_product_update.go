package storefront

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type UpdateProductMessage struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Quantity     int       `json:"quantity"`
	PricePerUnit float64   `json:"price_per_unit"`
	ActorID      string    `json:"-"`
}

func (e UpdateProductMessage) Type() string { return "product.update" }

func (e UpdateProductMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.ID, validation.Required, validation.By(validateUUIDNotNil)),
		validation.Field(&e.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&e.Quantity, validation.Min(0)),
		validation.Field(&e.PricePerUnit, validation.Min(0.0)),
	)
}

func validateUUIDNotNil(value any) error {
	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return goerrors.New("must be a valid id", goerrors.CategoryValidation)
	}
	return nil
}

type UpdateProductHandler struct {
	repo  RepositoryManager
	audit *AuditRecorder
}

func NewUpdateProductHandler(repo RepositoryManager, audit *AuditRecorder) *UpdateProductHandler {
	return &UpdateProductHandler{repo: repo, audit: audit}
}

func (h *UpdateProductHandler) Execute(ctx context.Context, event UpdateProductMessage) (*Product, error) {
	if err := event.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid product payload")
	}

	var updated *Product

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		before, err := h.repo.Products().GetProductTx(ctx, tx, event.ID)
		if err != nil {
			return err
		}

		record := &Product{
			ID:           before.ID,
			Name:         event.Name,
			Quantity:     event.Quantity,
			PricePerUnit: event.PricePerUnit,
			CreatedByID:  before.CreatedByID,
			CreatedAt:    before.CreatedAt,
		}

		if actor, err := uuid.Parse(event.ActorID); err == nil {
			record.UpdatedByID = &actor
		}

		if updated, err = h.repo.Products().UpdateFieldsTx(ctx, tx, record); err != nil {
			return err
		}

		return h.audit.RecordTx(ctx, tx, event.ActorID, AuditActionUpdate, "product", before.ID.String(), before, updated)
	})

	if err != nil {
		return nil, err
	}

	return updated, nil
}

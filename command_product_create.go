package storefront

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type CreateProductMessage struct {
	Name         string  `json:"name"`
	Quantity     int     `json:"quantity"`
	PricePerUnit float64 `json:"price_per_unit"`
	ActorID      string  `json:"-"`
}

func (e CreateProductMessage) Type() string { return "product.create" }

func (e CreateProductMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&e.Quantity, validation.Min(0)),
		validation.Field(&e.PricePerUnit, validation.Min(0.0)),
	)
}

type CreateProductHandler struct {
	repo  RepositoryManager
	audit *AuditRecorder
}

func NewCreateProductHandler(repo RepositoryManager, audit *AuditRecorder) *CreateProductHandler {
	return &CreateProductHandler{repo: repo, audit: audit}
}

func (h *CreateProductHandler) Execute(ctx context.Context, event CreateProductMessage) (*Product, error) {
	if err := event.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid product payload")
	}

	record := &Product{
		Name:         event.Name,
		Quantity:     event.Quantity,
		PricePerUnit: event.PricePerUnit,
	}

	if actor, err := uuid.Parse(event.ActorID); err == nil {
		record.CreatedByID = &actor
	}

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		created, err := h.repo.Products().CreateTx(ctx, tx, record)
		if err != nil {
			return err
		}
		record = created

		return h.audit.RecordTx(ctx, tx, event.ActorID, AuditActionCreate, "product", record.ID.String(), nil, record)
	})

	if err != nil {
		return nil, err
	}

	return record, nil
}

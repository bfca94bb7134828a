package storefront

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
)

type RegisterUserMessage struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	UseHashid bool   `json:"-"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// Validate will run validation rules
func (e RegisterUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Email, validation.Required, is.Email),
		validation.Field(&e.Password, validation.Required, validation.Length(6, 254)),
		validation.Field(&e.Username, validation.Required, validation.Length(3, 254)),
	)
}

// RegistrationResponse is returned on a successful registration
type RegistrationResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type RegisterUserHandler struct {
	verifier IdentityVerifier
}

func NewRegisterUserHandler(verifier IdentityVerifier) *RegisterUserHandler {
	return &RegisterUserHandler{verifier: verifier}
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) (*RegistrationResponse, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) (*RegistrationResponse, error) {
	if err := event.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration payload")
	}

	profile := &User{
		Username: event.Username,
		Email:    event.Email,
		Role:     RoleUser,
	}

	if event.UseHashid {
		if id, err := hashid.NewUUID(event.Email); err == nil {
			profile.ID = id
		}
	}

	created, err := h.verifier.CreateUser(ctx, profile, event.Password)
	if err != nil {
		return nil, err
	}

	return &RegistrationResponse{
		Username: created.Username,
		Email:    created.Email,
		Role:     string(created.Role),
	}, nil
}

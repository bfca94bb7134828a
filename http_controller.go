package storefront

import (
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-storefront/middleware/jwtware"
	"github.com/google/uuid"
)

// APIController exposes the JSON surface: auth session endpoints plus the
// guarded catalog CRUD.
type APIController struct {
	Debug  bool
	Logger Logger

	auther   *Auther
	cfg      Config
	register *RegisterUserHandler

	createProduct *CreateProductHandler
	updateProduct *UpdateProductHandler
	deleteProduct *DeleteProductHandler
	getProduct    *GetProductHandler
	listProducts  *ListProductsHandler
	auditLogsList *GetAuditLogsHandler
}

type APIControllerOption func(*APIController) *APIController

func WithControllerLogger(l Logger) APIControllerOption {
	return func(c *APIController) *APIController {
		c.Logger = l
		return c
	}
}

func WithControllerDebug(debug bool) APIControllerOption {
	return func(c *APIController) *APIController {
		c.Debug = debug
		return c
	}
}

// NewAPIController wires the controller from the repository manager and the
// signing configuration.
func NewAPIController(repo RepositoryManager, cfg Config, opts ...APIControllerOption) *APIController {
	verifier := NewUserProvider(repo.Users())
	audit := NewAuditRecorder(repo.AuditLogs())

	c := &APIController{
		Logger:        defLogger{},
		cfg:           cfg,
		auther:        NewAuthenticator(repo.Users(), verifier, cfg),
		register:      NewRegisterUserHandler(verifier),
		createProduct: NewCreateProductHandler(repo, audit),
		updateProduct: NewUpdateProductHandler(repo, audit),
		deleteProduct: NewDeleteProductHandler(repo, audit),
		getProduct:    NewGetProductHandler(repo),
		listProducts:  NewListProductsHandler(repo),
		auditLogsList: NewGetAuditLogsHandler(repo),
	}

	for _, opt := range opts {
		c = opt(c)
	}

	c.auther.WithLogger(c.Logger)

	return c
}

// Authenticator exposes the session orchestrator, mostly for tests and
// embedding applications.
func (a *APIController) Authenticator() *Auther {
	return a.auther
}

// RegisterRoutes mounts the API on the given fiber app
func (a *APIController) RegisterRoutes(app *fiber.App) {
	auth := app.Group("/auth")
	auth.Post("/login", a.Login)
	auth.Post("/refresh", a.Refresh)
	auth.Post("/logout", a.Logout)
	auth.Post("/register", a.Register)

	guard := jwtware.New(jwtware.Config{
		Validator: jwtware.ValidatorFunc(func(raw string) (jwtware.AuthClaims, error) {
			claims, err := a.auther.TokenService().Validate(raw)
			if err != nil {
				return nil, err
			}
			return claims, nil
		}),
		ContextKey: a.cfg.GetContextKey(),
		AuthScheme: a.cfg.GetAuthScheme(),
	})

	adminOnly := jwtware.RequireRole(a.cfg.GetContextKey(), RoleAdmin)

	products := app.Group("/products", guard)
	products.Get("/", a.ListProducts)
	products.Get("/:id", a.GetProduct)
	products.Post("/", adminOnly, a.CreateProduct)
	products.Put("/:id", adminOnly, a.UpdateProduct)
	products.Delete("/:id", adminOnly, a.DeleteProduct)

	app.Get("/audit-logs", guard, adminOnly, a.AuditLogs)
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

func (a *APIController) Login(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		return a.renderError(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "could not parse login payload"))
	}

	session, err := a.auther.Authenticate(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return a.renderError(c, err)
	}

	// missing user and wrong password are deliberately the same answer
	if session == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Bad credentials",
		})
	}

	return c.JSON(session)
}

// TokenRequest carries the opaque refresh token for refresh and logout
type TokenRequest struct {
	RefreshToken string `form:"refresh_token" json:"refresh_token"`
}

func (a *APIController) Refresh(c *fiber.Ctx) error {
	payload := new(TokenRequest)

	if err := c.BodyParser(payload); err != nil {
		return a.renderError(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "could not parse refresh payload"))
	}

	session, err := a.auther.Refresh(c.UserContext(), payload.RefreshToken)
	if err != nil {
		return a.renderError(c, err)
	}

	return c.JSON(session)
}

func (a *APIController) Logout(c *fiber.Ctx) error {
	payload := new(TokenRequest)

	if err := c.BodyParser(payload); err != nil {
		return a.renderError(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "could not parse logout payload"))
	}

	ok, err := a.auther.Logout(c.UserContext(), payload.RefreshToken)
	if err != nil {
		return a.renderError(c, err)
	}

	return c.JSON(fiber.Map{"success": ok})
}

func (a *APIController) Register(c *fiber.Ctx) error {
	payload := RegisterUserMessage{}

	if err := c.BodyParser(&payload); err != nil {
		return a.renderError(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "could not parse registration payload"))
	}

	response, err := a.register.Execute(c.UserContext(), payload)
	if err != nil {
		return a.renderError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

func (a *APIController) ListProducts(c *fiber.Ctx) error {
	query := ListProductsQuery{
		Page:    c.QueryInt("page", 1),
		PerPage: c.QueryInt("per_page", defaultPageSize),
	}

	page, err := a.listProducts.Execute(c.UserContext(), query)
	if err != nil {
		return a.renderError(c, err)
	}

	return c.JSON(page)
}

func (a *APIController) GetProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return a.renderError(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid product id"))
	}

	record, err := a.getProduct.Execute(c.UserContext(), GetProductQuery{ID: id})
	if err != nil {
		return a.renderError(c, err)
	}

	return c.JSON(record)
}

func (a *APIController) CreateProduct(c *fiber.Ctx) error {
	payload := CreateProductMessage{}

	if err := c.BodyParser(&payload); err != nil {
		return a.renderError(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "could not parse product payload"))
	}

	payload.ActorID = a.actorID(c)

	record, err := a.createProduct.Execute(c.UserContext(), payload)
	if err != nil {
		return a.renderError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

func (a *APIController) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return a.renderError(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid product id"))
	}

	payload := UpdateProductMessage{}
	if err := c.BodyParser(&payload); err != nil {
		return a.renderError(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "could not parse product payload"))
	}

	payload.ID = id
	payload.ActorID = a.actorID(c)

	record, err := a.updateProduct.Execute(c.UserContext(), payload)
	if err != nil {
		return a.renderError(c, err)
	}

	return c.JSON(record)
}

func (a *APIController) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return a.renderError(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid product id"))
	}

	message := DeleteProductMessage{ID: id, ActorID: a.actorID(c)}

	if err := a.deleteProduct.Execute(c.UserContext(), message); err != nil {
		return a.renderError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (a *APIController) AuditLogs(c *fiber.Ctx) error {
	entries, err := a.auditLogsList.Execute(c.UserContext(), GetAuditLogsQuery{
		Limit: c.QueryInt("limit", 50),
	})
	if err != nil {
		return a.renderError(c, err)
	}

	return c.JSON(entries)
}

func (a *APIController) actorID(c *fiber.Ctx) string {
	claims, ok := jwtware.ClaimsFromContext(c, a.cfg.GetContextKey())
	if !ok {
		return ""
	}
	return claims.UserID()
}

func (a *APIController) renderError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal error"

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		message = richErr.Message
		switch richErr.Category {
		case goerrors.CategoryValidation:
			status = fiber.StatusUnprocessableEntity
		case goerrors.CategoryBadInput:
			status = fiber.StatusBadRequest
		case goerrors.CategoryAuth:
			status = fiber.StatusUnauthorized
		case goerrors.CategoryConflict:
			status = fiber.StatusConflict
		case goerrors.CategoryNotFound:
			status = fiber.StatusNotFound
		}
	} else if IsRecordNotFound(err) {
		status = fiber.StatusNotFound
		message = "record not found"
	}

	if status == fiber.StatusInternalServerError {
		a.Logger.Error("request failed", "error", err)
	} else {
		a.Logger.Debug("request rejected", "status", status, "error", err)
	}

	return c.Status(status).JSON(fiber.Map{"error": message})
}

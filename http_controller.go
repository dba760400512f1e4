package accounts

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// AuthController exposes the credential and recovery flows over HTTP.
type AuthController struct {
	auther   *Auther
	register *RegisterUserHandler
	initiate *InitializePasswordResetHandler
	finalize *FinalizePasswordResetHandler
	registry CompanyRegistry
	logger   Logger
}

// NewAuthController wires the command handlers behind fiber routes.
func NewAuthController(
	auther *Auther,
	register *RegisterUserHandler,
	initiate *InitializePasswordResetHandler,
	finalize *FinalizePasswordResetHandler,
) *AuthController {
	return &AuthController{
		auther:   auther,
		register: register,
		initiate: initiate,
		finalize: finalize,
		logger:   defLogger{},
	}
}

// WithLogger overrides the logger used by the controller.
func (a *AuthController) WithLogger(logger Logger) *AuthController {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// WithCompanyRegistry enables the standalone tax id lookup endpoint.
func (a *AuthController) WithCompanyRegistry(registry CompanyRegistry) *AuthController {
	a.registry = registry
	return a
}

// Routes mounts the public auth endpoints on the given router.
func (a *AuthController) Routes(r fiber.Router) {
	r.Post("/private_person/register/", a.RegisterPrivatePerson)
	r.Post("/legal_person/register/", a.RegisterLegalPerson)
	r.Post("/login/", a.Login)
	r.Post("/refresh_token/", a.RefreshToken)
	r.Post("/forgot_password/", a.ForgotPassword)
	r.Post("/reset_password/", a.ResetPassword)
	r.Post("/activate/:user_id/", a.Activate)
	r.Get("/verify/", a.VerifyEmail)
	r.Post("/check_inn/", a.CheckCompany)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r RefreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

type EmailRequest struct {
	Email string `json:"email"`
}

func (r EmailRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

type ResetPasswordRequest struct {
	SecureCode string `json:"secure_code"`
	Password   string `json:"password"`
}

func (r ResetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SecureCode, validation.Required, validation.Length(6, 6), is.Digit),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 128)),
	)
}

type RegisterPrivatePersonRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}

func (r RegisterPrivatePersonRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required),
		validation.Field(&r.LastName, validation.Required),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 128)),
	)
}

type RegisterLegalPersonRequest struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Password     string `json:"password"`
	CompanyTaxID string `json:"company_tax_id"`
	BankDetails  string `json:"bank_details"`
}

func (r RegisterLegalPersonRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required),
		validation.Field(&r.LastName, validation.Required),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 128)),
		validation.Field(&r.CompanyTaxID, validation.Required, validation.Length(10, 12), is.Digit),
	)
}

type CheckCompanyRequest struct {
	INN string `json:"inn"`
}

func (r CheckCompanyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.INN, validation.Required, validation.Length(10, 12), is.Digit),
	)
}

type LoginResponse struct {
	User   *User      `json:"user"`
	Tokens *TokenPair `json:"tokens"`
}

func (a *AuthController) RegisterPrivatePerson(c *fiber.Ctx) error {
	req := RegisterPrivatePersonRequest{}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := req.Validate(); err != nil {
		return validationError(c, err)
	}

	return a.registerUser(c, RegisterUserMessage{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		Role:      RolePrivatePerson,
	})
}

func (a *AuthController) RegisterLegalPerson(c *fiber.Ctx) error {
	req := RegisterLegalPersonRequest{}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := req.Validate(); err != nil {
		return validationError(c, err)
	}

	return a.registerUser(c, RegisterUserMessage{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		Password:     req.Password,
		Role:         RoleLegalPerson,
		CompanyTaxID: req.CompanyTaxID,
		BankDetails:  req.BankDetails,
	})
}

func (a *AuthController) registerUser(c *fiber.Ctx, msg RegisterUserMessage) error {
	var created *User
	msg.OnResponse = func(user *User) { created = user }

	if err := a.register.Execute(c.UserContext(), msg); err != nil {
		a.logger.Error("register error: %v", err)
		return respondError(c, err)
	}

	pair, err := a.auther.Issuer().IssuePair(created.ID.String())
	if err != nil {
		a.logger.Error("register token issue error: %v", err)
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(LoginResponse{User: created, Tokens: pair})
}

func (a *AuthController) Login(c *fiber.Ctx) error {
	req := LoginRequest{}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := req.Validate(); err != nil {
		return validationError(c, err)
	}

	user, pair, err := a.auther.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(LoginResponse{User: user, Tokens: pair})
}

func (a *AuthController) RefreshToken(c *fiber.Ctx) error {
	req := RefreshRequest{}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := req.Validate(); err != nil {
		return validationError(c, err)
	}

	pair, err := a.auther.Refresh(req.RefreshToken)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(pair)
}

func (a *AuthController) ForgotPassword(c *fiber.Ctx) error {
	req := EmailRequest{}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := req.Validate(); err != nil {
		return validationError(c, err)
	}

	if err := a.initiate.Execute(c.UserContext(), InitializePasswordResetMessage{Email: req.Email}); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"detail": "reset code sent"})
}

func (a *AuthController) ResetPassword(c *fiber.Ctx) error {
	req := ResetPasswordRequest{}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := req.Validate(); err != nil {
		return validationError(c, err)
	}

	if err := a.finalize.Execute(c.UserContext(), FinalizePasswordResetMessage{
		SecureCode: req.SecureCode,
		Password:   req.Password,
	}); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"detail": "password updated"})
}

func (a *AuthController) Activate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return badRequest(c, "invalid user id")
	}

	if err := a.auther.ActivateUser(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"detail": "user activated"})
}

func (a *AuthController) CheckCompany(c *fiber.Ctx) error {
	req := CheckCompanyRequest{}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := req.Validate(); err != nil {
		return validationError(c, err)
	}

	if a.registry == nil {
		return respondError(c, ErrCompanyNotFound)
	}

	info, err := a.registry.Lookup(c.UserContext(), req.INN)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(info)
}

func (a *AuthController) VerifyEmail(c *fiber.Ctx) error {
	tokenString := c.Query("confirm_code")
	if tokenString == "" {
		return badRequest(c, "missing confirm_code")
	}

	if err := a.auther.VerifyEmail(c.UserContext(), tokenString); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"detail": "email verified"})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func validationError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

// respondError maps rich error categories to transport status. Anything
// unrecognized is a 500 with a generic body.
func respondError(c *fiber.Ctx, err error) error {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}

	status := fiber.StatusInternalServerError
	switch rich.Category {
	case goerrors.CategoryAuth:
		status = fiber.StatusUnauthorized
	case goerrors.CategoryNotFound:
		status = fiber.StatusNotFound
	case goerrors.CategoryConflict:
		status = fiber.StatusConflict
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		status = fiber.StatusBadRequest
	case goerrors.CategoryOperation:
		status = fiber.StatusBadGateway
	}

	body := fiber.Map{"error": rich.Message}
	if rich.TextCode != "" {
		body["code"] = rich.TextCode
	}

	return c.Status(status).JSON(body)
}

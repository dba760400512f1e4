package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/nyaruka/phonenumbers"
	"github.com/uptrace/bun"
)

// defaultPhoneRegion is the region used to parse national-format numbers.
const defaultPhoneRegion = "RU"

type RegisterUserMessage struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	CompanyTaxID string `json:"company_tax_id"`
	BankDetails  string `json:"bank_details"`
	UseHashid    bool

	OnResponse func(user *User)
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// RegisterUserHandler creates the user record, enriching legal-person
// accounts from the company registry, and kicks off email verification.
type RegisterUserHandler struct {
	repo     RepositoryManager
	registry CompanyRegistry
	verify   *VerificationRequestHandler
	logger   Logger
}

// NewRegisterUserHandler creates a handler with sane defaults. The
// registry and verification handler are optional: without a registry
// legal persons register with just the tax id, without a verification
// handler no email goes out.
func NewRegisterUserHandler(repo RepositoryManager) *RegisterUserHandler {
	return &RegisterUserHandler{
		repo:   repo,
		logger: defLogger{},
	}
}

// WithCompanyRegistry enables legal-person enrichment.
func (h *RegisterUserHandler) WithCompanyRegistry(registry CompanyRegistry) *RegisterUserHandler {
	h.registry = registry
	return h
}

// WithVerification sends a verification link after a successful registration.
func (h *RegisterUserHandler) WithVerification(verify *VerificationRequestHandler) *RegisterUserHandler {
	h.verify = verify
	return h
}

// WithLogger overrides the logger used by the handler.
func (h *RegisterUserHandler) WithLogger(logger Logger) *RegisterUserHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) error {
	user := &User{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	phone, err := normalizePhone(event.Phone)
	if err != nil {
		return err
	}

	var company *CompanyInfo
	if event.Role == RoleLegalPerson && h.registry != nil {
		if company, err = h.registry.Lookup(ctx, event.CompanyTaxID); err != nil {
			return err
		}
	}

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		user.PasswordHash = hash
		user.Email = event.Email
		user.Phone = phone
		user.FirstName = event.FirstName
		user.LastName = event.LastName
		user.Role = event.Role
		user.BankDetails = event.BankDetails
		if event.Role == RoleLegalPerson {
			user.CompanyTaxID = event.CompanyTaxID
			if company != nil {
				user.CompanyName = company.Name
				user.CompanyHead = company.Head
				user.CompanyAddress = company.Address
			}
		}
		if event.UseHashid {
			if id, err := hashid.NewUUID(event.Email); err == nil {
				user.ID = id
			}
		}

		if user, err = h.repo.Users().RegisterTx(ctx, tx, user); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	if h.verify != nil {
		// the account exists either way; delivery failures are logged
		// and the user can request a fresh link later
		if err := h.verify.Execute(ctx, VerificationRequestMessage{Email: user.Email}); err != nil {
			h.logger.Error("verification request error: %v", err)
		}
	}

	if event.OnResponse != nil {
		event.OnResponse(user)
	}

	return nil
}

func normalizePhone(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}

	num, err := phonenumbers.Parse(raw, defaultPhoneRegion)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryValidation, "could not parse phone number")
	}

	if !phonenumbers.IsValidNumber(num) {
		return "", goerrors.New("invalid phone number", goerrors.CategoryValidation)
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}

package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type InitializePasswordResetMessage struct {
	Email      string `json:"email"`
	OnResponse func(resp *InitializePasswordResetResponse)
}

func (p InitializePasswordResetMessage) Type() string { return "user.password_reset" }

type InitializePasswordResetResponse struct {
	Code      string
	ExpiresAt time.Time
	Success   bool
}

// InitializePasswordResetHandler mints a secure code for the user and
// delivers it out of band.
type InitializePasswordResetHandler struct {
	users  UserStore
	codes  SecureCodeStore
	mailer Mailer
	render EmailRenderer
	logger Logger
	now    func() time.Time
}

// NewInitializePasswordResetHandler creates a handler with sane defaults.
func NewInitializePasswordResetHandler(users UserStore, codes SecureCodeStore, mailer Mailer, render EmailRenderer) *InitializePasswordResetHandler {
	return &InitializePasswordResetHandler{
		users:  users,
		codes:  codes,
		mailer: mailer,
		render: render,
		logger: defLogger{},
		now:    time.Now,
	}
}

// WithLogger overrides the logger used by the handler.
func (h *InitializePasswordResetHandler) WithLogger(logger Logger) *InitializePasswordResetHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// WithClock overrides the time source, mostly for tests.
func (h *InitializePasswordResetHandler) WithClock(now func() time.Time) *InitializePasswordResetHandler {
	if now != nil {
		h.now = now
	}
	return h
}

func (h *InitializePasswordResetHandler) Execute(ctx context.Context, event InitializePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset initialization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *InitializePasswordResetHandler) execute(ctx context.Context, event InitializePasswordResetMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user, err := h.users.ByEmail(ctx, event.Email)
	if err != nil {
		return err
	}

	code, err := GenerateSecureCode()
	if err != nil {
		return err
	}

	record := &SecureCode{
		Code:      code,
		UserID:    user.ID,
		ExpiresAt: h.now().Add(SecureCodeTTL),
	}

	if err := h.codes.Create(ctx, record); err != nil {
		return err
	}

	html, err := h.render.RenderReset(user.Email, user.FirstName, code)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to render reset email")
	}

	// the code is already persisted; a failed send surfaces as a delivery
	// error and the record simply expires
	if err := h.mailer.Send(ctx, user.Email, "Password reset", html); err != nil {
		h.logger.Error("password reset delivery error: %v", err)
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to deliver reset code").
			WithTextCode(TextCodeDeliveryFailed)
	}

	if event.OnResponse != nil {
		event.OnResponse(&InitializePasswordResetResponse{
			Code:      code,
			ExpiresAt: record.ExpiresAt,
			Success:   true,
		})
	}

	return nil
}

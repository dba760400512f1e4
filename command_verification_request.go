package accounts

import (
	"context"
	"net/url"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// DefaultVerifyTTL bounds how long a verification link stays valid.
const DefaultVerifyTTL = 24 * time.Hour

type VerificationRequestMessage struct {
	Email string `json:"email"`
}

func (p VerificationRequestMessage) Type() string { return "user.verification_request" }

// VerificationRequestHandler mints a signed email-verify token and sends
// the verification link.
type VerificationRequestHandler struct {
	tokens     TokenService
	mailer     Mailer
	render     EmailRenderer
	serviceURL string
	ttl        time.Duration
	logger     Logger
}

// NewVerificationRequestHandler creates a handler with sane defaults.
func NewVerificationRequestHandler(tokens TokenService, mailer Mailer, render EmailRenderer, serviceURL string) *VerificationRequestHandler {
	return &VerificationRequestHandler{
		tokens:     tokens,
		mailer:     mailer,
		render:     render,
		serviceURL: serviceURL,
		ttl:        DefaultVerifyTTL,
		logger:     defLogger{},
	}
}

// WithTTL overrides the verification token lifetime.
func (h *VerificationRequestHandler) WithTTL(ttl time.Duration) *VerificationRequestHandler {
	if ttl > 0 {
		h.ttl = ttl
	}
	return h
}

// WithLogger overrides the logger used by the handler.
func (h *VerificationRequestHandler) WithLogger(logger Logger) *VerificationRequestHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *VerificationRequestHandler) Execute(ctx context.Context, event VerificationRequestMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during verification request",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *VerificationRequestHandler) execute(ctx context.Context, event VerificationRequestMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	token, err := h.tokens.EncodeEmailToken(event.Email, h.ttl)
	if err != nil {
		return err
	}

	link := h.serviceURL + "/api/v1/users/verify/?confirm_code=" + url.QueryEscape(token)

	html, err := h.render.RenderVerify(event.Email, link)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to render verification email")
	}

	if err := h.mailer.Send(ctx, event.Email, "Verify your email", html); err != nil {
		h.logger.Error("verification delivery error: %v", err)
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to deliver verification link").
			WithTextCode(TextCodeDeliveryFailed)
	}

	return nil
}

package usecase

import (
	"context"
	"log/slog"

	"github.com/ikiraro/portal/internal/notification/entity"
)

const verifyEmailHTML = `<html>
<body style="font-family: Arial, sans-serif; color: #1f2933;">
	<h2>Welcome to the Ikiraro citizen portal, {{.username}}!</h2>
	<p>Use this code to verify your email address:</p>
	<p style="font-size: 28px; letter-spacing: 6px; font-weight: bold;">{{.code}}</p>
	<p>The code expires in {{.expires_minutes}} minutes. If you did not create an
	account, you can ignore this email.</p>
</body>
</html>`

const verifyEmailText = `Welcome to the Ikiraro citizen portal, {{.username}}!

Use this code to verify your email address: {{.code}}

The code expires in {{.expires_minutes}} minutes. If you did not create an
account, you can ignore this email.`

type ConsumeUserRegistrationInput struct {
	UserID         int64  `validate:"required,gt=0"`
	Username       string `validate:"required"`
	Email          string `validate:"required,email"`
	Code           string `validate:"required,len=6,numeric"`
	ExpiresMinutes int    `validate:"required,gt=0"`
}

// ConsumeUserRegistration emails the verification code for a fresh account.
// A malformed payload is dropped, retrying cannot fix it.
func (s *Usecase) ConsumeUserRegistration(ctx context.Context, in ConsumeUserRegistrationInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeUserRegistration")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	html, text, err := s.renderVerifyEmail(map[string]any{
		"username":        in.Username,
		"code":            in.Code,
		"expires_minutes": in.ExpiresMinutes,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to render verification email", "user_id", in.UserID, "error", err)
		return nil
	}

	s.sendEmail(ctx, sendEmailInput{
		UserID:     in.UserID,
		Email:      in.Email,
		TriggerKey: entity.TriggerKeyEmailVerify,
		Subject:    "Verify your email address",
		HTML:       html,
		Text:       text,
	})

	return nil
}

package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ikiraro/portal/internal/identity/entity"
	"github.com/ikiraro/portal/internal/pkg/goerror"
)

type RegisterResendInput struct {
	VerificationRef string `validate:"required"`
}

func (s *Usecase) RegisterResend(ctx context.Context, in RegisterResendInput) error {
	ctx, span := s.startSpan(ctx, "RegisterResend")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	userID, err := entity.DecodeVerificationRef(in.VerificationRef)
	if err != nil {
		slog.WarnContext(ctx, "verification reference does not decode", "ref", in.VerificationRef)
		return goerror.NewBusiness("Invalid verification link", goerror.CodeUnauthorized)
	}

	user, err := s.repoDB.GetUserByID(ctx, userID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "verification reference points to no user", "user_id", userID)
		return goerror.NewBusiness("Invalid verification link", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by id", "user_id", userID, "error", err)
		return goerror.NewServer(err)
	}

	if user.Status != entity.UserStatusUnverified {
		slog.WarnContext(ctx, "resend skipped, account not awaiting verification", "user_id", user.ID, "status", user.Status.String())
		return nil
	}

	code, err := s.newEmailOTP(user.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate verification code", "error", err)
		return goerror.NewServer(err)
	}

	// Every earlier unused code dies with this write, so at most one code is
	// live per user after a resend.
	if err := s.repoDB.ReplaceOTP(ctx, code); err != nil {
		slog.ErrorContext(ctx, "failed to repo replace otp", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoMessaging.PublishUserRegistration(ctx, UserRegistrationEvent{
		UserID:         user.ID,
		Username:       user.Username,
		Email:          user.Email,
		Code:           code.Code,
		ExpiresMinutes: s.otpTTLMinutes(),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish user registration resend", "user_id", user.ID, "error", err)
	}

	return nil
}

package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ikiraro/portal/internal/identity/entity"
	"github.com/ikiraro/portal/internal/pkg/goerror"
)

type RegisterVerifyInput struct {
	VerificationRef string `validate:"required"`
	Code            string `validate:"required,len=6,numeric"`
}

func (s *Usecase) RegisterVerify(ctx context.Context, in RegisterVerifyInput) error {
	ctx, span := s.startSpan(ctx, "RegisterVerify")
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

	switch user.Status.Ensure() {
	case entity.UserStatusActive:
		// Re-verifying an active account is a no-op.
		return nil

	case entity.UserStatusUnverified:
		// continue below

	default:
		slog.WarnContext(ctx, "user not verifiable", "user_id", user.ID, "status", user.Status.String())
		return goerror.NewBusiness("Account not allowed", goerror.CodeForbidden)
	}

	// Duplicate code values across rows are resolved by matching the most
	// recently created unused row.
	code, err := s.repoDB.GetLatestUnusedOTP(ctx, user.ID, in.Code)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "no unused code matches", "user_id", user.ID)
		return goerror.NewBusiness("Invalid or expired code", goerror.CodeUnauthorized)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get latest unused otp", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	// The same generic message for expired as for wrong, so a caller cannot
	// probe which codes once existed.
	if !code.Usable(s.clock.Now()) {
		slog.WarnContext(ctx, "matched code is expired", "user_id", user.ID, "otp_id", code.ID)
		return goerror.NewBusiness("Invalid or expired code", goerror.CodeUnauthorized)
	}

	if err := s.repoDB.VerifyActivation(ctx, entity.ActivateUser{
		UserID:    user.ID,
		OTPID:     code.ID,
		OldStatus: entity.UserStatusUnverified,
		NewStatus: entity.UserStatusActive,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo verify activation", "user_id", user.ID, "otp_id", code.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}

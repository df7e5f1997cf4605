package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ikiraro/portal/internal/identity/entity"
	"github.com/ikiraro/portal/internal/pkg/goerror"
)

type RegisterInput struct {
	Username        string `validate:"required,min=3,max=150,alphanum"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,password"`
	PasswordConfirm string `validate:"required,eqfield=Password"`
}

type RegisterOutput struct {
	VerificationRef string
}

func (s *Usecase) Register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Username = strings.TrimSpace(in.Username)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	user, err := s.repoDB.GetUserByEmail(ctx, in.Email)
	if err == nil {
		switch user.Status {
		case entity.UserStatusActive:
			return nil, goerror.NewBusiness("Email already registered", goerror.CodeConflict)
		case entity.UserStatusUnverified:
			return nil, goerror.NewBusiness("Account awaiting verification, request a new code", goerror.CodeConflict)
		default:
			return nil, goerror.NewBusiness("Account not allowed", goerror.CodeForbidden)
		}
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	hashedPassword, err := s.bcrypt.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return nil, goerror.NewServer(err)
	}

	newUser := entity.NewUser{
		ID:       s.uid.Generate(),
		Username: in.Username,
		Email:    in.Email,
		Status:   entity.UserStatusUnverified,
		Role:     entity.UserRoleCitizen,
	}

	code, err := s.newEmailOTP(newUser.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate verification code", "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoDB.NewRegistration(ctx, newUser, code, string(hashedPassword)); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			return nil, goerror.NewBusiness("Username or email already registered", goerror.CodeConflict)
		}

		slog.ErrorContext(ctx, "failed to repo user registration", "email", newUser.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	// Delivery is best effort, the user can always request a resend.
	if err := s.repoMessaging.PublishUserRegistration(ctx, UserRegistrationEvent{
		UserID:         newUser.ID,
		Username:       newUser.Username,
		Email:          newUser.Email,
		Code:           code.Code,
		ExpiresMinutes: s.otpTTLMinutes(),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish user registration", "user_id", newUser.ID, "error", err)
	}

	return &RegisterOutput{VerificationRef: entity.EncodeVerificationRef(newUser.ID)}, nil
}

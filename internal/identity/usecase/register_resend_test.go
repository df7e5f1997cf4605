package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/ikiraro/portal/internal/identity/entity"
	"github.com/ikiraro/portal/internal/pkg/goerror"
)

func TestRegisterResend(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{
		getUserByID: func(id int64) (*entity.User, error) { return unverifiedUser(id), nil },
	}
	msg := &fakeMessaging{}
	uc, _ := newTestUsecase(t, repo, msg)

	// Act
	err := uc.RegisterResend(context.Background(), RegisterResendInput{
		VerificationRef: entity.EncodeVerificationRef(42),
	})

	// Assert
	if err != nil {
		t.Fatalf("resend: %v", err)
	}
	if len(repo.replacedOTPs) != 1 {
		t.Fatalf("replaced %d codes, want 1", len(repo.replacedOTPs))
	}

	code := repo.replacedOTPs[0]
	if code.UserID != 42 {
		t.Fatalf("code for user %d, want 42", code.UserID)
	}
	if got := code.ExpiresAt.Sub(code.CreatedAt); got != 8*time.Minute {
		t.Fatalf("expiry window = %v, want 8m", got)
	}

	if len(msg.published) != 1 {
		t.Fatalf("published %d events, want 1", len(msg.published))
	}
}

func TestRegisterResendActiveAccountSkips(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{
		getUserByID: func(id int64) (*entity.User, error) {
			u := unverifiedUser(id)
			u.Status = entity.UserStatusActive
			return u, nil
		},
	}
	msg := &fakeMessaging{}
	uc, _ := newTestUsecase(t, repo, msg)

	// Act
	err := uc.RegisterResend(context.Background(), RegisterResendInput{
		VerificationRef: entity.EncodeVerificationRef(42),
	})

	// Assert: no error, no new code, no email.
	if err != nil {
		t.Fatalf("resend: %v", err)
	}
	if len(repo.replacedOTPs) != 0 || len(msg.published) != 0 {
		t.Fatalf("resend touched state: codes=%d events=%d", len(repo.replacedOTPs), len(msg.published))
	}
}

func TestRegisterResendUnknownReference(t *testing.T) {
	// Arrange
	uc, _ := newTestUsecase(t, &fakeRepoDB{}, &fakeMessaging{})

	// Act
	err := uc.RegisterResend(context.Background(), RegisterResendInput{
		VerificationRef: entity.EncodeVerificationRef(9999),
	})

	// Assert
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}

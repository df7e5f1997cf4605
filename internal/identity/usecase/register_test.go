package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/ikiraro/portal/internal/identity/entity"
	"github.com/ikiraro/portal/internal/pkg/goerror"
)

func TestRegister(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{}
	msg := &fakeMessaging{}
	uc, _ := newTestUsecase(t, repo, msg)

	// Act
	out, err := uc.Register(context.Background(), RegisterInput{
		Username:        "jdoe",
		Email:           "JDoe@Example.com",
		Password:        "Secret123!",
		PasswordConfirm: "Secret123!",
	})

	// Assert
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(repo.registeredUsers) != 1 {
		t.Fatalf("registered %d users, want 1", len(repo.registeredUsers))
	}

	user := repo.registeredUsers[0]
	if user.Email != "jdoe@example.com" {
		t.Fatalf("email = %q, want lowercased", user.Email)
	}
	if user.Status != entity.UserStatusUnverified {
		t.Fatalf("status = %v, want Unverified", user.Status)
	}
	if user.Role != entity.UserRoleCitizen {
		t.Fatalf("role = %v, want Citizen", user.Role)
	}

	if out.VerificationRef != entity.EncodeVerificationRef(user.ID) {
		t.Fatalf("verification ref %q does not encode user %d", out.VerificationRef, user.ID)
	}

	code := repo.registeredOTPs[0]
	if code.Code != "482913" {
		t.Fatalf("code = %q, want generator output", code.Code)
	}
	if got := code.ExpiresAt.Sub(code.CreatedAt); got != 8*time.Minute {
		t.Fatalf("expiry window = %v, want 8m", got)
	}

	if len(msg.published) != 1 {
		t.Fatalf("published %d events, want 1", len(msg.published))
	}
	if msg.published[0].Code != "482913" || msg.published[0].ExpiresMinutes != 8 {
		t.Fatalf("event = %+v, want code and 8 minute window", msg.published[0])
	}
}

func TestRegisterPasswordMismatch(t *testing.T) {
	// Arrange
	uc, _ := newTestUsecase(t, &fakeRepoDB{}, &fakeMessaging{})

	// Act
	_, err := uc.Register(context.Background(), RegisterInput{
		Username:        "jdoe",
		Email:           "jdoe@example.com",
		Password:        "Secret123!",
		PasswordConfirm: "Different1!",
	})

	// Assert
	assertBusinessCode(t, err, goerror.CodeInvalidInput)
}

func TestRegisterEmailAlreadyActive(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{
		getUserByEmail: func(string) (*entity.User, error) {
			return &entity.User{ID: 7, Status: entity.UserStatusActive}, nil
		},
	}
	uc, _ := newTestUsecase(t, repo, &fakeMessaging{})

	// Act
	_, err := uc.Register(context.Background(), RegisterInput{
		Username:        "jdoe",
		Email:           "jdoe@example.com",
		Password:        "Secret123!",
		PasswordConfirm: "Secret123!",
	})

	// Assert
	assertBusinessCode(t, err, goerror.CodeConflict)
}

func TestRegisterEmailAwaitingVerification(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{
		getUserByEmail: func(string) (*entity.User, error) {
			return &entity.User{ID: 7, Status: entity.UserStatusUnverified}, nil
		},
	}
	uc, _ := newTestUsecase(t, repo, &fakeMessaging{})

	// Act
	_, err := uc.Register(context.Background(), RegisterInput{
		Username:        "jdoe",
		Email:           "jdoe@example.com",
		Password:        "Secret123!",
		PasswordConfirm: "Secret123!",
	})

	// Assert
	assertBusinessCode(t, err, goerror.CodeConflict)
}

func TestRegisterUniqueRace(t *testing.T) {
	// Arrange: the pre-check saw nothing but the insert hits the unique index.
	repo := &fakeRepoDB{newRegistrationErr: goerror.ErrConflict}
	uc, _ := newTestUsecase(t, repo, &fakeMessaging{})

	// Act
	_, err := uc.Register(context.Background(), RegisterInput{
		Username:        "jdoe",
		Email:           "jdoe@example.com",
		Password:        "Secret123!",
		PasswordConfirm: "Secret123!",
	})

	// Assert
	assertBusinessCode(t, err, goerror.CodeConflict)
}

func TestRegisterPublishFailureStillSucceeds(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{}
	msg := &fakeMessaging{err: errTestBroker}
	uc, _ := newTestUsecase(t, repo, msg)

	// Act
	out, err := uc.Register(context.Background(), RegisterInput{
		Username:        "jdoe",
		Email:           "jdoe@example.com",
		Password:        "Secret123!",
		PasswordConfirm: "Secret123!",
	})

	// Assert: the account exists, the user can ask for a resend.
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if out.VerificationRef == "" {
		t.Fatal("verification ref is empty")
	}
	if len(repo.registeredUsers) != 1 {
		t.Fatalf("registered %d users, want 1", len(repo.registeredUsers))
	}
}

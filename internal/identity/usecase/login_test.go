package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/ikiraro/portal/internal/identity/entity"
	"github.com/ikiraro/portal/internal/pkg/goerror"
	"github.com/ikiraro/portal/internal/pkg/hash"
)

func loginInfoFor(t *testing.T, status entity.UserStatus, password string) func(string) (*entity.UserLoginInfo, error) {
	t.Helper()

	hashed, err := hash.NewBcrypt(4, "pepper").Hash(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	return func(string) (*entity.UserLoginInfo, error) {
		return &entity.UserLoginInfo{
			ID:       42,
			Username: "jdoe",
			Email:    "jdoe@example.com",
			Status:   status,
			Role:     entity.UserRoleCitizen,
			Password: string(hashed),
		}, nil
	}
}

func TestLogin(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{getUserLoginInfo: loginInfoFor(t, entity.UserStatusActive, "Secret123!")}
	uc, _ := newTestUsecase(t, repo, &fakeMessaging{})

	// Act
	out, err := uc.Login(context.Background(), LoginInput{
		Email:    "JDoe@Example.com",
		Password: "Secret123!",
	})

	// Assert
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if out.AccessToken == "" {
		t.Fatal("access token is empty")
	}
	if len(out.RefreshToken) != 64 {
		t.Fatalf("refresh token length = %d, want 64", len(out.RefreshToken))
	}

	if len(repo.createdRefreshTokens) != 1 {
		t.Fatalf("stored %d refresh tokens, want 1", len(repo.createdRefreshTokens))
	}
	stored := repo.createdRefreshTokens[0]
	if stored.Token == out.RefreshToken {
		t.Fatal("refresh token stored in plaintext")
	}
	if got := stored.ExpiresAt.Sub(testNow); got != 168*time.Hour {
		t.Fatalf("refresh TTL = %v, want 168h", got)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{getUserLoginInfo: loginInfoFor(t, entity.UserStatusActive, "Secret123!")}
	uc, _ := newTestUsecase(t, repo, &fakeMessaging{})

	// Act
	_, err := uc.Login(context.Background(), LoginInput{
		Email:    "jdoe@example.com",
		Password: "WrongPass1!",
	})

	// Assert
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}

func TestLoginUnknownEmail(t *testing.T) {
	// Arrange
	uc, _ := newTestUsecase(t, &fakeRepoDB{}, &fakeMessaging{})

	// Act
	_, err := uc.Login(context.Background(), LoginInput{
		Email:    "ghost@example.com",
		Password: "Secret123!",
	})

	// Assert: same message as a wrong password, the caller cannot tell
	// which accounts exist.
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}

func TestLoginUnverifiedAccount(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{getUserLoginInfo: loginInfoFor(t, entity.UserStatusUnverified, "Secret123!")}
	uc, _ := newTestUsecase(t, repo, &fakeMessaging{})

	// Act
	_, err := uc.Login(context.Background(), LoginInput{
		Email:    "jdoe@example.com",
		Password: "Secret123!",
	})

	// Assert
	assertBusinessCode(t, err, goerror.CodeForbidden)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{getUserLoginInfo: loginInfoFor(t, entity.UserStatusInactive, "Secret123!")}
	uc, _ := newTestUsecase(t, repo, &fakeMessaging{})

	// Act
	_, err := uc.Login(context.Background(), LoginInput{
		Email:    "jdoe@example.com",
		Password: "Secret123!",
	})

	// Assert
	assertBusinessCode(t, err, goerror.CodeForbidden)
}

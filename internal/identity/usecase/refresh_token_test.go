package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/ikiraro/portal/internal/identity/entity"
	"github.com/ikiraro/portal/internal/pkg/goerror"
)

func refreshRowFor(status entity.UserStatus, revoked bool, expiresAt time.Time) func(string) (*entity.UserRefreshToken, error) {
	return func(string) (*entity.UserRefreshToken, error) {
		return &entity.UserRefreshToken{
			UserID:           42,
			UserEmail:        "jdoe@example.com",
			UserStatus:       status,
			UserRole:         entity.UserRoleCitizen,
			RefreshID:        5,
			RefreshRevoked:   revoked,
			RefreshExpiresAt: expiresAt,
		}, nil
	}
}

func TestRefreshToken(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{
		getUserRefreshToken: refreshRowFor(entity.UserStatusActive, false, testNow.Add(time.Hour)),
	}
	uc, _ := newTestUsecase(t, repo, &fakeMessaging{})

	// Act
	out, err := uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "opaque-token"})

	// Assert
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if out.AccessToken == "" {
		t.Fatal("access token is empty")
	}
}

func TestRefreshTokenRevoked(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{
		getUserRefreshToken: refreshRowFor(entity.UserStatusActive, true, testNow.Add(time.Hour)),
	}
	uc, _ := newTestUsecase(t, repo, &fakeMessaging{})

	// Act
	_, err := uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "opaque-token"})

	// Assert
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}

func TestRefreshTokenExpired(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{
		getUserRefreshToken: refreshRowFor(entity.UserStatusActive, false, testNow.Add(-time.Second)),
	}
	uc, _ := newTestUsecase(t, repo, &fakeMessaging{})

	// Act
	_, err := uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "opaque-token"})

	// Assert
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}

func TestRefreshTokenUnknown(t *testing.T) {
	// Arrange
	uc, _ := newTestUsecase(t, &fakeRepoDB{}, &fakeMessaging{})

	// Act
	_, err := uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "opaque-token"})

	// Assert
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}

func TestRefreshTokenDeactivatedUser(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{
		getUserRefreshToken: refreshRowFor(entity.UserStatusInactive, false, testNow.Add(time.Hour)),
	}
	uc, _ := newTestUsecase(t, repo, &fakeMessaging{})

	// Act
	_, err := uc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "opaque-token"})

	// Assert
	assertBusinessCode(t, err, goerror.CodeForbidden)
}

package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/ikiraro/portal/internal/identity/entity"
	"github.com/ikiraro/portal/internal/pkg/goerror"
	"github.com/ikiraro/portal/internal/pkg/hash"
	"github.com/ikiraro/portal/internal/pkg/jwt"
)

func authedContext(userID int64) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{
		UserID:    userID,
		UserEmail: "jdoe@example.com",
		UserRole:  entity.UserRoleCitizen.String(),
	})
}

func TestLogout(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{}
	uc, _ := newTestUsecase(t, repo, &fakeMessaging{})
	token := strings.Repeat("cd", 32)

	// Act
	err := uc.Logout(authedContext(42), LogoutInput{RefreshToken: token})

	// Assert
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(repo.revokedTokens) != 1 {
		t.Fatalf("revoked %d tokens, want 1", len(repo.revokedTokens))
	}
	wantHash, _ := hash.NewHMACSHA256("hmac-secret").Hash(token)
	if repo.revokedTokens[0] != string(wantHash) {
		t.Fatal("revoked token is not the hmac of the presented token")
	}
}

func TestLogoutWithoutAuth(t *testing.T) {
	// Arrange
	uc, _ := newTestUsecase(t, &fakeRepoDB{}, &fakeMessaging{})

	// Act
	err := uc.Logout(context.Background(), LogoutInput{RefreshToken: strings.Repeat("cd", 32)})

	// Assert
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}

func TestLogoutMalformedTokenIsNoop(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{}
	uc, _ := newTestUsecase(t, repo, &fakeMessaging{})

	// Act
	err := uc.Logout(authedContext(42), LogoutInput{RefreshToken: "short"})

	// Assert
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(repo.revokedTokens) != 0 {
		t.Fatal("malformed token must not reach the store")
	}
}

package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/ikiraro/portal/internal/identity/entity"
	"github.com/ikiraro/portal/internal/pkg/goerror"
)

func unverifiedUser(id int64) *entity.User {
	return &entity.User{
		ID:       id,
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Status:   entity.UserStatusUnverified,
		Role:     entity.UserRoleCitizen,
	}
}

func TestRegisterVerify(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{
		getUserByID: func(id int64) (*entity.User, error) { return unverifiedUser(id), nil },
		getLatestUnusedOTP: func(userID int64, code string) (*entity.EmailOTP, error) {
			return &entity.EmailOTP{
				ID:        11,
				UserID:    userID,
				Code:      code,
				CreatedAt: testNow.Add(-time.Minute),
				ExpiresAt: testNow.Add(7 * time.Minute),
			}, nil
		},
	}
	uc, _ := newTestUsecase(t, repo, &fakeMessaging{})

	// Act
	err := uc.RegisterVerify(context.Background(), RegisterVerifyInput{
		VerificationRef: entity.EncodeVerificationRef(42),
		Code:            "482913",
	})

	// Assert
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if len(repo.activations) != 1 {
		t.Fatalf("recorded %d activations, want 1", len(repo.activations))
	}

	act := repo.activations[0]
	if act.UserID != 42 || act.OTPID != 11 {
		t.Fatalf("activation = %+v, want user 42 otp 11", act)
	}
	if act.OldStatus != entity.UserStatusUnverified || act.NewStatus != entity.UserStatusActive {
		t.Fatalf("activation flips %v → %v, want Unverified → Active", act.OldStatus, act.NewStatus)
	}
}

func TestRegisterVerifyExpiredCode(t *testing.T) {
	// Arrange: the matched row's window closed a second ago.
	repo := &fakeRepoDB{
		getUserByID: func(id int64) (*entity.User, error) { return unverifiedUser(id), nil },
		getLatestUnusedOTP: func(userID int64, code string) (*entity.EmailOTP, error) {
			return &entity.EmailOTP{
				ID:        11,
				UserID:    userID,
				Code:      code,
				CreatedAt: testNow.Add(-9 * time.Minute),
				ExpiresAt: testNow.Add(-time.Second),
			}, nil
		},
	}
	uc, _ := newTestUsecase(t, repo, &fakeMessaging{})

	// Act
	err := uc.RegisterVerify(context.Background(), RegisterVerifyInput{
		VerificationRef: entity.EncodeVerificationRef(42),
		Code:            "482913",
	})

	// Assert
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
	if len(repo.activations) != 0 {
		t.Fatalf("recorded %d activations, want none", len(repo.activations))
	}
}

func TestRegisterVerifyWrongCode(t *testing.T) {
	// Arrange: no unused row carries this value.
	repo := &fakeRepoDB{
		getUserByID: func(id int64) (*entity.User, error) { return unverifiedUser(id), nil },
	}
	uc, _ := newTestUsecase(t, repo, &fakeMessaging{})

	// Act
	err := uc.RegisterVerify(context.Background(), RegisterVerifyInput{
		VerificationRef: entity.EncodeVerificationRef(42),
		Code:            "000000",
	})

	// Assert
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}

func TestRegisterVerifyActiveAccountIsNoop(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{
		getUserByID: func(id int64) (*entity.User, error) {
			u := unverifiedUser(id)
			u.Status = entity.UserStatusActive
			return u, nil
		},
	}
	uc, _ := newTestUsecase(t, repo, &fakeMessaging{})

	// Act
	err := uc.RegisterVerify(context.Background(), RegisterVerifyInput{
		VerificationRef: entity.EncodeVerificationRef(42),
		Code:            "482913",
	})

	// Assert
	if err != nil {
		t.Fatalf("verify active account: %v", err)
	}
	if len(repo.activations) != 0 {
		t.Fatalf("recorded %d activations, want none", len(repo.activations))
	}
}

func TestRegisterVerifyBadReference(t *testing.T) {
	// Arrange
	uc, _ := newTestUsecase(t, &fakeRepoDB{}, &fakeMessaging{})

	// Act
	err := uc.RegisterVerify(context.Background(), RegisterVerifyInput{
		VerificationRef: "not-a-ref!",
		Code:            "482913",
	})

	// Assert
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}

func TestRegisterVerifyUnknownUser(t *testing.T) {
	// Arrange
	uc, _ := newTestUsecase(t, &fakeRepoDB{}, &fakeMessaging{})

	// Act
	err := uc.RegisterVerify(context.Background(), RegisterVerifyInput{
		VerificationRef: entity.EncodeVerificationRef(9999),
		Code:            "482913",
	})

	// Assert
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}

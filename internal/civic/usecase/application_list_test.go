package usecase

import (
	"context"
	"testing"

	"github.com/ikiraro/portal/internal/civic/entity"
	"github.com/ikiraro/portal/internal/pkg/goerror"
)

func TestServiceList(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{
		getServices: func() ([]entity.Service, error) {
			return []entity.Service{
				{ID: "svc-1", Name: "drivers_license", Fee: 8000},
				{ID: "svc-2", Name: "passport", Fee: 15000},
			}, nil
		},
	}
	uc, _ := newTestUsecase(t, repo, &fakeObjectStore{}, &fakeIdempotency{})

	// Act, the catalog is public so no auth context is needed
	out, err := uc.ServiceList(context.Background())

	// Assert
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out.Services) != 2 {
		t.Fatalf("listed %d services, want 2", len(out.Services))
	}
}

func TestApplicationList(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{
		getApplicationsByUser: func(userID int64) ([]entity.Application, error) {
			if userID != testOwnerID {
				t.Fatalf("listed for user %d, want %d", userID, testOwnerID)
			}
			return []entity.Application{*pendingApplication()}, nil
		},
	}
	uc, _ := newTestUsecase(t, repo, &fakeObjectStore{}, &fakeIdempotency{})

	// Act
	out, err := uc.ApplicationList(citizenContext(testOwnerID))

	// Assert
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out.Applications) != 1 {
		t.Fatalf("listed %d applications, want 1", len(out.Applications))
	}
}

func TestApplicationListWithoutAuth(t *testing.T) {
	// Arrange
	uc, _ := newTestUsecase(t, &fakeRepoDB{}, &fakeObjectStore{}, &fakeIdempotency{})

	// Act
	_, err := uc.ApplicationList(context.Background())

	// Assert
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}

func TestApplicationDetail(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{
		getApplicationByID: func(string) (*entity.Application, error) { return pendingApplication(), nil },
		getPaymentByApplication: func(string) (*entity.Payment, error) {
			return &entity.Payment{ID: "pay-1", ApplicationID: testAppID, Status: entity.PaymentStatusCompleted}, nil
		},
		getDocumentsByApplication: func(string) ([]entity.Document, error) {
			return []entity.Document{{ID: "doc-1", ApplicationID: testAppID}}, nil
		},
	}
	uc, _ := newTestUsecase(t, repo, &fakeObjectStore{}, &fakeIdempotency{})

	// Act
	out, err := uc.ApplicationDetail(citizenContext(testOwnerID), ApplicationDetailInput{ApplicationID: testAppID})

	// Assert
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if out.Application.ID != testAppID || out.Payment == nil || len(out.Documents) != 1 {
		t.Fatalf("unexpected detail: %+v", out)
	}
}

func TestApplicationDetailWithoutPayment(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{
		getApplicationByID: func(string) (*entity.Application, error) { return pendingApplication(), nil },
	}
	uc, _ := newTestUsecase(t, repo, &fakeObjectStore{}, &fakeIdempotency{})

	// Act
	out, err := uc.ApplicationDetail(citizenContext(testOwnerID), ApplicationDetailInput{ApplicationID: testAppID})

	// Assert
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if out.Payment != nil {
		t.Fatalf("payment = %+v, want nil", out.Payment)
	}
}

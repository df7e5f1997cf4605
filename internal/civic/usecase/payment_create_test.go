package usecase

import (
	"testing"

	"github.com/ikiraro/portal/internal/civic/entity"
	"github.com/ikiraro/portal/internal/pkg/goerror"
	"github.com/ikiraro/portal/internal/pkg/idempotency"
)

func validPaymentInput() PaymentCreateInput {
	return PaymentCreateInput{ApplicationID: testAppID, Method: "mobile_money"}
}

func TestPaymentCreate(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{
		getApplicationByID: func(string) (*entity.Application, error) { return pendingApplication(), nil },
		getServiceByName:   catalogWith(15000),
	}
	idemp := &fakeIdempotency{}
	uc, _ := newTestUsecase(t, repo, &fakeObjectStore{}, idemp)

	// Act
	out, err := uc.PaymentCreate(citizenContext(testOwnerID), validPaymentInput())

	// Assert
	if err != nil {
		t.Fatalf("payment: %v", err)
	}
	if out.Amount != 15000 || out.Status != "Completed" {
		t.Fatalf("unexpected output: %+v", out)
	}
	if out.TransactionID == "" || out.ProviderRef == "" {
		t.Fatalf("gateway references missing: %+v", out)
	}

	if len(idemp.keys) != 1 || idemp.keys[0] != "civic:payment:"+testAppID {
		t.Fatalf("idempotency keys = %v", idemp.keys)
	}
	if len(repo.submittedPayments) != 1 {
		t.Fatalf("submitted %d payments, want 1", len(repo.submittedPayments))
	}
	sub := repo.submittedPayments[0]
	if sub.OldStatus != entity.ApplicationStatusPending || sub.NewStatus != entity.ApplicationStatusSubmitted {
		t.Fatalf("unexpected status flip: %+v", sub)
	}
	if sub.Payment.Amount != 15000 || sub.Payment.Status != entity.PaymentStatusCompleted {
		t.Fatalf("unexpected payment row: %+v", sub.Payment)
	}
	if !sub.SubmittedAt.Equal(testNow) {
		t.Fatalf("submitted at %v, want %v", sub.SubmittedAt, testNow)
	}
}

func TestPaymentCreateConcurrentRetry(t *testing.T) {
	// Arrange
	uc, _ := newTestUsecase(t, &fakeRepoDB{}, &fakeObjectStore{}, &fakeIdempotency{err: idempotency.ErrInProgress})

	// Act
	_, err := uc.PaymentCreate(citizenContext(testOwnerID), validPaymentInput())

	// Assert
	assertBusinessCode(t, err, goerror.CodeConflict)
}

func TestPaymentCreateAlreadySubmitted(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{
		getApplicationByID: func(string) (*entity.Application, error) {
			app := pendingApplication()
			app.Status = entity.ApplicationStatusSubmitted
			return app, nil
		},
	}
	uc, _ := newTestUsecase(t, repo, &fakeObjectStore{}, &fakeIdempotency{})

	// Act
	_, err := uc.PaymentCreate(citizenContext(testOwnerID), validPaymentInput())

	// Assert
	assertBusinessCode(t, err, goerror.CodeConflict)
}

func TestPaymentCreateReplayAfterCompletedPayment(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{
		getApplicationByID: func(string) (*entity.Application, error) { return pendingApplication(), nil },
		getPaymentByApplication: func(string) (*entity.Payment, error) {
			return &entity.Payment{ID: "pay-1", Status: entity.PaymentStatusCompleted}, nil
		},
	}
	uc, _ := newTestUsecase(t, repo, &fakeObjectStore{}, &fakeIdempotency{})

	// Act
	_, err := uc.PaymentCreate(citizenContext(testOwnerID), validPaymentInput())

	// Assert
	assertBusinessCode(t, err, goerror.CodeConflict)
	if len(repo.submittedPayments) != 0 {
		t.Fatal("replay must not submit a second payment")
	}
}

func TestPaymentCreateRaceLosesStatusGuard(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{
		getApplicationByID: func(string) (*entity.Application, error) { return pendingApplication(), nil },
		getServiceByName:   catalogWith(15000),
		submitPaymentErr:   goerror.ErrConflict,
	}
	uc, _ := newTestUsecase(t, repo, &fakeObjectStore{}, &fakeIdempotency{})

	// Act
	_, err := uc.PaymentCreate(citizenContext(testOwnerID), validPaymentInput())

	// Assert
	assertBusinessCode(t, err, goerror.CodeConflict)
}

func TestPaymentCreateForeignApplication(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{
		getApplicationByID: func(string) (*entity.Application, error) { return pendingApplication(), nil },
	}
	uc, _ := newTestUsecase(t, repo, &fakeObjectStore{}, &fakeIdempotency{})

	// Act
	_, err := uc.PaymentCreate(citizenContext(99), validPaymentInput())

	// Assert
	assertBusinessCode(t, err, goerror.CodeNotFound)
}

package usecase

import (
	"testing"

	"github.com/ikiraro/portal/internal/civic/entity"
	"github.com/ikiraro/portal/internal/pkg/goerror"
)

func submittedApplication() *entity.Application {
	app := pendingApplication()
	app.Status = entity.ApplicationStatusSubmitted
	return app
}

func TestApplicationReviewTakeUp(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{
		getApplicationByID: func(string) (*entity.Application, error) { return submittedApplication(), nil },
	}
	uc, _ := newTestUsecase(t, repo, &fakeObjectStore{}, &fakeIdempotency{})

	// Act
	out, err := uc.ApplicationReview(officialContext(), ApplicationReviewInput{
		ApplicationID: testAppID,
		NewStatus:     "Processing",
	})

	// Assert
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if out.Status != "Processing" {
		t.Fatalf("status = %s, want Processing", out.Status)
	}
	if len(repo.reviews) != 1 {
		t.Fatalf("recorded %d reviews, want 1", len(repo.reviews))
	}
	rv := repo.reviews[0]
	if rv.OldStatus != entity.ApplicationStatusSubmitted || rv.NewStatus != entity.ApplicationStatusProcessing {
		t.Fatalf("unexpected review: %+v", rv)
	}
}

func TestApplicationReviewApprove(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{
		getApplicationByID: func(string) (*entity.Application, error) {
			app := pendingApplication()
			app.Status = entity.ApplicationStatusProcessing
			return app, nil
		},
	}
	uc, _ := newTestUsecase(t, repo, &fakeObjectStore{}, &fakeIdempotency{})

	// Act
	_, err := uc.ApplicationReview(officialContext(), ApplicationReviewInput{
		ApplicationID: testAppID,
		NewStatus:     "Approved",
	})

	// Assert
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	rv := repo.reviews[0]
	if rv.ApprovedAt == nil || !rv.ApprovedAt.Equal(testNow) {
		t.Fatalf("approved at %v, want %v", rv.ApprovedAt, testNow)
	}
}

func TestApplicationReviewRejectNeedsReason(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{
		getApplicationByID: func(string) (*entity.Application, error) {
			app := pendingApplication()
			app.Status = entity.ApplicationStatusProcessing
			return app, nil
		},
	}
	uc, _ := newTestUsecase(t, repo, &fakeObjectStore{}, &fakeIdempotency{})

	// Act
	_, err := uc.ApplicationReview(officialContext(), ApplicationReviewInput{
		ApplicationID: testAppID,
		NewStatus:     "Rejected",
		Reason:        "   ",
	})

	// Assert
	assertBusinessCode(t, err, goerror.CodeInvalidFormat)
	if len(repo.reviews) != 0 {
		t.Fatal("rejection without a reason must not be recorded")
	}
}

func TestApplicationReviewReject(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{
		getApplicationByID: func(string) (*entity.Application, error) {
			app := pendingApplication()
			app.Status = entity.ApplicationStatusProcessing
			return app, nil
		},
	}
	uc, _ := newTestUsecase(t, repo, &fakeObjectStore{}, &fakeIdempotency{})

	// Act
	_, err := uc.ApplicationReview(officialContext(), ApplicationReviewInput{
		ApplicationID: testAppID,
		NewStatus:     "Rejected",
		Reason:        "  photo does not match the identity proof  ",
	})

	// Assert
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if repo.reviews[0].RejectionReason != "photo does not match the identity proof" {
		t.Fatalf("reason = %q", repo.reviews[0].RejectionReason)
	}
}

func TestApplicationReviewIllegalTransition(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{
		getApplicationByID: func(string) (*entity.Application, error) { return pendingApplication(), nil },
	}
	uc, _ := newTestUsecase(t, repo, &fakeObjectStore{}, &fakeIdempotency{})

	// Act
	_, err := uc.ApplicationReview(officialContext(), ApplicationReviewInput{
		ApplicationID: testAppID,
		NewStatus:     "Approved",
	})

	// Assert
	assertBusinessCode(t, err, goerror.CodeConflict)
}

func TestApplicationReviewConcurrentReviewer(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{
		getApplicationByID: func(string) (*entity.Application, error) { return submittedApplication(), nil },
		reviewErr:          goerror.ErrNotFound,
	}
	uc, _ := newTestUsecase(t, repo, &fakeObjectStore{}, &fakeIdempotency{})

	// Act
	_, err := uc.ApplicationReview(officialContext(), ApplicationReviewInput{
		ApplicationID: testAppID,
		NewStatus:     "Processing",
	})

	// Assert
	assertBusinessCode(t, err, goerror.CodeConflict)
}

func TestApplicationReviewCitizenForbidden(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{
		getApplicationByID: func(string) (*entity.Application, error) { return submittedApplication(), nil },
	}
	uc, _ := newTestUsecase(t, repo, &fakeObjectStore{}, &fakeIdempotency{})

	// Act
	_, err := uc.ApplicationReview(citizenContext(testOwnerID), ApplicationReviewInput{
		ApplicationID: testAppID,
		NewStatus:     "Processing",
	})

	// Assert
	assertBusinessCode(t, err, goerror.CodeForbidden)
}

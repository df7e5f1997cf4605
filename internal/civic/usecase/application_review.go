package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ikiraro/portal/internal/civic/entity"
	"github.com/ikiraro/portal/internal/pkg/goerror"
)

type ApplicationReviewInput struct {
	ApplicationID string `validate:"required,uuid4"`
	NewStatus     string `validate:"required,oneof=Processing Approved Rejected"`
	Reason        string `validate:"omitempty,max=500"`
}

type ApplicationReviewOutput struct {
	ApplicationID string
	Status        string
}

// ApplicationReview moves an application along the review ladder. Only
// officials pass the policy check; rejection requires a reason.
func (s *Usecase) ApplicationReview(ctx context.Context, in ApplicationReviewInput) (*ApplicationReviewOutput, error) {
	ctx, span := s.startSpan(ctx, "ApplicationReview")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if _, err := s.authenticatedAndAuthorized(ctx, "civic:applications", "review"); err != nil {
		return nil, err
	}

	newStatus := entity.ApplicationStatusFromString(in.NewStatus)
	if newStatus == entity.ApplicationStatusRejected && strings.TrimSpace(in.Reason) == "" {
		return nil, goerror.NewInvalidFormat("a rejection reason is required")
	}

	app, err := s.repoDB.GetApplicationByID(ctx, in.ApplicationID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Application not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get application", "application_id", in.ApplicationID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !app.Status.CanTransitionTo(newStatus) {
		return nil, goerror.NewBusiness(
			"Cannot move application from "+app.Status.String()+" to "+newStatus.String(),
			goerror.CodeConflict,
		)
	}

	review := entity.ReviewApplication{
		ApplicationID: app.ID,
		OldStatus:     app.Status,
		NewStatus:     newStatus,
	}
	switch newStatus {
	case entity.ApplicationStatusApproved:
		now := s.clock.Now()
		review.ApprovedAt = &now
	case entity.ApplicationStatusRejected:
		review.RejectionReason = strings.TrimSpace(in.Reason)
	}

	if err := s.repoDB.ReviewApplication(ctx, review); err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			// Another reviewer moved it first.
			return nil, goerror.NewBusiness("Application was updated by another reviewer", goerror.CodeConflict)
		}

		slog.ErrorContext(ctx, "failed to repo review application", "application_id", app.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ApplicationReviewOutput{
		ApplicationID: app.ID,
		Status:        newStatus.String(),
	}, nil
}

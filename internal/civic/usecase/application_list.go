package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ikiraro/portal/internal/civic/entity"
	"github.com/ikiraro/portal/internal/pkg/goerror"
)

type ApplicationListOutput struct {
	Applications []entity.Application
}

// ApplicationList returns the caller's own applications, newest submission
// first.
func (s *Usecase) ApplicationList(ctx context.Context) (*ApplicationListOutput, error) {
	ctx, span := s.startSpan(ctx, "ApplicationList")
	defer span.End()

	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	apps, err := s.repoDB.GetApplicationsByUser(ctx, clm.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get applications by user", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ApplicationListOutput{Applications: apps}, nil
}

type ApplicationDetailInput struct {
	ApplicationID string `validate:"required,uuid4"`
}

type ApplicationDetailOutput struct {
	Application entity.Application
	Payment     *entity.Payment
	Documents   []entity.Document
}

func (s *Usecase) ApplicationDetail(ctx context.Context, in ApplicationDetailInput) (*ApplicationDetailOutput, error) {
	ctx, span := s.startSpan(ctx, "ApplicationDetail")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	app, err := s.ownedApplication(ctx, in.ApplicationID, clm.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Application not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get application", "application_id", in.ApplicationID, "error", err)
		return nil, goerror.NewServer(err)
	}

	var payment *entity.Payment
	payment, err = s.repoDB.GetPaymentByApplication(ctx, app.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		payment = nil
	} else if err != nil {
		slog.ErrorContext(ctx, "failed to repo get payment by application", "application_id", app.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	docs, err := s.repoDB.GetDocumentsByApplication(ctx, app.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get documents by application", "application_id", app.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ApplicationDetailOutput{
		Application: *app,
		Payment:     payment,
		Documents:   docs,
	}, nil
}

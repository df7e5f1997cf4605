package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ikiraro/portal/internal/civic/entity"
	"github.com/ikiraro/portal/internal/pkg/goerror"
	"github.com/ikiraro/portal/internal/pkg/idempotency"
)

type PaymentCreateInput struct {
	ApplicationID string `validate:"required,uuid4"`
	Method        string `validate:"required,oneof=mobile_money card bank"`
}

type PaymentCreateOutput struct {
	PaymentID     string
	TransactionID string
	ProviderRef   string
	Amount        int64
	Status        string
}

// PaymentCreate charges the simulated gateway and submits the application.
// Double submissions are fenced twice: the Redis idempotency tracker absorbs
// rapid retries, and the existing-payment check catches replays after the
// tracker state expires.
func (s *Usecase) PaymentCreate(ctx context.Context, in PaymentCreateInput) (*PaymentCreateOutput, error) {
	ctx, span := s.startSpan(ctx, "PaymentCreate")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	var out *PaymentCreateOutput
	err = s.idemp.Exec(ctx, "civic:payment:"+in.ApplicationID, func(ctx context.Context) error {
		out, err = s.createPayment(ctx, in, clm.UserID)
		return err
	})
	if errors.Is(err, idempotency.ErrInProgress) {
		return nil, goerror.NewBusiness("A payment for this application is already being processed", goerror.CodeConflict)
	}
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (s *Usecase) createPayment(ctx context.Context, in PaymentCreateInput, userID int64) (*PaymentCreateOutput, error) {
	app, err := s.ownedApplication(ctx, in.ApplicationID, userID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Application not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get application", "application_id", in.ApplicationID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if app.Status != entity.ApplicationStatusPending {
		return nil, goerror.NewBusiness("Application fee already paid", goerror.CodeConflict)
	}

	if existing, err := s.repoDB.GetPaymentByApplication(ctx, app.ID); err == nil && existing.Status == entity.PaymentStatusCompleted {
		return nil, goerror.NewBusiness("Application fee already paid", goerror.CodeConflict)
	} else if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get payment by application", "application_id", app.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	svc, err := s.repoDB.GetServiceByName(ctx, app.Kind.ServiceName())
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get service by name", "service", app.Kind.ServiceName(), "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	payment := entity.Payment{
		ID:            s.uuid.Generate(),
		UserID:        userID,
		ApplicationID: app.ID,
		Kind:          app.Kind,
		Amount:        svc.Fee,
		Method:        in.Method,
		TransactionID: "TXN-" + s.referenceToken(),
		ProviderRef:   "REF-" + s.referenceToken(),
		Status:        entity.PaymentStatusCompleted,
		CreatedAt:     now,
	}

	if err := s.repoDB.SubmitPayment(ctx, entity.SubmitPayment{
		Payment:     payment,
		OldStatus:   entity.ApplicationStatusPending,
		NewStatus:   entity.ApplicationStatusSubmitted,
		SubmittedAt: now,
	}); err != nil {
		if errors.Is(err, goerror.ErrConflict) || errors.Is(err, goerror.ErrNotFound) {
			return nil, goerror.NewBusiness("Application fee already paid", goerror.CodeConflict)
		}

		slog.ErrorContext(ctx, "failed to repo submit payment", "application_id", app.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &PaymentCreateOutput{
		PaymentID:     payment.ID,
		TransactionID: payment.TransactionID,
		ProviderRef:   payment.ProviderRef,
		Amount:        payment.Amount,
		Status:        payment.Status.String(),
	}, nil
}

func (s *Usecase) referenceToken() string {
	return strings.ToUpper(strings.ReplaceAll(s.uuid.Generate(), "-", ""))
}

package usecase

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/casbin/casbin/v3"
	"github.com/ikiraro/portal/internal/civic/entity"
	"github.com/ikiraro/portal/internal/pkg/clock"
	"github.com/ikiraro/portal/internal/pkg/config"
	"github.com/ikiraro/portal/internal/pkg/goerror"
	"github.com/ikiraro/portal/internal/pkg/idempotency"
	"github.com/ikiraro/portal/internal/pkg/instrument"
	"github.com/ikiraro/portal/internal/pkg/jwt"
	"github.com/ikiraro/portal/internal/pkg/storage"
	"github.com/ikiraro/portal/internal/pkg/uid"
	"github.com/ikiraro/portal/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	GetServices(ctx context.Context) ([]entity.Service, error)
	GetServiceByName(ctx context.Context, name string) (*entity.Service, error)
	GetApplicationByID(ctx context.Context, id string) (*entity.Application, error)
	GetApplicationsByUser(ctx context.Context, userID int64) ([]entity.Application, error)
	GetPaymentByApplication(ctx context.Context, applicationID string) (*entity.Payment, error)
	GetDocumentsByApplication(ctx context.Context, applicationID string) ([]entity.Document, error)

	NewPassportApplication(ctx context.Context, app entity.Application, details entity.PassportDetails) error
	NewNationalIDApplication(ctx context.Context, app entity.Application, details entity.NationalIDDetails) error
	NewDriversLicenseApplication(ctx context.Context, app entity.Application, details entity.DriversLicenseDetails) error

	SubmitPayment(ctx context.Context, in entity.SubmitPayment) error
	ReviewApplication(ctx context.Context, in entity.ReviewApplication) error
	CreateDocument(ctx context.Context, in entity.Document) error
}

type objectStore interface {
	Put(ctx context.Context, bucket, key string, r io.Reader, opts storage.PutOptions) (storage.ObjectInfo, error)
	PresignGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
}

type Usecase struct {
	repoDB    repoDB
	validator validator.Validator
	cfg       config.Config
	storage   objectStore
	idemp     idempotency.Idempotency
	uuid      uid.StringID
	clock     clock.Clocker
	ins       instrument.Instrumentation
	enforcer  *casbin.Enforcer
}

type Dependency struct {
	RepoDB      repoDB
	Validator   validator.Validator
	Config      config.Config
	Storage     objectStore
	Idempotency idempotency.Idempotency
	UUID        uid.StringID
	Clock       clock.Clocker
	Instrument  instrument.Instrumentation
	Enforcer    *casbin.Enforcer
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		validator: dep.Validator,
		cfg:       dep.Config,
		storage:   dep.Storage,
		idemp:     dep.Idempotency,
		uuid:      dep.UUID,
		clock:     dep.Clock,
		ins:       dep.Instrument,
		enforcer:  dep.Enforcer,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("civic.usecase").Start(ctx, name)
}

func (s *Usecase) authenticated(ctx context.Context) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}
	return clm, nil
}

func (s *Usecase) authenticatedAndAuthorized(ctx context.Context, obj, act string) (*jwt.Claims, error) {
	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	ok, err := s.enforcer.Enforce(clm.UserRole, obj, act)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check authorization", "user_id", clm.Subject, "role", clm.UserRole, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !ok {
		return nil, goerror.NewBusiness("Account not allowed", goerror.CodeForbidden)
	}

	return clm, nil
}

// ownedApplication loads an application and refuses callers other than its
// owner with NotFound, so outsiders cannot probe which IDs exist.
func (s *Usecase) ownedApplication(ctx context.Context, id string, userID int64) (*entity.Application, error) {
	app, err := s.repoDB.GetApplicationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.UserID != userID {
		return nil, goerror.ErrNotFound
	}
	return app, nil
}

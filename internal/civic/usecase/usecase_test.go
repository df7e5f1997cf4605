package usecase

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/ikiraro/portal/internal/civic/entity"
	"github.com/ikiraro/portal/internal/pkg/clock"
	"github.com/ikiraro/portal/internal/pkg/config"
	"github.com/ikiraro/portal/internal/pkg/goerror"
	"github.com/ikiraro/portal/internal/pkg/idempotency"
	"github.com/ikiraro/portal/internal/pkg/instrument"
	"github.com/ikiraro/portal/internal/pkg/jwt"
	"github.com/ikiraro/portal/internal/pkg/storage"
	"github.com/ikiraro/portal/internal/pkg/validator"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

const (
	testAppID   = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	testOwnerID = int64(42)
)

type fakeRepoDB struct {
	getServices               func() ([]entity.Service, error)
	getServiceByName          func(name string) (*entity.Service, error)
	getApplicationByID        func(id string) (*entity.Application, error)
	getApplicationsByUser     func(userID int64) ([]entity.Application, error)
	getPaymentByApplication   func(applicationID string) (*entity.Payment, error)
	getDocumentsByApplication func(applicationID string) ([]entity.Document, error)

	createdApplications []entity.Application
	submittedPayments   []entity.SubmitPayment
	reviews             []entity.ReviewApplication
	createdDocuments    []entity.Document

	submitPaymentErr error
	reviewErr        error
}

func (f *fakeRepoDB) GetServices(_ context.Context) ([]entity.Service, error) {
	if f.getServices == nil {
		return nil, nil
	}
	return f.getServices()
}

func (f *fakeRepoDB) GetServiceByName(_ context.Context, name string) (*entity.Service, error) {
	if f.getServiceByName == nil {
		return nil, goerror.ErrNotFound
	}
	return f.getServiceByName(name)
}

func (f *fakeRepoDB) GetApplicationByID(_ context.Context, id string) (*entity.Application, error) {
	if f.getApplicationByID == nil {
		return nil, goerror.ErrNotFound
	}
	return f.getApplicationByID(id)
}

func (f *fakeRepoDB) GetApplicationsByUser(_ context.Context, userID int64) ([]entity.Application, error) {
	if f.getApplicationsByUser == nil {
		return nil, nil
	}
	return f.getApplicationsByUser(userID)
}

func (f *fakeRepoDB) GetPaymentByApplication(_ context.Context, applicationID string) (*entity.Payment, error) {
	if f.getPaymentByApplication == nil {
		return nil, goerror.ErrNotFound
	}
	return f.getPaymentByApplication(applicationID)
}

func (f *fakeRepoDB) GetDocumentsByApplication(_ context.Context, applicationID string) ([]entity.Document, error) {
	if f.getDocumentsByApplication == nil {
		return nil, nil
	}
	return f.getDocumentsByApplication(applicationID)
}

func (f *fakeRepoDB) NewPassportApplication(_ context.Context, app entity.Application, _ entity.PassportDetails) error {
	f.createdApplications = append(f.createdApplications, app)
	return nil
}

func (f *fakeRepoDB) NewNationalIDApplication(_ context.Context, app entity.Application, _ entity.NationalIDDetails) error {
	f.createdApplications = append(f.createdApplications, app)
	return nil
}

func (f *fakeRepoDB) NewDriversLicenseApplication(_ context.Context, app entity.Application, _ entity.DriversLicenseDetails) error {
	f.createdApplications = append(f.createdApplications, app)
	return nil
}

func (f *fakeRepoDB) SubmitPayment(_ context.Context, in entity.SubmitPayment) error {
	if f.submitPaymentErr != nil {
		return f.submitPaymentErr
	}
	f.submittedPayments = append(f.submittedPayments, in)
	return nil
}

func (f *fakeRepoDB) ReviewApplication(_ context.Context, in entity.ReviewApplication) error {
	if f.reviewErr != nil {
		return f.reviewErr
	}
	f.reviews = append(f.reviews, in)
	return nil
}

func (f *fakeRepoDB) CreateDocument(_ context.Context, in entity.Document) error {
	f.createdDocuments = append(f.createdDocuments, in)
	return nil
}

type putCall struct {
	bucket string
	key    string
	opts   storage.PutOptions
	body   []byte
	err    error
}

type fakeObjectStore struct {
	puts      []putCall
	presigned []string
}

// Put drains the reader the way a real driver would, so the size guard in the
// request body is actually exercised.
func (f *fakeObjectStore) Put(_ context.Context, bucket, key string, r io.Reader, opts storage.PutOptions) (storage.ObjectInfo, error) {
	body, err := io.ReadAll(r)
	f.puts = append(f.puts, putCall{bucket: bucket, key: key, opts: opts, body: body, err: err})
	if err != nil {
		return storage.ObjectInfo{}, err
	}
	return storage.ObjectInfo{Bucket: bucket, Key: key, Size: int64(len(body))}, nil
}

func (f *fakeObjectStore) PresignGet(_ context.Context, _, key string, _ time.Duration) (string, error) {
	f.presigned = append(f.presigned, key)
	return "https://files.example.com/" + key, nil
}

type fakeIdempotency struct {
	err  error
	keys []string
}

func (f *fakeIdempotency) Exec(ctx context.Context, key string, fn func(context.Context) error, _ ...idempotency.Option) error {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return f.err
	}
	return fn(ctx)
}

type fakeStringID struct{ value string }

func (f fakeStringID) Generate() string { return f.value }

const testConfigYAML = `
modules:
  civic:
    documents:
      bucket: civic-documents
      max_size_bytes: 64
      presign_ttl_minutes: 15
`

const testRBACModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (g(r.sub, p.sub) || r.sub == p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

func newTestEnforcer(t *testing.T) *casbin.Enforcer {
	t.Helper()

	m, err := model.NewModelFromString(testRBACModel)
	if err != nil {
		t.Fatalf("casbin model: %v", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		t.Fatalf("casbin enforcer: %v", err)
	}
	if _, err := e.AddPolicy("official", "civic:applications", "review"); err != nil {
		t.Fatalf("casbin policy: %v", err)
	}

	return e
}

func newTestUsecase(t *testing.T, repo *fakeRepoDB, store *fakeObjectStore, idemp *fakeIdempotency) (*Usecase, *clock.Fixed) {
	t.Helper()

	v10, err := validator.NewV10()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}
	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	fixed := &clock.Fixed{At: testNow}
	uc := New(Dependency{
		RepoDB:      repo,
		Validator:   v10,
		Config:      cfg,
		Storage:     store,
		Idempotency: idemp,
		UUID:        fakeStringID{value: "3f2c8a9d-5b1e-4c7a-8e2f-6d4b9a0c1e3d"},
		Clock:       fixed,
		Instrument:  instrument.NewNoop(),
		Enforcer:    newTestEnforcer(t),
	})

	return uc, fixed
}

func citizenContext(userID int64) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{
		UserID:    userID,
		UserEmail: "jdoe@example.com",
		UserRole:  "citizen",
	})
}

func officialContext() context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{
		UserID:    7,
		UserEmail: "reviewer@gov.example",
		UserRole:  "official",
	})
}

func pendingApplication() *entity.Application {
	return &entity.Application{
		ID:        testAppID,
		UserID:    testOwnerID,
		ServiceID: "svc-passport",
		Kind:      entity.ApplicationKindPassport,
		Status:    entity.ApplicationStatusPending,
		CreatedAt: testNow.Add(-time.Hour),
	}
}

func assertBusinessCode(t *testing.T, err error, want goerror.Code) {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("error %v is not a business error", err)
	}
	if gerr.Code() != want {
		t.Fatalf("error code = %v, want %v", gerr.Code(), want)
	}
}

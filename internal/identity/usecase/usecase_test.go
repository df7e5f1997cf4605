package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ikiraro/portal/internal/identity/entity"
	"github.com/ikiraro/portal/internal/pkg/clock"
	"github.com/ikiraro/portal/internal/pkg/config"
	"github.com/ikiraro/portal/internal/pkg/goerror"
	"github.com/ikiraro/portal/internal/pkg/hash"
	"github.com/ikiraro/portal/internal/pkg/instrument"
	"github.com/ikiraro/portal/internal/pkg/jwt"
	"github.com/ikiraro/portal/internal/pkg/validator"
)

var (
	testNow       = time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)
	errTestBroker = errors.New("broker unavailable")
)

type fakeRepoDB struct {
	getUserByEmail      func(email string) (*entity.User, error)
	getUserByID         func(id int64) (*entity.User, error)
	getUserLoginInfo    func(email string) (*entity.UserLoginInfo, error)
	getLatestUnusedOTP  func(userID int64, code string) (*entity.EmailOTP, error)
	getUserRefreshToken func(token string) (*entity.UserRefreshToken, error)

	createdRefreshTokens []entity.RefreshToken
	revokedTokens        []string
	registeredUsers      []entity.NewUser
	registeredOTPs       []entity.EmailOTP
	registeredHashes     []string
	activations          []entity.ActivateUser
	replacedOTPs         []entity.EmailOTP

	newRegistrationErr error
}

func (f *fakeRepoDB) GetUserByEmail(_ context.Context, email string) (*entity.User, error) {
	if f.getUserByEmail == nil {
		return nil, goerror.ErrNotFound
	}
	return f.getUserByEmail(email)
}

func (f *fakeRepoDB) GetUserByID(_ context.Context, id int64) (*entity.User, error) {
	if f.getUserByID == nil {
		return nil, goerror.ErrNotFound
	}
	return f.getUserByID(id)
}

func (f *fakeRepoDB) GetUserLoginInfo(_ context.Context, email string) (*entity.UserLoginInfo, error) {
	if f.getUserLoginInfo == nil {
		return nil, goerror.ErrNotFound
	}
	return f.getUserLoginInfo(email)
}

func (f *fakeRepoDB) GetLatestUnusedOTP(_ context.Context, userID int64, code string) (*entity.EmailOTP, error) {
	if f.getLatestUnusedOTP == nil {
		return nil, goerror.ErrNotFound
	}
	return f.getLatestUnusedOTP(userID, code)
}

func (f *fakeRepoDB) GetUserRefreshToken(_ context.Context, token string) (*entity.UserRefreshToken, error) {
	if f.getUserRefreshToken == nil {
		return nil, goerror.ErrNotFound
	}
	return f.getUserRefreshToken(token)
}

func (f *fakeRepoDB) CreateRefreshToken(_ context.Context, in entity.RefreshToken) error {
	f.createdRefreshTokens = append(f.createdRefreshTokens, in)
	return nil
}

func (f *fakeRepoDB) RevokeRefreshToken(_ context.Context, token string) error {
	f.revokedTokens = append(f.revokedTokens, token)
	return nil
}

func (f *fakeRepoDB) NewRegistration(_ context.Context, user entity.NewUser, code entity.EmailOTP, hash string) error {
	if f.newRegistrationErr != nil {
		return f.newRegistrationErr
	}
	f.registeredUsers = append(f.registeredUsers, user)
	f.registeredOTPs = append(f.registeredOTPs, code)
	f.registeredHashes = append(f.registeredHashes, hash)
	return nil
}

func (f *fakeRepoDB) VerifyActivation(_ context.Context, in entity.ActivateUser) error {
	f.activations = append(f.activations, in)
	return nil
}

func (f *fakeRepoDB) ReplaceOTP(_ context.Context, code entity.EmailOTP) error {
	f.replacedOTPs = append(f.replacedOTPs, code)
	return nil
}

type fakeMessaging struct {
	published []UserRegistrationEvent
	err       error
}

func (f *fakeMessaging) PublishUserRegistration(_ context.Context, msg UserRegistrationEvent) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}

type fakeNumberID struct{ next int64 }

func (f *fakeNumberID) Generate() int64 {
	f.next++
	return f.next
}

type fakeStringID struct{ value string }

func (f *fakeStringID) Generate() string { return f.value }

type fakeOTPGen struct {
	code string
	err  error
}

func (f *fakeOTPGen) Generate() (string, error) { return f.code, f.err }

const testConfigYAML = `
modules:
  identity:
    otp_ttl_minutes: 8
    refresh_token_ttl_hours: 168
`

func newTestUsecase(t *testing.T, repo *fakeRepoDB, msg *fakeMessaging) (*Usecase, *clock.Fixed) {
	t.Helper()

	v10, err := validator.NewV10()
	if err != nil {
		t.Fatalf("init validator: %v", err)
	}

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	if err != nil {
		t.Fatalf("init config: %v", err)
	}
	t.Cleanup(func() { _ = cfg.Close() })

	fixed := &clock.Fixed{At: testNow}

	tokens, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(strings.Repeat("test-secret!", 6)), // HS512 wants >= 64 bytes
		Issuer:    "portal-test",
		Audiences: []string{"portal"},
		TTL:       15 * time.Minute,
		Clock:     fixed,
		UUID:      &fakeStringID{value: "jti-1"},
	})
	if err != nil {
		t.Fatalf("init jwt: %v", err)
	}

	uc := New(Dependency{
		RepoDB:        repo,
		RepoMessaging: msg,
		Validator:     v10,
		Config:        cfg,
		Bcrypt:        hash.NewBcrypt(4, "pepper"),
		HMAC:          hash.NewHMACSHA256("hmac-secret"),
		UID:           &fakeNumberID{},
		OID:           &fakeStringID{value: strings.Repeat("ab", 32)},
		OTP:           &fakeOTPGen{code: "482913"},
		Clock:         fixed,
		JWT:           tokens,
		Instrument:    instrument.NewNoop(),
	})

	return uc, fixed
}

func assertBusinessCode(t *testing.T, err error, want goerror.Code) {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("error %v is not a goerror.Error", err)
	}
	if gerr.Code() != want {
		t.Fatalf("error code = %v, want %v (err: %v)", gerr.Code(), want, gerr)
	}
}

package usecase

import (
	"context"
	"log/slog"

	"github.com/ikiraro/portal/internal/identity/entity"
	"github.com/ikiraro/portal/internal/pkg/clock"
	"github.com/ikiraro/portal/internal/pkg/config"
	"github.com/ikiraro/portal/internal/pkg/goerror"
	"github.com/ikiraro/portal/internal/pkg/hash"
	"github.com/ikiraro/portal/internal/pkg/instrument"
	"github.com/ikiraro/portal/internal/pkg/jwt"
	"github.com/ikiraro/portal/internal/pkg/otp"
	"github.com/ikiraro/portal/internal/pkg/uid"
	"github.com/ikiraro/portal/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type UserRegistrationEvent struct {
	UserID         int64
	Username       string
	Email          string
	Code           string
	ExpiresMinutes int
}

type repoMessaging interface {
	PublishUserRegistration(ctx context.Context, msg UserRegistrationEvent) error
}

type repoDB interface {
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserByID(ctx context.Context, id int64) (*entity.User, error)
	GetUserLoginInfo(ctx context.Context, email string) (*entity.UserLoginInfo, error)
	GetLatestUnusedOTP(ctx context.Context, userID int64, code string) (*entity.EmailOTP, error)
	GetUserRefreshToken(ctx context.Context, token string) (*entity.UserRefreshToken, error)

	CreateRefreshToken(ctx context.Context, in entity.RefreshToken) error
	RevokeRefreshToken(ctx context.Context, token string) error

	NewRegistration(ctx context.Context, user entity.NewUser, code entity.EmailOTP, hash string) error
	VerifyActivation(ctx context.Context, in entity.ActivateUser) error
	ReplaceOTP(ctx context.Context, code entity.EmailOTP) error
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	validator     validator.Validator
	cfg           config.Config
	bcrypt        hash.Hash
	hmac          hash.Hash
	uid           uid.NumberID
	oid           uid.StringID
	otp           otp.Generator
	clock         clock.Clocker
	jwt           jwt.JWT
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Validator     validator.Validator
	Config        config.Config
	Bcrypt        hash.Hash
	HMAC          hash.Hash
	UID           uid.NumberID
	OID           uid.StringID
	OTP           otp.Generator
	Clock         clock.Clocker
	JWT           jwt.JWT
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		validator:     dep.Validator,
		cfg:           dep.Config,
		bcrypt:        dep.Bcrypt,
		hmac:          dep.HMAC,
		uid:           dep.UID,
		oid:           dep.OID,
		otp:           dep.OTP,
		clock:         dep.Clock,
		jwt:           dep.JWT,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}

func (s *Usecase) ensureUserStatusAllowed(ctx context.Context, userID int64, status entity.UserStatus) error {
	switch status.Ensure() {
	case entity.UserStatusUnverified:
		slog.WarnContext(ctx, "user account is unverified", "user_id", userID)
		return goerror.NewBusiness("email not verified", goerror.CodeForbidden)

	case entity.UserStatusInactive:
		slog.WarnContext(ctx, "user account is deactivated", "user_id", userID)
		return goerror.NewBusiness("account is deactivated", goerror.CodeForbidden)

	case entity.UserStatusActive:
		return nil

	default:
		slog.WarnContext(ctx, "user account status is unrecognized", "user_id", userID)
		return goerror.NewBusiness("account status is unrecognized", goerror.CodeForbidden)
	}
}

// newEmailOTP draws a fresh code row opening a new expiry window.
func (s *Usecase) newEmailOTP(userID int64) (entity.EmailOTP, error) {
	code, err := s.otp.Generate()
	if err != nil {
		return entity.EmailOTP{}, err
	}

	now := s.clock.Now()
	return entity.EmailOTP{
		ID:        s.uid.Generate(),
		UserID:    userID,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.GetMinute("modules.identity.otp_ttl_minutes")),
	}, nil
}

func (s *Usecase) otpTTLMinutes() int {
	return int(s.cfg.GetMinute("modules.identity.otp_ttl_minutes").Minutes())
}

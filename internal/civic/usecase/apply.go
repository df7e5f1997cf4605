package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ikiraro/portal/internal/civic/entity"
	"github.com/ikiraro/portal/internal/pkg/goerror"
)

type ApplyPassportInput struct {
	FirstName    string    `validate:"required,min=2,max=100,alphaspace"`
	LastName     string    `validate:"required,min=2,max=100,alphaspace"`
	DateOfBirth  time.Time `validate:"required"`
	PlaceOfBirth string    `validate:"required,max=150"`
	Gender       string    `validate:"required,oneof=male female"`
	Nationality  string    `validate:"required,max=100"`
	PhoneNumber  string    `validate:"required,e164"`
	Address      string    `validate:"required,max=250"`
	FatherNames  string    `validate:"required,max=200"`
	MotherNames  string    `validate:"required,max=200"`
}

type ApplyNationalIDInput struct {
	FirstName    string    `validate:"required,min=2,max=100,alphaspace"`
	LastName     string    `validate:"required,min=2,max=100,alphaspace"`
	DateOfBirth  time.Time `validate:"required"`
	PlaceOfBirth string    `validate:"required,max=150"`
	Gender       string    `validate:"required,oneof=male female"`
	District     string    `validate:"required,max=100"`
	Sector       string    `validate:"required,max=100"`
	FatherNames  string    `validate:"required,max=200"`
	MotherNames  string    `validate:"required,max=200"`
}

type ApplyDriversLicenseInput struct {
	FirstName             string    `validate:"required,min=2,max=100,alphaspace"`
	LastName              string    `validate:"required,min=2,max=100,alphaspace"`
	DateOfBirth           time.Time `validate:"required"`
	Gender                string    `validate:"required,oneof=male female"`
	PhoneNumber           string    `validate:"required,e164"`
	Address               string    `validate:"required,max=250"`
	LicenseCategory       string    `validate:"required,oneof=A B C D E F"`
	ExistingLicenseNumber string    `validate:"omitempty,max=50"`
}

type ApplyOutput struct {
	ApplicationID string
	Status        string
	Fee           int64
}

func (s *Usecase) ApplyPassport(ctx context.Context, in ApplyPassportInput) (*ApplyOutput, error) {
	ctx, span := s.startSpan(ctx, "ApplyPassport")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	return s.apply(ctx, entity.ApplicationKindPassport, func(app entity.Application) error {
		return s.repoDB.NewPassportApplication(ctx, app, entity.PassportDetails{
			ApplicationID: app.ID,
			FirstName:     in.FirstName,
			LastName:      in.LastName,
			DateOfBirth:   in.DateOfBirth,
			PlaceOfBirth:  in.PlaceOfBirth,
			Gender:        in.Gender,
			Nationality:   in.Nationality,
			PhoneNumber:   in.PhoneNumber,
			Address:       in.Address,
			FatherNames:   in.FatherNames,
			MotherNames:   in.MotherNames,
		})
	})
}

func (s *Usecase) ApplyNationalID(ctx context.Context, in ApplyNationalIDInput) (*ApplyOutput, error) {
	ctx, span := s.startSpan(ctx, "ApplyNationalID")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	return s.apply(ctx, entity.ApplicationKindNationalID, func(app entity.Application) error {
		return s.repoDB.NewNationalIDApplication(ctx, app, entity.NationalIDDetails{
			ApplicationID: app.ID,
			FirstName:     in.FirstName,
			LastName:      in.LastName,
			DateOfBirth:   in.DateOfBirth,
			PlaceOfBirth:  in.PlaceOfBirth,
			Gender:        in.Gender,
			District:      in.District,
			Sector:        in.Sector,
			FatherNames:   in.FatherNames,
			MotherNames:   in.MotherNames,
		})
	})
}

func (s *Usecase) ApplyDriversLicense(ctx context.Context, in ApplyDriversLicenseInput) (*ApplyOutput, error) {
	ctx, span := s.startSpan(ctx, "ApplyDriversLicense")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	return s.apply(ctx, entity.ApplicationKindDriversLicense, func(app entity.Application) error {
		return s.repoDB.NewDriversLicenseApplication(ctx, app, entity.DriversLicenseDetails{
			ApplicationID:         app.ID,
			FirstName:             in.FirstName,
			LastName:              in.LastName,
			DateOfBirth:           in.DateOfBirth,
			Gender:                in.Gender,
			PhoneNumber:           in.PhoneNumber,
			Address:               in.Address,
			LicenseCategory:       in.LicenseCategory,
			ExistingLicenseNumber: in.ExistingLicenseNumber,
		})
	})
}

// apply creates the Pending application plus its detail row in one
// transaction, billing against the catalog entry for the kind.
func (s *Usecase) apply(ctx context.Context, kind entity.ApplicationKind, insert func(entity.Application) error) (*ApplyOutput, error) {
	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	svc, err := s.repoDB.GetServiceByName(ctx, kind.ServiceName())
	if errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "service catalog entry missing", "service", kind.ServiceName())
		return nil, goerror.NewBusiness("service is not available", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get service by name", "service", kind.ServiceName(), "error", err)
		return nil, goerror.NewServer(err)
	}

	app := entity.Application{
		ID:        s.uuid.Generate(),
		UserID:    clm.UserID,
		ServiceID: svc.ID,
		Kind:      kind,
		Status:    entity.ApplicationStatusPending,
		CreatedAt: s.clock.Now(),
	}

	if err := insert(app); err != nil {
		slog.ErrorContext(ctx, "failed to repo create application", "user_id", clm.UserID, "kind", kind.String(), "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ApplyOutput{
		ApplicationID: app.ID,
		Status:        app.Status.String(),
		Fee:           svc.Fee,
	}, nil
}

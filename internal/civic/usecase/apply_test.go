package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/ikiraro/portal/internal/civic/entity"
	"github.com/ikiraro/portal/internal/pkg/goerror"
)

func validPassportInput() ApplyPassportInput {
	return ApplyPassportInput{
		FirstName:    "Jane",
		LastName:     "Doe",
		DateOfBirth:  time.Date(1995, 6, 1, 0, 0, 0, 0, time.UTC),
		PlaceOfBirth: "Kigali",
		Gender:       "female",
		Nationality:  "Rwandan",
		PhoneNumber:  "+250788123456",
		Address:      "KG 11 Ave, Kigali",
		FatherNames:  "John Doe",
		MotherNames:  "Mary Doe",
	}
}

func catalogWith(fee int64) func(string) (*entity.Service, error) {
	return func(name string) (*entity.Service, error) {
		return &entity.Service{ID: "svc-" + name, Name: name, Fee: fee}, nil
	}
}

func TestApplyPassport(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{getServiceByName: catalogWith(15000)}
	uc, _ := newTestUsecase(t, repo, &fakeObjectStore{}, &fakeIdempotency{})

	// Act
	out, err := uc.ApplyPassport(citizenContext(testOwnerID), validPassportInput())

	// Assert
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if out.Status != "Pending" || out.Fee != 15000 {
		t.Fatalf("unexpected output: %+v", out)
	}
	if len(repo.createdApplications) != 1 {
		t.Fatalf("created %d applications, want 1", len(repo.createdApplications))
	}
	app := repo.createdApplications[0]
	if app.UserID != testOwnerID || app.Kind != entity.ApplicationKindPassport {
		t.Fatalf("unexpected application: %+v", app)
	}
	if app.Status != entity.ApplicationStatusPending {
		t.Fatalf("new application status = %s, want Pending", app.Status)
	}
	if !app.CreatedAt.Equal(testNow) {
		t.Fatalf("created at %v, want %v", app.CreatedAt, testNow)
	}
}

func TestApplyPassportWithoutAuth(t *testing.T) {
	// Arrange
	uc, _ := newTestUsecase(t, &fakeRepoDB{getServiceByName: catalogWith(15000)}, &fakeObjectStore{}, &fakeIdempotency{})

	// Act
	_, err := uc.ApplyPassport(context.Background(), validPassportInput())

	// Assert
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}

func TestApplyPassportInvalidPhone(t *testing.T) {
	// Arrange
	uc, _ := newTestUsecase(t, &fakeRepoDB{getServiceByName: catalogWith(15000)}, &fakeObjectStore{}, &fakeIdempotency{})
	in := validPassportInput()
	in.PhoneNumber = "0788123456"

	// Act
	_, err := uc.ApplyPassport(citizenContext(testOwnerID), in)

	// Assert
	assertBusinessCode(t, err, goerror.CodeInvalidInput)
}

func TestApplyNationalIDMissingCatalogEntry(t *testing.T) {
	// Arrange
	uc, _ := newTestUsecase(t, &fakeRepoDB{}, &fakeObjectStore{}, &fakeIdempotency{})

	// Act
	_, err := uc.ApplyNationalID(citizenContext(testOwnerID), ApplyNationalIDInput{
		FirstName:    "Jane",
		LastName:     "Doe",
		DateOfBirth:  time.Date(1995, 6, 1, 0, 0, 0, 0, time.UTC),
		PlaceOfBirth: "Kigali",
		Gender:       "female",
		District:     "Gasabo",
		Sector:       "Remera",
		FatherNames:  "John Doe",
		MotherNames:  "Mary Doe",
	})

	// Assert
	assertBusinessCode(t, err, goerror.CodeNotFound)
}

func TestApplyDriversLicense(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{getServiceByName: catalogWith(8000)}
	uc, _ := newTestUsecase(t, repo, &fakeObjectStore{}, &fakeIdempotency{})

	// Act
	out, err := uc.ApplyDriversLicense(citizenContext(testOwnerID), ApplyDriversLicenseInput{
		FirstName:       "Jane",
		LastName:        "Doe",
		DateOfBirth:     time.Date(1995, 6, 1, 0, 0, 0, 0, time.UTC),
		Gender:          "female",
		PhoneNumber:     "+250788123456",
		Address:         "KG 11 Ave, Kigali",
		LicenseCategory: "B",
	})

	// Assert
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if out.Fee != 8000 {
		t.Fatalf("fee = %d, want 8000", out.Fee)
	}
	if len(repo.createdApplications) != 1 || repo.createdApplications[0].Kind != entity.ApplicationKindDriversLicense {
		t.Fatalf("unexpected applications: %+v", repo.createdApplications)
	}
}

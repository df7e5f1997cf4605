package entity

import (
	"time"

	"github.com/ikiraro/portal/internal/pkg/valueobject"
)

type Service struct {
	ID          string
	Name        string
	Description string
	// Fee is in minor currency units.
	Fee       int64
	PhotoURL  string
	CreatedAt time.Time
}

type Application struct {
	ID              string
	UserID          int64
	ServiceID       string
	Kind            ApplicationKind
	Status          ApplicationStatus
	SubmittedAt     *time.Time
	ApprovedAt      *time.Time
	RejectionReason string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type PassportDetails struct {
	ApplicationID string
	FirstName     string
	LastName      string
	DateOfBirth   time.Time
	PlaceOfBirth  string
	Gender        string
	Nationality   string
	PhoneNumber   string
	Address       string
	FatherNames   string
	MotherNames   string
}

type NationalIDDetails struct {
	ApplicationID string
	FirstName     string
	LastName      string
	DateOfBirth   time.Time
	PlaceOfBirth  string
	Gender        string
	District      string
	Sector        string
	FatherNames   string
	MotherNames   string
}

type DriversLicenseDetails struct {
	ApplicationID string
	FirstName     string
	LastName      string
	DateOfBirth   time.Time
	Gender        string
	PhoneNumber   string
	Address       string
	// LicenseCategory is the requested class, e.g. "B".
	LicenseCategory       string
	ExistingLicenseNumber string
}

type Payment struct {
	ID            string
	UserID        int64
	ApplicationID string
	Kind          ApplicationKind
	// Amount is in minor currency units, snapshotted from the service fee.
	Amount        int64
	Method        string
	TransactionID string
	ProviderRef   string
	Status        PaymentStatus
	CreatedAt     time.Time
}

type Document struct {
	ID            string
	ApplicationID string
	UserID        int64
	Type          string
	StorageKey    string
	ContentType   string
	Size          int64
	// Metadata is a jsonb column holding the original filename and the
	// bucket the object landed in.
	Metadata   valueobject.JSONMap
	UploadedAt time.Time
}

// ---- //

// SubmitPayment carries the payment insert and the Pending→Submitted flip
// done in one transaction.
type SubmitPayment struct {
	Payment     Payment
	OldStatus   ApplicationStatus
	NewStatus   ApplicationStatus
	SubmittedAt time.Time
}

// ReviewApplication moves an application along the review ladder. The old
// status guards against concurrent reviewers.
type ReviewApplication struct {
	ApplicationID   string
	OldStatus       ApplicationStatus
	NewStatus       ApplicationStatus
	RejectionReason string
	ApprovedAt      *time.Time
}

package inbound

import (
	"time"

	"github.com/ikiraro/portal/internal/civic/entity"
	"github.com/ikiraro/portal/internal/civic/usecase"
)

type ServiceItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Fee         int64     `json:"fee"`
	PhotoURL    string    `json:"photo_url"`
	CreatedAt   time.Time `json:"created_at"`
}

type ServiceListResponse struct {
	Services []ServiceItem `json:"services"`
}

func newServiceListResponse(out *usecase.ServiceListOutput) ServiceListResponse {
	items := make([]ServiceItem, 0, len(out.Services))
	for _, svc := range out.Services {
		items = append(items, ServiceItem{
			ID:          svc.ID,
			Name:        svc.Name,
			Description: svc.Description,
			Fee:         svc.Fee,
			PhotoURL:    svc.PhotoURL,
			CreatedAt:   svc.CreatedAt,
		})
	}
	return ServiceListResponse{Services: items}
}

type ApplyPassportRequest struct {
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	DateOfBirth  time.Time `json:"date_of_birth"`
	PlaceOfBirth string    `json:"place_of_birth"`
	Gender       string    `json:"gender"`
	Nationality  string    `json:"nationality"`
	PhoneNumber  string    `json:"phone_number"`
	Address      string    `json:"address"`
	FatherNames  string    `json:"father_names"`
	MotherNames  string    `json:"mother_names"`
}

type ApplyNationalIDRequest struct {
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	DateOfBirth  time.Time `json:"date_of_birth"`
	PlaceOfBirth string    `json:"place_of_birth"`
	Gender       string    `json:"gender"`
	District     string    `json:"district"`
	Sector       string    `json:"sector"`
	FatherNames  string    `json:"father_names"`
	MotherNames  string    `json:"mother_names"`
}

type ApplyDriversLicenseRequest struct {
	FirstName             string    `json:"first_name"`
	LastName              string    `json:"last_name"`
	DateOfBirth           time.Time `json:"date_of_birth"`
	Gender                string    `json:"gender"`
	PhoneNumber           string    `json:"phone_number"`
	Address               string    `json:"address"`
	LicenseCategory       string    `json:"license_category"`
	ExistingLicenseNumber string    `json:"existing_license_number"`
}

type ApplyResponse struct {
	ApplicationID string `json:"application_id"`
	Status        string `json:"status"`
	Fee           int64  `json:"fee"`
}

func (ApplyResponse) Message() string {
	return "Application created. Pay the service fee to submit it."
}

type ApplicationItem struct {
	ID              string     `json:"id"`
	Kind            string     `json:"kind"`
	Status          string     `json:"status"`
	SubmittedAt     *time.Time `json:"submitted_at"`
	ApprovedAt      *time.Time `json:"approved_at"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func newApplicationItem(app entity.Application) ApplicationItem {
	return ApplicationItem{
		ID:              app.ID,
		Kind:            app.Kind.String(),
		Status:          app.Status.String(),
		SubmittedAt:     app.SubmittedAt,
		ApprovedAt:      app.ApprovedAt,
		RejectionReason: app.RejectionReason,
		CreatedAt:       app.CreatedAt,
		UpdatedAt:       app.UpdatedAt,
	}
}

type ApplicationListResponse struct {
	Applications []ApplicationItem `json:"applications"`
}

type PaymentItem struct {
	ID            string    `json:"id"`
	Amount        int64     `json:"amount"`
	Method        string    `json:"method"`
	TransactionID string    `json:"transaction_id"`
	ProviderRef   string    `json:"provider_ref"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

type DocumentItem struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Filename    string    `json:"filename,omitempty"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
	URL         string    `json:"url,omitempty"`
}

type ApplicationDetailResponse struct {
	Application ApplicationItem `json:"application"`
	Payment     *PaymentItem    `json:"payment"`
	Documents   []DocumentItem  `json:"documents"`
}

type PaymentCreateRequest struct {
	Method string `json:"method"`
}

type PaymentCreateResponse struct {
	PaymentID     string `json:"payment_id"`
	TransactionID string `json:"transaction_id"`
	ProviderRef   string `json:"provider_ref"`
	Amount        int64  `json:"amount"`
	Status        string `json:"status"`
}

func (PaymentCreateResponse) Message() string {
	return "Payment received. Your application has been submitted."
}

type DocumentUploadResponse struct {
	DocumentID string `json:"document_id"`
}

func (DocumentUploadResponse) Message() string {
	return "Document uploaded."
}

type DocumentListResponse struct {
	Documents []DocumentItem `json:"documents"`
}

type ApplicationReviewRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

type ApplicationReviewResponse struct {
	ApplicationID string `json:"application_id"`
	Status        string `json:"status"`
}

func (ApplicationReviewResponse) Message() string {
	return "Application review recorded."
}

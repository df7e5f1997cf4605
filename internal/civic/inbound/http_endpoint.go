package inbound

import (
	"github.com/ikiraro/portal/internal/civic/usecase"
	"github.com/ikiraro/portal/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the service catalog, applications,
// payments, documents, and review.
type HTTPEndpoint struct {
	uc uc
}

// ServiceList returns the public service catalog.
// @Summary List services
// @Description Returns all civic services with their fees, ordered by name.
// @Tags Civic
// @Produce json
// @Success 200 {object} router.successResponse{data=ServiceListResponse} "Service catalog"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/civic/services [get]
func (h *HTTPEndpoint) ServiceList(r *router.Request) (any, error) {
	resp, err := h.uc.ServiceList(r.Context())
	if err != nil {
		return nil, err
	}

	return newServiceListResponse(resp), nil
}

// ApplyPassport creates a pending passport application.
// @Summary Apply for a passport
// @Description Creates a Pending passport application with its detail record.
// @Tags Civic
// @Accept json
// @Produce json
// @Param request body ApplyPassportRequest true "Passport application payload"
// @Success 200 {object} router.successResponse{data=ApplyResponse} "Created application"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/civic/apply/passport [post]
func (h *HTTPEndpoint) ApplyPassport(r *router.Request) (any, error) {
	var req ApplyPassportRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.ApplyPassport(r.Context(), usecase.ApplyPassportInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		DateOfBirth:  req.DateOfBirth,
		PlaceOfBirth: req.PlaceOfBirth,
		Gender:       req.Gender,
		Nationality:  req.Nationality,
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address,
		FatherNames:  req.FatherNames,
		MotherNames:  req.MotherNames,
	})
	if err != nil {
		return nil, err
	}

	return ApplyResponse{ApplicationID: resp.ApplicationID, Status: resp.Status, Fee: resp.Fee}, nil
}

// ApplyNationalID creates a pending national ID application.
// @Summary Apply for a national ID
// @Description Creates a Pending national ID application with its detail record.
// @Tags Civic
// @Accept json
// @Produce json
// @Param request body ApplyNationalIDRequest true "National ID application payload"
// @Success 200 {object} router.successResponse{data=ApplyResponse} "Created application"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/civic/apply/national-id [post]
func (h *HTTPEndpoint) ApplyNationalID(r *router.Request) (any, error) {
	var req ApplyNationalIDRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.ApplyNationalID(r.Context(), usecase.ApplyNationalIDInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		DateOfBirth:  req.DateOfBirth,
		PlaceOfBirth: req.PlaceOfBirth,
		Gender:       req.Gender,
		District:     req.District,
		Sector:       req.Sector,
		FatherNames:  req.FatherNames,
		MotherNames:  req.MotherNames,
	})
	if err != nil {
		return nil, err
	}

	return ApplyResponse{ApplicationID: resp.ApplicationID, Status: resp.Status, Fee: resp.Fee}, nil
}

// ApplyDriversLicense creates a pending driver's license application.
// @Summary Apply for a driver's license
// @Description Creates a Pending driver's license application with its detail record.
// @Tags Civic
// @Accept json
// @Produce json
// @Param request body ApplyDriversLicenseRequest true "Driver's license application payload"
// @Success 200 {object} router.successResponse{data=ApplyResponse} "Created application"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/civic/apply/drivers-license [post]
func (h *HTTPEndpoint) ApplyDriversLicense(r *router.Request) (any, error) {
	var req ApplyDriversLicenseRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.ApplyDriversLicense(r.Context(), usecase.ApplyDriversLicenseInput{
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		DateOfBirth:           req.DateOfBirth,
		Gender:                req.Gender,
		PhoneNumber:           req.PhoneNumber,
		Address:               req.Address,
		LicenseCategory:       req.LicenseCategory,
		ExistingLicenseNumber: req.ExistingLicenseNumber,
	})
	if err != nil {
		return nil, err
	}

	return ApplyResponse{ApplicationID: resp.ApplicationID, Status: resp.Status, Fee: resp.Fee}, nil
}

// ApplicationList returns the caller's applications.
// @Summary List my applications
// @Description Returns the caller's applications, newest submission first.
// @Tags Civic
// @Produce json
// @Success 200 {object} router.successResponse{data=ApplicationListResponse} "Applications"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/civic/applications [get]
func (h *HTTPEndpoint) ApplicationList(r *router.Request) (any, error) {
	resp, err := h.uc.ApplicationList(r.Context())
	if err != nil {
		return nil, err
	}

	items := make([]ApplicationItem, 0, len(resp.Applications))
	for _, app := range resp.Applications {
		items = append(items, newApplicationItem(app))
	}

	return ApplicationListResponse{Applications: items}, nil
}

// ApplicationDetail returns one application with its payment and documents.
// @Summary Application detail
// @Description Returns the caller's application with its payment and documents.
// @Tags Civic
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} router.successResponse{data=ApplicationDetailResponse} "Application detail"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 404 {object} router.errorResponse "Application not found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/civic/applications/{id} [get]
func (h *HTTPEndpoint) ApplicationDetail(r *router.Request) (any, error) {
	resp, err := h.uc.ApplicationDetail(r.Context(), usecase.ApplicationDetailInput{
		ApplicationID: r.GetParam("id"),
	})
	if err != nil {
		return nil, err
	}

	out := ApplicationDetailResponse{
		Application: newApplicationItem(resp.Application),
		Documents:   make([]DocumentItem, 0, len(resp.Documents)),
	}
	if resp.Payment != nil {
		out.Payment = &PaymentItem{
			ID:            resp.Payment.ID,
			Amount:        resp.Payment.Amount,
			Method:        resp.Payment.Method,
			TransactionID: resp.Payment.TransactionID,
			ProviderRef:   resp.Payment.ProviderRef,
			Status:        resp.Payment.Status.String(),
			CreatedAt:     resp.Payment.CreatedAt,
		}
	}
	for _, doc := range resp.Documents {
		out.Documents = append(out.Documents, DocumentItem{
			ID:          doc.ID,
			Type:        doc.Type,
			Filename:    doc.Metadata.GetString("filename"),
			ContentType: doc.ContentType,
			Size:        doc.Size,
			UploadedAt:  doc.UploadedAt,
		})
	}

	return out, nil
}

// PaymentCreate pays the service fee and submits the application.
// @Summary Pay application fee
// @Description Records a simulated gateway payment and submits the application.
// @Tags Civic
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param request body PaymentCreateRequest true "Payment payload"
// @Success 200 {object} router.successResponse{data=PaymentCreateResponse} "Payment result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 404 {object} router.errorResponse "Application not found"
// @Failure 409 {object} router.errorResponse "Fee already paid"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/civic/applications/{id}/payments [post]
func (h *HTTPEndpoint) PaymentCreate(r *router.Request) (any, error) {
	var req PaymentCreateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.PaymentCreate(r.Context(), usecase.PaymentCreateInput{
		ApplicationID: r.GetParam("id"),
		Method:        req.Method,
	})
	if err != nil {
		return nil, err
	}

	return PaymentCreateResponse{
		PaymentID:     resp.PaymentID,
		TransactionID: resp.TransactionID,
		ProviderRef:   resp.ProviderRef,
		Amount:        resp.Amount,
		Status:        resp.Status,
	}, nil
}

// DocumentUpload stores one uploaded file against the application.
// @Summary Upload document
// @Description Streams a multipart file to object storage and records it.
// @Tags Civic
// @Accept mpfd
// @Produce json
// @Param id path string true "Application ID"
// @Param type formData string true "Document type"
// @Param file formData file true "Document file"
// @Success 200 {object} router.successResponse{data=DocumentUploadResponse} "Upload result"
// @Failure 400 {object} router.errorResponse "Invalid upload"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 404 {object} router.errorResponse "Application not found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/civic/applications/{id}/documents [post]
func (h *HTTPEndpoint) DocumentUpload(r *router.Request) (any, error) {
	file, header, err := r.StreamSingleFile("file")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.DocumentUpload(r.Context(), usecase.DocumentUploadInput{
		ApplicationID: r.GetParam("id"),
		Type:          r.GetQuery("type"),
		File:          file,
		Header:        header,
	})
	if err != nil {
		return nil, err
	}

	return DocumentUploadResponse{DocumentID: resp.DocumentID}, nil
}

// DocumentList lists the application's documents with download URLs.
// @Summary List documents
// @Description Returns the application's documents with presigned download URLs.
// @Tags Civic
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} router.successResponse{data=DocumentListResponse} "Documents"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 404 {object} router.errorResponse "Application not found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/civic/applications/{id}/documents [get]
func (h *HTTPEndpoint) DocumentList(r *router.Request) (any, error) {
	resp, err := h.uc.DocumentList(r.Context(), usecase.DocumentListInput{
		ApplicationID: r.GetParam("id"),
	})
	if err != nil {
		return nil, err
	}

	items := make([]DocumentItem, 0, len(resp.Documents))
	for _, doc := range resp.Documents {
		items = append(items, DocumentItem{
			ID:          doc.Document.ID,
			Type:        doc.Document.Type,
			Filename:    doc.Document.Metadata.GetString("filename"),
			ContentType: doc.Document.ContentType,
			Size:        doc.Document.Size,
			UploadedAt:  doc.Document.UploadedAt,
			URL:         doc.URL,
		})
	}

	return DocumentListResponse{Documents: items}, nil
}

// ApplicationReview moves an application along the review ladder.
// @Summary Review application
// @Description Officials move an application Submitted → Processing → Approved/Rejected.
// @Tags Civic
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param request body ApplicationReviewRequest true "Review payload"
// @Success 200 {object} router.successResponse{data=ApplicationReviewResponse} "Review result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 403 {object} router.errorResponse "Officials only"
// @Failure 404 {object} router.errorResponse "Application not found"
// @Failure 409 {object} router.errorResponse "Invalid status transition"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/civic/applications/{id}/review [post]
func (h *HTTPEndpoint) ApplicationReview(r *router.Request) (any, error) {
	var req ApplicationReviewRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.ApplicationReview(r.Context(), usecase.ApplicationReviewInput{
		ApplicationID: r.GetParam("id"),
		NewStatus:     req.Status,
		Reason:        req.Reason,
	})
	if err != nil {
		return nil, err
	}

	return ApplicationReviewResponse{ApplicationID: resp.ApplicationID, Status: resp.Status}, nil
}

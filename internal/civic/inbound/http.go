package inbound

import (
	"context"

	"github.com/ikiraro/portal/internal/civic/usecase"
	"github.com/ikiraro/portal/internal/pkg/router"
)

type uc interface {
	ServiceList(ctx context.Context) (*usecase.ServiceListOutput, error)

	ApplyPassport(ctx context.Context, in usecase.ApplyPassportInput) (*usecase.ApplyOutput, error)
	ApplyNationalID(ctx context.Context, in usecase.ApplyNationalIDInput) (*usecase.ApplyOutput, error)
	ApplyDriversLicense(ctx context.Context, in usecase.ApplyDriversLicenseInput) (*usecase.ApplyOutput, error)

	ApplicationList(ctx context.Context) (*usecase.ApplicationListOutput, error)
	ApplicationDetail(ctx context.Context, in usecase.ApplicationDetailInput) (*usecase.ApplicationDetailOutput, error)
	ApplicationReview(ctx context.Context, in usecase.ApplicationReviewInput) (*usecase.ApplicationReviewOutput, error)

	PaymentCreate(ctx context.Context, in usecase.PaymentCreateInput) (*usecase.PaymentCreateOutput, error)

	DocumentUpload(ctx context.Context, in usecase.DocumentUploadInput) (*usecase.DocumentUploadOutput, error)
	DocumentList(ctx context.Context, in usecase.DocumentListInput) (*usecase.DocumentListOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Service catalog (public)
	r.GET("/api/v1/civic/services", end.ServiceList)

	// Applications (need authenticated)
	r.POST("/api/v1/civic/apply/passport", end.ApplyPassport)
	r.POST("/api/v1/civic/apply/national-id", end.ApplyNationalID)
	r.POST("/api/v1/civic/apply/drivers-license", end.ApplyDriversLicense)
	r.GET("/api/v1/civic/applications", end.ApplicationList)
	r.GET("/api/v1/civic/applications/:id", end.ApplicationDetail)

	// Payments & documents (need authenticated)
	r.POST("/api/v1/civic/applications/:id/payments", end.PaymentCreate)
	r.POST("/api/v1/civic/applications/:id/documents", end.DocumentUpload)
	r.GET("/api/v1/civic/applications/:id/documents", end.DocumentList)

	// Review (officials only)
	r.POST("/api/v1/civic/applications/:id/review", end.ApplicationReview,
		router.RequireRole(func(role string) bool { return role == "official" }))
}

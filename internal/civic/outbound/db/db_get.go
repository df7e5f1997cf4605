package db

import (
	"context"

	"github.com/ikiraro/portal/internal/civic/entity"
)

const qGetServices = `
select id, name, description, fee, photo_url, created_at
from civic_services
order by name`

func (s *DB) GetServices(ctx context.Context) (_ []entity.Service, err error) {
	ctx, span := s.startSpan(ctx, "GetServices")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, qGetServices)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	var services []entity.Service
	for rows.Next() {
		var svc entity.Service
		if err = rows.Scan(&svc.ID, &svc.Name, &svc.Description, &svc.Fee, &svc.PhotoURL, &svc.CreatedAt); err != nil {
			return nil, s.mapError(err)
		}
		services = append(services, svc)
	}
	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return services, nil
}

const qGetServiceByName = `
select id, name, description, fee, photo_url, created_at
from civic_services
where name = $1`

func (s *DB) GetServiceByName(ctx context.Context, name string) (_ *entity.Service, err error) {
	ctx, span := s.startSpan(ctx, "GetServiceByName")
	defer func() { s.endSpan(span, err) }()

	var svc entity.Service
	err = s.conn.QueryRow(ctx, qGetServiceByName, name).
		Scan(&svc.ID, &svc.Name, &svc.Description, &svc.Fee, &svc.PhotoURL, &svc.CreatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &svc, nil
}

const qGetApplicationByID = `
select id, user_id, service_id, kind, status, submitted_at, approved_at,
       coalesce(rejection_reason, ''), created_at, updated_at
from civic_applications
where id = $1`

func (s *DB) GetApplicationByID(ctx context.Context, id string) (_ *entity.Application, err error) {
	ctx, span := s.startSpan(ctx, "GetApplicationByID")
	defer func() { s.endSpan(span, err) }()

	var app entity.Application
	err = s.conn.QueryRow(ctx, qGetApplicationByID, id).
		Scan(&app.ID, &app.UserID, &app.ServiceID, &app.Kind, &app.Status, &app.SubmittedAt,
			&app.ApprovedAt, &app.RejectionReason, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &app, nil
}

const qGetApplicationsByUser = `
select id, user_id, service_id, kind, status, submitted_at, approved_at,
       coalesce(rejection_reason, ''), created_at, updated_at
from civic_applications
where user_id = $1
order by submitted_at desc nulls last, created_at desc`

func (s *DB) GetApplicationsByUser(ctx context.Context, userID int64) (_ []entity.Application, err error) {
	ctx, span := s.startSpan(ctx, "GetApplicationsByUser")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, qGetApplicationsByUser, userID)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	var apps []entity.Application
	for rows.Next() {
		var app entity.Application
		err = rows.Scan(&app.ID, &app.UserID, &app.ServiceID, &app.Kind, &app.Status, &app.SubmittedAt,
			&app.ApprovedAt, &app.RejectionReason, &app.CreatedAt, &app.UpdatedAt)
		if err != nil {
			return nil, s.mapError(err)
		}
		apps = append(apps, app)
	}
	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return apps, nil
}

const qGetPaymentByApplication = `
select id, user_id, application_id, kind, amount, method, transaction_id, provider_ref, status, created_at
from civic_payments
where application_id = $1`

func (s *DB) GetPaymentByApplication(ctx context.Context, applicationID string) (_ *entity.Payment, err error) {
	ctx, span := s.startSpan(ctx, "GetPaymentByApplication")
	defer func() { s.endSpan(span, err) }()

	var p entity.Payment
	err = s.conn.QueryRow(ctx, qGetPaymentByApplication, applicationID).
		Scan(&p.ID, &p.UserID, &p.ApplicationID, &p.Kind, &p.Amount, &p.Method,
			&p.TransactionID, &p.ProviderRef, &p.Status, &p.CreatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &p, nil
}

const qGetDocumentsByApplication = `
select id, application_id, user_id, type, storage_key, content_type, size, coalesce(metadata, '{}'::jsonb), uploaded_at
from civic_documents
where application_id = $1
order by uploaded_at desc`

func (s *DB) GetDocumentsByApplication(ctx context.Context, applicationID string) (_ []entity.Document, err error) {
	ctx, span := s.startSpan(ctx, "GetDocumentsByApplication")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, qGetDocumentsByApplication, applicationID)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	var docs []entity.Document
	for rows.Next() {
		var doc entity.Document
		err = rows.Scan(&doc.ID, &doc.ApplicationID, &doc.UserID, &doc.Type,
			&doc.StorageKey, &doc.ContentType, &doc.Size, &doc.Metadata, &doc.UploadedAt)
		if err != nil {
			return nil, s.mapError(err)
		}
		docs = append(docs, doc)
	}
	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return docs, nil
}

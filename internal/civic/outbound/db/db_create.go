package db

import (
	"context"

	"github.com/ikiraro/portal/internal/civic/entity"
)

const qCreateDocument = `
insert into civic_documents (id, application_id, user_id, type, storage_key, content_type, size, metadata, uploaded_at)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

func (s *DB) CreateDocument(ctx context.Context, doc entity.Document) (err error) {
	ctx, span := s.startSpan(ctx, "CreateDocument")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, qCreateDocument,
		doc.ID, doc.ApplicationID, doc.UserID, doc.Type, doc.StorageKey,
		doc.ContentType, doc.Size, doc.Metadata, doc.UploadedAt)
	if err != nil {
		return s.mapError(err)
	}

	return nil
}

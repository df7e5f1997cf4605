package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"path"

	"github.com/ikiraro/portal/internal/civic/entity"
	"github.com/ikiraro/portal/internal/pkg/goerror"
	"github.com/ikiraro/portal/internal/pkg/storage"
	"github.com/ikiraro/portal/internal/pkg/valueobject"
)

type DocumentUploadInput struct {
	ApplicationID string `validate:"required,uuid4"`
	Type          string `validate:"required,oneof=photo identity_proof birth_certificate supporting"`

	File   io.ReadCloser         `validate:"required"`
	Header *multipart.FileHeader `validate:"required"`
}

type DocumentUploadOutput struct {
	DocumentID string
	StorageKey string
}

var errDocumentTooLarge = errors.New("document exceeds the size limit")

// boundedReader counts bytes and fails once the limit is crossed, so an
// oversized upload aborts mid-stream instead of landing in storage whole.
type boundedReader struct {
	r     io.Reader
	n     int64
	limit int64
}

func (b *boundedReader) Read(p []byte) (int, error) {
	if b.limit > 0 && b.n > b.limit {
		return 0, errDocumentTooLarge
	}

	n, err := b.r.Read(p)
	b.n += int64(n)
	if b.limit > 0 && b.n > b.limit {
		// Withhold the bytes; a retrying driver must not treat the
		// violating read as partial progress.
		return 0, errDocumentTooLarge
	}
	return n, err
}

// DocumentUpload streams one multipart file into object storage and records it
// against the caller's application.
func (s *Usecase) DocumentUpload(ctx context.Context, in DocumentUploadInput) (*DocumentUploadOutput, error) {
	ctx, span := s.startSpan(ctx, "DocumentUpload")
	defer span.End()

	if in.File != nil {
		defer in.File.Close()
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	app, err := s.ownedApplication(ctx, in.ApplicationID, clm.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Application not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get application", "application_id", in.ApplicationID, "error", err)
		return nil, goerror.NewServer(err)
	}

	contentType := in.Header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	docID := s.uuid.Generate()
	key := path.Join("applications", app.ID, docID+"-"+path.Base(in.Header.Filename))
	bucket := s.cfg.GetString("modules.civic.documents.bucket")

	body := &boundedReader{r: in.File, limit: s.cfg.GetInt64("modules.civic.documents.max_size_bytes")}
	_, err = s.storage.Put(ctx, bucket, key, body, storage.PutOptions{
		Size:        -1,
		ContentType: contentType,
		Metadata: map[string]string{
			"application-id": app.ID,
			"document-type":  in.Type,
		},
	})
	if err != nil {
		if body.limit > 0 && body.n > body.limit {
			return nil, goerror.NewBusiness("Document is too large", goerror.CodeInvalidInput)
		}

		slog.ErrorContext(ctx, "failed to store document object", "bucket", bucket, "key", key, "error", err)
		return nil, goerror.NewServer(err)
	}

	doc := entity.Document{
		ID:            docID,
		ApplicationID: app.ID,
		UserID:        clm.UserID,
		Type:          in.Type,
		StorageKey:    key,
		ContentType:   contentType,
		Size:          body.n,
		Metadata: valueobject.JSONMap{
			"filename": path.Base(in.Header.Filename),
			"bucket":   bucket,
		},
		UploadedAt: s.clock.Now(),
	}
	if err := s.repoDB.CreateDocument(ctx, doc); err != nil {
		slog.ErrorContext(ctx, "failed to repo create document", "document_id", docID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &DocumentUploadOutput{DocumentID: docID, StorageKey: key}, nil
}

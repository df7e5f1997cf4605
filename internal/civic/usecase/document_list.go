package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ikiraro/portal/internal/civic/entity"
	"github.com/ikiraro/portal/internal/pkg/goerror"
)

type DocumentListInput struct {
	ApplicationID string `validate:"required,uuid4"`
}

type DocumentWithURL struct {
	Document entity.Document
	URL      string
}

type DocumentListOutput struct {
	Documents []DocumentWithURL
}

// DocumentList returns the application's documents together with time-limited
// download URLs.
func (s *Usecase) DocumentList(ctx context.Context, in DocumentListInput) (*DocumentListOutput, error) {
	ctx, span := s.startSpan(ctx, "DocumentList")
	defer span.End()

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

	docs, err := s.repoDB.GetDocumentsByApplication(ctx, app.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get documents by application", "application_id", app.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	bucket := s.cfg.GetString("modules.civic.documents.bucket")
	expiry := s.cfg.GetMinute("modules.civic.documents.presign_ttl_minutes")
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}

	out := make([]DocumentWithURL, 0, len(docs))
	for _, doc := range docs {
		url, err := s.storage.PresignGet(ctx, bucket, doc.StorageKey, expiry)
		if err != nil {
			slog.ErrorContext(ctx, "failed to presign document", "document_id", doc.ID, "error", err)
			return nil, goerror.NewServer(err)
		}
		out = append(out, DocumentWithURL{Document: doc, URL: url})
	}

	return &DocumentListOutput{Documents: out}, nil
}

package usecase

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/ikiraro/portal/internal/civic/entity"
	"github.com/ikiraro/portal/internal/pkg/goerror"
)

func uploadInput(content string) DocumentUploadInput {
	header := &multipart.FileHeader{
		Filename: "passport-photo.jpg",
		Header:   textproto.MIMEHeader{"Content-Type": []string{"image/jpeg"}},
	}
	return DocumentUploadInput{
		ApplicationID: testAppID,
		Type:          "photo",
		File:          io.NopCloser(bytes.NewReader([]byte(content))),
		Header:        header,
	}
}

func TestDocumentUpload(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{
		getApplicationByID: func(string) (*entity.Application, error) { return pendingApplication(), nil },
	}
	store := &fakeObjectStore{}
	uc, _ := newTestUsecase(t, repo, store, &fakeIdempotency{})

	// Act
	out, err := uc.DocumentUpload(citizenContext(testOwnerID), uploadInput("jpeg bytes"))

	// Assert
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if len(store.puts) != 1 {
		t.Fatalf("stored %d objects, want 1", len(store.puts))
	}
	put := store.puts[0]
	if put.bucket != "civic-documents" {
		t.Fatalf("bucket = %q", put.bucket)
	}
	if !strings.HasPrefix(put.key, "applications/"+testAppID+"/") || !strings.HasSuffix(put.key, "-passport-photo.jpg") {
		t.Fatalf("key = %q", put.key)
	}
	if put.opts.Size != -1 || put.opts.ContentType != "image/jpeg" {
		t.Fatalf("unexpected put options: %+v", put.opts)
	}
	if put.opts.Metadata["document-type"] != "photo" {
		t.Fatalf("metadata = %v", put.opts.Metadata)
	}

	if len(repo.createdDocuments) != 1 {
		t.Fatalf("recorded %d documents, want 1", len(repo.createdDocuments))
	}
	doc := repo.createdDocuments[0]
	if doc.StorageKey != put.key || doc.Size != int64(len("jpeg bytes")) {
		t.Fatalf("unexpected document row: %+v", doc)
	}
	if doc.Metadata.GetString("filename") != "passport-photo.jpg" || doc.Metadata.GetString("bucket") != "civic-documents" {
		t.Fatalf("unexpected document metadata: %v", doc.Metadata)
	}
	if out.DocumentID != doc.ID || out.StorageKey != put.key {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestBoundedReaderWithholdsBytesPastLimit(t *testing.T) {
	// Arrange
	r := &boundedReader{r: bytes.NewReader([]byte("0123456789")), limit: 4}
	buf := make([]byte, 8)

	// Act
	n, err := r.Read(buf)

	// Assert
	if n != 0 {
		t.Fatalf("violating read returned %d bytes, want 0", n)
	}
	if !errors.Is(err, errDocumentTooLarge) {
		t.Fatalf("got %v, want errDocumentTooLarge", err)
	}

	// A retry must keep failing the same way.
	n, err = r.Read(buf)
	if n != 0 || !errors.Is(err, errDocumentTooLarge) {
		t.Fatalf("retry returned (%d, %v)", n, err)
	}
}

func TestDocumentUploadTooLarge(t *testing.T) {
	// Arrange, the configured limit is 64 bytes
	repo := &fakeRepoDB{
		getApplicationByID: func(string) (*entity.Application, error) { return pendingApplication(), nil },
	}
	store := &fakeObjectStore{}
	uc, _ := newTestUsecase(t, repo, store, &fakeIdempotency{})

	// Act
	_, err := uc.DocumentUpload(citizenContext(testOwnerID), uploadInput(strings.Repeat("x", 65)))

	// Assert
	assertBusinessCode(t, err, goerror.CodeInvalidInput)
	if len(repo.createdDocuments) != 0 {
		t.Fatal("oversized upload must not be recorded")
	}
}

func TestDocumentUploadForeignApplication(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{
		getApplicationByID: func(string) (*entity.Application, error) { return pendingApplication(), nil },
	}
	store := &fakeObjectStore{}
	uc, _ := newTestUsecase(t, repo, store, &fakeIdempotency{})

	// Act
	_, err := uc.DocumentUpload(citizenContext(99), uploadInput("jpeg bytes"))

	// Assert
	assertBusinessCode(t, err, goerror.CodeNotFound)
	if len(store.puts) != 0 {
		t.Fatal("nothing may reach storage for a foreign application")
	}
}

func TestDocumentUploadRejectsUnknownType(t *testing.T) {
	// Arrange
	uc, _ := newTestUsecase(t, &fakeRepoDB{}, &fakeObjectStore{}, &fakeIdempotency{})
	in := uploadInput("jpeg bytes")
	in.Type = "selfie"

	// Act
	_, err := uc.DocumentUpload(citizenContext(testOwnerID), in)

	// Assert
	assertBusinessCode(t, err, goerror.CodeInvalidInput)
}

func TestDocumentList(t *testing.T) {
	// Arrange
	uploaded := testNow.Add(-time.Hour)
	repo := &fakeRepoDB{
		getApplicationByID: func(string) (*entity.Application, error) { return pendingApplication(), nil },
		getDocumentsByApplication: func(string) ([]entity.Document, error) {
			return []entity.Document{
				{ID: "doc-1", ApplicationID: testAppID, StorageKey: "applications/" + testAppID + "/doc-1-a.jpg", UploadedAt: uploaded},
				{ID: "doc-2", ApplicationID: testAppID, StorageKey: "applications/" + testAppID + "/doc-2-b.pdf", UploadedAt: uploaded},
			}, nil
		},
	}
	store := &fakeObjectStore{}
	uc, _ := newTestUsecase(t, repo, store, &fakeIdempotency{})

	// Act
	out, err := uc.DocumentList(citizenContext(testOwnerID), DocumentListInput{ApplicationID: testAppID})

	// Assert
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out.Documents) != 2 {
		t.Fatalf("listed %d documents, want 2", len(out.Documents))
	}
	for _, d := range out.Documents {
		if !strings.HasPrefix(d.URL, "https://files.example.com/applications/") {
			t.Fatalf("URL = %q", d.URL)
		}
	}
	if len(store.presigned) != 2 {
		t.Fatalf("presigned %d keys, want 2", len(store.presigned))
	}
}

func TestDocumentListForeignApplication(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{
		getApplicationByID: func(string) (*entity.Application, error) { return pendingApplication(), nil },
	}
	uc, _ := newTestUsecase(t, repo, &fakeObjectStore{}, &fakeIdempotency{})

	// Act
	_, err := uc.DocumentList(citizenContext(99), DocumentListInput{ApplicationID: testAppID})

	// Assert
	assertBusinessCode(t, err, goerror.CodeNotFound)
}

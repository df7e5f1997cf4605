package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ikiraro/portal/internal/notification/entity"
	"github.com/ikiraro/portal/internal/pkg/clock"
	"github.com/ikiraro/portal/internal/pkg/config"
	"github.com/ikiraro/portal/internal/pkg/instrument"
	"github.com/ikiraro/portal/internal/pkg/mail"
	"github.com/ikiraro/portal/internal/pkg/validator"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type fakeRepoDB struct {
	created []entity.EmailDelivery
	updated []entity.UpdateDelivery
}

func (f *fakeRepoDB) CreateDelivery(_ context.Context, d entity.EmailDelivery) error {
	f.created = append(f.created, d)
	return nil
}

func (f *fakeRepoDB) UpdateDelivery(_ context.Context, u entity.UpdateDelivery) error {
	f.updated = append(f.updated, u)
	return nil
}

type fakeMailer struct {
	sent []mail.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeNumberID struct{ next int64 }

func (f *fakeNumberID) Generate() int64 {
	f.next++
	return f.next
}

func newTestUsecase(t *testing.T, repo *fakeRepoDB, mailer *fakeMailer) *Usecase {
	t.Helper()

	v10, err := validator.NewV10()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}
	cfg, err := config.NewViperFromBytes("yaml", []byte("modules:\n  notification:\n    enabled: true\n"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	return New(Dependency{
		RepoDB:     repo,
		RepoMail:   mailer,
		Config:     cfg,
		UID:        &fakeNumberID{},
		Clock:      &clock.Fixed{At: testNow},
		Validator:  v10,
		Instrument: instrument.NewNoop(),
	})
}

func validRegistrationInput() ConsumeUserRegistrationInput {
	return ConsumeUserRegistrationInput{
		UserID:         42,
		Username:       "jdoe",
		Email:          "jdoe@example.com",
		Code:           "482913",
		ExpiresMinutes: 8,
	}
}

func TestConsumeUserRegistration(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{}
	mailer := &fakeMailer{}
	uc := newTestUsecase(t, repo, mailer)

	// Act
	err := uc.ConsumeUserRegistration(context.Background(), validRegistrationInput())

	// Assert
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(mailer.sent))
	}
	msg := mailer.sent[0]
	if msg.To[0] != "jdoe@example.com" || msg.Subject != "Verify your email address" {
		t.Fatalf("unexpected message: to=%v subject=%q", msg.To, msg.Subject)
	}
	for _, body := range []string{msg.HTML, msg.Text} {
		if !strings.Contains(body, "482913") || !strings.Contains(body, "jdoe") || !strings.Contains(body, "8 minutes") {
			t.Fatalf("body is missing code, name or expiry:\n%s", body)
		}
	}

	if len(repo.created) != 1 || len(repo.updated) != 1 {
		t.Fatalf("delivery rows: created=%d updated=%d", len(repo.created), len(repo.updated))
	}
	if repo.created[0].Status != entity.DeliveryStatusQueued || repo.created[0].TriggerKey != entity.TriggerKeyEmailVerify {
		t.Fatalf("unexpected delivery row: %+v", repo.created[0])
	}
	if repo.updated[0].Status != entity.DeliveryStatusSent {
		t.Fatalf("final status = %s, want Sent", repo.updated[0].Status)
	}
}

func TestConsumeUserRegistrationSendFailure(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{}
	mailer := &fakeMailer{err: errors.New("smtp: connection refused")}
	uc := newTestUsecase(t, repo, mailer)

	// Act
	err := uc.ConsumeUserRegistration(context.Background(), validRegistrationInput())

	// Assert, delivery is best effort so the consumer must still ack
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if len(repo.updated) != 1 {
		t.Fatalf("updated %d rows, want 1", len(repo.updated))
	}
	if repo.updated[0].Status != entity.DeliveryStatusFailed || repo.updated[0].Error == "" {
		t.Fatalf("unexpected update: %+v", repo.updated[0])
	}
}

func TestConsumeUserRegistrationMalformedPayloadIsDropped(t *testing.T) {
	// Arrange
	repo := &fakeRepoDB{}
	mailer := &fakeMailer{}
	uc := newTestUsecase(t, repo, mailer)
	in := validRegistrationInput()
	in.Code = "12345"

	// Act
	err := uc.ConsumeUserRegistration(context.Background(), in)

	// Assert
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if len(mailer.sent) != 0 || len(repo.created) != 0 {
		t.Fatal("malformed payload must not produce a delivery")
	}
}

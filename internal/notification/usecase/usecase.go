package usecase

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	texttemplate "text/template"

	"github.com/ikiraro/portal/internal/notification/entity"
	"github.com/ikiraro/portal/internal/pkg/clock"
	"github.com/ikiraro/portal/internal/pkg/config"
	"github.com/ikiraro/portal/internal/pkg/instrument"
	"github.com/ikiraro/portal/internal/pkg/mail"
	"github.com/ikiraro/portal/internal/pkg/uid"
	"github.com/ikiraro/portal/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	CreateDelivery(ctx context.Context, d entity.EmailDelivery) error
	UpdateDelivery(ctx context.Context, u entity.UpdateDelivery) error
}

type repoMail interface {
	Send(ctx context.Context, msg mail.Message) error
}

type Usecase struct {
	repoDB    repoDB
	repoMail  repoMail
	cfg       config.Config
	uid       uid.NumberID
	clock     clock.Clocker
	validator validator.Validator
	ins       instrument.Instrumentation

	verifyHTML *template.Template
	verifyText *texttemplate.Template
}

type Dependency struct {
	RepoDB     repoDB
	RepoMail   repoMail
	Config     config.Config
	UID        uid.NumberID
	Clock      clock.Clocker
	Validator  validator.Validator
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:     dep.RepoDB,
		repoMail:   dep.RepoMail,
		cfg:        dep.Config,
		uid:        dep.UID,
		clock:      dep.Clock,
		validator:  dep.Validator,
		ins:        dep.Instrument,
		verifyHTML: template.Must(template.New("verify_email_html").Parse(verifyEmailHTML)),
		verifyText: texttemplate.Must(texttemplate.New("verify_email_text").Parse(verifyEmailText)),
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}

type sendEmailInput struct {
	UserID     int64
	Email      string
	TriggerKey entity.TriggerKey
	Subject    string
	HTML       string
	Text       string
}

// sendEmail records the attempt and sends it. Failures are recorded on the
// delivery row and logged, never returned.
func (s *Usecase) sendEmail(ctx context.Context, in sendEmailInput) {
	now := s.clock.Now()
	d := entity.EmailDelivery{
		ID:         s.uid.Generate(),
		UserID:     in.UserID,
		Email:      in.Email,
		TriggerKey: in.TriggerKey,
		Status:     entity.DeliveryStatusQueued,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repoDB.CreateDelivery(ctx, d); err != nil {
		slog.ErrorContext(ctx, "failed to repo create delivery", "user_id", in.UserID, "error", err)
		return
	}

	update := entity.UpdateDelivery{ID: d.ID, Status: entity.DeliveryStatusSent}
	if err := s.repoMail.Send(ctx, mail.Message{
		To:      []string{in.Email},
		Subject: in.Subject,
		HTML:    in.HTML,
		Text:    in.Text,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to send email", "user_id", in.UserID, "trigger", in.TriggerKey, "error", err)
		update.Status = entity.DeliveryStatusFailed
		update.Error = err.Error()
	}

	if err := s.repoDB.UpdateDelivery(ctx, update); err != nil {
		slog.ErrorContext(ctx, "failed to repo update delivery", "delivery_id", d.ID, "error", err)
	}
}

func (s *Usecase) renderVerifyEmail(data map[string]any) (html, text string, err error) {
	var hb, tb bytes.Buffer
	if err := s.verifyHTML.Execute(&hb, data); err != nil {
		return "", "", err
	}
	if err := s.verifyText.Execute(&tb, data); err != nil {
		return "", "", err
	}
	return hb.String(), tb.String(), nil
}

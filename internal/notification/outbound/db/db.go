package db

import (
	"context"
	"errors"

	"github.com/ikiraro/portal/internal/notification/entity"
	"github.com/ikiraro/portal/internal/pkg/goerror"
	"github.com/ikiraro/portal/internal/pkg/instrument"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type DB struct {
	conn *pgxpool.Pool
	ins  instrument.Instrumentation
}

func NewDB(conn *pgxpool.Pool, ins instrument.Instrumentation) *DB {
	return &DB{conn: conn, ins: ins}
}

func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}
	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

const qCreateDelivery = `
insert into notification_email_deliveries (id, user_id, email, trigger_key, status, error, created_at, updated_at)
values ($1, $2, $3, $4, $5, $6, $7, $8)`

func (s *DB) CreateDelivery(ctx context.Context, d entity.EmailDelivery) (err error) {
	ctx, span := s.startSpan(ctx, "CreateDelivery")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, qCreateDelivery,
		d.ID, d.UserID, d.Email, d.TriggerKey, d.Status, d.Error, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return s.mapError(err)
	}

	return nil
}

const qUpdateDelivery = `
update notification_email_deliveries set status = $1, error = $2, updated_at = now()
where id = $3`

func (s *DB) UpdateDelivery(ctx context.Context, u entity.UpdateDelivery) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateDelivery")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, qUpdateDelivery, u.Status, u.Error, u.ID)
	if err != nil {
		return s.mapError(err)
	}

	return nil
}

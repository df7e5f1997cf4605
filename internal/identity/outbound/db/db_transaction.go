package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ikiraro/portal/internal/identity/entity"
	"github.com/jackc/pgx/v5"
)

const qInsertUser = `
insert into identity_users (id, username, email, status, role)
values ($1, $2, $3, $4, $5)`

const qInsertCredential = `
insert into identity_user_credentials (user_id, password)
values ($1, $2)`

const qInsertOTP = `
insert into identity_email_otps (id, user_id, code, used, created_at, expires_at)
values ($1, $2, $3, false, $4, $5)`

// NewRegistration creates the user, credential, and first verification code
// in one transaction. A partially registered user must never exist.
func (s *DB) NewRegistration(ctx context.Context, user entity.NewUser, code entity.EmailOTP, hash string) (err error) {
	ctx, span := s.startSpan(ctx, "NewRegistration")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	if _, err = tx.Exec(ctx, qInsertUser, user.ID, user.Username, user.Email, user.Status, user.Role); err != nil {
		return s.mapError(err)
	}

	if _, err = tx.Exec(ctx, qInsertCredential, user.ID, hash); err != nil {
		return s.mapError(err)
	}

	if _, err = tx.Exec(ctx, qInsertOTP, code.ID, code.UserID, code.Code, code.CreatedAt, code.ExpiresAt); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

const qActivateUser = `
update identity_users set status = $1, updated_at = now()
where id = $2 and status = $3`

const qConsumeOTP = `
update identity_email_otps set used = true
where id = $1 and used = false`

// VerifyActivation marks the user active and burns the matched code in one
// transaction. Either both writes land or neither does.
func (s *DB) VerifyActivation(ctx context.Context, in entity.ActivateUser) (err error) {
	ctx, span := s.startSpan(ctx, "VerifyActivation")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	if _, err = tx.Exec(ctx, qActivateUser, in.NewStatus, in.UserID, in.OldStatus); err != nil {
		return s.mapError(err)
	}

	if _, err = tx.Exec(ctx, qConsumeOTP, in.OTPID); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

const qInvalidateUnusedOTPs = `
update identity_email_otps set used = true
where user_id = $1 and used = false`

// ReplaceOTP invalidates every unused code for the user and inserts the new
// one in the same transaction, leaving exactly one live code.
func (s *DB) ReplaceOTP(ctx context.Context, code entity.EmailOTP) (err error) {
	ctx, span := s.startSpan(ctx, "ReplaceOTP")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	if _, err = tx.Exec(ctx, qInvalidateUnusedOTPs, code.UserID); err != nil {
		return s.mapError(err)
	}

	if _, err = tx.Exec(ctx, qInsertOTP, code.ID, code.UserID, code.Code, code.CreatedAt, code.ExpiresAt); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

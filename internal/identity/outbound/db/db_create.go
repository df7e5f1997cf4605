package db

import (
	"context"

	"github.com/ikiraro/portal/internal/identity/entity"
)

const qCreateRefreshToken = `
insert into identity_refresh_tokens (id, user_id, token, expires_at, revoked)
values ($1, $2, $3, $4, false)`

func (s *DB) CreateRefreshToken(ctx context.Context, in entity.RefreshToken) (err error) {
	ctx, span := s.startSpan(ctx, "CreateRefreshToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, qCreateRefreshToken, in.ID, in.UserID, in.Token, in.ExpiresAt)
	err = s.mapError(err)
	return err
}

const qRevokeRefreshToken = `
update identity_refresh_tokens set revoked = true where token = $1 and revoked = false`

func (s *DB) RevokeRefreshToken(ctx context.Context, token string) (err error) {
	ctx, span := s.startSpan(ctx, "RevokeRefreshToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, qRevokeRefreshToken, token)
	err = s.mapError(err)
	return err
}

package db

import (
	"context"

	"github.com/ikiraro/portal/internal/identity/entity"
)

const qGetUserByEmail = `
select id, username, email, status, role, created_at, updated_at
from identity_users
where email = $1`

func (s *DB) GetUserByEmail(ctx context.Context, email string) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByEmail")
	defer func() { s.endSpan(span, err) }()

	var user entity.User
	err = s.conn.QueryRow(ctx, qGetUserByEmail, email).Scan(
		&user.ID, &user.Username, &user.Email, &user.Status, &user.Role,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &user, nil
}

const qGetUserByID = `
select id, username, email, status, role, created_at, updated_at
from identity_users
where id = $1`

func (s *DB) GetUserByID(ctx context.Context, id int64) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByID")
	defer func() { s.endSpan(span, err) }()

	var user entity.User
	err = s.conn.QueryRow(ctx, qGetUserByID, id).Scan(
		&user.ID, &user.Username, &user.Email, &user.Status, &user.Role,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &user, nil
}

const qGetUserLoginInfo = `
select u.id, u.username, u.email, u.status, u.role, c.password
from identity_users u
join identity_user_credentials c on c.user_id = u.id
where u.email = $1`

func (s *DB) GetUserLoginInfo(ctx context.Context, email string) (_ *entity.UserLoginInfo, err error) {
	ctx, span := s.startSpan(ctx, "GetUserLoginInfo")
	defer func() { s.endSpan(span, err) }()

	var info entity.UserLoginInfo
	err = s.conn.QueryRow(ctx, qGetUserLoginInfo, email).Scan(
		&info.ID, &info.Username, &info.Email, &info.Status, &info.Role, &info.Password,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &info, nil
}

// Ties between equal unused code values go to the newest row.
const qGetLatestUnusedOTP = `
select id, user_id, code, used, created_at, expires_at
from identity_email_otps
where user_id = $1 and code = $2 and used = false
order by created_at desc
limit 1`

func (s *DB) GetLatestUnusedOTP(ctx context.Context, userID int64, code string) (_ *entity.EmailOTP, err error) {
	ctx, span := s.startSpan(ctx, "GetLatestUnusedOTP")
	defer func() { s.endSpan(span, err) }()

	var otp entity.EmailOTP
	err = s.conn.QueryRow(ctx, qGetLatestUnusedOTP, userID, code).Scan(
		&otp.ID, &otp.UserID, &otp.Code, &otp.Used, &otp.CreatedAt, &otp.ExpiresAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &otp, nil
}

const qGetUserRefreshToken = `
select u.id, u.email, u.status, u.role, t.id, t.revoked, t.expires_at
from identity_refresh_tokens t
join identity_users u on u.id = t.user_id
where t.token = $1`

func (s *DB) GetUserRefreshToken(ctx context.Context, token string) (_ *entity.UserRefreshToken, err error) {
	ctx, span := s.startSpan(ctx, "GetUserRefreshToken")
	defer func() { s.endSpan(span, err) }()

	var rt entity.UserRefreshToken
	err = s.conn.QueryRow(ctx, qGetUserRefreshToken, token).Scan(
		&rt.UserID, &rt.UserEmail, &rt.UserStatus, &rt.UserRole,
		&rt.RefreshID, &rt.RefreshRevoked, &rt.RefreshExpiresAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &rt, nil
}

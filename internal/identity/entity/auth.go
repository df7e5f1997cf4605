package entity

import (
	"time"
)

type User struct {
	ID        int64
	Username  string
	Email     string
	Status    UserStatus
	Role      UserRole
	CreatedAt time.Time
	UpdatedAt time.Time
}

type UserCredential struct {
	UserID    int64
	Password  string // hashed
	UpdatedAt time.Time
}

// EmailOTP is one verification code row. Rows are never deleted, the history
// doubles as an audit trail; a code is usable only while Used is false and
// ExpiresAt has not passed.
type EmailOTP struct {
	ID        int64
	UserID    int64
	Code      string
	Used      bool
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Usable reports whether the code can still consume a verification at now.
func (o EmailOTP) Usable(now time.Time) bool {
	return !o.Used && !now.After(o.ExpiresAt)
}

type RefreshToken struct {
	ID        int64
	UserID    int64
	Token     string // hashed
	ExpiresAt time.Time
	Revoked   bool
}

// ---- //

type UserLoginInfo struct {
	ID       int64
	Username string
	Email    string
	Status   UserStatus
	Role     UserRole
	Password string
}

type UserRefreshToken struct {
	UserID           int64
	UserEmail        string
	UserStatus       UserStatus
	UserRole         UserRole
	RefreshID        int64
	RefreshRevoked   bool
	RefreshExpiresAt time.Time
}

type NewUser struct {
	ID       int64
	Username string
	Email    string
	Status   UserStatus
	Role     UserRole
}

// ActivateUser carries the two writes of a successful verification: the user
// flips to Active and the matched code is consumed, atomically.
type ActivateUser struct {
	UserID    int64
	OTPID     int64
	OldStatus UserStatus
	NewStatus UserStatus
}

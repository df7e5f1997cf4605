package inbound

import "time"

type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

type RegisterResponse struct {
	VerificationRef string `json:"verification_ref"`
}

func (RegisterResponse) Message() string {
	return "Registration successful. We have emailed you a verification code."
}

type RegisterVerifyRequest struct {
	VerificationRef string `json:"verification_ref"`
	Code            string `json:"code"`
}

type RegisterVerifyResponse struct{}

func (RegisterVerifyResponse) Message() string {
	return "Your account has been verified. You can now sign in."
}

type RegisterResendRequest struct {
	VerificationRef string `json:"verification_ref"`
}

type RegisterResendResponse struct{}

func (RegisterResendResponse) Message() string {
	return "A new verification code has been sent to your email."
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken string `json:"access_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutResponse struct{}

func (LogoutResponse) Message() string {
	return "You have been signed out."
}

type ProfileResponse struct {
	ID        int64     `json:"id,string"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

package dto

import (
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/spec-kit/member-service/internal/domain"
)

// LoginRequest payload for login. Credentials are accepted from the body only.
type LoginRequest struct {
	Email    string `json:"email" query:"-"`
	Password string `json:"password" query:"-"`
}

// Validate runs the validation rules.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// RegisterRequest payload for new members.
type RegisterRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Password    string `json:"password" query:"-"`
	Day         string `json:"day"`
	Month       string `json:"month"`
	Year        string `json:"year"`
	Gender      string `json:"gender"`
	ProfileType string `json:"profileType"`
}

// Validate runs the validation rules.
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 50)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 50)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
		validation.Field(&r.Day, validation.Required, validation.Length(1, 2), is.Digit),
		validation.Field(&r.Month, validation.Required, validation.Length(1, 2), is.Digit),
		validation.Field(&r.Year, validation.Required, validation.Length(4, 4), is.Digit),
		validation.Field(&r.Gender, validation.Required, validation.Length(1, 10)),
		validation.Field(&r.ProfileType, validation.Required, validation.Length(1, 50)),
	)
}

// ToDomain converts the payload.
func (r RegisterRequest) ToDomain() domain.Registration {
	return domain.Registration{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		Password:    r.Password,
		Gender:      r.Gender,
		Month:       r.Month,
		Day:         r.Day,
		Year:        r.Year,
		ProfileType: r.ProfileType,
	}
}

// NewRegisteredUserRequest confirms a registration.
type NewRegisteredUserRequest struct {
	Email string `json:"email" query:"email"`
	Code  string `json:"code" query:"code"`
}

// Validate runs the validation rules.
func (r NewRegisteredUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Code, validation.Required),
	)
}

// RefreshRequest carries the refresh token in the query or the body.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" query:"refresh_token"`
}

// Validate runs the validation rules.
func (r RefreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

// ResetPasswordRequest asks for a reset code.
type ResetPasswordRequest struct {
	Email string `json:"email" query:"email"`
}

// Validate runs the validation rules.
func (r ResetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

// ResetCodeRequest identifies a reset code.
type ResetCodeRequest struct {
	Code string `json:"code" query:"code"`
}

// Validate runs the validation rules.
func (r ResetCodeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required),
	)
}

// ChangePasswordRequest sets a new password, optionally authorized by a reset code.
type ChangePasswordRequest struct {
	NewPassword string `json:"new_password" query:"new_password"`
	Email       string `json:"email" query:"email"`
	Code        string `json:"code" query:"code"`
}

// Validate runs the validation rules.
func (r ChangePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.NewPassword, validation.Required, validation.Length(6, 100)),
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

// UserResponse is the signed-in member with its tokens.
type UserResponse struct {
	MemberID          string `json:"memberID"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	PicturePath       string `json:"picturePath"`
	Title             string `json:"title"`
	CurrentStatus     string `json:"currentStatus"`
	AccessToken       string `json:"accessToken"`
	ExpiredDate       string `json:"expiredDate"`
	RefreshToken      string `json:"refreshToken"`
	RefreshExpireDate string `json:"refreshExpireDate"`
}

// NewUserResponse builds the response for a session.
func NewUserResponse(s *domain.Session) UserResponse {
	m := s.Member
	return UserResponse{
		MemberID:          strconv.FormatInt(m.ID, 10),
		Name:              m.Profile.FullName(),
		Email:             m.Email,
		PicturePath:       m.Profile.PicturePath,
		Title:             m.Profile.Title,
		CurrentStatus:     strconv.Itoa(int(m.Status)),
		AccessToken:       s.Tokens.Access.Value,
		ExpiredDate:       s.Tokens.Access.ExpiresAt.Format(time.RFC3339),
		RefreshToken:      s.Tokens.Refresh.Value,
		RefreshExpireDate: s.Tokens.Refresh.ExpiresAt.Format(time.RFC3339),
	}
}

// TokenResponse is the refreshed token pair.
type TokenResponse struct {
	AccessToken       string `json:"accessToken"`
	ExpiredDate       string `json:"expiredDate"`
	RefreshToken      string `json:"refreshToken"`
	RefreshExpireDate string `json:"refreshExpireDate"`
}

// NewTokenResponse builds the response for a token pair.
func NewTokenResponse(p domain.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:       p.Access.Value,
		ExpiredDate:       p.Access.ExpiresAt.Format(time.RFC3339),
		RefreshToken:      p.Refresh.Value,
		RefreshExpireDate: p.Refresh.ExpiresAt.Format(time.RFC3339),
	}
}

package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/spec-kit/member-service/internal/domain"
)

// SavePasswordRequest sets a new password for the signed-in member.
type SavePasswordRequest struct {
	Password string `json:"password" query:"-"`
}

// Validate runs the validation rules.
func (r SavePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
	)
}

// SecurityQuestionRequest stores a security question answer.
type SecurityQuestionRequest struct {
	QuestionID int32  `json:"question_id" query:"question_id"`
	Answer     string `json:"answer" query:"answer"`
}

// Validate runs the validation rules.
func (r SecurityQuestionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.QuestionID, validation.Required, validation.Min(1)),
		validation.Field(&r.Answer, validation.Required, validation.Length(1, 200)),
	)
}

// DeactivateRequest records why the member leaves.
type DeactivateRequest struct {
	Reason      int32  `json:"reason" query:"reason"`
	Explanation string `json:"explanation" query:"explanation"`
	FutureEmail bool   `json:"future_email" query:"future_email"`
}

// Validate runs the validation rules.
func (r DeactivateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Reason, validation.Min(0)),
		validation.Field(&r.Explanation, validation.Length(0, 1000)),
	)
}

// ToDomain converts the payload.
func (r DeactivateRequest) ToDomain() domain.Deactivation {
	return domain.Deactivation{
		Reason:       r.Reason,
		Explanation:  r.Explanation,
		FutureEmails: r.FutureEmail,
	}
}

// UpdateEmailRequest changes the sign-in email.
type UpdateEmailRequest struct {
	Email string `json:"email" query:"email"`
}

// Validate runs the validation rules.
func (r UpdateEmailRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
	)
}

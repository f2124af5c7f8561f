package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRendererRegistration(t *testing.T) {
	r, err := NewRenderer("SportSocial", "https://example.com/complete", "")
	require.NoError(t, err)

	msg, err := r.Registration(RegistrationData{
		Email:     "bob@example.com",
		FullName:  "Bob Smith",
		FirstName: "Bob",
		Code:      "abc-123",
	})
	require.NoError(t, err)

	assert.Equal(t, "bob@example.com", msg.To)
	assert.Equal(t, "Account confirmation", msg.Subject)
	assert.Contains(t, msg.HTMLBody, "Hi Bob Smith,")
	assert.Contains(t, msg.HTMLBody, "Your registration code is: abc-123")
	assert.Contains(t, msg.HTMLBody, "https://example.com/complete?code=abc-123")
	assert.Contains(t, msg.HTMLBody, "device=web")
}

func TestRendererPasswordReset(t *testing.T) {
	r, err := NewRenderer("SportSocial", "", "https://example.com")
	require.NoError(t, err)

	msg, err := r.PasswordReset("bob@example.com", PasswordResetData{FirstName: "Bob", Code: "reset-9"})
	require.NoError(t, err)

	assert.Equal(t, "Password Reset confirmation", msg.Subject)
	assert.Equal(t, "Bob", msg.FromName)
	assert.Contains(t, msg.HTMLBody, "<b>reset-9</b>")
	assert.Contains(t, msg.HTMLBody, "The SportSocial staff")
	assert.Contains(t, msg.HTMLBody, `href="https://example.com"`)
}

func TestRendererEscapesInput(t *testing.T) {
	r, err := NewRenderer("SportSocial", "", "")
	require.NoError(t, err)

	msg, err := r.PasswordReset("bob@example.com", PasswordResetData{FirstName: "<script>", Code: "c"})
	require.NoError(t, err)
	assert.NotContains(t, msg.HTMLBody, "<script>")
}

func TestSMTPSenderRequiresHost(t *testing.T) {
	err := NewSMTPSender(SMTPConfig{FromEmail: "noreply@example.com"}).Send(t.Context(), Message{To: "bob@example.com"})
	assert.Error(t, err)
}

func TestSMTPSenderBuild(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", FromEmail: "noreply@example.com", DefaultName: "Admin"})
	m, err := s.build(Message{To: "bob@example.com", Subject: "hi", HTMLBody: "<p>x</p>"})
	require.NoError(t, err)
	assert.Equal(t, []string{"hi"}, m.GetGenHeader("Subject"))

	_, err = s.build(Message{To: "not an address"})
	assert.Error(t, err)
}

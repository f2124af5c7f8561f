package mail

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/django/v3"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	templateRegistration  = "registration_confirmation"
	templatePasswordReset = "password_reset"
)

// Renderer builds email bodies from the embedded django templates.
type Renderer struct {
	engine                   *django.Engine
	appName                  string
	completeRegistrationLink string
	websiteLink              string
}

// RegistrationData feeds the confirmation mail.
type RegistrationData struct {
	Email     string
	FullName  string
	FirstName string
	Code      string
	Device    string
}

// PasswordResetData feeds the reset mail.
type PasswordResetData struct {
	FirstName string
	Code      string
}

// NewRenderer loads the templates.
func NewRenderer(appName, completeRegistrationLink, websiteLink string) (*Renderer, error) {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return nil, err
	}
	engine := django.NewFileSystem(http.FS(sub), ".html")
	if err := engine.Load(); err != nil {
		return nil, fmt.Errorf("load mail templates: %w", err)
	}
	return &Renderer{
		engine:                   engine,
		appName:                  appName,
		completeRegistrationLink: completeRegistrationLink,
		websiteLink:              websiteLink,
	}, nil
}

// Registration renders the account confirmation mail for data.
func (r *Renderer) Registration(data RegistrationData) (Message, error) {
	device := data.Device
	if device == "" {
		device = "web"
	}
	body, err := r.render(templateRegistration, map[string]interface{}{
		"app_name":     r.appName,
		"website_link": r.completeRegistrationLink,
		"name":         data.FullName,
		"first_name":   data.FirstName,
		"email":        data.Email,
		"code":         data.Code,
		"device":       device,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{To: data.Email, Subject: "Account confirmation", HTMLBody: body}, nil
}

// PasswordReset renders the reset code mail addressed to email.
func (r *Renderer) PasswordReset(email string, data PasswordResetData) (Message, error) {
	body, err := r.render(templatePasswordReset, map[string]interface{}{
		"app_name":     r.appName,
		"website_link": r.websiteLink,
		"name":         data.FirstName,
		"code":         data.Code,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{FromName: data.FirstName, To: email, Subject: "Password Reset confirmation", HTMLBody: body}, nil
}

func (r *Renderer) render(name string, binding map[string]interface{}) (string, error) {
	var buf bytes.Buffer
	if err := r.engine.Render(&buf, name, binding); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/member-service/internal/api/http/handlers"
	"github.com/spec-kit/member-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Account        *handlers.AccountHandler
	Setting        *handlers.SettingHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	account := app.Group("/account")
	account.Post("/login", cfg.Account.Login)
	account.Post("/register", cfg.Account.Register)
	account.Post("/login-new-registered-user", cfg.Account.LoginNewRegisteredUser)
	account.Get("/refresh-login", cfg.Account.RefreshLogin)
	account.Post("/refresh-login", cfg.Account.RefreshLogin)
	account.Post("/reset-password", cfg.Account.ResetPassword)
	account.Post("/is-reset-code-expired", cfg.Account.IsResetCodeExpired)
	account.Post("/change-password", cfg.AuthMiddleware.Optional, cfg.Account.ChangePassword)

	setting := app.Group("/setting", cfg.AuthMiddleware.Handle)
	self := auth.RequireSelf("member_id")
	setting.Put("/save-password-info/:member_id", self, cfg.Setting.SavePasswordInfo)
	setting.Put("/save-security-question/:member_id", self, cfg.Setting.SaveSecurityQuestion)
	setting.Post("/deactivate-account/:member_id", self, cfg.Setting.DeactivateAccount)
	setting.Post("/reactivate-account/:member_id", self, cfg.Setting.ReactivateAccount)
	setting.Put("/update-email-info/:member_id", self, cfg.Setting.UpdateEmailInfo)
}

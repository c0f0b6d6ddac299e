package auth

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterAuthRoutes mounts the auth surface under /auth.
func RegisterAuthRoutes(app fiber.Router, opts ...AuthControllerOption) {
	controller := NewAuthController(opts...)

	grp := app.Group("/auth")

	grp.Post("/register", controller.Register).Name("auth.register")
	grp.Post("/verify-otp", controller.VerifyOTP).Name("auth.verify-otp")
	grp.Post("/resend-otp", controller.ResendOTP).Name("auth.resend-otp")
	grp.Post("/login", controller.Login).Name("auth.login")
	grp.Post("/verify-login-otp", controller.VerifyLoginOTP).Name("auth.verify-login-otp")
	grp.Post("/logout", controller.Logout).Name("auth.logout")
}

// RequireSession is middleware for routes that need an authenticated caller.
// It expects the username in X-Auth-Username and the bearer token in
// X-Session-Token, validates them against the store, and stashes the record
// in locals under "auth_user". Validation never extends the session.
func (a *AuthController) RequireSession(c *fiber.Ctx) error {
	username := c.Get("X-Auth-Username")
	token := c.Get("X-Session-Token")

	user, err := a.Auther.ValidateSession(c.Context(), username, token)
	if err != nil {
		// Session failures all map to 401 regardless of cause so tokens and
		// usernames cannot be probed apart.
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Session expired or invalid",
		})
	}

	c.Locals("auth_user", user)
	return c.Next()
}

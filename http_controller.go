package auth

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// AuthController adapts the authenticator to the JSON HTTP surface. It owns
// no business rules: payloads are parsed and validated here, outcomes are
// mapped to statuses, and everything else is the Auther's decision.
type AuthController struct {
	Debug  bool
	Logger Logger
	Auther *Auther
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Auther in auth controller...")
	}

	return c
}

// WithAuther sets the authenticator backing the controller.
func WithAuther(auther *Auther) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

// WithControllerLogger sets the controller logger.
func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// WithControllerDebug toggles request payload dumps.
func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

// RegisterPayload is the /auth/register body.
type RegisterPayload struct {
	Name     string `form:"name" json:"name"`
	Username string `form:"username" json:"username"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules.
func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Username, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(1, 200)),
	)
}

// VerifyOTPPayload is the body shared by both verify endpoints. Every
// OTP-bearing flow keys on email.
type VerifyOTPPayload struct {
	Email string `form:"email" json:"email"`
	OTP   string `form:"otp" json:"otp"`
}

// Validate will run validation rules.
func (r VerifyOTPPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.OTP, validation.Required, validation.Length(OTPLength, OTPLength), is.Digit),
	)
}

// EmailPayload is the body of the email-only endpoints (resend, logout).
type EmailPayload struct {
	Email string `form:"email" json:"email"`
}

// Validate will run validation rules.
func (r EmailPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

// LoginPayload is the /auth/login body.
type LoginPayload struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules.
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) Register(c *fiber.Ctx) error {
	payload := new(RegisterPayload)
	if ok, err := a.bind(c, payload); !ok {
		return err
	}

	err := a.Auther.Register(c.Context(), RegisterUserMessage{
		Name:     payload.Name,
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		return a.renderError(c, "registration failed", err)
	}

	return c.JSON(fiber.Map{"message": "User registered. OTP sent to email."})
}

func (a *AuthController) VerifyOTP(c *fiber.Ctx) error {
	payload := new(VerifyOTPPayload)
	if ok, err := a.bind(c, payload); !ok {
		return err
	}

	session, err := a.Auther.VerifyRegistrationOTP(c.Context(), payload.Email, payload.OTP)
	if err != nil {
		return a.renderError(c, "OTP verification failed", err)
	}

	return c.JSON(fiber.Map{
		"message":        "OTP verified. Account activated.",
		"session_token":  session.Token,
		"session_expiry": session.ExpiryString(),
	})
}

func (a *AuthController) ResendOTP(c *fiber.Ctx) error {
	payload := new(EmailPayload)
	if ok, err := a.bind(c, payload); !ok {
		return err
	}

	if err := a.Auther.ResendOTP(c.Context(), payload.Email); err != nil {
		return a.renderError(c, "resend OTP failed", err)
	}

	return c.JSON(fiber.Map{"message": "OTP resent successfully"})
}

func (a *AuthController) Login(c *fiber.Ctx) error {
	payload := new(LoginPayload)
	if ok, err := a.bind(c, payload); !ok {
		return err
	}

	if err := a.Auther.Login(c.Context(), payload.Email, payload.Password); err != nil {
		return a.renderError(c, "login failed", err)
	}

	return c.JSON(fiber.Map{"message": "OTP sent to your email. Please verify to complete login."})
}

func (a *AuthController) VerifyLoginOTP(c *fiber.Ctx) error {
	payload := new(VerifyOTPPayload)
	if ok, err := a.bind(c, payload); !ok {
		return err
	}

	session, err := a.Auther.VerifyLoginOTP(c.Context(), payload.Email, payload.OTP)
	if err != nil {
		return a.renderError(c, "login OTP verification failed", err)
	}

	return c.JSON(fiber.Map{
		"message":        "Login verified. You are now logged in.",
		"session_token":  session.Token,
		"session_expiry": session.ExpiryString(),
	})
}

func (a *AuthController) Logout(c *fiber.Ctx) error {
	payload := new(EmailPayload)
	if ok, err := a.bind(c, payload); !ok {
		return err
	}

	if err := a.Auther.Logout(c.Context(), payload.Email); err != nil {
		return a.renderError(c, "logout failed", err)
	}

	return c.JSON(fiber.Map{
		"message": "Logout successful. All sessions and OTPs for this email have been cleared.",
	})
}

// bind parses a request body and then validates the populated payload.
// Malformed or invalid input is answered with 422 and a generic message;
// field detail stays in the logs. The boolean reports whether the handler
// may proceed: when false the response has already been written and the
// handler must return err without touching the core.
func (a *AuthController) bind(c *fiber.Ctx, payload interface{ Validate() error }) (bool, error) {
	if err := c.BodyParser(payload); err != nil {
		a.Logger.Warn("failed to parse request body", "path", c.Path(), "error", err)
		return false, c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Warn("request validation failed", "path", c.Path(), "error", err)
		return false, c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if a.Debug {
		fmt.Println("======= AUTH REQUEST ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("===========================")
	}

	return true, nil
}

// renderError maps a core failure to its HTTP answer. Business-rule errors
// carry their own status code; anything else is logged with full context and
// collapsed into a generic 500 so internals never leak.
func (a *AuthController) renderError(c *fiber.Ctx, op string, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "unexpected error").
			WithCode(goerrors.CodeInternal)
	}

	if richErr.Category == goerrors.CategoryInternal || richErr.Category == goerrors.CategoryOperation {
		a.Logger.Error(op, "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("%s.", capitalizeFirst(op)),
		})
	}

	status := richErr.Code
	if status == 0 {
		status = fiber.StatusBadRequest
	}

	return c.Status(status).JSON(fiber.Map{"error": richErr.Message})
}

func capitalizeFirst(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

package registration

import (
	"fmt"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RegisterRoutes mounts the registration endpoint on the given router.
func RegisterRoutes[T any](app router.Router[T], opts ...RegistrationControllerOption) {
	controller := NewRegistrationController(opts...)

	app.Post(controller.Routes.Register, controller.RegistrationCreate).
		SetName("register.post")
}

type RegistrationControllerRoutes struct {
	Register string
}

// RegistrationController exposes the provisioning flow over HTTP. It
// translates handler outcomes into the JSON error vocabulary; internal
// failures stay opaque to the caller.
type RegistrationController struct {
	Debug   bool
	Logger  Logger
	Handler *RegisterUserHandler
	Routes  *RegistrationControllerRoutes
}

type RegistrationControllerOption func(*RegistrationController) *RegistrationController

// WithRegisterHandler wires the provisioning handler.
func WithRegisterHandler(handler *RegisterUserHandler) RegistrationControllerOption {
	return func(c *RegistrationController) *RegistrationController {
		c.Handler = handler
		return c
	}
}

// WithControllerLogger replaces the default stdout logger.
func WithControllerLogger(logger Logger) RegistrationControllerOption {
	return func(c *RegistrationController) *RegistrationController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// WithControllerDebug dumps payloads to stdout.
func WithControllerDebug(debug bool) RegistrationControllerOption {
	return func(c *RegistrationController) *RegistrationController {
		c.Debug = debug
		return c
	}
}

func NewRegistrationController(opts ...RegistrationControllerOption) *RegistrationController {
	c := &RegistrationController{
		Logger: defLogger{},
		Routes: &RegistrationControllerRoutes{
			Register: "/register",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Handler == nil {
		panic("Missing RegisterUserHandler in registration controller...")
	}

	return c
}

// RegistrationCreatePayload is the request body for the register
// endpoint.
type RegistrationCreatePayload struct {
	FirstName string `form:"first_name" json:"first_name"`
	LastName  string `form:"last_name" json:"last_name"`
	Email     string `form:"email" json:"email"`
	Password  string `form:"password" json:"password"`
}

func (a *RegistrationController) RegistrationCreate(ctx router.Context) error {
	payload := new(RegistrationCreatePayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register user parse payload: ", "error", err)
		return ctx.JSON(http.StatusBadRequest, map[string]any{
			"error":      "failed to parse request body",
			"error_code": TextCodeValidationFailed,
		})
	}

	if a.Debug {
		fmt.Println("======= REGISTER ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=======================")
	}

	req := RegisterUserMessage{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Password:  payload.Password,
	}

	result, err := a.Handler.Execute(ctx.Context(), req)
	if err != nil {
		return a.renderError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]any{
		"user_id":         result.UserID,
		"organization_id": result.OrganizationID,
	})
}

// renderError maps rich errors onto status codes and text codes. Any
// error without a code is treated as internal and reported without
// detail.
func (a *RegistrationController) renderError(ctx router.Context, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		a.Logger.Error("register user unexpected error: ", "error", err)
		return ctx.JSON(http.StatusInternalServerError, map[string]any{
			"error":      "internal error",
			"error_code": TextCodeInternal,
		})
	}

	code := richErr.Code
	if code == 0 {
		code = http.StatusInternalServerError
	}

	body := map[string]any{
		"error":      richErr.Message,
		"error_code": richErr.TextCode,
	}

	if code >= http.StatusInternalServerError {
		a.Logger.Error("register user error: ", "error", err)
		body["error"] = "internal error"
		body["error_code"] = TextCodeInternal
	} else if minimum, ok := richErr.Metadata[MetaPasswordMinimumLength]; ok {
		body[MetaPasswordMinimumLength] = minimum
	}

	return ctx.JSON(code, body)
}

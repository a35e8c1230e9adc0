package router

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"shopcart/internal/auth"
	"shopcart/internal/config"
	apperrors "shopcart/internal/errors"
	"shopcart/internal/handler"
	"shopcart/internal/repository"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	userRepo repository.UserRepository,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.Secure())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// Secured routes: bearer token verified by the JWT service, then the
	// user resolved from the store on every request.
	secured := api.Group("",
		echojwt.WithConfig(echojwt.Config{
			ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
				return jwtService.ValidateToken(tokenString)
			},
			ErrorHandler: func(c echo.Context, err error) error {
				// expired vs malformed vs bad signature matters only in logs
				c.Logger().Warnf("token rejected: %v", err)
				httpErr := apperrors.MapErrorToHTTP(apperrors.ErrTokenInvalid)
				return echo.NewHTTPError(http.StatusUnauthorized, httpErr.ToErrorResponse())
			},
		}),
		handler.CurrentUser(userRepo),
	)

	secured.GET("/protected", authHandler.Protected)
	secured.GET("/me", userHandler.Me)
	secured.GET("/users", userHandler.ListUsers)
	secured.GET("/users/:id", userHandler.GetUser)
}

// CustomValidator wraps validator for Echo and turns tag failures into
// per-field error messages.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}

	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return echo.NewHTTPError(http.StatusBadRequest, echo.Map{
		"error":  "validation failed",
		"fields": fields,
	})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Invalid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be less than %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

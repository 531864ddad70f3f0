// Package restapi implements the HTTP surface: potion catalog CRUD,
// registration/login with a signed session cookie, and read-only
// aggregation endpoints over the catalog.
package restapi

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/potionworks/potiond/config"
	"github.com/potionworks/potiond/internal/repository"
)

type API struct {
	cfg     *config.AppConfig
	potions repository.PotionRepository
	users   repository.UserRepository
}

func New(cfg *config.AppConfig, potions repository.PotionRepository, users repository.UserRepository) *API {
	return &API{cfg: cfg, potions: potions, users: users}
}

// Register wires every route onto the engine. Mutating catalog routes are
// wrapped by the session guard; everything else is public.
func (a *API) Register(e *echo.Echo) {
	e.GET("/health", a.health)

	guard := a.sessionGuard()

	e.GET("/potions", a.listPotions)
	e.GET("/potions/names", a.listPotionNames)
	e.GET("/potions/vendor/:vendor_id", a.listPotionsByVendor)
	e.GET("/potions/price-range", a.listPotionsByPriceRange)
	e.GET("/potions/:id", a.getPotion)
	e.POST("/potions", a.createPotion, guard)
	e.POST("/potions/:id", a.updatePotion, guard)
	e.DELETE("/potions/:id", a.deletePotion, guard)

	e.GET("/analytics/distinct-categories", a.distinctCategories)
	e.GET("/analytics/average-score-by-vendor", a.averageScoreByVendor)
	e.GET("/analytics/average-score-by-category", a.averageScoreByCategory)
	e.GET("/analytics/strength-flavor-ratio", a.strengthFlavorRatio)
	e.GET("/analytics/search", a.searchAnalytics)
	e.GET("/analytics/price-summary", a.priceSummary)

	e.POST("/auth/register", a.register)
	e.POST("/auth/login", a.login)
	e.GET("/auth/logout", a.logout)
}

func (a *API) health(c echo.Context) error {
	return ok(c, map[string]interface{}{"status": "ok"})
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, data)
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	body := map[string]interface{}{"code": code, "message": message}
	if detail != nil {
		body["detail"] = detail
	}
	return c.JSON(status, body)
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// handleValidationError translates validator failures into the ordered
// field-level error list the registration contract promises.
func handleValidationError(c echo.Context, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", "Invalid input", nil)
	}
	fields := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: fieldMessage(fe),
		})
	}
	return c.JSON(http.StatusBadRequest, map[string]interface{}{
		"code":    "VALIDATION_FAILED",
		"message": "Invalid input",
		"errors":  fields,
	})
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + fe.Param() + " characters"
	case "max":
		return field + " must be at most " + fe.Param() + " characters"
	default:
		return field + " is invalid"
	}
}

// parseBound reads an optional numeric query parameter. Non-numeric values
// are treated as absent rather than rejected.
func parseBound(c echo.Context, name string) *float64 {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil
	}
	return &f
}

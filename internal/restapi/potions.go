package restapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/potionworks/potiond/internal/domain"
)

func (a *API) listPotions(c echo.Context) error {
	rows, err := a.potions.List(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query potions", nil)
	}
	return ok(c, rows)
}

func (a *API) listPotionNames(c echo.Context) error {
	rows, err := a.potions.ListNames(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query potion names", nil)
	}
	return ok(c, rows)
}

func (a *API) listPotionsByVendor(c echo.Context) error {
	rows, err := a.potions.ListByVendor(c.Request().Context(), c.Param("vendor_id"))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query potions", nil)
	}
	return ok(c, rows)
}

func (a *API) listPotionsByPriceRange(c echo.Context) error {
	min := parseBound(c, "min")
	max := parseBound(c, "max")
	rows, err := a.potions.ListByPriceRange(c.Request().Context(), min, max)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query potions", nil)
	}
	return ok(c, rows)
}

func (a *API) getPotion(c echo.Context) error {
	p, err := a.potions.GetByID(c.Request().Context(), c.Param("id"))
	if errors.Is(err, domain.ErrNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Potion not found", nil)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query potion", nil)
	}
	return ok(c, p)
}

func (a *API) createPotion(c echo.Context) error {
	var p domain.Potion
	if err := c.Bind(&p); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", "Unable to parse potion payload", nil)
	}

	if err := a.potions.Create(c.Request().Context(), &p); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create potion", nil)
	}

	_, user := sessionUser(c)
	zap.L().Info("potion created", zap.String("id", p.ID.Hex()), zap.String("user", user))
	return created(c, p)
}

func (a *API) updatePotion(c echo.Context) error {
	fields := map[string]interface{}{}
	if err := (&echo.DefaultBinder{}).BindBody(c, &fields); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", "Unable to parse potion payload", nil)
	}

	p, err := a.potions.Update(c.Request().Context(), c.Param("id"), fields)
	if errors.Is(err, domain.ErrNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Potion not found", nil)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update potion", nil)
	}
	return ok(c, p)
}

func (a *API) deletePotion(c echo.Context) error {
	id := c.Param("id")
	err := a.potions.Delete(c.Request().Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Potion not found", nil)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete potion", nil)
	}

	_, user := sessionUser(c)
	zap.L().Info("potion deleted", zap.String("id", id), zap.String("user", user))
	return ok(c, map[string]interface{}{"id": id, "message": "potion deleted"})
}

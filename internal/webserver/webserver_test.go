package webserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/potionworks/potiond/config"
)

func TestUnknownRouteRendersErrorShape(t *testing.T) {
	ws := New(config.DefaultConfig())

	req := httptest.NewRequest(http.MethodGet, "/no-such-route", nil)
	rec := httptest.NewRecorder()
	ws.Echo().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"NOT_FOUND"`)
	assert.Contains(t, rec.Body.String(), `"message"`)
}

func TestDeserializeRejectsInvalidJSON(t *testing.T) {
	ws := New(config.DefaultConfig())
	ws.Echo().POST("/echo", func(c echo.Context) error {
		var body map[string]interface{}
		if err := c.Bind(&body); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, body)
	})

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ws.Echo().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidatorReportsTaggedFields(t *testing.T) {
	v := NewValidator()

	type payload struct {
		Name string `validate:"required,min=3"`
	}
	assert.Error(t, v.Validate(&payload{Name: "ab"}))
	assert.NoError(t, v.Validate(&payload{Name: "abc"}))
}

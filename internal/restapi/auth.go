package restapi

import (
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/potionworks/potiond/internal/domain"
)

const (
	sessionTTL        = 24 * time.Hour
	sessionContextKey = "session"
)

type registerPayload struct {
	Name     string `json:"name" validate:"required,min=3,max=30"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginPayload struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// sanitizeInput trims and HTML-escapes caller-supplied credentials before
// validation and storage.
func sanitizeInput(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}

func (a *API) register(c echo.Context) error {
	var payload registerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse registration payload", nil)
	}

	payload.Name = sanitizeInput(payload.Name)
	payload.Password = sanitizeInput(payload.Password)
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	user := domain.User{Name: payload.Name}
	if err := user.SetPassword(payload.Password, a.cfg.Web.BcryptCost); err != nil {
		zap.L().Error("password derivation failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "SYSTEM_ERROR", "Registration failed", nil)
	}

	if err := a.users.Create(c.Request().Context(), &user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			// Deliberately generic: a duplicate name must not be
			// distinguishable from any other system failure.
			return fail(c, http.StatusInternalServerError, "SYSTEM_ERROR", "Registration failed", nil)
		}
		return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", err.Error(), nil)
	}

	return created(c, map[string]interface{}{"message": "registration successful"})
}

func (a *API) login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login payload", nil)
	}

	name := sanitizeInput(payload.Name)
	password := sanitizeInput(payload.Password)

	user, err := a.users.GetByName(c.Request().Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return a.invalidCredentials(c)
		}
		zap.L().Error("user lookup failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query user", nil)
	}
	if !user.CheckPassword(password) {
		return a.invalidCredentials(c)
	}

	token, expires, err := a.issueSessionToken(user)
	if err != nil {
		zap.L().Error("token signing failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "SYSTEM_ERROR", "Login failed", nil)
	}

	c.SetCookie(&http.Cookie{
		Name:     a.cfg.Web.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	return ok(c, map[string]interface{}{"message": "login successful"})
}

// invalidCredentials is the single response for every login failure cause, so
// an unknown name and a wrong password are indistinguishable.
func (a *API) invalidCredentials(c echo.Context) error {
	return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid name or password", nil)
}

func (a *API) logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     a.cfg.Web.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	return ok(c, map[string]interface{}{"message": "logout successful"})
}

// issueSessionToken signs a session token carrying the user's identity with a
// fixed validity window.
func (a *API) issueSessionToken(user *domain.User) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(sessionTTL)
	claims := jwt.MapClaims{
		"uid":  user.ID.Hex(),
		"name": user.Name,
		"iat":  now.Unix(),
		"exp":  expires.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.cfg.Web.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expires, nil
}

// sessionGuard rejects any request whose session cookie is missing, malformed,
// expired or carries a bad signature, before the handler runs. Verified claims
// land in the context; no per-resource ownership check exists beyond that.
func (a *API) sessionGuard() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  sessionContextKey,
		SigningKey:  []byte(a.cfg.Web.Secret),
		TokenLookup: "cookie:" + a.cfg.Web.CookieName,
		ErrorHandler: func(c echo.Context, err error) error {
			return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
		},
	})
}

// sessionUser returns the verified identity placed in context by the guard.
func sessionUser(c echo.Context) (id, name string) {
	token, ok := c.Get(sessionContextKey).(*jwt.Token)
	if !ok {
		return "", ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ""
	}
	id, _ = claims["uid"].(string)
	name, _ = claims["name"].(string)
	return id, name
}

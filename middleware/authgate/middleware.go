package authgate

import (
	"errors"
	"net/http"
	"strings"

	"github.com/institutsaintjean/evalhub/services/token"
	"github.com/institutsaintjean/evalhub/services/user"
	"github.com/labstack/echo/v4"
)

const (
	UserKey      = "_auth_user"
	SessionIDKey = "_auth_session_id"
	DeviceKey    = "_auth_device"
)

// ErrorResponse carries the machine-readable failure code plus the hint the
// client uses to pick between a silent refresh and a full re-login.
type ErrorResponse struct {
	Message         string `json:"message"`
	Code            string `json:"code"`
	RequiresRefresh bool   `json:"requiresRefresh,omitempty"`
	RequiresLogin   bool   `json:"requiresLogin,omitempty"`
}

// RequireAuth extracts the bearer access token, verifies it against the token
// service and attaches the resolved user and session id to the request
// context. Missing credentials fail closed.
func RequireAuth(tokens *token.Service, users *user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Message:       "Non autorisé, pas de token",
					Code:          "NO_TOKEN",
					RequiresLogin: true,
				})
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == "" {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Message:       "Non autorisé, pas de token",
					Code:          "NO_TOKEN",
					RequiresLogin: true,
				})
			}

			result, err := tokens.VerifyAccessToken(tokenString)
			if err != nil {
				switch {
				case errors.Is(err, token.ErrTokenExpired):
					return c.JSON(http.StatusUnauthorized, ErrorResponse{
						Message:         "Token expiré",
						Code:            "TOKEN_EXPIRED",
						RequiresRefresh: true,
					})
				case errors.Is(err, token.ErrSessionInvalid):
					return c.JSON(http.StatusUnauthorized, ErrorResponse{
						Message:       "Session invalide",
						Code:          "SESSION_INVALID",
						RequiresLogin: true,
					})
				default:
					return c.JSON(http.StatusUnauthorized, ErrorResponse{
						Message:       "Token invalide",
						Code:          "TOKEN_INVALID",
						RequiresLogin: true,
					})
				}
			}

			u, err := users.FindByID(result.UserID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Message:       "Utilisateur introuvable",
					Code:          "USER_NOT_FOUND",
					RequiresLogin: true,
				})
			}

			c.Set(UserKey, u)
			c.Set(SessionIDKey, result.SessionID)

			return next(c)
		}
	}
}

// RequireAdmin gates a route on the ADMIN role. Must run after RequireAuth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u := GetUser(c)
			if u == nil || !u.IsAdmin() {
				return c.JSON(http.StatusForbidden, ErrorResponse{
					Message: "Accès réservé aux administrateurs",
					Code:    "ADMIN_REQUIRED",
				})
			}
			return next(c)
		}
	}
}

// ExtractDeviceInfo captures the caller's user agent and IP so login and
// refresh can attach a device descriptor to the session.
func ExtractDeviceInfo(parse token.DeviceParser) echo.MiddlewareFunc {
	if parse == nil {
		parse = token.ParseDeviceInfo
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(DeviceKey, parse(c.Request().UserAgent(), c.RealIP()))
			return next(c)
		}
	}
}

func GetUser(c echo.Context) *user.User {
	if u, ok := c.Get(UserKey).(*user.User); ok {
		return u
	}
	return nil
}

func GetSessionID(c echo.Context) uint {
	if id, ok := c.Get(SessionIDKey).(uint); ok {
		return id
	}
	return 0
}

func GetDeviceInfo(c echo.Context) token.DeviceInfo {
	if d, ok := c.Get(DeviceKey).(token.DeviceInfo); ok {
		return d
	}
	return token.DeviceInfo{}
}

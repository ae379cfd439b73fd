package handlers

import (
	"errors"
	"net/http"

	"github.com/institutsaintjean/evalhub/middleware/authgate"
	"github.com/institutsaintjean/evalhub/services/auth"
	"github.com/institutsaintjean/evalhub/services/logging"
	"github.com/institutsaintjean/evalhub/services/token"
	"github.com/institutsaintjean/evalhub/services/user"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthHandler struct {
	auth   *auth.Service
	tokens *token.Service
	logger *logging.Service
}

func NewAuthHandler(authSvc *auth.Service, tokens *token.Service, logger *logging.Service) *AuthHandler {
	return &AuthHandler{
		auth:   authSvc,
		tokens: tokens,
		logger: logger,
	}
}

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
	// Accepted for wire compatibility; session lifetime is fixed server-side.
	RememberMe bool `json:"rememberMe"`
}

type tokenResponse struct {
	User         user.Profile `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresIn    int          `json:"expiresIn"`
	SessionID    uint         `json:"sessionId"`
}

// Login authenticates by email or matricule and opens a session for the
// calling device.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.auth.Login(req.Identifier, req.Password, authgate.GetDeviceInfo(c))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, CodedResponse{
				Message: "Identifiants invalides",
				Code:    "INVALID_CREDENTIALS",
			})
		}
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{
		User:         result.User,
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		ExpiresIn:    result.Tokens.ExpiresIn,
		SessionID:    result.Tokens.SessionID,
	})
}

type registerRequest struct {
	Matricule string `json:"matricule"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	ClassID   *uint  `json:"classId"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.auth.Register(auth.RegisterInput{
		Matricule: req.Matricule,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		ClassID:   req.ClassID,
	}, authgate.GetDeviceInfo(c))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailDomainNotAllowed):
			return c.JSON(http.StatusBadRequest, CodedResponse{
				Message: "Une adresse email institutionnelle est requise",
				Code:    "EMAIL_DOMAIN_NOT_ALLOWED",
			})
		case errors.Is(err, auth.ErrUserExists):
			return c.JSON(http.StatusConflict, CodedResponse{
				Message: "Email ou matricule déjà utilisé",
				Code:    "USER_EXISTS",
			})
		case errors.Is(err, auth.ErrPasswordHashingFailed):
			return err
		default:
			// Password policy violations carry the human-readable reason.
			return c.JSON(http.StatusBadRequest, CodedResponse{
				Message: err.Error(),
				Code:    "INVALID_PASSWORD",
			})
		}
	}

	return c.JSON(http.StatusCreated, tokenResponse{
		User:         result.User,
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		ExpiresIn:    result.Tokens.ExpiresIn,
		SessionID:    result.Tokens.SessionID,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// Refresh exchanges a refresh token for a new access token. The refresh token
// stays valid; only the access token is reissued.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.tokens.RefreshAccessToken(req.RefreshToken, authgate.GetDeviceInfo(c))
	if err != nil {
		switch {
		case errors.Is(err, token.ErrInvalidRefreshToken):
			return c.JSON(http.StatusUnauthorized, authgate.ErrorResponse{
				Message:       "Token de rafraîchissement invalide",
				Code:          "REFRESH_TOKEN_INVALID",
				RequiresLogin: true,
			})
		case errors.Is(err, token.ErrUserNotFound):
			return c.JSON(http.StatusUnauthorized, authgate.ErrorResponse{
				Message:       "Utilisateur introuvable",
				Code:          "USER_NOT_FOUND",
				RequiresLogin: true,
			})
		default:
			return err
		}
	}

	return c.JSON(http.StatusOK, result)
}

type logoutRequest struct {
	LogoutAll bool `json:"logoutAll"`
}

type logoutResponse struct {
	Message         string `json:"message"`
	RevokedSessions *int64 `json:"revokedSessions,omitempty"`
}

// Logout revokes the calling session, or every session of the user when the
// body asks for it.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req logoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	u := authgate.GetUser(c)
	sessionID := authgate.GetSessionID(c)

	if req.LogoutAll {
		count, err := h.tokens.RevokeAllUserSessions(u.ID, 0, token.RevokedByUser, "Déconnexion de tous les appareils")
		if err != nil {
			return err
		}
		if h.logger != nil {
			h.logger.Info("user logged out everywhere",
				zap.Uint("user_id", u.ID),
				zap.Int64("sessions", count))
		}
		return c.JSON(http.StatusOK, logoutResponse{
			Message:         "Déconnexion réussie sur tous les appareils",
			RevokedSessions: &count,
		})
	}

	if _, err := h.tokens.RevokeSession(sessionID, token.RevokedByUser, "Déconnexion"); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, logoutResponse{Message: "Déconnexion réussie"})
}

func (h *AuthHandler) Me(c echo.Context) error {
	u := authgate.GetUser(c)
	return c.JSON(http.StatusOK, u.Profile())
}

type sessionsResponse struct {
	Sessions []token.SessionSummary `json:"sessions"`
	Total    int                    `json:"total"`
}

// Sessions lists the caller's active sessions, flagging the one serving this
// request.
func (h *AuthHandler) Sessions(c echo.Context) error {
	u := authgate.GetUser(c)
	current := authgate.GetSessionID(c)

	sessions, err := h.tokens.GetUserSessions(u.ID)
	if err != nil {
		return err
	}
	for i := range sessions {
		sessions[i].IsCurrent = sessions[i].ID == current
	}

	return c.JSON(http.StatusOK, sessionsResponse{Sessions: sessions, Total: len(sessions)})
}

// RevokeSession terminates one of the caller's own sessions. Sessions of
// other users are indistinguishable from missing ones.
func (h *AuthHandler) RevokeSession(c echo.Context) error {
	sessionID, err := paramUint(c, "id")
	if err != nil {
		return err
	}

	u := authgate.GetUser(c)
	if _, err := h.tokens.GetSessionForUser(sessionID, u.ID); err != nil {
		if errors.Is(err, token.ErrSessionInvalid) {
			return c.JSON(http.StatusNotFound, CodedResponse{
				Message: "Session introuvable",
				Code:    "SESSION_NOT_FOUND",
			})
		}
		return err
	}

	if _, err := h.tokens.RevokeSession(sessionID, token.RevokedByUser, "Révoquée par l'utilisateur"); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Session révoquée"})
}

type createAdminRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

func (h *AuthHandler) CreateAdmin(c echo.Context) error {
	var req createAdminRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	u, err := h.auth.CreateAdmin(req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailDomainNotAllowed):
			return c.JSON(http.StatusBadRequest, CodedResponse{
				Message: "Une adresse email institutionnelle est requise",
				Code:    "EMAIL_DOMAIN_NOT_ALLOWED",
			})
		case errors.Is(err, auth.ErrUserExists):
			return c.JSON(http.StatusConflict, CodedResponse{
				Message: "Email déjà utilisé",
				Code:    "USER_EXISTS",
			})
		default:
			return c.JSON(http.StatusBadRequest, CodedResponse{Message: err.Error()})
		}
	}

	return c.JSON(http.StatusCreated, u.Profile())
}

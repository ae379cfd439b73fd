package token

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/institutsaintjean/evalhub/config"
	"github.com/institutsaintjean/evalhub/services/logging"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrInvalidRefreshToken   = errors.New("invalid or expired refresh token")
	ErrSessionInvalid        = errors.New("session invalid or expired")
	ErrUserNotFound          = errors.New("user not found")
	ErrTokenGenerationFailed = errors.New("failed to generate secure token")
)

// UserResolver reports whether a user id still resolves to an identity.
// The user service is wired in after construction to avoid a dependency cycle.
type UserResolver interface {
	UserExists(userID uint) (bool, error)
}

type Service struct {
	db          *gorm.DB
	config      *config.Config
	signer      Signer
	logger      *logging.Service
	users       UserResolver
	parseDevice DeviceParser

	stopCleanup chan struct{}
}

func NewService(db *gorm.DB, cfg *config.Config, signer Signer, logger *logging.Service) *Service {
	if logger != nil {
		logger.Info("initializing token service",
			zap.Duration("access_expiry", cfg.JWT.AccessExpiry),
			zap.Duration("refresh_expiry", cfg.Session.RefreshExpiry),
			zap.Int("max_sessions_per_user", cfg.Session.MaxPerUser))
	}

	return &Service{
		db:          db,
		config:      cfg,
		signer:      signer,
		logger:      logger,
		parseDevice: ParseDeviceInfo,
		stopCleanup: make(chan struct{}),
	}
}

func (s *Service) SetUserResolver(users UserResolver) {
	s.users = users
}

func (s *Service) SetDeviceParser(parser DeviceParser) {
	if parser != nil {
		s.parseDevice = parser
	}
}

func (s *Service) AccessExpirySeconds() int {
	return int(s.config.JWT.AccessExpiry.Seconds())
}

// GenerateTokenPair mints a new access/refresh token pair and persists the
// backing session. Stale sessions of the user are swept first and the
// least-recently-active ones are evicted to stay under the per-user cap.
func (s *Service) GenerateTokenPair(userID uint, device DeviceInfo) (*TokenPair, error) {
	if err := s.cleanupUserSessions(userID); err != nil && s.logger != nil {
		s.logger.Warn("session sweep before login failed",
			zap.Uint("user_id", userID),
			zap.Error(err))
	}

	accessToken, err := s.signer.Sign(userID, TokenTypeAccess, s.config.JWT.AccessExpiry)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("failed to sign access token", zap.Error(err))
		}
		return nil, ErrTokenGenerationFailed
	}

	refreshToken, err := s.generateSecureToken()
	if err != nil {
		if s.logger != nil {
			s.logger.Error("failed to generate refresh token", zap.Error(err))
		}
		return nil, ErrTokenGenerationFailed
	}

	now := time.Now()
	session := Session{
		UserID:       userID,
		RefreshToken: refreshToken,
		AccessToken:  accessToken,
		UserAgent:    device.UserAgent,
		IPAddress:    device.IPAddress,
		Browser:      device.Browser,
		OS:           device.OS,
		DeviceType:   device.DeviceType,
		IsActive:     true,
		LastActivity: now,
		ExpiresAt:    now.Add(s.config.Session.RefreshExpiry),
	}

	if err := s.db.Create(&session).Error; err != nil {
		if s.logger != nil {
			s.logger.Error("failed to persist session", zap.Error(err))
		}
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("token pair generated",
			zap.Uint("user_id", userID),
			zap.Uint("session_id", session.ID),
			zap.Time("expires_at", session.ExpiresAt))
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.AccessExpirySeconds(),
		SessionID:    session.ID,
	}, nil
}

// RefreshAccessToken exchanges a refresh token for a new access token. The
// refresh token itself is not rotated; the same secret is reused until its
// own expiry or an explicit revoke.
func (s *Service) RefreshAccessToken(refreshToken string, device DeviceInfo) (*RefreshResult, error) {
	var session Session
	err := s.db.Where("refresh_token = ? AND is_active = ? AND expires_at > ?",
		refreshToken, true, time.Now()).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Never-existed, expired and revoked all collapse to the same
			// failure; nothing is leaked to the caller.
			if s.logger != nil {
				s.logger.Warn("refresh failed - no matching active session")
			}
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if s.users != nil {
		exists, err := s.users.UserExists(session.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve user: %w", err)
		}
		if !exists {
			if _, revokeErr := s.RevokeSession(session.ID, RevokedBySystem, "User not found"); revokeErr != nil && s.logger != nil {
				s.logger.Error("failed to revoke orphaned session",
					zap.Uint("session_id", session.ID),
					zap.Error(revokeErr))
			}
			return nil, ErrUserNotFound
		}
	}

	accessToken, err := s.signer.Sign(session.UserID, TokenTypeAccess, s.config.JWT.AccessExpiry)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("failed to sign access token on refresh", zap.Error(err))
		}
		return nil, ErrTokenGenerationFailed
	}

	stored := DeviceInfo{
		UserAgent:  session.UserAgent,
		IPAddress:  session.IPAddress,
		Browser:    session.Browser,
		OS:         session.OS,
		DeviceType: session.DeviceType,
	}
	merged := stored.merge(device)

	session.AccessToken = accessToken
	session.LastActivity = time.Now()
	session.UserAgent = merged.UserAgent
	session.IPAddress = merged.IPAddress
	session.Browser = merged.Browser
	session.OS = merged.OS
	session.DeviceType = merged.DeviceType

	if err := s.db.Save(&session).Error; err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("access token refreshed",
			zap.Uint("user_id", session.UserID),
			zap.Uint("session_id", session.ID))
	}

	return &RefreshResult{
		AccessToken: accessToken,
		ExpiresIn:   s.AccessExpirySeconds(),
		SessionID:   session.ID,
	}, nil
}

// VerifyAccessToken checks the token cryptographically, then requires a
// matching active session. The session match is what gives revocation teeth
// against an otherwise still-valid JWT.
func (s *Service) VerifyAccessToken(tokenString string) (*VerifyResult, error) {
	claims, err := s.signer.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != TokenTypeAccess {
		if s.logger != nil {
			s.logger.Warn("token verification failed - wrong token type",
				zap.String("token_type", claims.TokenType))
		}
		return nil, ErrTokenInvalid
	}

	var session Session
	err = s.db.Where("access_token = ? AND is_active = ? AND expires_at > ?",
		tokenString, true, time.Now()).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if s.logger != nil {
				s.logger.Warn("token verification failed - session invalid",
					zap.Uint("user_id", claims.UserID))
			}
			return nil, ErrSessionInvalid
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Best-effort activity touch; a lost write here is a benign race on a
	// monotonically increasing timestamp.
	if err := s.db.Model(&Session{}).
		Where("id = ?", session.ID).
		Update("last_activity", time.Now()).Error; err != nil && s.logger != nil {
		s.logger.Warn("failed to touch session activity",
			zap.Uint("session_id", session.ID),
			zap.Error(err))
	}

	return &VerifyResult{
		UserID:    claims.UserID,
		SessionID: session.ID,
		Claims:    claims,
	}, nil
}

// RevokeSession marks a session inactive. Missing or already-inactive
// sessions report false without an error.
func (s *Service) RevokeSession(sessionID uint, revokedBy Revoker, reason string) (bool, error) {
	var session Session
	err := s.db.First(&session, sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("database error: %w", err)
	}

	if !session.IsActive {
		return false, nil
	}

	now := time.Now()
	session.IsActive = false
	session.RevokedAt = &now
	session.RevokedBy = revokedBy
	session.RevokedReason = reason

	if err := s.db.Save(&session).Error; err != nil {
		return false, fmt.Errorf("failed to revoke session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("session revoked",
			zap.Uint("session_id", sessionID),
			zap.String("revoked_by", string(revokedBy)),
			zap.String("reason", reason))
	}

	return true, nil
}

// RevokeAllUserSessions marks every active session of a user inactive,
// optionally sparing one (e.g. the session performing a "log out everywhere
// else"). Returns the number of sessions affected.
func (s *Service) RevokeAllUserSessions(userID uint, excludeSessionID uint, revokedBy Revoker, reason string) (int64, error) {
	query := s.db.Model(&Session{}).
		Where("user_id = ? AND is_active = ?", userID, true)

	if excludeSessionID != 0 {
		query = query.Where("id != ?", excludeSessionID)
	}

	result := query.Updates(map[string]any{
		"is_active":      false,
		"revoked_at":     time.Now(),
		"revoked_by":     revokedBy,
		"revoked_reason": reason,
	})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to revoke user sessions: %w", result.Error)
	}

	if s.logger != nil {
		s.logger.Info("user sessions revoked",
			zap.Uint("user_id", userID),
			zap.Int64("count", result.RowsAffected))
	}

	return result.RowsAffected, nil
}

// GetUserSessions lists the user's usable sessions, most recently active
// first. Token secrets are never part of the projection.
func (s *Service) GetUserSessions(userID uint) ([]SessionSummary, error) {
	var sessions []Session
	err := s.db.Where("user_id = ? AND is_active = ? AND expires_at > ?",
		userID, true, time.Now()).
		Order("last_activity DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	summaries := make([]SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		summaries = append(summaries, SessionSummary{
			ID:           session.ID,
			UserAgent:    session.UserAgent,
			IPAddress:    session.IPAddress,
			Browser:      session.Browser,
			OS:           session.OS,
			DeviceType:   session.DeviceType,
			LastActivity: session.LastActivity,
			CreatedAt:    session.CreatedAt,
		})
	}

	return summaries, nil
}

// GetSessionForUser fetches one active session owned by the given user, for
// ownership checks before a targeted revoke.
func (s *Service) GetSessionForUser(sessionID, userID uint) (*Session, error) {
	var session Session
	err := s.db.Where("id = ? AND user_id = ? AND is_active = ?",
		sessionID, userID, true).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &session, nil
}

// cleanupUserSessions marks the user's expired sessions inactive, then
// revokes the least-recently-active ones so a new login stays under the cap.
func (s *Service) cleanupUserSessions(userID uint) error {
	now := time.Now()

	err := s.db.Model(&Session{}).
		Where("user_id = ? AND is_active = ? AND expires_at <= ?", userID, true, now).
		Updates(map[string]any{
			"is_active":      false,
			"revoked_at":     now,
			"revoked_by":     RevokedBySystem,
			"revoked_reason": "Expired",
		}).Error
	if err != nil {
		return fmt.Errorf("failed to sweep expired sessions: %w", err)
	}

	var active []Session
	err = s.db.Where("user_id = ? AND is_active = ? AND expires_at > ?", userID, true, now).
		Order("last_activity DESC").
		Find(&active).Error
	if err != nil {
		return fmt.Errorf("failed to list active sessions: %w", err)
	}

	if len(active) < s.config.Session.MaxPerUser {
		return nil
	}

	// Keep the cap-1 most recent; the new session about to be created fills
	// the last slot.
	for _, session := range active[s.config.Session.MaxPerUser-1:] {
		if _, err := s.RevokeSession(session.ID, RevokedBySystem, "Session limit exceeded"); err != nil {
			return err
		}
	}

	return nil
}

// PerformPeriodicCleanup is best-effort housekeeping: long-inactive sessions
// are revoked and long-revoked ones are physically deleted. Failures are
// logged and swallowed; this must never affect request-serving paths.
func (s *Service) PerformPeriodicCleanup() {
	now := time.Now()

	inactiveCutoff := now.Add(-s.config.Session.InactivityThreshold)
	result := s.db.Model(&Session{}).
		Where("is_active = ? AND last_activity < ?", true, inactiveCutoff).
		Updates(map[string]any{
			"is_active":      false,
			"revoked_at":     now,
			"revoked_by":     RevokedBySystem,
			"revoked_reason": "Inactivity timeout",
		})
	if result.Error != nil {
		if s.logger != nil {
			s.logger.Error("session inactivity sweep failed", zap.Error(result.Error))
		}
	} else if result.RowsAffected > 0 && s.logger != nil {
		s.logger.Info("inactive sessions revoked", zap.Int64("count", result.RowsAffected))
	}

	purgeCutoff := now.Add(-s.config.Session.PurgeThreshold)
	purge := s.db.Where("is_active = ? AND revoked_at < ?", false, purgeCutoff).
		Delete(&Session{})
	if purge.Error != nil {
		if s.logger != nil {
			s.logger.Error("session purge failed", zap.Error(purge.Error))
		}
	} else if purge.RowsAffected > 0 && s.logger != nil {
		s.logger.Info("old revoked sessions deleted", zap.Int64("count", purge.RowsAffected))
	}
}

func (s *Service) StartCleanupWorker() {
	go func() {
		ticker := time.NewTicker(s.config.Session.CleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.PerformPeriodicCleanup()
			case <-s.stopCleanup:
				return
			}
		}
	}()

	if s.logger != nil {
		s.logger.Info("started session cleanup worker",
			zap.Duration("interval", s.config.Session.CleanupInterval))
	}
}

func (s *Service) StopCleanupWorker() {
	close(s.stopCleanup)
}

func (s *Service) generateSecureToken() (string, error) {
	tokenBytes := make([]byte, s.config.Session.RefreshTokenLength)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(tokenBytes), nil
}

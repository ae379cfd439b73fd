package token

import (
	"time"
)

// Revoker identifies who terminated a session.
type Revoker string

const (
	RevokedByUser     Revoker = "user"
	RevokedByAdmin    Revoker = "admin"
	RevokedBySystem   Revoker = "system"
	RevokedBySecurity Revoker = "security"
)

// Session is one authenticated device/browser instance. A session is usable
// iff IsActive and ExpiresAt is in the future; revocation is terminal.
type Session struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	UserID       uint   `json:"user_id" gorm:"not null;index:idx_sessions_user_active,priority:1"`
	RefreshToken string `json:"-" gorm:"uniqueIndex;size:255;not null"`
	AccessToken  string `json:"-" gorm:"size:1000"`

	UserAgent  string `json:"user_agent" gorm:"size:500"`
	IPAddress  string `json:"ip_address" gorm:"size:45"`
	Browser    string `json:"browser" gorm:"size:100"`
	OS         string `json:"os" gorm:"size:100"`
	DeviceType string `json:"device_type" gorm:"size:20"`

	IsActive     bool      `json:"is_active" gorm:"index:idx_sessions_user_active,priority:2"`
	LastActivity time.Time `json:"last_activity" gorm:"index"`
	ExpiresAt    time.Time `json:"expires_at" gorm:"not null;index"`

	RevokedAt     *time.Time `json:"revoked_at"`
	RevokedBy     Revoker    `json:"revoked_by" gorm:"size:20"`
	RevokedReason string     `json:"revoked_reason" gorm:"size:255"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Session) TableName() string {
	return "sessions"
}

func (s *Session) Usable(now time.Time) bool {
	return s.IsActive && now.Before(s.ExpiresAt)
}

// DeviceInfo is the parsed descriptor of the client that opened a session.
type DeviceInfo struct {
	UserAgent  string
	IPAddress  string
	Browser    string
	OS         string
	DeviceType string
}

// TokenPair is returned once at login/registration; the refresh token is
// never retrievable again afterwards.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
	SessionID    uint   `json:"sessionId"`
}

type RefreshResult struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"`
	SessionID   uint   `json:"sessionId"`
}

type VerifyResult struct {
	UserID    uint
	SessionID uint
	Claims    *Claims
}

// SessionSummary is the caller-facing projection of a session; token secrets
// are never included.
type SessionSummary struct {
	ID           uint      `json:"id"`
	UserAgent    string    `json:"userAgent"`
	IPAddress    string    `json:"ipAddress"`
	Browser      string    `json:"browser"`
	OS           string    `json:"os"`
	DeviceType   string    `json:"deviceType"`
	LastActivity time.Time `json:"lastActivity"`
	CreatedAt    time.Time `json:"createdAt"`
	IsCurrent    bool      `json:"isCurrent"`
}

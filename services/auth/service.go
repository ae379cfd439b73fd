package auth

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/institutsaintjean/evalhub/config"
	"github.com/institutsaintjean/evalhub/services/logging"
	"github.com/institutsaintjean/evalhub/services/token"
	"github.com/institutsaintjean/evalhub/services/user"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrPasswordHashingFailed = errors.New("failed to hash password")
	ErrEmailDomainNotAllowed = errors.New("institutional email required")
	ErrUserExists            = errors.New("user already exists")
)

type Service struct {
	config *config.Config
	users  *user.Service
	tokens *token.Service
	logger *logging.Service
}

func NewService(cfg *config.Config, users *user.Service, tokens *token.Service, logger *logging.Service) *Service {
	if cfg.Auth.BcryptCost < bcrypt.MinCost || cfg.Auth.BcryptCost > bcrypt.MaxCost {
		cfg.Auth.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		config: cfg,
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

type LoginResult struct {
	User   user.Profile     `json:"user"`
	Tokens *token.TokenPair `json:"-"`
}

// Login authenticates by email or matricule. Unknown identifier and wrong
// password are indistinguishable to the caller.
func (s *Service) Login(identifier, password string, device token.DeviceInfo) (*LoginResult, error) {
	u, err := s.users.FindByIdentifier(identifier)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			if s.logger != nil {
				s.logger.Warn("login failed - unknown identifier")
			}
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.VerifyPassword(u.Password, password); err != nil {
		if s.logger != nil {
			s.logger.Warn("login failed - wrong password", zap.Uint("user_id", u.ID))
		}
		return nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.GenerateTokenPair(u.ID, device)
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("user logged in",
			zap.Uint("user_id", u.ID),
			zap.Uint("session_id", pair.SessionID))
	}

	return &LoginResult{User: u.Profile(), Tokens: pair}, nil
}

type RegisterInput struct {
	Matricule string
	Email     string
	Password  string
	FirstName string
	LastName  string
	ClassID   *uint
}

// Register creates a student account and opens its first session.
func (s *Service) Register(input RegisterInput, device token.DeviceInfo) (*LoginResult, error) {
	if err := s.CheckEmailDomain(input.Email); err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		Email:     input.Email,
		Password:  hash,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      user.RoleStudent,
		ClassID:   input.ClassID,
	}
	if input.Matricule != "" {
		u.Matricule = &input.Matricule
	}

	if err := s.users.Create(u); err != nil {
		if errors.Is(err, user.ErrUserExists) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	pair, err := s.tokens.GenerateTokenPair(u.ID, device)
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: u.Profile(), Tokens: pair}, nil
}

// CreateAdmin provisions an administrator account. No session is opened; the
// admin logs in afterwards.
func (s *Service) CreateAdmin(email, password, firstName, lastName string) (*user.User, error) {
	if err := s.CheckEmailDomain(email); err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		Email:     email,
		Password:  hash,
		FirstName: firstName,
		LastName:  lastName,
		Role:      user.RoleAdmin,
	}

	if err := s.users.Create(u); err != nil {
		if errors.Is(err, user.ErrUserExists) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	return u, nil
}

type StudentInput struct {
	Matricule string
	Email     string
	FirstName string
	LastName  string
	ClassID   *uint
	Password  string
}

// CreateStudent provisions a student account from the admin console. An empty
// password falls back to the configured default. No session is opened.
func (s *Service) CreateStudent(input StudentInput) (*user.User, error) {
	if err := s.CheckEmailDomain(input.Email); err != nil {
		return nil, err
	}

	password := input.Password
	if password == "" {
		password = s.config.Auth.DefaultStudentPassword
	}
	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		Email:     input.Email,
		Password:  hash,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      user.RoleStudent,
		ClassID:   input.ClassID,
	}
	if input.Matricule != "" {
		u.Matricule = &input.Matricule
	}

	if err := s.users.Create(u); err != nil {
		if errors.Is(err, user.ErrUserExists) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("student created by admin", zap.Uint("user_id", u.ID))
	}
	return u, nil
}

// ResetStudentPassword replaces a student's password, falling back to the
// configured default when none is supplied. The student's sessions are
// revoked so the old credentials stop working everywhere.
func (s *Service) ResetStudentPassword(studentID uint, newPassword string) error {
	u, err := s.users.FindStudent(studentID)
	if err != nil {
		return err
	}

	if newPassword == "" {
		newPassword = s.config.Auth.DefaultStudentPassword
	}
	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}

	u.Password = hash
	if err := s.users.Update(u); err != nil {
		return err
	}

	if _, err := s.tokens.RevokeAllUserSessions(u.ID, 0, token.RevokedByAdmin, "Mot de passe réinitialisé"); err != nil {
		if s.logger != nil {
			s.logger.Warn("failed to revoke sessions after password reset",
				zap.Uint("user_id", u.ID),
				zap.Error(err))
		}
	}

	if s.logger != nil {
		s.logger.Info("student password reset", zap.Uint("user_id", u.ID))
	}
	return nil
}

func (s *Service) CheckEmailDomain(email string) error {
	if s.config.Auth.EmailDomain == "" {
		return nil
	}
	if !strings.HasSuffix(email, "@"+s.config.Auth.EmailDomain) {
		return ErrEmailDomainNotAllowed
	}
	return nil
}

func (s *Service) ValidatePassword(password string) error {
	if len(password) < s.config.Auth.MinLength {
		return fmt.Errorf("password must be at least %d characters", s.config.Auth.MinLength)
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	var missing []string
	if s.config.Auth.RequireUpper && !hasUpper {
		missing = append(missing, "one uppercase letter")
	}
	if s.config.Auth.RequireLower && !hasLower {
		missing = append(missing, "one lowercase letter")
	}
	if s.config.Auth.RequireNumber && !hasNumber {
		missing = append(missing, "one number")
	}
	if s.config.Auth.RequireSpecial && !hasSpecial {
		missing = append(missing, "one special character")
	}

	if len(missing) > 0 {
		return fmt.Errorf("password must contain at least %s", strings.Join(missing, ", "))
	}
	return nil
}

func (s *Service) HashPassword(password string) (string, error) {
	if err := s.ValidatePassword(password); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.Auth.BcryptCost)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("failed to hash password", zap.Error(err))
		}
		return "", ErrPasswordHashingFailed
	}
	return string(hash), nil
}

func (s *Service) VerifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

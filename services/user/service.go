package user

import (
	"errors"
	"fmt"

	"github.com/institutsaintjean/evalhub/services/logging"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("email or matricule already in use")
)

type Service struct {
	db     *gorm.DB
	logger *logging.Service
}

func NewService(db *gorm.DB, logger *logging.Service) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

func (s *Service) FindByID(id uint) (*User, error) {
	var u User
	if err := s.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &u, nil
}

// FindByIdentifier resolves a login identifier, which may be an email or a
// student matricule.
func (s *Service) FindByIdentifier(identifier string) (*User, error) {
	var u User
	err := s.db.Where("email = ? OR matricule = ?", identifier, identifier).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &u, nil
}

// UserExists implements the token service's resolver contract.
func (s *Service) UserExists(userID uint) (bool, error) {
	var count int64
	if err := s.db.Model(&User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("database error: %w", err)
	}
	return count > 0, nil
}

// Create persists a new user. The unique indexes on email and matricule are
// the enforcement point; a conflict maps to ErrUserExists.
func (s *Service) Create(u *User) error {
	if err := s.db.Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("user created",
			zap.Uint("user_id", u.ID),
			zap.String("role", string(u.Role)))
	}
	return nil
}

func (s *Service) Update(u *User) error {
	if err := s.db.Save(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserExists
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (s *Service) Delete(id uint) error {
	result := s.db.Delete(&User{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

type StudentFilter struct {
	ClassID uint
	Search  string
}

// ListStudents returns students ordered by name, optionally filtered by
// class and a free-text search over name, email and matricule.
func (s *Service) ListStudents(filter StudentFilter) ([]User, error) {
	query := s.db.Where("role = ?", RoleStudent)

	if filter.ClassID != 0 {
		query = query.Where("class_id = ?", filter.ClassID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"first_name LIKE ? OR last_name LIKE ? OR email LIKE ? OR matricule LIKE ?",
			pattern, pattern, pattern, pattern)
	}

	var students []User
	if err := query.Order("last_name, first_name").Find(&students).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return students, nil
}

func (s *Service) FindStudent(id uint) (*User, error) {
	u, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	if u.Role != RoleStudent {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *Service) CountStudents() (int64, error) {
	var count int64
	if err := s.db.Model(&User{}).Where("role = ?", RoleStudent).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("database error: %w", err)
	}
	return count, nil
}

func (s *Service) CountStudentsInClass(classID uint) (int64, error) {
	var count int64
	err := s.db.Model(&User{}).
		Where("role = ? AND class_id = ?", RoleStudent, classID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("database error: %w", err)
	}
	return count, nil
}

// StudentsInClass is used for quiz-publication notifications.
func (s *Service) StudentsInClass(classID uint) ([]User, error) {
	var students []User
	err := s.db.Where("role = ? AND class_id = ?", RoleStudent, classID).
		Find(&students).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return students, nil
}

// AddFCMToken registers a push token for one of the user's devices,
// deduplicating repeats.
func (s *Service) AddFCMToken(userID uint, fcmToken string) error {
	u, err := s.FindByID(userID)
	if err != nil {
		return err
	}

	for _, existing := range u.FCMTokens {
		if existing == fcmToken {
			return nil
		}
	}

	u.FCMTokens = append(u.FCMTokens, fcmToken)
	return s.Update(u)
}

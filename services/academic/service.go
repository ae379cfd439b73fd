package academic

import (
	"errors"
	"fmt"

	"github.com/institutsaintjean/evalhub/services/logging"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("academic record not found")

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

func (s *Service) CreateYear(year *AcademicYear) error {
	if year.IsCurrent {
		if err := s.unsetCurrentYear(); err != nil {
			return err
		}
	}
	if err := s.db.Create(year).Error; err != nil {
		return fmt.Errorf("failed to create academic year: %w", err)
	}
	return nil
}

func (s *Service) ListYears() ([]AcademicYear, error) {
	var years []AcademicYear
	if err := s.db.Order("label DESC").Find(&years).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return years, nil
}

// SetCurrentYear marks one year current and unsets all others.
func (s *Service) SetCurrentYear(id uint) (*AcademicYear, error) {
	var year AcademicYear
	if err := s.db.First(&year, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.unsetCurrentYear(); err != nil {
		return nil, err
	}

	year.IsCurrent = true
	if err := s.db.Save(&year).Error; err != nil {
		return nil, fmt.Errorf("failed to update academic year: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("current academic year changed",
			zap.Uint("year_id", year.ID),
			zap.String("label", year.Label))
	}
	return &year, nil
}

func (s *Service) unsetCurrentYear() error {
	err := s.db.Model(&AcademicYear{}).
		Where("is_current = ?", true).
		Update("is_current", false).Error
	if err != nil {
		return fmt.Errorf("failed to unset current year: %w", err)
	}
	return nil
}

func (s *Service) CreateSemester(semester *Semester) error {
	if err := s.db.Create(semester).Error; err != nil {
		return fmt.Errorf("failed to create semester: %w", err)
	}
	return nil
}

func (s *Service) ListSemesters(yearID uint) ([]Semester, error) {
	query := s.db.Order("number")
	if yearID != 0 {
		query = query.Where("academic_year_id = ?", yearID)
	}
	var semesters []Semester
	if err := query.Find(&semesters).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return semesters, nil
}

func (s *Service) CreateClass(class *Class) error {
	if err := s.db.Create(class).Error; err != nil {
		return fmt.Errorf("failed to create class: %w", err)
	}
	return nil
}

func (s *Service) FindClass(id uint) (*Class, error) {
	var class Class
	if err := s.db.First(&class, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &class, nil
}

func (s *Service) ListClasses(yearID uint) ([]Class, error) {
	query := s.db.Order("code")
	if yearID != 0 {
		query = query.Where("academic_year_id = ?", yearID)
	}
	var classes []Class
	if err := query.Find(&classes).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return classes, nil
}

func (s *Service) UpdateClass(class *Class) error {
	if err := s.db.Save(class).Error; err != nil {
		return fmt.Errorf("failed to update class: %w", err)
	}
	return nil
}

func (s *Service) DeleteClass(id uint) error {
	result := s.db.Delete(&Class{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete class: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) CreateCourse(course *Course) error {
	if err := s.db.Create(course).Error; err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	return nil
}

func (s *Service) FindCourse(id uint) (*Course, error) {
	var course Course
	if err := s.db.First(&course, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &course, nil
}

func (s *Service) ListCourses(classID uint) ([]Course, error) {
	query := s.db.Order("code")
	if classID != 0 {
		query = query.Where("class_id = ?", classID)
	}
	var courses []Course
	if err := query.Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return courses, nil
}

func (s *Service) UpdateCourse(course *Course) error {
	if err := s.db.Save(course).Error; err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	return nil
}

func (s *Service) DeleteCourse(id uint) error {
	result := s.db.Delete(&Course{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete course: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SeedEvaluationTypes inserts the default evaluation types if missing; the
// unique index on code makes it idempotent.
func (s *Service) SeedEvaluationTypes() error {
	defaults := []EvaluationType{
		{Label: "Mi-parcours", Code: "MI_PARCOURS"},
		{Label: "Final", Code: "FINAL"},
	}

	for _, et := range defaults {
		err := s.db.Create(&et).Error
		if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("failed to seed evaluation types: %w", err)
		}
	}
	return nil
}

func (s *Service) ListEvaluationTypes() ([]EvaluationType, error) {
	var types []EvaluationType
	if err := s.db.Order("code").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return types, nil
}

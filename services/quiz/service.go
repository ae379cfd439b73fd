package quiz

import (
	"errors"
	"fmt"

	"github.com/institutsaintjean/evalhub/services/logging"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrAlreadyPublished = errors.New("quiz already published")
)

// PublishNotifier is told when a quiz goes live so students of the class can
// be notified. Best effort; failures never block publication.
type PublishNotifier interface {
	NotifyQuizPublished(quizID uint, title string, classID uint)
}

type Service struct {
	db       *gorm.DB
	logger   *logging.Service
	notifier PublishNotifier
}

func NewService(db *gorm.DB, logger *logging.Service) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

func (s *Service) SetPublishNotifier(notifier PublishNotifier) {
	s.notifier = notifier
}

func (s *Service) CreateQuestion(q *Question) error {
	if err := s.db.Create(q).Error; err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

func (s *Service) CreateQuestions(questions []Question) error {
	if len(questions) == 0 {
		return nil
	}
	if err := s.db.Create(&questions).Error; err != nil {
		return fmt.Errorf("failed to create questions: %w", err)
	}
	return nil
}

func (s *Service) FindQuestion(id uint) (*Question, error) {
	var q Question
	if err := s.db.First(&q, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &q, nil
}

func (s *Service) ListQuestions(courseID uint) ([]Question, error) {
	query := s.db.Order("sort_order, id")
	if courseID != 0 {
		query = query.Where("course_id = ?", courseID)
	}
	var questions []Question
	if err := query.Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return questions, nil
}

func (s *Service) UpdateQuestion(q *Question) error {
	if err := s.db.Save(q).Error; err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	return nil
}

func (s *Service) DeleteQuestion(id uint) error {
	result := s.db.Delete(&Question{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete question: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrQuestionNotFound
	}
	return nil
}

func (s *Service) CreateQuiz(q *Quiz) error {
	if q.Status == "" {
		q.Status = StatusDraft
	}
	if err := s.db.Create(q).Error; err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}
	return nil
}

func (s *Service) FindQuiz(id uint) (*Quiz, error) {
	var q Quiz
	if err := s.db.First(&q, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &q, nil
}

func (s *Service) ListQuizzes(classID uint, status QuizStatus) ([]Quiz, error) {
	query := s.db.Order("created_at DESC")
	if classID != 0 {
		query = query.Where("class_id = ?", classID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var quizzes []Quiz
	if err := query.Find(&quizzes).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return quizzes, nil
}

func (s *Service) UpdateQuiz(q *Quiz) error {
	if err := s.db.Save(q).Error; err != nil {
		return fmt.Errorf("failed to update quiz: %w", err)
	}
	return nil
}

func (s *Service) DeleteQuiz(id uint) error {
	result := s.db.Delete(&Quiz{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete quiz: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrQuizNotFound
	}
	return nil
}

// AttachQuestions snapshots the given questions into the quiz so later edits
// to the question bank never change what the quiz asked.
func (s *Service) AttachQuestions(quizID uint, questionIDs []uint) (*Quiz, error) {
	q, err := s.FindQuiz(quizID)
	if err != nil {
		return nil, err
	}

	var questions []Question
	if err := s.db.Where("id IN ?", questionIDs).Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	for _, question := range questions {
		options := make([]string, 0, len(question.Options))
		for _, opt := range question.Options {
			options = append(options, opt.Text)
		}
		q.Questions = append(q.Questions, QuizQuestion{
			QuestionID:      question.ID,
			TextSnapshot:    question.Text,
			Type:            question.Type,
			OptionsSnapshot: options,
		})
	}

	if err := s.db.Save(q).Error; err != nil {
		return nil, fmt.Errorf("failed to attach questions: %w", err)
	}
	return q, nil
}

// Publish makes a quiz visible to students and fires the class notification.
func (s *Service) Publish(quizID uint) (*Quiz, error) {
	q, err := s.FindQuiz(quizID)
	if err != nil {
		return nil, err
	}

	if q.Status == StatusPublished {
		return nil, ErrAlreadyPublished
	}

	q.Status = StatusPublished
	if err := s.db.Save(q).Error; err != nil {
		return nil, fmt.Errorf("failed to publish quiz: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("quiz published",
			zap.Uint("quiz_id", q.ID),
			zap.Uint("class_id", q.ClassID))
	}

	if s.notifier != nil {
		s.notifier.NotifyQuizPublished(q.ID, q.Title, q.ClassID)
	}

	return q, nil
}

// ListPublishedForClass returns the quizzes a class's students can currently
// answer; callers subtract the ones a student already submitted.
func (s *Service) ListPublishedForClass(classID uint) ([]Quiz, error) {
	var quizzes []Quiz
	err := s.db.Where("class_id = ? AND status = ?", classID, StatusPublished).
		Order("end_date").
		Find(&quizzes).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return quizzes, nil
}

func (s *Service) CountPublished() (int64, error) {
	var count int64
	err := s.db.Model(&Quiz{}).Where("status = ?", StatusPublished).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("database error: %w", err)
	}
	return count, nil
}

func (s *Service) CountQuestions() (int64, error) {
	var count int64
	if err := s.db.Model(&Question{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("database error: %w", err)
	}
	return count, nil
}

func (s *Service) QuizIDsForCourse(courseID uint) ([]uint, error) {
	var ids []uint
	err := s.db.Model(&Quiz{}).Where("course_id = ?", courseID).Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return ids, nil
}

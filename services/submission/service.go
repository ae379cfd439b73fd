package submission

import (
	"errors"
	"fmt"
	"time"

	"github.com/institutsaintjean/evalhub/services/logging"
	"github.com/institutsaintjean/evalhub/services/sentiment"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrDuplicateSubmission = errors.New("quiz already submitted")

// Answers shorter than this are treated as option picks, not free text, and
// are not scored.
const minScoreableLength = 10

// Scorer rates one free-text answer on [-1, 1]. Injectable so the scoring
// backend is swappable and tests can use canned functions.
type Scorer func(text string) float64

type Service struct {
	db     *gorm.DB
	logger *logging.Service
	score  Scorer
}

func NewService(db *gorm.DB, logger *logging.Service) *Service {
	return &Service{
		db:     db,
		logger: logger,
		score:  sentiment.Score,
	}
}

func (s *Service) SetScorer(scorer Scorer) {
	if scorer != nil {
		s.score = scorer
	}
}

// SubmitQuiz records one quiz attempt. The identity-linked log is written
// first: its (student, quiz) unique index is the enforcement point against
// duplicates, closing the check-then-insert race under concurrent retries.
// The anonymous submission follows; if that write fails the log is not
// rolled back, so a crashed attempt still cannot be replayed.
func (s *Service) SubmitQuiz(studentID, quizID uint, answers []Answer) (*Submission, error) {
	log := SubmissionLog{
		StudentID:   studentID,
		QuizID:      quizID,
		SubmittedAt: time.Now(),
	}

	if err := s.db.Create(&log).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if s.logger != nil {
				s.logger.Warn("duplicate submission rejected",
					zap.Uint("student_id", studentID),
					zap.Uint("quiz_id", quizID))
			}
			return nil, ErrDuplicateSubmission
		}
		return nil, fmt.Errorf("failed to record submission log: %w", err)
	}

	var total float64
	var scoreable int
	for _, answer := range answers {
		if len(answer.Value) > minScoreableLength {
			total += s.score(answer.Value)
			scoreable++
		}
	}

	var score float64
	if scoreable > 0 {
		score = total / float64(scoreable)
	}

	sub := Submission{
		QuizID:             quizID,
		Answers:            answers,
		SentimentScore:     score,
		SentimentMagnitude: 1,
	}

	if err := s.db.Create(&sub).Error; err != nil {
		// The log stays: re-running the insert would reopen the duplicate
		// race. A logged-but-unanswered state is the accepted trade-off.
		if s.logger != nil {
			s.logger.Error("submission write failed after log",
				zap.Uint("quiz_id", quizID),
				zap.Error(err))
		}
		return nil, fmt.Errorf("failed to persist submission: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("quiz submitted",
			zap.Uint("quiz_id", quizID),
			zap.Float64("sentiment", score))
	}

	return &sub, nil
}

// AnsweredQuizIDs lists the quizzes a student has already submitted.
func (s *Service) AnsweredQuizIDs(studentID uint) ([]uint, error) {
	var ids []uint
	err := s.db.Model(&SubmissionLog{}).
		Where("student_id = ?", studentID).
		Pluck("quiz_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return ids, nil
}

func (s *Service) ListForQuiz(quizID uint) ([]Submission, error) {
	var subs []Submission
	if err := s.db.Where("quiz_id = ?", quizID).Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return subs, nil
}

func (s *Service) CountAll() (int64, error) {
	var count int64
	if err := s.db.Model(&Submission{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("database error: %w", err)
	}
	return count, nil
}

func (s *Service) CountForQuizzes(quizIDs []uint) (int64, error) {
	if len(quizIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := s.db.Model(&Submission{}).Where("quiz_id IN ?", quizIDs).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("database error: %w", err)
	}
	return count, nil
}

// DistinctSubmitters counts students that answered at least once, optionally
// restricted to a set of quizzes.
func (s *Service) DistinctSubmitters(quizIDs []uint) (int64, error) {
	query := s.db.Model(&SubmissionLog{}).Distinct("student_id")
	if len(quizIDs) > 0 {
		query = query.Where("quiz_id IN ?", quizIDs)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("database error: %w", err)
	}
	return count, nil
}

// ResponsesForQuestion implements the sentiment service's response source:
// the free-text values given to one question across all submissions.
func (s *Service) ResponsesForQuestion(questionID uint) ([]string, error) {
	var subs []Submission
	if err := s.db.Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	var texts []string
	for _, sub := range subs {
		for _, answer := range sub.Answers {
			if answer.QuestionID == questionID && len(answer.Value) > minScoreableLength {
				texts = append(texts, answer.Value)
			}
		}
	}
	return texts, nil
}

package sentiment

import (
	"errors"
	"fmt"
	"time"

	"github.com/institutsaintjean/evalhub/services/logging"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrAnalysisNotFound = errors.New("analysis not found")
	ErrNoResponses      = errors.New("no responses to analyze")
)

const maxExamples = 3

// ResponseSource yields the free-text answers given to a question. The
// submission pipeline provides it; taking an interface keeps this package
// ignorant of the anonymous-submission storage.
type ResponseSource interface {
	ResponsesForQuestion(questionID uint) ([]string, error)
}

type Service struct {
	db        *gorm.DB
	logger    *logging.Service
	responses ResponseSource
}

func NewService(db *gorm.DB, logger *logging.Service) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

func (s *Service) SetResponseSource(source ResponseSource) {
	s.responses = source
}

// RunAnalysis scores all free-text responses to a question and stores the
// polarity breakdown plus extracted themes.
func (s *Service) RunAnalysis(questionID uint, quizID *uint) (*Analysis, error) {
	if s.responses == nil {
		return nil, fmt.Errorf("no response source configured")
	}

	texts, err := s.responses.ResponsesForQuestion(questionID)
	if err != nil {
		return nil, err
	}
	if len(texts) == 0 {
		return nil, ErrNoResponses
	}

	var results Results
	for _, text := range texts {
		score := Score(text)
		switch {
		case score > 0.25:
			results.Positive.Count++
			if len(results.Positive.Examples) < maxExamples {
				results.Positive.Examples = append(results.Positive.Examples, text)
			}
		case score < -0.25:
			results.Negative.Count++
			if len(results.Negative.Examples) < maxExamples {
				results.Negative.Examples = append(results.Negative.Examples, text)
			}
		default:
			results.Neutral.Count++
			if len(results.Neutral.Examples) < maxExamples {
				results.Neutral.Examples = append(results.Neutral.Examples, text)
			}
		}
	}

	total := float64(len(texts))
	results.Positive.Percentage = float64(results.Positive.Count) / total * 100
	results.Negative.Percentage = float64(results.Negative.Count) / total * 100
	results.Neutral.Percentage = float64(results.Neutral.Count) / total * 100

	analysis := &Analysis{
		QuestionID:    questionID,
		QuizID:        quizID,
		AnalyzedAt:    time.Now(),
		ResponseCount: len(texts),
		Results:       results,
		Themes:        ExtractThemes(texts),
	}

	if err := s.db.Create(analysis).Error; err != nil {
		return nil, fmt.Errorf("failed to store analysis: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("sentiment analysis stored",
			zap.Uint("question_id", questionID),
			zap.Int("responses", analysis.ResponseCount))
	}

	return analysis, nil
}

func (s *Service) FindAnalysis(id uint) (*Analysis, error) {
	var analysis Analysis
	if err := s.db.First(&analysis, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &analysis, nil
}

func (s *Service) ListAnalyses(questionIDs []uint) ([]Analysis, error) {
	query := s.db.Order("created_at DESC")
	if len(questionIDs) > 0 {
		query = query.Where("question_id IN ?", questionIDs)
	}
	var analyses []Analysis
	if err := query.Find(&analyses).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return analyses, nil
}

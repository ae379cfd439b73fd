package stats

import (
	"math"

	"github.com/institutsaintjean/evalhub/services/logging"
	"github.com/institutsaintjean/evalhub/services/quiz"
	"github.com/institutsaintjean/evalhub/services/submission"
	"github.com/institutsaintjean/evalhub/services/user"
)

// Sentiment distribution thresholds.
const (
	positiveThreshold = 0.25
	negativeThreshold = -0.25
)

type GlobalStats struct {
	TotalQuizzes      int64 `json:"totalQuizzes"`
	TotalQuestions    int64 `json:"totalQuestions"`
	TotalSubmissions  int64 `json:"totalSubmissions"`
	ParticipationRate int   `json:"participationRate"`
}

type SentimentDistribution struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

type QuizStats struct {
	TotalSubmissions      int64                 `json:"totalSubmissions"`
	AverageSentiment      float64               `json:"averageSentiment"`
	SentimentDistribution SentimentDistribution `json:"sentimentDistribution"`
}

type CourseStats struct {
	QuizCount         int64 `json:"quizCount"`
	SubmissionCount   int64 `json:"submissionCount"`
	ParticipationRate int   `json:"participationRate"`
}

type Service struct {
	quizzes     *quiz.Service
	submissions *submission.Service
	users       *user.Service
	logger      *logging.Service
}

func NewService(quizzes *quiz.Service, submissions *submission.Service, users *user.Service, logger *logging.Service) *Service {
	return &Service{
		quizzes:     quizzes,
		submissions: submissions,
		users:       users,
		logger:      logger,
	}
}

// GlobalStats aggregates the admin dashboard numbers. Participation is the
// share of students that submitted at least one quiz.
func (s *Service) GlobalStats() (*GlobalStats, error) {
	totalQuizzes, err := s.quizzes.CountPublished()
	if err != nil {
		return nil, err
	}

	totalQuestions, err := s.quizzes.CountQuestions()
	if err != nil {
		return nil, err
	}

	totalSubmissions, err := s.submissions.CountAll()
	if err != nil {
		return nil, err
	}

	totalStudents, err := s.users.CountStudents()
	if err != nil {
		return nil, err
	}

	activeStudents, err := s.submissions.DistinctSubmitters(nil)
	if err != nil {
		return nil, err
	}

	rate := 0
	if totalStudents > 0 {
		rate = int(math.Round(float64(activeStudents) / float64(totalStudents) * 100))
	}

	return &GlobalStats{
		TotalQuizzes:      totalQuizzes,
		TotalQuestions:    totalQuestions,
		TotalSubmissions:  totalSubmissions,
		ParticipationRate: rate,
	}, nil
}

// QuizStats reports submission volume, mean sentiment and the polarity
// distribution for one quiz.
func (s *Service) QuizStats(quizID uint) (*QuizStats, error) {
	subs, err := s.submissions.ListForQuiz(quizID)
	if err != nil {
		return nil, err
	}

	result := &QuizStats{
		TotalSubmissions: int64(len(subs)),
	}

	var total float64
	for _, sub := range subs {
		total += sub.SentimentScore
		switch {
		case sub.SentimentScore > positiveThreshold:
			result.SentimentDistribution.Positive++
		case sub.SentimentScore < negativeThreshold:
			result.SentimentDistribution.Negative++
		default:
			result.SentimentDistribution.Neutral++
		}
	}

	if len(subs) > 0 {
		result.AverageSentiment = total / float64(len(subs))
	}

	return result, nil
}

// CourseStats aggregates participation for all quizzes of a course relative
// to the course's class size.
func (s *Service) CourseStats(courseID, classID uint) (*CourseStats, error) {
	quizIDs, err := s.quizzes.QuizIDsForCourse(courseID)
	if err != nil {
		return nil, err
	}

	submissionCount, err := s.submissions.CountForQuizzes(quizIDs)
	if err != nil {
		return nil, err
	}

	classStudents, err := s.users.CountStudentsInClass(classID)
	if err != nil {
		return nil, err
	}

	activeStudents, err := s.submissions.DistinctSubmitters(quizIDs)
	if err != nil {
		return nil, err
	}

	rate := 0
	if classStudents > 0 {
		rate = int(math.Round(float64(activeStudents) / float64(classStudents) * 100))
	}

	return &CourseStats{
		QuizCount:         int64(len(quizIDs)),
		SubmissionCount:   submissionCount,
		ParticipationRate: rate,
	}, nil
}

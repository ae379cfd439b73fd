package stats

import (
	"github.com/institutsaintjean/evalhub/services/logging"
	"github.com/institutsaintjean/evalhub/services/quiz"
	"github.com/institutsaintjean/evalhub/services/submission"
	"github.com/institutsaintjean/evalhub/services/user"
	"go.uber.org/fx"
)

func NewStatsService(quizzes *quiz.Service, submissions *submission.Service, users *user.Service, logger *logging.Service) *Service {
	return NewService(quizzes, submissions, users, logger)
}

var Module = fx.Options(
	fx.Provide(NewStatsService),
)

package importer

import (
	"github.com/institutsaintjean/evalhub/config"
	"github.com/institutsaintjean/evalhub/services/auth"
	"github.com/institutsaintjean/evalhub/services/logging"
	"github.com/institutsaintjean/evalhub/services/quiz"
	"github.com/institutsaintjean/evalhub/services/user"
	"go.uber.org/fx"
)

func NewImportService(cfg *config.Config, quizzes *quiz.Service, users *user.Service, authSvc *auth.Service, logger *logging.Service) *Service {
	return NewService(cfg, quizzes, users, authSvc, logger)
}

var Module = fx.Options(
	fx.Provide(NewImportService),
)

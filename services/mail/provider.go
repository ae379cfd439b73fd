package mail

import (
	"github.com/institutsaintjean/evalhub/config"
	"github.com/institutsaintjean/evalhub/services/logging"
	"github.com/institutsaintjean/evalhub/services/quiz"
	"github.com/institutsaintjean/evalhub/services/user"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func NewMailService(cfg *config.Config, db *gorm.DB, users *user.Service, logger *logging.Service) (*Service, error) {
	return NewService(&cfg.Mail, db, users, logger)
}

func AsPublishNotifier(svc *Service) quiz.PublishNotifier {
	return svc
}

var Module = fx.Options(
	fx.Provide(NewMailService),
	fx.Provide(AsPublishNotifier),
)

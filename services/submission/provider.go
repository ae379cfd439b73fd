package submission

import (
	"github.com/institutsaintjean/evalhub/services/logging"
	"github.com/institutsaintjean/evalhub/services/sentiment"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func NewSubmissionService(db *gorm.DB, logger *logging.Service) *Service {
	return NewService(db, logger)
}

func AsResponseSource(svc *Service) sentiment.ResponseSource {
	return svc
}

var Module = fx.Options(
	fx.Provide(NewSubmissionService),
	fx.Provide(AsResponseSource),
)

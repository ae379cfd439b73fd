package academic

import (
	"github.com/institutsaintjean/evalhub/services/logging"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func NewAcademicService(db *gorm.DB, logger *logging.Service) *Service {
	return NewService(db, logger)
}

var Module = fx.Options(
	fx.Provide(NewAcademicService),
)

package user

import (
	"github.com/institutsaintjean/evalhub/services/logging"
	"github.com/institutsaintjean/evalhub/services/token"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func NewUserService(db *gorm.DB, logger *logging.Service) *Service {
	return NewService(db, logger)
}

func AsUserResolver(svc *Service) token.UserResolver {
	return svc
}

var Module = fx.Options(
	fx.Provide(NewUserService),
	fx.Provide(AsUserResolver),
)

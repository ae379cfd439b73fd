package auth

import (
	"github.com/institutsaintjean/evalhub/config"
	"github.com/institutsaintjean/evalhub/services/logging"
	"github.com/institutsaintjean/evalhub/services/token"
	"github.com/institutsaintjean/evalhub/services/user"
	"go.uber.org/fx"
)

func NewAuthService(cfg *config.Config, users *user.Service, tokens *token.Service, logger *logging.Service) *Service {
	return NewService(cfg, users, tokens, logger)
}

var Module = fx.Options(
	fx.Provide(NewAuthService),
)

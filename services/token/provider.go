package token

import (
	"context"

	"github.com/institutsaintjean/evalhub/config"
	"github.com/institutsaintjean/evalhub/services/logging"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func NewSigner(cfg *config.Config) Signer {
	return NewHS256Signer(cfg.JWT.SecretKey, cfg.JWT.Issuer)
}

func NewTokenService(db *gorm.DB, cfg *config.Config, signer Signer, logger *logging.Service) *Service {
	return NewService(db, cfg, signer, logger)
}

type OptionalUserResolver struct {
	fx.In
	Users UserResolver `optional:"true"`
}

func WireUserResolver(svc *Service, opt OptionalUserResolver) {
	if svc != nil && opt.Users != nil {
		svc.SetUserResolver(opt.Users)
	}
}

func StartCleanup(lc fx.Lifecycle, svc *Service) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			svc.StartCleanupWorker()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			svc.StopCleanupWorker()
			return nil
		},
	})
}

var Module = fx.Options(
	fx.Provide(NewSigner),
	fx.Provide(NewTokenService),
	fx.Invoke(WireUserResolver),
	fx.Invoke(StartCleanup),
)

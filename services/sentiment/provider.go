package sentiment

import (
	"github.com/institutsaintjean/evalhub/services/logging"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func NewSentimentService(db *gorm.DB, logger *logging.Service) *Service {
	return NewService(db, logger)
}

type OptionalResponseSource struct {
	fx.In
	Source ResponseSource `optional:"true"`
}

func WireResponseSource(svc *Service, opt OptionalResponseSource) {
	if svc != nil && opt.Source != nil {
		svc.SetResponseSource(opt.Source)
	}
}

var Module = fx.Options(
	fx.Provide(NewSentimentService),
	fx.Invoke(WireResponseSource),
)

package quiz

import (
	"github.com/institutsaintjean/evalhub/services/logging"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func NewQuizService(db *gorm.DB, logger *logging.Service) *Service {
	return NewService(db, logger)
}

type OptionalNotifier struct {
	fx.In
	Notifier PublishNotifier `optional:"true"`
}

func WirePublishNotifier(svc *Service, opt OptionalNotifier) {
	if svc != nil && opt.Notifier != nil {
		svc.SetPublishNotifier(opt.Notifier)
	}
}

var Module = fx.Options(
	fx.Provide(NewQuizService),
	fx.Invoke(WirePublishNotifier),
)

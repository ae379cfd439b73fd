package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/institutsaintjean/evalhub/config"
	"github.com/institutsaintjean/evalhub/services/logging"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewServer(cfg *config.Config, logger *logging.Service) *Server {
	return New(cfg, logger)
}

func StartServer(lc fx.Lifecycle, s *Server, logger *logging.Service) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					if logger != nil {
						logger.Error("server stopped unexpectedly", zap.Error(err))
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return s.Shutdown(ctx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(NewServer),
	fx.Invoke(StartServer),
)

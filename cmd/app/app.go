package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"fithub/cmd/fx/account_fx"
	"fithub/cmd/fx/catalog_fx"
	"fithub/cmd/fx/community_fx"
	"fithub/cmd/fx/controllers_fx"
	"fithub/cmd/fx/dashboard"
	"fithub/cmd/fx/db_fx"
	"fithub/cmd/fx/mail_fx"
	"fithub/cmd/fx/media_fx"
	"fithub/cmd/fx/payment_service_fx"
	"fithub/cmd/fx/subscription_fx"
	"fithub/config"
	"fithub/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

const shutdownTimeout = 15 * time.Second

func newApp() *fx.App {
	return fx.New(
		fx.Provide(config.New, infra.InitLogger),
		fx.NopLogger,
		db_fx.Module,
		media_fx.Module,
		mail_fx.Module,
		account_fx.Module,
		catalog_fx.Module,
		payment_service_fx.Module,
		subscription_fx.Module,
		community_fx.Module,
		dashboard.Module,
		controllers_fx.Module,

		fx.Invoke(StartServer),
	)
}

func StartServer(lc fx.Lifecycle, shutdowner fx.Shutdowner, cfg *config.Config, _ zerolog.Logger, engine *gin.Engine) {
	srv := &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(cfg.HTTP.Port)),
		Handler:           engine,
		ReadTimeout:       cfg.HTTP.Timeouts.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.Timeouts.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.Timeouts.WriteTimeout,
		IdleTimeout:       cfg.HTTP.Timeouts.IdleTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				log.Info().Str("addr", srv.Addr).Msg("starting HTTP server")
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error().Err(err).Msg("HTTP server stopped")
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

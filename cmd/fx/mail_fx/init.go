package mail_fx

import (
	"fithub/config"
	"fithub/internal/services"

	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

var Module = fx.Provide(provideMailSender, services.NewMailService)

func provideMailSender(cfg *config.Config) services.MailSender {
	if cfg.Mail.Host == "" {
		log.Info().Msg("mail host not configured, confirmation mails are logged instead of sent")
	}
	return services.NewMailSender(cfg.Mail)
}

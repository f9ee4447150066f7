package middleware

import (
	"net/http"

	"fithub/config"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// SessionMiddleware stores the session (cart, login, flash messages) in a
// signed cookie.
func SessionMiddleware(cfg config.SessionConfig) gin.HandlerFunc {
	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	name := cfg.Name
	if name == "" {
		name = "fithub_session"
	}
	return sessions.Sessions(name, store)
}

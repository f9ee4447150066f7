package utils

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type FlashLevel string

const (
	FlashSuccess FlashLevel = "success"
	FlashInfo    FlashLevel = "info"
	FlashError   FlashLevel = "error"
)

type FlashMessage struct {
	Level FlashLevel `json:"level"`
	Text  string     `json:"text"`
}

const flashKey = "_flash"

// session returns nil when no session middleware ran for this request.
func session(c *gin.Context) sessions.Session {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil
	}
	return sessions.Default(c)
}

// Flash queues a one-shot message displayed on the next rendered view.
func Flash(c *gin.Context, level FlashLevel, text string) {
	s := session(c)
	if s == nil {
		return
	}
	s.AddFlash(string(level)+"|"+text, flashKey)
	if err := s.Save(); err != nil {
		log.Warn().Err(err).Str("trace_id", traceID(c)).Msg("flash message not stored")
	}
}

func PopFlashes(c *gin.Context) []FlashMessage {
	s := session(c)
	if s == nil {
		return nil
	}
	raw := s.Flashes(flashKey)
	if len(raw) == 0 {
		return nil
	}
	if err := s.Save(); err != nil {
		log.Warn().Err(err).Str("trace_id", traceID(c)).Msg("flash messages not cleared")
	}

	out := make([]FlashMessage, 0, len(raw))
	for _, r := range raw {
		str, ok := r.(string)
		if !ok {
			continue
		}
		msg := FlashMessage{Level: FlashInfo, Text: str}
		if level, text, found := strings.Cut(str, "|"); found {
			msg = FlashMessage{Level: FlashLevel(level), Text: text}
		}
		out = append(out, msg)
	}
	return out
}

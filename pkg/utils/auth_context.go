package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "Role"

	SessionAccountKey = "account_id"
	SessionRoleKey    = "role"
)

// CurrentUserID returns the authenticated account id set by the auth middleware.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString(ContextUserID)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// LoginSession binds the account to the browser session.
func LoginSession(c *gin.Context, accountID uuid.UUID, role string) error {
	s := session(c)
	if s == nil {
		return nil
	}
	s.Set(SessionAccountKey, accountID.String())
	s.Set(SessionRoleKey, role)
	if err := s.Save(); err != nil {
		return pkgerrors.Wrap(ErrSessionStore, err.Error())
	}
	return nil
}

func LogoutSession(c *gin.Context) error {
	s := session(c)
	if s == nil {
		return nil
	}
	s.Clear()
	if err := s.Save(); err != nil {
		return pkgerrors.Wrap(ErrSessionStore, err.Error())
	}
	return nil
}

// SessionValue reads a string value stored in the browser session.
func SessionValue(c *gin.Context, key string) string {
	s := session(c)
	if s == nil {
		return ""
	}
	v, _ := s.Get(key).(string)
	return v
}

func SetSessionValue(c *gin.Context, key, value string) error {
	s := session(c)
	if s == nil {
		return nil
	}
	previous := s.Get(key)
	if value == "" {
		s.Delete(key)
	} else {
		s.Set(key, value)
	}
	if err := s.Save(); err != nil {
		// Put the old value back so later saves in this request still fit.
		if previous == nil {
			s.Delete(key)
		} else {
			s.Set(key, previous)
		}
		return pkgerrors.Wrapf(ErrSessionStore, "%s: %v", key, err)
	}
	return nil
}

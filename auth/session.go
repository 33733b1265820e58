package auth

import (
	"facecheck/verifier"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	lastKindKey    = "last_kind"
	lastMessageKey = "last_message"
)

// Session remembers the last check result of a visitor
type Session struct {
	sessions.Session
}

func LoadSession(c *gin.Context) *Session {
	return &Session{
		Session: sessions.Default(c),
	}
}

func (s *Session) SetLastStatus(status verifier.Status) error {
	s.Set(lastKindKey, string(status.Kind))
	s.Set(lastMessageKey, status.Message)
	return s.Save()
}

// LastStatus returns nil if this visitor has not checked anything yet
func (s *Session) LastStatus() *verifier.Status {
	kind, _ := s.Get(lastKindKey).(string)
	message, _ := s.Get(lastMessageKey).(string)
	if kind == "" || message == "" {
		return nil
	}
	return &verifier.Status{Kind: verifier.Kind(kind), Message: message}
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"censusqa/internal/app"
)

const ContextSessionKey = "session"

// Session attaches the caller's *app.Session, issuing a fresh id cookie when the
// request carries none or an invalid one.
func Session(store *app.SessionStore, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cookieName)
		if err != nil || !validID(id) {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, id, 0, "/", "", false, true)
		}
		c.Set(ContextSessionKey, store.Get(id))
		c.Next()
	}
}

// SessionFrom returns the session attached by Session.
func SessionFrom(c *gin.Context) (*app.Session, bool) {
	v, ok := c.Get(ContextSessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*app.Session)
	return sess, ok
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

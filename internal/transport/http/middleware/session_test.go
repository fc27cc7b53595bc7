package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"censusqa/internal/app"
)

func sessionRouter(store *app.SessionStore) (*gin.Engine, *string) {
	gin.SetMode(gin.TestMode)
	var seen string
	r := gin.New()
	r.Use(Session(store, "sid"))
	r.GET("/", func(c *gin.Context) {
		sess, ok := SessionFrom(c)
		if ok {
			seen = sess.ID
		}
		c.Status(http.StatusNoContent)
	})
	return r, &seen
}

func TestSession_IssuesCookieAndReusesIt(t *testing.T) {
	store := app.NewSessionStore(0, zerolog.Nop(), nil)
	r, seen := sessionRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	first := *seen
	assert.Equal(t, cookies[0].Value, first)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: first})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Result().Cookies())
	assert.Equal(t, first, *seen)
	assert.Equal(t, 1, store.Len())
}

func TestSession_ReplacesInvalidCookie(t *testing.T) {
	store := app.NewSessionStore(0, zerolog.Nop(), nil)
	r, seen := sessionRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "../../etc/passwd"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Len(t, w.Result().Cookies(), 1)
	assert.NotEqual(t, "../../etc/passwd", *seen)
}

func TestSessionFrom_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	sess, ok := SessionFrom(c)
	assert.False(t, ok)
	assert.Nil(t, sess)
}

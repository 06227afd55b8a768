package middleware

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"
)

// committingWriter saves the session once, right before the response
// headers are sent.
type committingWriter struct {
	gin.ResponseWriter
	sessions *SessionManager
	ctx      context.Context
	once     sync.Once
}

func (w *committingWriter) commit() {
	w.once.Do(func() { w.sessions.saveTo(w.ctx, w.ResponseWriter) })
}

func (w *committingWriter) WriteHeader(code int) {
	w.commit()
	w.ResponseWriter.WriteHeader(code)
}

func (w *committingWriter) WriteHeaderNow() {
	w.commit()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *committingWriter) Write(b []byte) (int, error) {
	w.commit()
	return w.ResponseWriter.Write(b)
}

func (w *committingWriter) WriteString(s string) (int, error) {
	w.commit()
	return w.ResponseWriter.WriteString(s)
}

// saveTo persists a changed session and sets or expires its cookie.
func (sm *SessionManager) saveTo(ctx context.Context, w http.ResponseWriter) {
	w.Header().Add("Vary", "Cookie")

	switch sm.Status(ctx) {
	case scs.Modified:
		token, expiry, err := sm.Commit(ctx)
		if err != nil {
			log.Printf("Session commit failed: %v", err)
			return
		}
		sm.WriteSessionCookie(ctx, w, token, expiry)
	case scs.Destroyed:
		sm.WriteSessionCookie(ctx, w, "", time.Time{})
	}
}

// LoadAndSave attaches the visitor's session to the request context.
func (sm *SessionManager) LoadAndSave() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if cookie, err := c.Request.Cookie(sm.Cookie.Name); err == nil {
			token = cookie.Value
		}

		ctx, err := sm.Load(c.Request.Context(), token)
		if err != nil {
			log.Printf("Session load failed: %v", err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Request = c.Request.WithContext(ctx)

		w := &committingWriter{ResponseWriter: c.Writer, sessions: sm, ctx: ctx}
		c.Writer = w
		c.Next()

		// Handlers that never wrote a byte still need their session saved.
		w.commit()
	}
}

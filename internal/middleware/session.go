package middleware

import (
	"context"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SugaryLLC/sugary-web/internal/auth"
	"github.com/SugaryLLC/sugary-web/internal/logger"
	"github.com/SugaryLLC/sugary-web/internal/metrics"
	"github.com/SugaryLLC/sugary-web/internal/session"
)

type userContextKeyType struct{}

var userKey = userContextKeyType{}

// UserFromContext extracts the user resolved by the bootstrap
// middleware, when one was resolved.
func UserFromContext(ctx context.Context) (*auth.User, bool) {
	u, ok := ctx.Value(userKey).(*auth.User)
	return u, ok
}

// SessionBootstrap guarantees every page request carries a session.
// Visitors without an access token get a guest session minted inline;
// protected routes additionally require a registered (non-guest) user.
type SessionBootstrap struct {
	service   *auth.Service
	secure    bool
	protected []string
	loginPath string
}

func NewSessionBootstrap(service *auth.Service, secure bool, protected []string, loginPath string) *SessionBootstrap {
	if loginPath == "" {
		loginPath = "/login"
	}
	return &SessionBootstrap{
		service:   service,
		secure:    secure,
		protected: protected,
		loginPath: loginPath,
	}
}

func (m *SessionBootstrap) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqPath := c.Request.URL.Path
		if skipBootstrap(reqPath) {
			c.Next()
			return
		}

		ctx := c.Request.Context()

		token, ok := session.AccessTokenFrom(c.Request)
		if !ok {
			if m.isProtected(reqPath) {
				m.redirectToLogin(c, reqPath)
				return
			}

			res := m.service.CreateGuest(ctx)
			if res.Success && res.Pair != nil {
				session.Issue(c.Writer, *res.Pair, m.secure)
				metrics.GuestSessions.Inc()
				if res.User != nil {
					m.attachUser(c, res.User)
				}
			} else {
				// The page may still render for anonymous visitors;
				// browsing wins over strict session guarantees here.
				logger.FromContext(ctx).Errorw("guest session mint failed",
					"kind", string(res.Kind),
					"message", res.Message,
				)
			}
			c.Next()
			return
		}

		res := m.service.CurrentUser(ctx, token)
		if !res.Success {
			if m.isProtected(reqPath) {
				// Fail closed where gating matters: an unverifiable
				// session must not reach a protected route.
				logger.FromContext(ctx).Warnw("user fetch failed on protected route",
					"kind", string(res.Kind),
					"message", res.Message,
				)
				m.redirectToLogin(c, reqPath)
				return
			}
			logger.FromContext(ctx).Errorw("user fetch failed",
				"kind", string(res.Kind),
				"message", res.Message,
			)
			c.Next()
			return
		}

		if res.User.IsGuest && m.isProtected(reqPath) {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		m.attachUser(c, res.User)
		c.Next()
	}
}

func (m *SessionBootstrap) attachUser(c *gin.Context, u *auth.User) {
	ctx := context.WithValue(c.Request.Context(), userKey, u)
	c.Request = c.Request.WithContext(ctx)
}

func (m *SessionBootstrap) redirectToLogin(c *gin.Context, from string) {
	c.Redirect(http.StatusFound, m.loginPath+"?from="+url.QueryEscape(from))
	c.Abort()
}

func (m *SessionBootstrap) isProtected(reqPath string) bool {
	for _, prefix := range m.protected {
		if strings.HasPrefix(reqPath, prefix) {
			return true
		}
	}
	return false
}

// skipBootstrap excludes static assets and routes that manage session
// cookies themselves (auth endpoints would otherwise race the
// middleware's cookie writes within one response).
func skipBootstrap(reqPath string) bool {
	switch {
	case strings.HasPrefix(reqPath, "/api/auth/"),
		strings.HasPrefix(reqPath, "/oauth/"),
		reqPath == "/health",
		reqPath == "/metrics":
		return true
	}
	return strings.Contains(path.Base(reqPath), ".")
}

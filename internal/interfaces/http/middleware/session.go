package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	appidentity "github.com/filterdesk/backend/internal/application/identity"
	appshared "github.com/filterdesk/backend/internal/application/shared"
	"github.com/filterdesk/backend/internal/domain/identity"
	"github.com/filterdesk/backend/internal/domain/shared"
	"github.com/filterdesk/backend/internal/infrastructure/config"
	"github.com/filterdesk/backend/internal/infrastructure/logger"
	"github.com/filterdesk/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Session context keys
const (
	PrincipalKey = "principal"
	ActorKey     = "actor"
)

// Authenticator resolves a session token to its user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*appidentity.Principal, error)
}

// SessionCookie writes and reads the session cookie
type SessionCookie struct {
	cfg config.CookieConfig
}

// NewSessionCookie creates a SessionCookie from the cookie settings
func NewSessionCookie(cfg config.CookieConfig) SessionCookie {
	if cfg.Name == "" {
		cfg.Name = "fd_session"
	}
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	return SessionCookie{cfg: cfg}
}

// Name returns the cookie name
func (s SessionCookie) Name() string {
	return s.cfg.Name
}

// Set stores the session token in an HttpOnly cookie expiring with the session
func (s SessionCookie) Set(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     s.cfg.Name,
		Value:    token,
		Path:     s.cfg.Path,
		Domain:   s.cfg.Domain,
		Expires:  expiresAt,
		MaxAge:   maxAge,
		Secure:   s.cfg.Secure,
		HttpOnly: true,
		SameSite: parseSameSite(s.cfg.SameSite),
	})
}

// Clear expires the session cookie in the browser
func (s SessionCookie) Clear(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     s.cfg.Name,
		Value:    "",
		Path:     s.cfg.Path,
		Domain:   s.cfg.Domain,
		MaxAge:   -1,
		Secure:   s.cfg.Secure,
		HttpOnly: true,
		SameSite: parseSameSite(s.cfg.SameSite),
	})
}

// Token returns the session token sent by the browser
func (s SessionCookie) Token(c *gin.Context) string {
	token, err := c.Cookie(s.cfg.Name)
	if err != nil {
		return ""
	}
	return token
}

func parseSameSite(v string) http.SameSite {
	switch strings.ToLower(v) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// SessionAuth requires a valid session cookie. The user is reloaded on every
// request, so deactivated users lose access immediately. On success the
// principal and the actor are stored in the gin context and the request
// logger is tagged with the user id.
func SessionAuth(auth Authenticator, cookie SessionCookie, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		token := cookie.Token(c)
		if token == "" {
			abortAuth(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		principal, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) {
				cookie.Clear(c)
				abortAuth(c, dto.NormalizeErrorCode(domainErr.Code), domainErr.Message)
				return
			}
			log.Error("Session check failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
			abortAuth(c, dto.ErrCodeInternal, "Could not verify the session")
			return
		}

		actor := appshared.Actor{
			UserID: principal.User.ID,
			Name:   principal.User.Name,
			Role:   principal.User.Role,
		}
		c.Set(PrincipalKey, principal)
		c.Set(ActorKey, actor)
		c.Request = c.Request.WithContext(
			logger.WithUserID(c.Request.Context(), actor.UserID.String(), string(actor.Role)))

		c.Next()
	}
}

// RequireRole allows only the listed roles. It must run after SessionAuth.
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			abortAuth(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		abortAuth(c, dto.ErrCodeForbidden, "You do not have permission to perform this action")
	}
}

// RequireAdmin allows administrators only
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(identity.RoleAdmin)
}

// GetActor returns the authenticated actor
func GetActor(c *gin.Context) (appshared.Actor, bool) {
	v, exists := c.Get(ActorKey)
	if !exists {
		return appshared.Actor{}, false
	}
	actor, ok := v.(appshared.Actor)
	return actor, ok
}

// GetPrincipal returns the authenticated principal
func GetPrincipal(c *gin.Context) *appidentity.Principal {
	v, exists := c.Get(PrincipalKey)
	if !exists {
		return nil
	}
	p, _ := v.(*appidentity.Principal)
	return p
}

func abortAuth(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(dto.GetHTTPStatus(code),
		dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/cuckooblock/vendor-portal/internal/app/service"
	"github.com/cuckooblock/vendor-portal/internal/app/workflow"
	apperrors "github.com/cuckooblock/vendor-portal/internal/errors"
	"github.com/cuckooblock/vendor-portal/pkg/util"
	"github.com/gin-gonic/gin"
)

// Context keys for session information
const (
	UserIDKey       = "user_id"
	UserEmailKey    = "user_email"
	SessionKey      = "session"
	SessionTokenKey = "session_token"
	UserRoleKey     = "user_role"
)

// SessionLookup resolves a raw token to a live session.
type SessionLookup interface {
	GetSession(ctx context.Context, token string) (*service.Session, error)
}

// RoleResolver looks up the role of an identity.
type RoleResolver interface {
	ResolveRole(ctx context.Context, userID string) (workflow.Role, error)
}

type AuthMiddleware struct {
	sessions   SessionLookup
	cookieName string
}

func NewAuthMiddleware(sessions SessionLookup, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		sessions:   sessions,
		cookieName: cookieName,
	}
}

// extractToken reads the session token from the Authorization header, the
// session cookie, or the token query parameter (websocket clients), in that
// order. malformed is set when a header is present but not a Bearer token.
func (m *AuthMiddleware) extractToken(c *gin.Context) (token string, malformed bool) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", true
		}
		return parts[1], false
	}
	if m.cookieName != "" {
		if cookie, err := c.Cookie(m.cookieName); err == nil && cookie != "" {
			return cookie, false
		}
	}
	return c.Query("token"), false
}

func (m *AuthMiddleware) resolve(c *gin.Context) (*service.Session, string, error) {
	token, malformed := m.extractToken(c)
	if malformed {
		return nil, "", util.ErrInvalidToken
	}
	if token == "" {
		return nil, "", nil
	}
	session, err := m.sessions.GetSession(c.Request.Context(), token)
	if err != nil {
		return nil, token, err
	}
	return session, token, nil
}

func setSession(c *gin.Context, session *service.Session, token string) {
	c.Set(SessionKey, session)
	c.Set(SessionTokenKey, token)
	c.Set(UserIDKey, session.UserID)
	c.Set(UserEmailKey, session.Email)
}

// Authenticate requires a live session and answers 401 JSON otherwise.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		session, token, err := m.resolve(c)
		if err == nil && session == nil {
			log.Warn("Missing session token", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			apperrors.Unauthorized(c, "Sign in required")
			c.Abort()
			return
		}
		if err != nil {
			log.Warn("Session validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			switch {
			case errors.Is(err, util.ErrExpiredToken):
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenExpired, "Session has expired")
			case errors.Is(err, service.ErrSessionRevoked):
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenRevoked, "Session has been signed out")
			case errors.Is(err, util.ErrInvalidToken):
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Invalid session token")
			default:
				apperrors.InternalError(c, "Failed to verify session")
			}
			c.Abort()
			return
		}

		setSession(c, session, token)
		log.Debug("Session authenticated", map[string]interface{}{
			"user_id": session.UserID,
		})
		c.Next()
	}
}

// RequirePageSession is Authenticate for HTML pages: anything short of a
// live session redirects to the login page.
func (m *AuthMiddleware) RequirePageSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, token, err := m.resolve(c)
		if err != nil || session == nil {
			if err != nil {
				GetLoggerFromContext(c).Debug("Page session rejected", map[string]interface{}{
					"path":  c.Request.URL.Path,
					"error": err.Error(),
				})
			}
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		setSession(c, session, token)
		c.Next()
	}
}

// OptionalAuthenticate sets the session when a valid one is presented and
// otherwise continues as a guest.
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, token, err := m.resolve(c)
		if err != nil {
			GetLoggerFromContext(c).Debug("Session validation failed - continuing as guest", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			c.Set(sessionErrorKey, err)
		}
		if session != nil {
			setSession(c, session, token)
		}
		c.Next()
	}
}

const sessionErrorKey = "session_error"

// RequireRole resolves the caller's role and passes only when it satisfies
// required. Must run after Authenticate.
func RequireRole(roles RoleResolver, required workflow.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)
		userID, ok := GetUserID(c)
		if !ok {
			apperrors.Unauthorized(c, "Sign in required")
			c.Abort()
			return
		}

		role, err := roles.ResolveRole(c.Request.Context(), userID)
		if err != nil {
			log.Warn("Role lookup failed", map[string]interface{}{
				"user_id": userID,
				"error":   err.Error(),
			})
			apperrors.Forbidden(c, apperrors.AuthzRoleLookupFailed, "Profile error: "+err.Error())
			c.Abort()
			return
		}

		if err := workflow.Authorize(role, required); err != nil {
			log.Warn("Insufficient permissions", map[string]interface{}{
				"user_id":       userID,
				"user_role":     role,
				"required_role": required,
				"path":          c.Request.URL.Path,
			})
			apperrors.Forbidden(c, apperrors.AuthzAdminOnly, "Access denied: you are not an admin.")
			c.Abort()
			return
		}

		c.Set(UserRoleKey, role)
		c.Next()
	}
}

// GetUserID extracts the identity id from context
func GetUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(UserIDKey)
	return userID, userID != ""
}

// GetUserEmail extracts user email from context
func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(UserEmailKey)
	if !exists {
		return "", false
	}
	return email.(string), true
}

// GetSession returns the session set by one of the auth middlewares.
func GetSession(c *gin.Context) (*service.Session, bool) {
	v, exists := c.Get(SessionKey)
	if !exists {
		return nil, false
	}
	session, ok := v.(*service.Session)
	return session, ok
}

// GetSessionToken returns the raw token the session was resolved from.
func GetSessionToken(c *gin.Context) string {
	return c.GetString(SessionTokenKey)
}

// GetSessionError returns why OptionalAuthenticate could not resolve a
// presented token, if it could not.
func GetSessionError(c *gin.Context) error {
	v, exists := c.Get(sessionErrorKey)
	if !exists {
		return nil
	}
	err, _ := v.(error)
	return err
}

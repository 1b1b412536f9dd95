package middleware

import (
	"context"
	"net/http"
	"strings"

	"platter/models"
	"platter/services/session"
	"platter/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by ConsoleAuthMiddleware.
const (
	SessionKey = "consoleSession"
	ActorKey   = "actor"
)

// SessionLoader resolves a console session id.
type SessionLoader interface {
	Get(ctx context.Context, id string) (*session.Session, error)
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// ConsoleAuthMiddleware resolves the console token to a session and actor.
// With optional set, a missing or stale token lets the request through as
// anonymous instead of rejecting it.
func ConsoleAuthMiddleware(sessions SessionLoader, optional bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			if optional {
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			if optional {
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		sess, err := sessions.Get(c.Request.Context(), claims.SessionID)
		if err != nil {
			zap.L().Debug("Console session lookup failed", zap.String("sessionID", claims.SessionID), zap.Error(err))
			if optional {
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			return
		}

		c.Set(SessionKey, sess)
		c.Set(ActorKey, sess.Actor)
		c.Next()
	}
}

// CurrentSession returns the session set by ConsoleAuthMiddleware, or nil.
func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}

// CurrentActor returns the signed-in actor, or an anonymous one.
func CurrentActor(c *gin.Context) models.Actor {
	v, ok := c.Get(ActorKey)
	if !ok {
		return models.Actor{}
	}
	actor, _ := v.(models.Actor)
	return actor
}

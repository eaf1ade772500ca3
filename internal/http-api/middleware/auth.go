package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/access"
	"reviewhub/internal/http-api/service"
)

const actorKey = "actor"

// Authenticate requires a valid Bearer token and stores the actor in the
// request context. Requests without one get 401.
func Authenticate(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFromHeader(c, authService)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"kind": "auth", "error": "missing or invalid authorization header"})
			c.Abort()
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// OptionalAuthenticate loads the actor when a valid Bearer token is present
// and lets anonymous requests through. Used on routes whose safe methods are
// public.
func OptionalAuthenticate(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor, ok := actorFromHeader(c, authService); ok {
			c.Set(actorKey, actor)
		}
		c.Next()
	}
}

func actorFromHeader(c *gin.Context, authService service.AuthService) (*access.Actor, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	// format: "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := authService.ValidateToken(parts[1])
	if err != nil {
		return nil, false
	}

	return &access.Actor{
		ID:        claims.UserID,
		Username:  claims.Username,
		Role:      claims.Role,
		Superuser: claims.Superuser,
	}, true
}

// ActorFrom returns the authenticated actor for this request, or nil for an
// anonymous one. Services receive this explicitly; nothing reads it from
// global state.
func ActorFrom(c *gin.Context) *access.Actor {
	value, exists := c.Get(actorKey)
	if !exists {
		return nil
	}
	actor, ok := value.(*access.Actor)
	if !ok {
		return nil
	}
	return actor
}

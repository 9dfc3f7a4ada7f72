package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/consultapp/partner-api/internal/model"
)

const contextActor = "actor"

// Actor is the authenticated party a request acts for.
type Actor struct {
	Role model.ActorRole
	ID   uuid.UUID
}

// ActorMiddleware resolves the acting party from a bearer token. Tokens
// are issued by the identity service; only validation happens here.
type ActorMiddleware struct {
	secret []byte
}

func NewActorMiddleware(secret string) *ActorMiddleware {
	return &ActorMiddleware{secret: []byte(secret)}
}

type actorClaims struct {
	Role    string `json:"role"`
	ActorID string `json:"actor_id"`
	jwt.RegisteredClaims
}

// Authenticate verifies the JWT and sets the actor in context.
func (m *ActorMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Code:    http.StatusUnauthorized,
				Message: "missing authorization header",
			})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Code:    http.StatusUnauthorized,
				Message: "invalid authorization format",
			})
			return
		}

		actor, err := m.parseToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Code:    http.StatusUnauthorized,
				Message: "invalid token",
			})
			return
		}

		c.Set(contextActor, actor)
		c.Next()
	}
}

func (m *ActorMiddleware) parseToken(tokenString string) (Actor, error) {
	var claims actorClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return Actor{}, err
	}
	if !token.Valid {
		return Actor{}, fmt.Errorf("token is not valid")
	}

	role := model.ActorRole(claims.Role)
	if !role.Valid() {
		return Actor{}, fmt.Errorf("unknown role %q", claims.Role)
	}

	actorID, err := uuid.Parse(claims.ActorID)
	if err != nil {
		return Actor{}, fmt.Errorf("invalid actor id: %w", err)
	}

	return Actor{Role: role, ID: actorID}, nil
}

// ActorFromContext returns the authenticated actor set by Authenticate.
func ActorFromContext(c *gin.Context) (Actor, bool) {
	v, ok := c.Get(contextActor)
	if !ok {
		return Actor{}, false
	}
	actor, ok := v.(Actor)
	return actor, ok
}

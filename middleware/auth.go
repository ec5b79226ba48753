package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"food-ordering-api/models"
	"food-ordering-api/policy"
	"food-ordering-api/store"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const actorKey = "actor"

type Claims struct {
	UserID    string          `json:"_id"`
	Role      models.UserRole `json:"role"`
	ShopID    string          `json:"shopId,omitempty"`
	CompanyID string          `json:"companyId,omitempty"`
	jwt.RegisteredClaims
}

// UserLookup loads the user a token was issued to.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Auth issues and verifies HS256 bearer tokens.
type Auth struct {
	secret []byte
	ttl    time.Duration
	users  UserLookup
}

func NewAuth(secret string, ttl time.Duration) *Auth {
	return &Auth{secret: []byte(secret), ttl: ttl}
}

// WithUsers makes AuthRequired build the caller from the stored user rather than the token
// claims, so role and scope changes and deactivation apply to tokens already issued.
func (a *Auth) WithUsers(users UserLookup) *Auth {
	a.users = users
	return a
}

// GenerateToken creates a signed JWT for a given user
func (a *Auth) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    user.ID,
		Role:      user.Role,
		ShopID:    user.ShopID,
		CompanyID: user.CompanyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

func (a *Auth) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// AuthRequired validates the JWT and injects the caller into context
func (a *Auth) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization header required (Bearer <token>)"})
			return
		}
		claims, err := a.Parse(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}
		actor := policy.Actor{
			ID:        claims.UserID,
			Role:      claims.Role,
			ShopID:    claims.ShopID,
			CompanyID: claims.CompanyID,
		}
		if a.users != nil {
			user, err := a.users.GetByID(c.Request.Context(), claims.UserID)
			switch {
			case errors.Is(err, store.ErrNotFound):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User no longer exists"})
				return
			case err != nil:
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
				return
			case !user.IsActive:
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Account is deactivated"})
				return
			}
			actor = policy.Actor{ID: user.ID, Role: user.Role, ShopID: user.ShopID, CompanyID: user.CompanyID}
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// RoleRequired enforces that caller has one of the allowed roles
func RoleRequired(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Role not found in context"})
			return
		}
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"message": "Access denied. Required role(s): " + rolesString(roles),
		})
	}
}

func rolesString(roles []models.UserRole) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

// ActorFrom extracts the caller placed by AuthRequired.
func ActorFrom(c *gin.Context) (policy.Actor, bool) {
	val, ok := c.Get(actorKey)
	if !ok {
		return policy.Actor{}, false
	}
	actor, ok := val.(policy.Actor)
	return actor, ok
}

// GetActor is ActorFrom for routes that sit behind AuthRequired.
func GetActor(c *gin.Context) policy.Actor {
	actor, _ := ActorFrom(c)
	return actor
}

package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prohmpiriya/tournament-registration/pkg/response"
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

// RoleAdmin is the role allowed on the admin control surface
const RoleAdmin = "admin"

// Context keys for caller information
const (
	ContextKeyUserID = "user_id"
	ContextKeyRole   = "role"
)

// Claims carried by admin access tokens
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTConfig holds configuration for JWT middleware
type JWTConfig struct {
	Secret string
	// Issuer is checked when non-empty
	Issuer string
}

// GenerateToken signs an HS256 token for subject with the given role
func GenerateToken(cfg *JWTConfig, subject, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
}

// JWTMiddleware validates bearer tokens and injects the caller into the context
func JWTMiddleware(config *JWTConfig) gin.HandlerFunc {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(config.Issuer))
	}
	parser := jwt.NewParser(opts...)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, response.Error(response.ErrCodeUnauthorized, "Authorization header is required"))
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			response.Abort(c, response.Error(response.ErrCodeUnauthorized, "Invalid authorization header format"))
			return
		}
		tokenString := strings.TrimSpace(authHeader[len(bearerPrefix):])
		if tokenString == "" {
			response.Abort(c, response.Error(response.ErrCodeUnauthorized, "Token is empty"))
			return
		}

		claims := &Claims{}
		token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(config.Secret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				response.Abort(c, response.Error(response.ErrCodeUnauthorized, "Access token has expired"))
				return
			}
			response.Abort(c, response.Error(response.ErrCodeUnauthorized, "Invalid access token"))
			return
		}
		if !token.Valid || claims.Subject == "" {
			response.Abort(c, response.Error(response.ErrCodeUnauthorized, "Invalid access token"))
			return
		}

		c.Set(ContextKeyUserID, claims.Subject)
		c.Set(ContextKeyRole, claims.Role)

		c.Next()
	}
}

// RequireRole rejects callers whose role is not in roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok {
			response.Abort(c, response.Unauthorized("User not authenticated"))
			return
		}

		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		response.Abort(c, response.Forbidden("Insufficient permissions"))
	}
}

// GetUserID extracts the caller id from gin context
func GetUserID(c *gin.Context) (string, bool) {
	id := c.GetString(ContextKeyUserID)
	return id, id != ""
}

// GetRole extracts the caller role from gin context
func GetRole(c *gin.Context) (string, bool) {
	role, exists := c.Get(ContextKeyRole)
	if !exists {
		return "", false
	}
	r, ok := role.(string)
	return r, ok
}

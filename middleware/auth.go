package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"orderease/models"
)

// Claims carry the role picked by the caller. Guests are bound to a table,
// servers to a server name. Nothing here proves identity: anyone may pick any
// role.
type Claims struct {
	Role        models.Role `json:"role"`
	ServerName  string      `json:"server_name,omitempty"`
	TableNumber int         `json:"table_number,omitempty"`
	jwt.RegisteredClaims
}

// RoleTokens issues and verifies role tokens.
type RoleTokens struct {
	Secret []byte
	TTL    time.Duration
}

// GenerateToken creates a signed JWT for the chosen role
func (rt *RoleTokens) GenerateToken(role models.Role, serverName string, tableNumber int) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:        role,
		ServerName:  serverName,
		TableNumber: tableNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(rt.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(rt.Secret)
}

// RoleRequired validates the token and enforces one of the allowed roles
func (rt *RoleTokens) RoleRequired(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required (Bearer <token>), get one from POST /api/role"})
			c.Abort()
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return rt.Secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}
		for _, r := range roles {
			if claims.Role == r {
				c.Set("claims", claims)
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Access denied. Required role(s): " + rolesString(roles),
		})
		c.Abort()
	}
}

func rolesString(roles []models.Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}

// GetClaims extracts the caller's claims from context
func GetClaims(c *gin.Context) *Claims {
	val, _ := c.Get("claims")
	claims, _ := val.(*Claims)
	return claims
}

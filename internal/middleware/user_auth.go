package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// UserAuth validates bearer tokens issued by the external identity provider
// and injects the userId claim into the context.
func UserAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := UserIDFromHeader(c.GetHeader("Authorization"), secret)
		if err != nil {
			log.Println("[AUTH] [ERROR] token validation failed:", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if userID == "" {
			log.Println("[AUTH] [ERROR] missing token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		c.Set("userId", userID)
		c.Next()
	}
}

// UserIDFromHeader extracts and validates the bearer token from an
// Authorization header. A blank header is not an error: it returns an empty
// user id, which callers on optionally-authenticated routes treat as guest.
func UserIDFromHeader(header, secret string) (string, error) {
	raw := strings.TrimSpace(header)
	if raw == "" {
		return "", nil
	}

	parts := strings.Split(raw, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errInvalidToken
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errInvalidToken
	}

	userID, ok := claims["userId"].(string)
	if !ok || strings.TrimSpace(userID) == "" {
		return "", errMissingUserID
	}

	return userID, nil
}

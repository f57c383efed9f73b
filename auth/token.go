package auth

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/joho/godotenv"
)

func init() {
	_ = godotenv.Load()
}

// secretKey resolves JWT_SECRET on every call so the secret can be rotated
// without a restart. Empty means tokens cannot be verified or issued.
func secretKey() []byte {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		return nil
	}
	return []byte(secret)
}

// ParseAndValidateToken parses a JWT token string and returns its claims.
func ParseAndValidateToken(tokenStr string) (jwt.MapClaims, error) {
	key := secretKey()
	if key == nil {
		return nil, fmt.Errorf("JWT secret not configured")
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	})

	if err != nil || token == nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// Subject extracts the shopper id from parsed claims.
func Subject(claims jwt.MapClaims) (string, error) {
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("token missing subject")
	}
	return sub, nil
}

// GenerateToken signs a token for the given shopper id.
func GenerateToken(shopperID string, ttl time.Duration) (string, error) {
	key := secretKey()
	if key == nil {
		return "", fmt.Errorf("JWT secret not configured")
	}
	claims := jwt.MapClaims{
		"sub": shopperID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

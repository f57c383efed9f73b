package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ecocycle/backend/auth"
	apperrors "github.com/ecocycle/backend/errors"
	"github.com/ecocycle/backend/services"
)

const (
	// UserContextKey holds the authenticated shopper id, set only when a
	// valid token was presented.
	UserContextKey = "userID"

	// SessionContextKey holds the cart owner id: the authenticated shopper
	// when logged in, otherwise the anonymous session id.
	SessionContextKey = "shopperID"
)

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// OptionalAuth sets the user id when a valid token is presented and lets the
// request through either way. The checkout gate makes the actual decision.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if claims, err := auth.ParseAndValidateToken(token); err == nil {
				if sub, err := auth.Subject(claims); err == nil {
					c.Set(UserContextKey, sub)
				}
			}
		}
		c.Next()
	}
}

// RequireAuth rejects requests without a valid token. Denials go through the
// ErrUnauthenticated sentinel so ErrorMiddleware renders them in the one
// error shape.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortUnauthenticated(c)
			return
		}
		claims, err := auth.ParseAndValidateToken(token)
		if err != nil {
			abortUnauthenticated(c)
			return
		}
		sub, err := auth.Subject(claims)
		if err != nil {
			abortUnauthenticated(c)
			return
		}
		c.Set(UserContextKey, sub)
		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context) {
	_ = c.Error(apperrors.ErrUnauthenticated)
	c.Abort()
}

// Session resolves the cart owner: the authenticated shopper if logged in,
// otherwise the anonymous session id from the X-Session-ID header. Carts work
// before login; only checkout requires authentication.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := c.Get(UserContextKey); ok {
			c.Set(SessionContextKey, id)
			c.Next()
			return
		}
		if sid := c.GetHeader("X-Session-ID"); sid != "" {
			c.Set(SessionContextKey, sid)
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing session"})
	}
}

// GetUserID returns the authenticated shopper id.
func GetUserID(c *gin.Context) (string, error) {
	if val, ok := c.Get(UserContextKey); ok {
		if id, ok := val.(string); ok && id != "" {
			return id, nil
		}
	}
	return "", errors.New("user ID not found in context")
}

// GetShopperID returns the cart owner id set by Session.
func GetShopperID(c *gin.Context) (string, error) {
	if val, ok := c.Get(SessionContextKey); ok {
		if id, ok := val.(string); ok && id != "" {
			return id, nil
		}
	}
	return "", errors.New("shopper ID not found in context")
}

// Signal builds the checkout gate's auth signal from the request context.
func Signal(c *gin.Context) services.AuthSignal {
	id, err := GetUserID(c)
	if err != nil {
		return services.AuthSignal{}
	}
	return services.AuthSignal{Authenticated: true, ShopperID: id}
}

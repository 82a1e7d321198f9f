package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/auth"
)

// TokenValidator turns a bearer token into a principal. *auth.JWTManager
// satisfies it.
type TokenValidator interface {
	Validate(token string) (auth.Principal, error)
}

// Authenticate reads "Authorization: Bearer <token>" and, when the token is
// valid, stores the principal in the request context and its id under the
// "userID" Gin key. Missing or invalid tokens leave the caller anonymous;
// admin gating happens in the services.
func Authenticate(v TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" || v == nil {
			c.Next()
			return
		}
		p, err := v.Validate(token)
		if err != nil {
			LoggerFrom(c).Debug().Err(err).Msg("ignoring invalid bearer token")
			c.Next()
			return
		}
		c.Set("userID", p.UserID)
		c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

func bearerToken(h string) string {
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

package httpapi

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/joyal-jij0/pragati/internal/auth"
	"github.com/joyal-jij0/pragati/internal/common"
	"github.com/joyal-jij0/pragati/internal/users"
)

const principalKey = "principal"

// RequireAuth resolves the bearer access token into a user and stores it in
// the request context. Requests without a valid token never reach the
// handler.
func RequireAuth(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortWithError(c, common.ErrAuthentication)
			return
		}

		user, err := svc.ResolvePrincipal(c.Request.Context(), token)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(principalKey, user)
		c.Next()
	}
}

// CurrentUser returns the user set by RequireAuth, or nil outside a
// protected route.
func CurrentUser(c *gin.Context) *users.User {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	user, ok := v.(*users.User)
	if !ok {
		return nil
	}
	return user
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vitruchem.com/app/internal/adminsession"
)

// RequireAdmin guards the catalog write endpoints. The admin session is a
// signed cookie issued by the login handler; there is nothing to look up
// server-side.
// - JSON clients get 401
// - browser requests bounce back to the login form
func RequireAdmin(sessions *adminsession.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessions.Valid(c) {
			c.Next()
			return
		}

		if WantsJSON(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "admin session required",
				"request_id": GetRequestID(c),
			})
			return
		}

		c.Redirect(http.StatusFound, "/admin")
		c.Abort()
	}
}

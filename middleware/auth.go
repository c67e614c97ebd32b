package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pontualapp/pontual/config"
	"github.com/pontualapp/pontual/session"
	"github.com/pontualapp/pontual/utils"
)

// SessionRequired guards protected views: without a session the request is
// rejected and pointed at the login route.
func SessionRequired(sess *session.Manager) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !sess.IsAuthenticated() {
			ctx.Header("Location", config.RouteLogin)
			utils.Error(ctx, http.StatusUnauthorized, 40100, "não autenticado")
			ctx.Abort()
			return
		}

		if token := sess.Token(); token != "" && utils.IsTokenBlacklisted(token) {
			sess.Logout()
			ctx.Header("Location", config.RouteLogin)
			utils.Error(ctx, http.StatusUnauthorized, 40104, "token revogado")
			ctx.Abort()
			return
		}

		ctx.Next()
	}
}

package handler

import (
	"net/http"

	"github.com/biolink/internal/auth"
	"github.com/gin-gonic/gin"
)

// AuthRequired 校验 Authorization: Bearer 令牌，并把 owner id 写入上下文
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.BearerToken(c.GetHeader("Authorization"))
		ownerID, err := a.auth.VerifyToken(token)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "unauthorized")
			c.Abort()
			return
		}

		c.Set(ownerIDContextKey, ownerID)
		c.Next()
	}
}

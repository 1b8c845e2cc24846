package middlewares

import (
	"net/http"
	"strings"

	"github.com/CPU-commits/Intranet_BXams/res"
	"github.com/CPU-commits/Intranet_BXams/services"
	"github.com/gin-gonic/gin"
)

const ACCESS_COOKIE = "access_token"

func extractToken(ctx *gin.Context) string {
	if cookie, err := ctx.Cookie(ACCESS_COOKIE); err == nil && cookie != "" {
		return cookie
	}
	header := ctx.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func JWTMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := extractToken(ctx)
		if token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, &res.Response{
				Success: false,
				Message: "Unauthorized",
			})
			return
		}
		claims, err := services.ParseToken(token, services.ACCESS_TOKEN)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, &res.Response{
				Success: false,
				Message: err.Error(),
			})
			return
		}
		ctx.Set(services.CLAIMS_CONTEXT_KEY, claims)
		ctx.Next()
	}
}

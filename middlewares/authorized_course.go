package middlewares

import (
	"net/http"

	"github.com/CPU-commits/Intranet_BXams/res"
	"github.com/CPU-commits/Intranet_BXams/services"
	"github.com/gin-gonic/gin"
)

// AuthorizedRouteCourse lets through the owner of :idCourse and the
// students enrolled in it
func AuthorizedRouteCourse() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims, err := services.NewClaimsFromContext(ctx)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, &res.Response{
				Success: false,
				Message: "Unauthorized",
			})
			return
		}
		if errRes := services.AuthorizedRouteFromIdCourse(ctx.Param("idCourse"), claims); errRes != nil {
			ctx.AbortWithStatusJSON(errRes.StatusCode, &res.Response{
				Success: false,
				Message: errRes.Err.Error(),
			})
			return
		}
		ctx.Next()
	}
}

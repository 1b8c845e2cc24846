package controllers

import (
	"github.com/CPU-commits/Intranet_BXams/res"
	"github.com/CPU-commits/Intranet_BXams/services"
	"github.com/gin-gonic/gin"
)

// Services
var authService = services.NewAuthService()

type AuthController struct{}

// Me godoc
// @Summary     Current user
// @Tags        auth
// @Tags        roles.all
// @Produce     json
// @Success     200 {object} res.Response{body=smaps.UserMap}
// @Failure     401 {object} res.Response{} "Unauthorized"
// @Failure     404 {object} res.Response{} "User not found"
// @Router      /auth/me [get]
func (a *AuthController) Me(c *gin.Context) {
	claims, _ := services.NewClaimsFromContext(c)
	user, err := authService.Me(claims)
	if err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	// Response
	response := make(map[string]interface{})
	response["user"] = user
	c.JSON(200, &res.Response{
		Success: true,
		Data:    response,
	})
}

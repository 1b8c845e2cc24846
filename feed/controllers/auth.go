package controllers

import (
	"net/http"

	"github.com/CPU-commits/Intranet_BXams/forms"
	"github.com/CPU-commits/Intranet_BXams/res"
	"github.com/CPU-commits/Intranet_BXams/services"
	"github.com/CPU-commits/Intranet_BXams/settings"
	"github.com/gin-gonic/gin"
)

const (
	ACCESS_COOKIE  = "access_token"
	REFRESH_COOKIE = "refresh_token"
)

// Services
var authService = services.NewAuthService()

var settingsData = settings.GetSettings()

type AuthController struct{}

func setAuthCookies(c *gin.Context, tokens *services.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		ACCESS_COOKIE,
		tokens.AccessToken,
		int(settingsData.ACCESS_TOKEN_TTL.Seconds()),
		"/",
		"",
		settingsData.IsProd(),
		true,
	)
	c.SetCookie(
		REFRESH_COOKIE,
		tokens.RefreshToken,
		int(settingsData.REFRESH_TOKEN_TTL.Seconds()),
		"/",
		"",
		settingsData.IsProd(),
		true,
	)
}

func clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ACCESS_COOKIE, "", -1, "/", "", settingsData.IsProd(), true)
	c.SetCookie(REFRESH_COOKIE, "", -1, "/", "", settingsData.IsProd(), true)
}

func refreshTokenFrom(c *gin.Context) string {
	if cookie, err := c.Cookie(REFRESH_COOKIE); err == nil && cookie != "" {
		return cookie
	}
	var form forms.RefreshForm
	if err := c.ShouldBindJSON(&form); err == nil {
		return form.RefreshToken
	}
	return ""
}

// Register godoc
// @Summary     Register
// @Description Create a student or instructor account and open a session
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       user body     forms.RegisterForm true "New user"
// @Success     201  {object} res.Response{body=smaps.AuthMap}
// @Failure     400  {object} res.Response{} "Bad body"
// @Failure     409  {object} res.Response{} "Email or username taken"
// @Failure     503  {object} res.Response{} "Service Unavailable - DB || Redis"
// @Router      /auth/register [post]
func (a *AuthController) Register(c *gin.Context) {
	var form *forms.RegisterForm
	if err := c.BindJSON(&form); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, &res.Response{
			Success: false,
			Message: err.Error(),
		})
		return
	}
	user, tokens, err := authService.Register(form)
	if err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	setAuthCookies(c, tokens)
	// Response
	response := make(map[string]interface{})
	response["user"] = user
	response["tokens"] = tokens
	c.JSON(http.StatusCreated, res.Response{
		Success: true,
		Data:    response,
	})
}

// Login godoc
// @Summary     Login
// @Description Open a session with username or email
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       credentials body     forms.LoginForm true "Credentials"
// @Success     200         {object} res.Response{body=smaps.AuthMap}
// @Failure     400         {object} res.Response{} "Bad body"
// @Failure     401         {object} res.Response{} "Invalid credentials"
// @Failure     403         {object} res.Response{} "Deactivated account"
// @Router      /auth/login [post]
func (a *AuthController) Login(c *gin.Context) {
	var form *forms.LoginForm
	if err := c.BindJSON(&form); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, &res.Response{
			Success: false,
			Message: err.Error(),
		})
		return
	}
	user, tokens, err := authService.Login(form)
	if err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	setAuthCookies(c, tokens)
	// Response
	response := make(map[string]interface{})
	response["user"] = user
	response["tokens"] = tokens
	c.JSON(http.StatusOK, res.Response{
		Success: true,
		Data:    response,
	})
}

// Refresh godoc
// @Summary     Refresh session
// @Description Rotate the refresh token, read from the cookie or the body
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       token body     forms.RefreshForm false "Refresh token"
// @Success     200   {object} res.Response{body=smaps.TokensMap}
// @Failure     401   {object} res.Response{} "Invalid or revoked token"
// @Router      /auth/refresh [post]
func (a *AuthController) Refresh(c *gin.Context) {
	tokens, err := authService.Refresh(refreshTokenFrom(c))
	if err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	setAuthCookies(c, tokens)
	// Response
	response := make(map[string]interface{})
	response["tokens"] = tokens
	c.JSON(http.StatusOK, res.Response{
		Success: true,
		Data:    response,
	})
}

// Logout godoc
// @Summary     Logout
// @Description Revoke the refresh token and clear the cookies
// @Tags        auth
// @Produce     json
// @Success     200 {object} res.Response{}
// @Failure     503 {object} res.Response{} "Service Unavailable - Redis"
// @Router      /auth/logout [post]
func (a *AuthController) Logout(c *gin.Context) {
	if err := authService.Logout(refreshTokenFrom(c)); err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	clearAuthCookies(c)
	c.JSON(http.StatusOK, res.Response{
		Success: true,
	})
}

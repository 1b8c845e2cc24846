package controllers

import (
	"net/http"

	"github.com/CPU-commits/Intranet_BXams/forms"
	"github.com/CPU-commits/Intranet_BXams/res"
	"github.com/CPU-commits/Intranet_BXams/services"
	"github.com/gin-gonic/gin"
)

// Services
var groupsService = services.NewGroupsService()

type GroupController struct{}

// NewGroup godoc
// @Summary     New group
// @Description Create a group of the course with a fresh join code
// @Tags        groups
// @Tags        roles.instructor
// @Accept      json
// @Produce     json
// @Param       idCourse path     string          true "MongoID"
// @Param       group    body     forms.GroupForm true "Group"
// @Success     201      {object} res.Response{body=smaps.GroupMap}
// @Failure     400      {object} res.Response{} "Bad body"
// @Failure     403      {object} res.Response{} "Not the owner"
// @Router      /course/{idCourse}/group [post]
func (g *GroupController) NewGroup(c *gin.Context) {
	var form *forms.GroupForm
	claims, _ := services.NewClaimsFromContext(c)
	if err := c.BindJSON(&form); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, &res.Response{
			Success: false,
			Message: err.Error(),
		})
		return
	}
	group, err := groupsService.NewGroup(form, c.Param("idCourse"), claims)
	if err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	// Response
	response := make(map[string]interface{})
	response["group"] = group
	c.JSON(http.StatusCreated, res.Response{
		Success: true,
		Data:    response,
	})
}

// RenameGroup godoc
// @Summary     Rename group
// @Tags        groups
// @Tags        roles.instructor
// @Accept      json
// @Produce     json
// @Param       idGroup path     string          true "MongoID"
// @Param       group   body     forms.GroupForm true "Group"
// @Success     200     {object} res.Response{}
// @Failure     403     {object} res.Response{} "Not the owner"
// @Failure     404     {object} res.Response{} "Group not found"
// @Router      /group/{idGroup} [put]
func (g *GroupController) RenameGroup(c *gin.Context) {
	var form *forms.GroupForm
	claims, _ := services.NewClaimsFromContext(c)
	if err := c.BindJSON(&form); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, &res.Response{
			Success: false,
			Message: err.Error(),
		})
		return
	}
	if err := groupsService.RenameGroup(form, c.Param("idGroup"), claims); err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, res.Response{
		Success: true,
	})
}

// RegenerateCode godoc
// @Summary     Regenerate join code
// @Description The previous code stops working
// @Tags        groups
// @Tags        roles.instructor
// @Produce     json
// @Param       idGroup path     string true "MongoID"
// @Success     200     {object} res.Response{body=smaps.JoinCodeMap}
// @Failure     403     {object} res.Response{} "Not the owner"
// @Router      /group/{idGroup}/code [post]
func (g *GroupController) RegenerateCode(c *gin.Context) {
	claims, _ := services.NewClaimsFromContext(c)
	code, err := groupsService.RegenerateCode(c.Param("idGroup"), claims)
	if err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	// Response
	response := make(map[string]interface{})
	response["join_code"] = code
	c.JSON(http.StatusOK, res.Response{
		Success: true,
		Data:    response,
	})
}

// DeleteGroup godoc
// @Summary     Delete group
// @Tags        groups
// @Tags        roles.instructor
// @Produce     json
// @Param       idGroup path     string true "MongoID"
// @Success     200     {object} res.Response{}
// @Failure     403     {object} res.Response{} "Not the owner"
// @Router      /group/{idGroup} [delete]
func (g *GroupController) DeleteGroup(c *gin.Context) {
	claims, _ := services.NewClaimsFromContext(c)
	if err := groupsService.DeleteGroup(c.Param("idGroup"), claims); err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, res.Response{
		Success: true,
	})
}

// JoinGroup godoc
// @Summary     Join group
// @Description Join with a code. Joining twice changes nothing.
// @Tags        groups
// @Tags        roles.student
// @Accept      json
// @Produce     json
// @Param       code body     forms.JoinGroupForm true "Join code"
// @Success     200  {object} res.Response{body=smaps.GroupMap}
// @Failure     400  {object} res.Response{} "Bad body"
// @Failure     404  {object} res.Response{} "Unknown code"
// @Router      /group/join [post]
func (g *GroupController) JoinGroup(c *gin.Context) {
	var form *forms.JoinGroupForm
	claims, _ := services.NewClaimsFromContext(c)
	if err := c.BindJSON(&form); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, &res.Response{
			Success: false,
			Message: err.Error(),
		})
		return
	}
	group, err := groupsService.JoinGroup(form, claims)
	if err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	// Response
	response := make(map[string]interface{})
	response["group"] = group
	c.JSON(http.StatusOK, res.Response{
		Success: true,
		Data:    response,
	})
}

// RemoveStudent godoc
// @Summary     Remove student
// @Tags        groups
// @Tags        roles.instructor
// @Produce     json
// @Param       idGroup   path     string true "MongoID"
// @Param       idStudent path     string true "MongoID"
// @Success     200       {object} res.Response{}
// @Failure     403       {object} res.Response{} "Not the owner"
// @Router      /group/{idGroup}/students/{idStudent} [delete]
func (g *GroupController) RemoveStudent(c *gin.Context) {
	claims, _ := services.NewClaimsFromContext(c)
	err := groupsService.RemoveStudent(c.Param("idGroup"), c.Param("idStudent"), claims)
	if err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, res.Response{
		Success: true,
	})
}

// LeaveGroup godoc
// @Summary     Leave group
// @Tags        groups
// @Tags        roles.student
// @Produce     json
// @Param       idGroup path     string true "MongoID"
// @Success     200     {object} res.Response{}
// @Failure     404     {object} res.Response{} "Group not found"
// @Router      /group/{idGroup}/leave [delete]
func (g *GroupController) LeaveGroup(c *gin.Context) {
	claims, _ := services.NewClaimsFromContext(c)
	if err := groupsService.LeaveGroup(c.Param("idGroup"), claims); err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, res.Response{
		Success: true,
	})
}

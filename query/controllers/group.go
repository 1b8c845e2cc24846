package controllers

import (
	"github.com/CPU-commits/Intranet_BXams/res"
	"github.com/CPU-commits/Intranet_BXams/services"
	"github.com/gin-gonic/gin"
)

// Services
var groupsService = services.NewGroupsService()

type GroupController struct{}

// GetGroups godoc
// @Summary     Get groups
// @Description Groups of a course with their student count
// @Tags        groups
// @Tags        roles.all
// @Produce     json
// @Param       idCourse path     string true "MongoID"
// @Success     200      {object} res.Response{body=smaps.GroupsMap}
// @Failure     403      {object} res.Response{} "Not owner nor enrolled"
// @Router      /course/{idCourse}/group [get]
func (g *GroupController) GetGroups(c *gin.Context) {
	claims, _ := services.NewClaimsFromContext(c)
	groups, err := groupsService.GetGroups(c.Param("idCourse"), claims)
	if err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	// Response
	response := make(map[string]interface{})
	response["groups"] = groups
	c.JSON(200, &res.Response{
		Success: true,
		Data:    response,
	})
}

// GetStudents godoc
// @Summary     Get group students
// @Tags        groups
// @Tags        roles.instructor
// @Produce     json
// @Param       idGroup path     string true "MongoID"
// @Success     200     {object} res.Response{body=smaps.StudentsMap}
// @Failure     403     {object} res.Response{} "Not the owner"
// @Router      /group/{idGroup}/students [get]
func (g *GroupController) GetStudents(c *gin.Context) {
	claims, _ := services.NewClaimsFromContext(c)
	students, err := groupsService.GetStudents(c.Param("idGroup"), claims)
	if err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	// Response
	response := make(map[string]interface{})
	response["students"] = students
	c.JSON(200, &res.Response{
		Success: true,
		Data:    response,
	})
}

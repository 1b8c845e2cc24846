package controllers

import (
	"net/http"

	"github.com/CPU-commits/Intranet_BXams/forms"
	"github.com/CPU-commits/Intranet_BXams/res"
	"github.com/CPU-commits/Intranet_BXams/services"
	"github.com/gin-gonic/gin"
)

// Services
var schedulesService = services.NewSchedulesService()

type ScheduleController struct{}

// NewSchedule godoc
// @Summary     New exam schedule
// @Description Open an exam to some groups of the course in a time window
// @Tags        schedules
// @Tags        roles.instructor
// @Accept      json
// @Produce     json
// @Param       schedule body     forms.ScheduleForm true "Schedule"
// @Success     201      {object} res.Response{body=smaps.ScheduleMap}
// @Failure     400      {object} res.Response{} "Bad body, window or groups"
// @Failure     403      {object} res.Response{} "Not the course owner"
// @Router      /exam-schedule [post]
func (s *ScheduleController) NewSchedule(c *gin.Context) {
	var form *forms.ScheduleForm
	claims, _ := services.NewClaimsFromContext(c)
	if err := c.BindJSON(&form); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, &res.Response{
			Success: false,
			Message: err.Error(),
		})
		return
	}
	schedule, err := schedulesService.NewSchedule(form, claims)
	if err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	// Response
	response := make(map[string]interface{})
	response["schedule"] = schedule
	c.JSON(http.StatusCreated, res.Response{
		Success: true,
		Data:    response,
	})
}

// UpdateSchedule godoc
// @Summary     Update exam schedule
// @Description Anything before the start, only a later end afterwards
// @Tags        schedules
// @Tags        roles.instructor
// @Accept      json
// @Produce     json
// @Param       idSchedule path     string                   true "MongoID"
// @Param       schedule   body     forms.UpdateScheduleForm true "Fields to change"
// @Success     200        {object} res.Response{body=smaps.ScheduleMap}
// @Failure     400        {object} res.Response{} "Bad body or window"
// @Failure     403        {object} res.Response{} "Already started"
// @Router      /exam-schedule/{idSchedule} [put]
func (s *ScheduleController) UpdateSchedule(c *gin.Context) {
	var form *forms.UpdateScheduleForm
	claims, _ := services.NewClaimsFromContext(c)
	if err := c.BindJSON(&form); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, &res.Response{
			Success: false,
			Message: err.Error(),
		})
		return
	}
	schedule, err := schedulesService.UpdateSchedule(form, c.Param("idSchedule"), claims)
	if err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	// Response
	response := make(map[string]interface{})
	response["schedule"] = schedule
	c.JSON(http.StatusOK, res.Response{
		Success: true,
		Data:    response,
	})
}

// DeleteSchedule godoc
// @Summary     Delete exam schedule
// @Tags        schedules
// @Tags        roles.instructor
// @Produce     json
// @Param       idSchedule path     string true "MongoID"
// @Success     200        {object} res.Response{}
// @Failure     403        {object} res.Response{} "Has attempts"
// @Router      /exam-schedule/{idSchedule} [delete]
func (s *ScheduleController) DeleteSchedule(c *gin.Context) {
	claims, _ := services.NewClaimsFromContext(c)
	if err := schedulesService.DeleteSchedule(c.Param("idSchedule"), claims); err != nil {
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

// PublishResults godoc
// @Summary     Publish results
// @Description Show scores to students and notify them by email
// @Tags        schedules
// @Tags        roles.instructor
// @Produce     json
// @Param       idSchedule path     string true "MongoID"
// @Success     200        {object} res.Response{body=smaps.ScheduleMap}
// @Failure     403        {object} res.Response{} "Not the owner"
// @Failure     503        {object} res.Response{} "Service Unavailable - DB"
// @Router      /exam-schedule/{idSchedule}/publish [post]
func (s *ScheduleController) PublishResults(c *gin.Context) {
	claims, _ := services.NewClaimsFromContext(c)
	schedule, err := schedulesService.PublishResults(c.Param("idSchedule"), claims)
	if err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	// Response
	response := make(map[string]interface{})
	response["schedule"] = schedule
	c.JSON(http.StatusOK, res.Response{
		Success: true,
		Data:    response,
	})
}

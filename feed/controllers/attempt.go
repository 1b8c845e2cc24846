package controllers

import (
	"net/http"

	"github.com/CPU-commits/Intranet_BXams/forms"
	"github.com/CPU-commits/Intranet_BXams/res"
	"github.com/CPU-commits/Intranet_BXams/services"
	"github.com/gin-gonic/gin"
)

// Services
var attemptsService = services.NewAttemptsService()

type AttemptController struct{}

// StartAttempt godoc
// @Summary     Start exam
// @Description Start or resume the attempt of the student. Questions come without answer key.
// @Tags        attempts
// @Tags        roles.student
// @Accept      json
// @Produce     json
// @Param       idSchedule path     string                 true  "MongoID"
// @Param       access     body     forms.StartAttemptForm false "Access code"
// @Success     200        {object} res.Response{body=smaps.AttemptViewMap}
// @Failure     401        {object} res.Response{} "Wrong access code"
// @Failure     403        {object} res.Response{} "Not in the groups or out of the window"
// @Failure     409        {object} res.Response{} "Already taken"
// @Router      /exam-attempt/{idSchedule}/start [post]
func (a *AttemptController) StartAttempt(c *gin.Context) {
	var form forms.StartAttemptForm
	claims, _ := services.NewClaimsFromContext(c)
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&form); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, &res.Response{
				Success: false,
				Message: err.Error(),
			})
			return
		}
	}
	view, err := attemptsService.StartAttempt(&form, c.Param("idSchedule"), claims)
	if err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	// Response
	response := make(map[string]interface{})
	response["attempt"] = view.Attempt
	response["questions"] = view.Questions
	c.JSON(http.StatusOK, res.Response{
		Success: true,
		Data:    response,
	})
}

// SaveAnswer godoc
// @Summary     Save answer
// @Description Save or replace one answer. An empty body clears it.
// @Tags        attempts
// @Tags        roles.student
// @Accept      json
// @Produce     json
// @Param       idAttempt  path     string           true "MongoID"
// @Param       idQuestion path     string           true "MongoID"
// @Param       answer     body     forms.AnswerForm true "Answer"
// @Success     200        {object} res.Response{body=smaps.AnswerMap}
// @Failure     400        {object} res.Response{} "Invalid answer"
// @Failure     403        {object} res.Response{} "Attempt closed"
// @Failure     404        {object} res.Response{} "Question not found"
// @Router      /exam-attempt/{idAttempt}/answer/{idQuestion} [put]
func (a *AttemptController) SaveAnswer(c *gin.Context) {
	var form forms.AnswerForm
	claims, _ := services.NewClaimsFromContext(c)
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&form); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, &res.Response{
				Success: false,
				Message: err.Error(),
			})
			return
		}
	}
	answer, err := attemptsService.SaveAnswer(&form, c.Param("idAttempt"), c.Param("idQuestion"), claims)
	if err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	// Response
	response := make(map[string]interface{})
	response["answer"] = answer
	c.JSON(http.StatusOK, res.Response{
		Success: true,
		Data:    response,
	})
}

// SubmitAttempt godoc
// @Summary     Submit exam
// @Description Save the final answers and close the attempt
// @Tags        attempts
// @Tags        roles.student
// @Accept      json
// @Produce     json
// @Param       idAttempt path     string           true  "MongoID"
// @Param       answers   body     forms.SubmitForm false "Final answers"
// @Success     200       {object} res.Response{body=smaps.AttemptViewMap}
// @Failure     400       {object} res.Response{} "Invalid answer"
// @Failure     403       {object} res.Response{} "Past the deadline"
// @Failure     409       {object} res.Response{} "Already submitted"
// @Router      /exam-attempt/{idAttempt}/submit [post]
func (a *AttemptController) SubmitAttempt(c *gin.Context) {
	var form forms.SubmitForm
	claims, _ := services.NewClaimsFromContext(c)
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&form); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, &res.Response{
				Success: false,
				Message: err.Error(),
			})
			return
		}
	}
	view, err := attemptsService.SubmitAttempt(&form, c.Param("idAttempt"), claims)
	if err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	// Response
	response := make(map[string]interface{})
	response["attempt"] = view.Attempt
	response["questions"] = view.Questions
	c.JSON(http.StatusOK, res.Response{
		Success: true,
		Data:    response,
	})
}

// GradeAnswer godoc
// @Summary     Grade answer
// @Description Set points and feedback of one answer of a closed attempt
// @Tags        attempts
// @Tags        roles.instructor
// @Accept      json
// @Produce     json
// @Param       idAttempt  path     string                true "MongoID"
// @Param       idQuestion path     string                true "MongoID"
// @Param       grade      body     forms.GradeAnswerForm true "Grade"
// @Success     200        {object} res.Response{body=smaps.AttemptMap}
// @Failure     400        {object} res.Response{} "Points out of range"
// @Failure     403        {object} res.Response{} "Not the owner"
// @Failure     409        {object} res.Response{} "Attempt in progress"
// @Router      /exam-attempt/{idAttempt}/grade/{idQuestion} [put]
func (a *AttemptController) GradeAnswer(c *gin.Context) {
	var form *forms.GradeAnswerForm
	claims, _ := services.NewClaimsFromContext(c)
	if err := c.BindJSON(&form); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, &res.Response{
			Success: false,
			Message: err.Error(),
		})
		return
	}
	attempt, err := attemptsService.GradeAnswer(form, c.Param("idAttempt"), c.Param("idQuestion"), claims)
	if err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	// Response
	response := make(map[string]interface{})
	response["attempt"] = attempt
	c.JSON(http.StatusOK, res.Response{
		Success: true,
		Data:    response,
	})
}

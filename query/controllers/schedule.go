package controllers

import (
	"bytes"
	"fmt"

	"github.com/CPU-commits/Intranet_BXams/res"
	"github.com/CPU-commits/Intranet_BXams/services"
	"github.com/gin-gonic/gin"
)

const (
	XLSX_MIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ZIP_MIME  = "application/zip"
	PDF_MIME  = "application/pdf"
)

// Services
var schedulesService = services.NewSchedulesService()
var attemptsService = services.NewAttemptsService()
var exportsService = services.NewExportsService()

type ScheduleController struct{}

// sendFile answers with the rendered buffer as an attachment
func sendFile(c *gin.Context, mime, filename string, buf *bytes.Buffer) {
	c.Writer.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=\"%s\"", filename),
	)
	c.Data(200, mime, buf.Bytes())
}

// GetSchedules godoc
// @Summary     Get exam schedules
// @Description Owner sees every schedule, a student only those of their groups
// @Tags        schedules
// @Tags        roles.all
// @Produce     json
// @Param       course query    string true "MongoID of the course"
// @Success     200    {object} res.Response{body=smaps.SchedulesMap}
// @Success     200    {object} res.Response{body=smaps.StudentSchedulesMap}
// @Failure     403    {object} res.Response{} "Not owner nor enrolled"
// @Router      /exam-schedule [get]
func (s *ScheduleController) GetSchedules(c *gin.Context) {
	claims, _ := services.NewClaimsFromContext(c)
	schedules, err := schedulesService.GetSchedules(c.Query("course"), claims)
	if err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	// Response
	response := make(map[string]interface{})
	response["schedules"] = schedules
	c.JSON(200, &res.Response{
		Success: true,
		Data:    response,
	})
}

// GetSchedule godoc
// @Summary     Get exam schedule
// @Tags        schedules
// @Tags        roles.all
// @Produce     json
// @Param       idSchedule path     string true "MongoID"
// @Success     200        {object} res.Response{body=smaps.ScheduleMap}
// @Success     200        {object} res.Response{body=smaps.StudentScheduleMap}
// @Failure     403        {object} res.Response{} "Not owner nor in the groups"
// @Failure     404        {object} res.Response{} "Schedule not found"
// @Router      /exam-schedule/{idSchedule} [get]
func (s *ScheduleController) GetSchedule(c *gin.Context) {
	claims, _ := services.NewClaimsFromContext(c)
	schedule, err := schedulesService.GetSchedule(c.Param("idSchedule"), claims)
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
	c.JSON(200, &res.Response{
		Success: true,
		Data:    response,
	})
}

// GetScheduleAttempts godoc
// @Summary     Get attempts
// @Description Every attempt of a schedule with its student. Expired attempts are closed first.
// @Tags        schedules
// @Tags        roles.instructor
// @Produce     json
// @Param       idSchedule path     string true "MongoID"
// @Success     200        {object} res.Response{body=smaps.AttemptsMap}
// @Failure     403        {object} res.Response{} "Not the owner"
// @Router      /exam-schedule/{idSchedule}/attempts [get]
func (s *ScheduleController) GetScheduleAttempts(c *gin.Context) {
	claims, _ := services.NewClaimsFromContext(c)
	attempts, err := attemptsService.GetScheduleAttempts(c.Param("idSchedule"), claims)
	if err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	// Response
	response := make(map[string]interface{})
	response["attempts"] = attempts
	c.JSON(200, &res.Response{
		Success: true,
		Data:    response,
	})
}

// ExportResults godoc
// @Summary     Export results
// @Description One row per attempt and one column per question -> Excel
// @Tags        schedules
// @Tags        roles.instructor
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param       idSchedule path string true "MongoID"
// @Sucess      200 {file} binary "Excel File"
// @Failure     403 {object} res.Response{} "Not the owner"
// @Failure     500 {object} res.Response{} "Render error"
// @Router      /exam-schedule/{idSchedule}/export [get]
func (s *ScheduleController) ExportResults(c *gin.Context) {
	idSchedule := c.Param("idSchedule")
	claims, _ := services.NewClaimsFromContext(c)

	var buf bytes.Buffer
	if err := exportsService.ExportResults(idSchedule, claims, &buf); err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	sendFile(c, XLSX_MIME, fmt.Sprintf("results-%s.xlsx", idSchedule), &buf)
}

// ExportReports godoc
// @Summary     Export reports
// @Description ZIP with the PDF report of every closed attempt
// @Tags        schedules
// @Tags        roles.instructor
// @Produce     application/zip
// @Param       idSchedule path string true "MongoID"
// @Sucess      200 {file} binary "ZIP File"
// @Failure     403 {object} res.Response{} "Not the owner"
// @Failure     500 {object} res.Response{} "Render error"
// @Router      /exam-schedule/{idSchedule}/reports [get]
func (s *ScheduleController) ExportReports(c *gin.Context) {
	idSchedule := c.Param("idSchedule")
	claims, _ := services.NewClaimsFromContext(c)

	var buf bytes.Buffer
	if err := exportsService.ExportReports(idSchedule, claims, &buf); err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	sendFile(c, ZIP_MIME, fmt.Sprintf("reports-%s.zip", idSchedule), &buf)
}

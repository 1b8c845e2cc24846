package controllers

import (
	"github.com/CPU-commits/Intranet_BXams/res"
	"github.com/CPU-commits/Intranet_BXams/services"
	"github.com/gin-gonic/gin"
)

// Services
var coursesService = services.NewCoursesService()
var filesService = services.NewFilesService()

type CourseController struct{}

// GetCourses godoc
// @Summary     Get courses
// @Description Own courses of an instructor, or the courses a student is enrolled in
// @Tags        courses
// @Tags        roles.all
// @Produce     json
// @Success     200 {object} res.Response{body=smaps.CoursesMap}
// @Failure     503 {object} res.Response{} "Service Unavailable - DB"
// @Router      /course [get]
func (cc *CourseController) GetCourses(c *gin.Context) {
	claims, _ := services.NewClaimsFromContext(c)
	courses, err := coursesService.GetCourses(claims)
	if err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	// Response
	response := make(map[string]interface{})
	response["courses"] = courses
	c.JSON(200, &res.Response{
		Success: true,
		Data:    response,
	})
}

// GetCourse godoc
// @Summary     Get course
// @Tags        courses
// @Tags        roles.all
// @Produce     json
// @Param       idCourse path     string true "MongoID"
// @Success     200      {object} res.Response{body=smaps.CourseMap}
// @Failure     403      {object} res.Response{} "Not owner nor enrolled"
// @Failure     404      {object} res.Response{} "Course not found"
// @Router      /course/{idCourse} [get]
func (cc *CourseController) GetCourse(c *gin.Context) {
	claims, _ := services.NewClaimsFromContext(c)
	course, err := coursesService.GetCourse(c.Param("idCourse"), claims)
	if err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	// Response
	response := make(map[string]interface{})
	response["course"] = course
	c.JSON(200, &res.Response{
		Success: true,
		Data:    response,
	})
}

// GetImageURL godoc
// @Summary     Get course image
// @Description Presigned URL of the cover image
// @Tags        courses
// @Tags        roles.all
// @Produce     json
// @Param       idCourse path     string true "MongoID"
// @Success     200      {object} res.Response{body=smaps.URLMap}
// @Failure     404      {object} res.Response{} "Course without image"
// @Router      /course/{idCourse}/image [get]
func (cc *CourseController) GetImageURL(c *gin.Context) {
	claims, _ := services.NewClaimsFromContext(c)
	url, err := coursesService.GetImageURL(c.Param("idCourse"), claims)
	if err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	// Response
	response := make(map[string]interface{})
	response["url"] = url
	c.JSON(200, &res.Response{
		Success: true,
		Data:    response,
	})
}

// GetFiles godoc
// @Summary     Get course files
// @Tags        courses
// @Tags        roles.all
// @Produce     json
// @Param       idCourse path     string true "MongoID"
// @Success     200      {object} res.Response{body=smaps.FilesMap}
// @Failure     403      {object} res.Response{} "Not owner nor enrolled"
// @Router      /course/{idCourse}/files [get]
func (cc *CourseController) GetFiles(c *gin.Context) {
	claims, _ := services.NewClaimsFromContext(c)
	files, err := filesService.GetFiles(c.Param("idCourse"), claims)
	if err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	// Response
	response := make(map[string]interface{})
	response["files"] = files
	c.JSON(200, &res.Response{
		Success: true,
		Data:    response,
	})
}

// GetFileURL godoc
// @Summary     Download course file
// @Description Presigned URL of one course file
// @Tags        courses
// @Tags        roles.all
// @Produce     json
// @Param       idCourse path     string true "MongoID"
// @Param       idFile   path     string true "MongoID"
// @Success     200      {object} res.Response{body=smaps.URLMap}
// @Failure     404      {object} res.Response{} "File not found"
// @Router      /course/{idCourse}/files/{idFile} [get]
func (cc *CourseController) GetFileURL(c *gin.Context) {
	claims, _ := services.NewClaimsFromContext(c)
	url, err := filesService.GetFileURL(c.Param("idCourse"), c.Param("idFile"), claims)
	if err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	// Response
	response := make(map[string]interface{})
	response["url"] = url
	c.JSON(200, &res.Response{
		Success: true,
		Data:    response,
	})
}

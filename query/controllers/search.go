package controllers

import (
	"net/http"

	"github.com/CPU-commits/Intranet_BXams/res"
	"github.com/CPU-commits/Intranet_BXams/services"
	"github.com/gin-gonic/gin"
)

// Services
var searchService = services.NewSearchService()

type SearchController struct{}

// Search godoc
// @Summary     Search
// @Description Full text over the courses and exams visible to the user
// @Tags        search
// @Tags        roles.all
// @Produce     json
// @Param       q   query    string true "Terms"
// @Success     200 {object} res.Response{body=smaps.SearchHitsMap}
// @Failure     400 {object} res.Response{} "Empty query"
// @Failure     503 {object} res.Response{} "Service Unavailable - ES"
// @Router      /search [get]
func (s *SearchController) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, &res.Response{
			Success: false,
			Message: "Query q is required",
		})
		return
	}
	claims, _ := services.NewClaimsFromContext(c)
	hits, total, err := searchService.Search(q, claims)
	if err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	// Response
	response := make(map[string]interface{})
	response["hits"] = hits
	response["total"] = total
	c.JSON(200, &res.Response{
		Success: true,
		Data:    response,
	})
}

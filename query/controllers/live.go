package controllers

import (
	"github.com/CPU-commits/Intranet_BXams/live"
	"github.com/CPU-commits/Intranet_BXams/logger"
	"github.com/CPU-commits/Intranet_BXams/res"
	"github.com/CPU-commits/Intranet_BXams/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LiveController struct {
	Hub *live.Hub
}

// Monitor godoc
// @Summary     Live exam monitor
// @Description Websocket with the attempt events of one schedule
// @Tags        schedules
// @Tags        roles.instructor
// @Param       idSchedule path string true "MongoID"
// @Success     101
// @Failure     403 {object} res.Response{} "Not the owner"
// @Router      /exam-schedule/{idSchedule}/live [get]
func (l *LiveController) Monitor(c *gin.Context) {
	idSchedule := c.Param("idSchedule")
	claims, _ := services.NewClaimsFromContext(c)
	if err := schedulesService.AuthorizeOwner(idSchedule, claims); err != nil {
		c.AbortWithStatusJSON(err.StatusCode, &res.Response{
			Success: false,
			Message: err.Err.Error(),
		})
		return
	}
	// The upgrader already answered the handshake on failure
	if err := l.Hub.Serve(c, idSchedule); err != nil {
		logger.Get().Warn("live upgrade", zap.Error(err), zap.String("schedule", idSchedule))
	}
}

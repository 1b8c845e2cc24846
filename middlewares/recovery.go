package middlewares

import (
	"io"
	"net/http"

	"github.com/CPU-commits/Intranet_BXams/logger"
	"github.com/CPU-commits/Intranet_BXams/res"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery reports the panic once and answers a single JSON 500
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered interface{}) {
		logger.ReportPanic(
			recovered,
			zap.String("path", c.Request.URL.Path),
			zap.Stack("stack"),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, res.Response{
			Success: false,
			Message: "Server Internal Error",
		})
	})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plately/plately-backend/internal/db"
	"github.com/plately/plately-backend/internal/logger"
)

type HealthcheckHandler struct {
	pg  *db.PostgresService
	log *logger.Logger
}

func NewHealthcheckHandler(pg *db.PostgresService, baseLog *logger.Logger) *HealthcheckHandler {
	return &HealthcheckHandler{pg: pg, log: baseLog.With("handler", "HealthcheckHandler")}
}

func (h *HealthcheckHandler) Healthcheck(c *gin.Context) {
	sqlDB, err := h.pg.DB().DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		h.log.Error("healthcheck failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

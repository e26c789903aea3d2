package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/plately/plately-backend/internal/logger"
	"github.com/plately/plately-backend/internal/requestdata"
	"github.com/plately/plately-backend/internal/services"
)

type TutorialHandler struct {
	tutorialService services.TutorialService
	log             *logger.Logger
}

func NewTutorialHandler(tutorialService services.TutorialService, baseLog *logger.Logger) *TutorialHandler {
	return &TutorialHandler{tutorialService: tutorialService, log: baseLog.With("handler", "TutorialHandler")}
}

func (h *TutorialHandler) Complete(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	tutorialID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tutorial id"})
		return
	}

	result, err := h.tutorialService.CompleteTutorial(c.Request.Context(), rd.UserID, tutorialID)
	if err != nil {
		h.log.Error("tutorial completion failed", "tutorial_id", tutorialID, "user_id", rd.UserID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "tutorial completion failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}

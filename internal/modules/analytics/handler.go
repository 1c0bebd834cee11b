package analytics

import (
	"net/http"

	"deployhub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.GET("/analytics/summary", h.Summary)
}

func (h *Handler) Summary(c *gin.Context) {
	userID := c.GetInt64("user_id")

	summary, err := h.service.Summarize(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "ANALYTICS_FAILED", "Failed to build summary")
		return
	}

	response.Success(c, http.StatusOK, summary)
}

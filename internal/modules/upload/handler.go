package upload

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"deployhub/internal/pkg/response"
	"deployhub/internal/platform"

	"github.com/gin-gonic/gin"
)

const maxUploadBytes = 100 << 20 // matches the webhook's asset limit

// Handler accepts the dashboard's deployment form and drives the workflow.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	uploads := protected.Group("/uploads")
	{
		uploads.POST("", h.Submit)
		uploads.GET("", h.Recent)
	}
	protected.GET("/platforms", h.Platforms)
}

// Submit handles the multipart deployment form: file, notes, caption_ideas
// and platforms (repeated field or a single JSON array, the same shape the
// relay webhook receives).
func (h *Handler) Submit(c *gin.Context) {
	userID := c.GetInt64("user_id")

	if err := c.Request.ParseMultipartForm(maxUploadBytes); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_FORM", "Failed to parse form")
		return
	}

	att := NewAttempt()
	att.SetNotes(c.PostForm("notes"))
	att.SetCaptionIdeas(c.PostForm("caption_ideas"))

	for _, id := range platformIDs(c) {
		if err := att.ToggleTarget(id); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", MsgValidation)
			return
		}
	}

	if fileHeader, err := c.FormFile("file"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_FORM", "Failed to read file")
			return
		}
		defer file.Close()
		att.SelectAsset(&Asset{
			Filename: fileHeader.Filename,
			Size:     fileHeader.Size,
			MimeType: fileHeader.Header.Get("Content-Type"),
			Content:  file,
		})
	}

	record, err := h.service.Submit(c.Request.Context(), userID, att)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingAsset), errors.Is(err, ErrNoTargets):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", MsgValidation)
		case errors.Is(err, ErrAuthorizationLost):
			response.Error(c, http.StatusUnauthorized, "AUTH_LOST", MsgRelayFault)
		case errors.Is(err, ErrSubmissionInFlight):
			response.Error(c, http.StatusConflict, "SUBMIT_IN_FLIGHT", "A deployment is already in progress")
		default:
			response.Error(c, http.StatusBadGateway, "RELAY_FAULT", MsgRelayFault)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message":  MsgSuccess,
		"record":   record,
		"progress": att.Progress(),
	})
}

func (h *Handler) Recent(c *gin.Context) {
	userID := c.GetInt64("user_id")

	uploads, err := h.service.Recent(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list deployments")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"uploads": uploads})
}

// Platforms serves the catalog that drives the form controls and the
// analytics chart colors.
func (h *Handler) Platforms(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"platforms": platform.Catalog()})
}

// platformIDs reads the platforms field either as a repeated form value or
// as a single JSON-encoded array of ids.
func platformIDs(c *gin.Context) []string {
	values := c.PostFormArray("platforms")
	if len(values) == 1 && strings.HasPrefix(strings.TrimSpace(values[0]), "[") {
		var decoded []string
		if err := json.Unmarshal([]byte(values[0]), &decoded); err == nil {
			return decoded
		}
	}
	return values
}

package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"documind/internal/app"
	"documind/internal/transport/http/response"
)

type ActivityHandler struct {
	activityService *app.ActivityService
}

func NewActivityHandler(activityService *app.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

func (h *ActivityHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	list, err := h.activityService.ListActivity(c.Request.Context(), userID, limit)
	if err != nil {
		writeDocumentError(c, err, "list activity failed")
		return
	}
	response.OK(c, list)
}

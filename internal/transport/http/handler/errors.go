package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"documind/internal/app"
	"documind/internal/transport/http/middleware"
	"documind/internal/transport/http/response"
)

// writeDocumentError maps document and chat service errors to responses;
// anything unrecognised becomes a 500 carrying fallback.
func writeDocumentError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrInvalidEncoding):
		response.Error(c, http.StatusBadRequest, response.CodeInvalidEncoding, err.Error())
	case errors.Is(err, app.ErrDocumentNotFound):
		response.Error(c, http.StatusNotFound, response.CodeDocumentNotFound, err.Error())
	case errors.Is(err, app.ErrForbidden):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}

func requireUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return "", false
	}
	return userID, true
}

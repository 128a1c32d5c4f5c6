package handler

import (
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"documind/internal/app"
	"documind/internal/transport/http/response"
)

type DocumentHandler struct {
	documentService *app.DocumentService
}

func NewDocumentHandler(documentService *app.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// Upload accepts a multipart form with "file" and an optional "name"
// overriding the file name.
func (h *DocumentHandler) Upload(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
		return
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		name = file.Filename
	}

	doc, err := h.documentService.Upload(c.Request.Context(), app.UploadInput{
		UserID:  userID,
		Name:    name,
		Content: content,
	})
	if err != nil {
		writeDocumentError(c, err, "upload document failed")
		return
	}

	log.Printf("document uploaded id=%s user=%s bytes=%d", doc.ID, userID, len(content))
	response.OK(c, gin.H{"id": doc.ID, "name": doc.Name})
}

func (h *DocumentHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	docs, err := h.documentService.ListDocuments(c.Request.Context(), userID)
	if err != nil {
		writeDocumentError(c, err, "list documents failed")
		return
	}
	response.OK(c, docs)
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	documentID := c.Param("id")
	if err := h.documentService.DeleteDocument(c.Request.Context(), userID, documentID); err != nil {
		writeDocumentError(c, err, "delete document failed")
		return
	}

	log.Printf("document deleted id=%s user=%s", documentID, userID)
	response.OK(c, gin.H{"message": "Document deleted"})
}

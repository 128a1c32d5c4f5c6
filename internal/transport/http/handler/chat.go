package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"documind/internal/app"
	"documind/internal/transport/http/response"
)

type ChatHandler struct {
	chatService *app.ChatService
}

// SendMessageRequest keeps Message a pointer so an empty string is accepted
// while an absent field is not.
type SendMessageRequest struct {
	Message *string `json:"message" binding:"required"`
}

func NewChatHandler(chatService *app.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// SendMessage reads the message from the "message" query parameter, falling
// back to a JSON body.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	message, found := c.GetQuery("message")
	if !found {
		var req SendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
			return
		}
		message = *req.Message
	}

	answer, err := h.chatService.SendMessage(c.Request.Context(), app.SendMessageInput{
		UserID:     userID,
		DocumentID: c.Param("id"),
		Content:    message,
	})
	if err != nil {
		writeDocumentError(c, err, "send message failed")
		return
	}

	response.OK(c, gin.H{"response": answer})
}

func (h *ChatHandler) GetHistory(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	history, err := h.chatService.GetHistory(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeDocumentError(c, err, "get history failed")
		return
	}

	response.OK(c, history)
}

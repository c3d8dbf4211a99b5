package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/services"
	"carpool/internal/transport/ws"
)

// MessageHandler is the inbound edge of the transport: it receives user
// turns over HTTP and hands them to the conversation core. All user-visible
// responses travel back over the outbound Sender, so the webhook only
// acknowledges receipt.
type MessageHandler struct {
	conversationService *services.ConversationService
	hub                 *ws.Hub
}

func NewMessageHandler(conversationService *services.ConversationService, hub *ws.Hub) *MessageHandler {
	return &MessageHandler{
		conversationService: conversationService,
		hub:                 hub,
	}
}

type inboundMessage struct {
	UserID  string `json:"user_id" binding:"required"`
	Contact string `json:"contact"`
	Text    string `json:"text" binding:"required"`
}

// Receive handles POST /messages.
func (h *MessageHandler) Receive(c *gin.Context) {
	var msg inboundMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.conversationService.HandleInbound(c.Request.Context(), msg.UserID, msg.Contact, msg.Text)

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// Connect handles GET /ws/:user_id, upgrading to the outbound WebSocket.
func (h *MessageHandler) Connect(c *gin.Context) {
	userID := c.Param("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	if err := h.hub.Attach(c.Writer, c.Request, userID); err != nil {
		// Upgrade failures write their own HTTP response.
		return
	}
}

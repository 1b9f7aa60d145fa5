package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"team-chat/internal/events"
	"team-chat/internal/realtime"
	"team-chat/internal/services"
	"team-chat/internal/transport/httpdto"
	"team-chat/pkg/logger"
)

// Frame types clients may send. Messages themselves are created over HTTP;
// the "message" frame only re-announces an already persisted message, so
// there is exactly one write path.
const (
	frameTyping            = "typing"
	frameSubscribeTyping   = "subscribe_typing"
	frameUnsubscribeTyping = "unsubscribe_typing"
	frameMessage           = "message"
)

type inboundFrame struct {
	Type    string          `json:"type"`
	ChatID  string          `json:"chat_id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type messageFramePayload struct {
	MessageID string `json:"message_id"`
}

type Handler struct {
	auth        *services.AuthService
	messages    *services.MessageService
	chats       *services.ChatService
	broadcaster *realtime.Broadcaster
	relay       *realtime.TypingRelay
	hub         *Hub
	log         *logger.Logger
}

func NewHandler(auth *services.AuthService, messages *services.MessageService, chats *services.ChatService, broadcaster *realtime.Broadcaster, relay *realtime.TypingRelay, hub *Hub, log *logger.Logger) *Handler {
	return &Handler{auth: auth, messages: messages, chats: chats, broadcaster: broadcaster, relay: relay, hub: hub, log: log}
}

func (h *Handler) Connect(c *gin.Context) {
	token := c.Query("token")
	claims, err := h.auth.ParseAccessToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := NewClient(conn, claims.UserID)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.hub.Register(client)
	h.hub.Subscribe(client, events.UserChannel(claims.UserID))
	go client.WriteLoop(ctx)

	conn.SetReadDeadline(time.Now().Add(readWait))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		conn.SetReadDeadline(time.Now().Add(readWait))
		h.handleFrame(ctx, client, data)
	}

	h.hub.Unregister(client)
}

func (h *Handler) handleFrame(ctx context.Context, client *Client, data []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return
	}

	switch frame.Type {
	case frameTyping:
		if err := h.relay.Relay(ctx, frame.Payload); err != nil {
			h.log.Warnf("ws: typing relay from user %s: %v", client.UserID, err)
		}
	case frameSubscribeTyping:
		if frame.ChatID != "" {
			h.hub.Subscribe(client, events.TypingChannel(frame.ChatID))
		}
	case frameUnsubscribeTyping:
		if frame.ChatID != "" {
			h.hub.Unsubscribe(client, events.TypingChannel(frame.ChatID))
		}
	case frameMessage:
		h.reannounceMessage(ctx, client, frame.Payload)
	}
}

// reannounceMessage fans out a message that the HTTP path already persisted.
// Unknown ids are dropped, as are requests from users outside the message's
// chat; the socket never writes message rows.
func (h *Handler) reannounceMessage(ctx context.Context, client *Client, payload []byte) {
	var body messageFramePayload
	if err := json.Unmarshal(payload, &body); err != nil {
		return
	}
	id, err := uuid.Parse(body.MessageID)
	if err != nil {
		return
	}
	requesterID, err := uuid.Parse(client.UserID)
	if err != nil {
		return
	}

	msg, err := h.messages.FindMessageByID(ctx, id)
	if err != nil {
		h.log.Warnf("ws: reannounce unknown message %s from user %s", body.MessageID, client.UserID)
		return
	}

	member, err := h.chats.IsMember(ctx, msg.ChatID, requesterID)
	if err != nil || !member {
		h.log.Warnf("ws: reannounce of message %s denied for non-member %s", body.MessageID, client.UserID)
		return
	}

	h.broadcaster.BroadcastMessage(ctx, msg)
}

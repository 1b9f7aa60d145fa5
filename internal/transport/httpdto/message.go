package httpdto

import (
	"time"

	"github.com/google/uuid"

	"team-chat/internal/domain/message"
)

type MessageResponse struct {
	ID          uuid.UUID            `json:"id"`
	ChatID      uuid.UUID            `json:"chat_id"`
	SenderID    uuid.UUID            `json:"sender_id"`
	Content     *string              `json:"content"`
	ReadBy      []uuid.UUID          `json:"read_by"`
	CreatedAt   time.Time            `json:"created_at"`
	Attachments []AttachmentResponse `json:"attachments"`
}

type AttachmentResponse struct {
	Name        string  `json:"name"`
	URL         *string `json:"url"`
	ContentType string  `json:"content_type"`
	SizeBytes   int64   `json:"size_bytes"`
}

func FromMessage(m message.Message) MessageResponse {
	var content *string
	if m.Content.Valid {
		content = &m.Content.String
	}

	attachments := make([]AttachmentResponse, 0, len(m.Attachments))
	for _, a := range m.Attachments {
		var url *string
		if a.PublicURL.Valid {
			url = &a.PublicURL.String
		}
		attachments = append(attachments, AttachmentResponse{
			Name:        a.OriginalName,
			URL:         url,
			ContentType: a.ContentType,
			SizeBytes:   a.SizeBytes,
		})
	}

	return MessageResponse{
		ID:          m.ID,
		ChatID:      m.ChatID,
		SenderID:    m.SenderID,
		Content:     content,
		ReadBy:      m.ReadBy,
		CreatedAt:   m.CreatedAt,
		Attachments: attachments,
	}
}

func FromMessages(items []message.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(items))
	for _, m := range items {
		out = append(out, FromMessage(m))
	}
	return out
}

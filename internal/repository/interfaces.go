package repository

import (
	"context"

	"github.com/google/uuid"

	"team-chat/internal/domain/chat"
	"team-chat/internal/domain/message"
	"team-chat/internal/domain/user"
)

type MessageRepository interface {
	// Create persists the message together with its attachments as one unit.
	Create(ctx context.Context, m *message.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (message.Message, error)
	// GetChatMessages returns all messages for the chat, oldest first.
	GetChatMessages(ctx context.Context, chatID uuid.UUID) ([]message.Message, error)
	// Delete removes the message and cascades to its attachments.
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type ChatRepository interface {
	// GetByID loads the chat with its member list.
	GetByID(ctx context.Context, id uuid.UUID) (chat.Chat, error)
}

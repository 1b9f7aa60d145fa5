package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"team-chat/internal/domain/message"
	"team-chat/internal/repository"
	chat_errors "team-chat/pkg/errors"
	"team-chat/pkg/logger"
)

// MessageBroadcaster receives a message after its transaction has committed.
type MessageBroadcaster interface {
	BroadcastMessage(ctx context.Context, msg message.Message)
}

const broadcastTimeout = 5 * time.Second

// MessageService orchestrates validation, authorization and persistence of
// chat messages, and hands committed messages to the broadcaster. The
// real-time push is deliberately outside the transaction: a crash between
// commit and publish leaves the message stored but unpushed, which clients
// recover from by refetching the chat.
type MessageService struct {
	db          *gorm.DB
	messageRepo repository.MessageRepository
	users       *UserService
	chats       *ChatService
	broadcaster MessageBroadcaster
	log         *logger.Logger
}

func NewMessageService(db *gorm.DB, messageRepo repository.MessageRepository, users *UserService, chats *ChatService, broadcaster MessageBroadcaster, log *logger.Logger) *MessageService {
	return &MessageService{
		db:          db,
		messageRepo: messageRepo,
		users:       users,
		chats:       chats,
		broadcaster: broadcaster,
		log:         log,
	}
}

// SendMessage persists a new message with its attachments as one unit and
// triggers the fan-out. The returned message is the durable record.
func (s *MessageService) SendMessage(ctx context.Context, chatID uuid.UUID, content string, attachments []message.Attachment, senderID uuid.UUID) (message.Message, error) {
	sender, err := s.users.FindUserByID(ctx, senderID)
	if err != nil {
		return message.Message{}, err
	}
	if _, err := s.chats.FindChatByID(ctx, chatID); err != nil {
		return message.Message{}, err
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" && len(attachments) == 0 {
		return message.Message{}, chat_errors.ErrInvalidInput
	}

	msg := message.Message{
		ID:        uuid.New(),
		ChatID:    chatID,
		SenderID:  sender.ID,
		ReadBy:    []uuid.UUID{sender.ID},
		CreatedAt: time.Now(),
	}
	if trimmed != "" {
		msg.Content = sql.NullString{String: trimmed, Valid: true}
	}

	for i := range attachments {
		attachments[i].MessageID = msg.ID
		if attachments[i].ID == uuid.Nil {
			attachments[i].ID = uuid.New()
		}
		if attachments[i].UploadedAt.IsZero() {
			attachments[i].UploadedAt = msg.CreatedAt
		}
	}
	msg.Attachments = attachments

	if err := s.create(ctx, &msg); err != nil {
		return message.Message{}, err
	}

	if s.broadcaster != nil {
		go func(committed message.Message) {
			bctx, cancel := context.WithTimeout(context.Background(), broadcastTimeout)
			defer cancel()
			s.broadcaster.BroadcastMessage(bctx, committed)
		}(msg)
	}

	return msg, nil
}

// GetChatMessages returns the chat's messages oldest first. The requester
// must be a current member.
func (s *MessageService) GetChatMessages(ctx context.Context, chatID, requesterID uuid.UUID) ([]message.Message, error) {
	c, err := s.chats.FindChatByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !c.HasMember(requesterID) {
		return nil, chat_errors.ErrForbidden
	}
	return s.messageRepo.GetChatMessages(ctx, chatID)
}

func (s *MessageService) FindMessageByID(ctx context.Context, id uuid.UUID) (message.Message, error) {
	return s.messageRepo.GetByID(ctx, id)
}

// DeleteMessageByID deletes the message and its attachments. Only the author
// may delete; a second delete of the same id fails with not found.
func (s *MessageService) DeleteMessageByID(ctx context.Context, id, requesterID uuid.UUID) error {
	msg, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if msg.SenderID != requesterID {
		return chat_errors.ErrForbidden
	}
	return s.delete(ctx, id)
}

// create runs the insert inside an explicit transaction so the message row
// and its attachment rows become visible together or not at all.
func (s *MessageService) create(ctx context.Context, msg *message.Message) error {
	if s.db == nil {
		return s.messageRepo.Create(ctx, msg)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repository.NewMessageRepository(tx).Create(ctx, msg)
	})
}

func (s *MessageService) delete(ctx context.Context, id uuid.UUID) error {
	if s.db == nil {
		return s.messageRepo.Delete(ctx, id)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return repository.NewMessageRepository(tx).Delete(ctx, id)
	})
}

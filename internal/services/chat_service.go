package services

import (
	"context"

	"github.com/google/uuid"

	"team-chat/internal/domain/chat"
	"team-chat/internal/repository"
)

// ChatService is the narrow chat directory this core depends on. Membership
// is read-only here; managing it belongs to another part of the system.
type ChatService struct {
	repo repository.ChatRepository
}

func NewChatService(repo repository.ChatRepository) *ChatService {
	return &ChatService{repo: repo}
}

func (s *ChatService) FindChatByID(ctx context.Context, id uuid.UUID) (chat.Chat, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ChatService) IsMember(ctx context.Context, chatID, userID uuid.UUID) (bool, error) {
	c, err := s.repo.GetByID(ctx, chatID)
	if err != nil {
		return false, err
	}
	return c.HasMember(userID), nil
}

// MemberIDs satisfies realtime.MemberDirectory.
func (s *ChatService) MemberIDs(ctx context.Context, chatID uuid.UUID) ([]uuid.UUID, error) {
	c, err := s.repo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	return c.MemberIDs(), nil
}

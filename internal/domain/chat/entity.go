package chat

import (
	"time"

	"github.com/google/uuid"

	"team-chat/internal/domain/user"
)

// Chat represents the chats table. Membership is managed elsewhere; this
// core only reads it for authorization and fan-out.
type Chat struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Name      string      `gorm:"not null"`
	IsGroup   bool        `gorm:"not null;default:false"`
	Members   []user.User `gorm:"many2many:chat_members"`
	CreatedAt time.Time
}

func (Chat) TableName() string {
	return "chats"
}

// HasMember reports whether userID is a current member of the chat.
func (c Chat) HasMember(userID uuid.UUID) bool {
	for _, m := range c.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

// MemberIDs returns the member ids in membership order.
func (c Chat) MemberIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.Members))
	for _, m := range c.Members {
		ids = append(ids, m.ID)
	}
	return ids
}

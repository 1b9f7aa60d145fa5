package message

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message represents the messages table. A message owns its attachments
// outright: they are written in the same transaction and removed by the
// cascade when the message row is deleted.
type Message struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChatID      uuid.UUID `gorm:"type:uuid;not null;index"`
	SenderID    uuid.UUID `gorm:"type:uuid;not null"`
	Content     sql.NullString
	ReadBy      []uuid.UUID  `gorm:"serializer:json;not null"`
	CreatedAt   time.Time    `gorm:"index"`
	Attachments []Attachment `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE"`
}

// Attachment represents the message_attachments table. Never shared between
// messages and never queryable on its own.
type Attachment struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	MessageID    uuid.UUID `gorm:"type:uuid;not null;index"`
	StoragePath  string    `gorm:"not null"`
	OriginalName string
	ContentType  string
	SizeBytes    int64
	PublicURL    sql.NullString
	UploadedAt   time.Time
}

func (Message) TableName() string {
	return "messages"
}

func (Attachment) TableName() string {
	return "message_attachments"
}

// IsEmpty reports whether the message carries neither content nor attachments.
func (m Message) IsEmpty() bool {
	return strings.TrimSpace(m.Content.String) == "" && len(m.Attachments) == 0
}

// WasReadBy reports whether userID appears in the read-by set.
func (m Message) WasReadBy(userID uuid.UUID) bool {
	for _, id := range m.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}

package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"team-chat/internal/domain/message"
	"team-chat/internal/events"
	"team-chat/internal/transport/httpdto"
	"team-chat/pkg/logger"
)

// MemberDirectory resolves the participant list for a chat.
type MemberDirectory interface {
	MemberIDs(ctx context.Context, chatID uuid.UUID) ([]uuid.UUID, error)
}

// Broadcaster fans a persisted message out to every chat participant's
// private channel. Delivery is at-most-once and best-effort: it runs after
// the persistence transaction has committed, and publish failures are logged
// and dropped. Clients that miss a push recover through the message list
// endpoint, which always reflects the durable state.
type Broadcaster struct {
	publisher events.Publisher
	members   MemberDirectory
	log       *logger.Logger
}

func NewBroadcaster(publisher events.Publisher, members MemberDirectory, log *logger.Logger) *Broadcaster {
	return &Broadcaster{publisher: publisher, members: members, log: log}
}

// BroadcastMessage publishes one envelope per chat member, in member-list
// order. One send becomes N publishes for an N-member chat.
func (b *Broadcaster) BroadcastMessage(ctx context.Context, msg message.Message) {
	memberIDs, err := b.members.MemberIDs(ctx, msg.ChatID)
	if err != nil {
		b.log.Errorf("broadcast: resolve members for chat %s: %v", msg.ChatID, err)
		return
	}

	payload, err := json.Marshal(httpdto.FromMessage(msg))
	if err != nil {
		b.log.Errorf("broadcast: marshal message %s: %v", msg.ID, err)
		return
	}

	envelope, err := json.Marshal(events.Envelope{
		EventType:     events.EventTypeMessageCreated,
		AggregateType: events.AggregateTypeMessage,
		AggregateID:   msg.ID.String(),
		OccurredAt:    time.Now(),
		Payload:       payload,
	})
	if err != nil {
		b.log.Errorf("broadcast: marshal envelope for message %s: %v", msg.ID, err)
		return
	}

	for _, memberID := range memberIDs {
		channel := events.UserChannel(memberID.String())
		if err := b.publisher.Publish(ctx, channel, envelope); err != nil {
			b.log.Errorf("broadcast: publish message %s to %s: %v", msg.ID, channel, err)
		}
	}
}

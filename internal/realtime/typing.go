package realtime

import (
	"context"
	"encoding/json"
	"strconv"

	"team-chat/internal/events"
	chat_errors "team-chat/pkg/errors"
	"team-chat/pkg/logger"
)

// TypingRelay passes ephemeral typing events through to the chat-wide typing
// channel. Nothing is persisted or deduplicated; last event wins on the
// client. Clients send ids as JSON numbers or numeric strings depending on
// their serializer, so both are accepted.
type TypingRelay struct {
	publisher events.Publisher
	log       *logger.Logger
}

func NewTypingRelay(publisher events.Publisher, log *logger.Logger) *TypingRelay {
	return &TypingRelay{publisher: publisher, log: log}
}

// Relay validates the ids in the raw payload and republishes it verbatim.
func (r *TypingRelay) Relay(ctx context.Context, payload []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return chat_errors.ErrInvalidInput
	}

	chatID, err := coerceID(fields["chatId"])
	if err != nil {
		return chat_errors.ErrInvalidInput
	}
	userID, err := coerceID(fields["userId"])
	if err != nil {
		return chat_errors.ErrInvalidInput
	}

	channel := events.TypingChannel(strconv.FormatInt(chatID, 10))
	if err := r.publisher.Publish(ctx, channel, payload); err != nil {
		r.log.Errorf("typing: publish to %s for user %d: %v", channel, userID, err)
		return err
	}
	return nil
}

// coerceID accepts a JSON number or a numeric string.
func coerceID(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 {
		return 0, chat_errors.ErrInvalidInput
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.Int64()
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strconv.ParseInt(s, 10, 64)
	}

	return 0, chat_errors.ErrInvalidInput
}

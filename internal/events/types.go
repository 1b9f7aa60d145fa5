package events

// Event type constants, format: domain.action
const (
	EventTypeMessageCreated = "message.created"
)

// Aggregate type constants
const (
	AggregateTypeMessage = "message"
)

// Channel naming. Every connected client listens on its own user channel;
// typing channels are shared by everyone viewing the chat.
const (
	UserChannelPrefix   = "channel:user:"
	TypingChannelPrefix = "channel:typing:"
)

func UserChannel(userID string) string {
	return UserChannelPrefix + userID
}

func TypingChannel(chatID string) string {
	return TypingChannelPrefix + chatID
}

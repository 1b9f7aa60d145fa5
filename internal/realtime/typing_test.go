package realtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	chat_errors "team-chat/pkg/errors"
	"team-chat/pkg/logger"
)

func newTypingFixture() (*TypingRelay, *stubPublisher) {
	publisher := &stubPublisher{}
	return NewTypingRelay(publisher, logger.NewNop()), publisher
}

func TestTypingRelayNumericIDs(t *testing.T) {
	req := require.New(t)
	relay, publisher := newTypingFixture()

	payload := []byte(`{"chatId":7,"userId":42,"typing":true}`)
	req.NoError(relay.Relay(context.Background(), payload))

	req.Len(publisher.published, 1)
	req.Equal("channel:typing:7", publisher.published[0].channel)
	req.Equal(payload, publisher.published[0].payload)
}

func TestTypingRelayStringIDs(t *testing.T) {
	req := require.New(t)
	relay, publisher := newTypingFixture()

	req.NoError(relay.Relay(context.Background(), []byte(`{"chatId":"7","userId":"42","typing":false}`)))
	req.Equal("channel:typing:7", publisher.published[0].channel)
}

func TestTypingRelayMixedIDs(t *testing.T) {
	req := require.New(t)
	relay, publisher := newTypingFixture()

	req.NoError(relay.Relay(context.Background(), []byte(`{"chatId":"9","userId":42}`)))
	req.Equal("channel:typing:9", publisher.published[0].channel)
}

func TestTypingRelayRejectsBadPayloads(t *testing.T) {
	relay, publisher := newTypingFixture()

	for _, payload := range []string{
		`not json`,
		`{"userId":42}`,
		`{"chatId":7}`,
		`{"chatId":"abc","userId":42}`,
		`{"chatId":true,"userId":42}`,
	} {
		t.Run(payload, func(t *testing.T) {
			err := relay.Relay(context.Background(), []byte(payload))
			require.ErrorIs(t, err, chat_errors.ErrInvalidInput)
		})
	}
	require.Empty(t, publisher.published)
}

func TestTypingRelayReturnsPublishError(t *testing.T) {
	publisher := &stubPublisher{failChannel: "channel:typing:7"}
	relay := NewTypingRelay(publisher, logger.NewNop())

	err := relay.Relay(context.Background(), []byte(`{"chatId":7,"userId":42}`))
	require.Error(t, err)
}

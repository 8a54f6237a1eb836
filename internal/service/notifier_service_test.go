package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"heartlink-be/internal/dto"
	"heartlink-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotifierFixture(t *testing.T) (*gochannel.GoChannel, *recorderDelivery) {
	t.Helper()
	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { bus.Close() })

	delivery := &recorderDelivery{}
	notifier := NewNotifierService(bus, delivery, nopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, notifier.Start(ctx))

	return bus, delivery
}

func publishEvent(t *testing.T, bus *gochannel.GoChannel, evt events.BaseEvent) {
	t.Helper()
	payload, err := json.Marshal(evt)
	require.NoError(t, err)
	require.NoError(t, bus.Publish(events.TopicConnections, message.NewMessage(uuid.NewString(), payload)))
}

func TestNotifierPushesRequestToReceiver(t *testing.T) {
	bus, delivery := newNotifierFixture(t)
	receiver := uuid.New()

	publishEvent(t, bus, events.BaseEvent{
		Type: events.TypeConnectionRequested,
		Data: map[string]interface{}{
			"request_id":  uuid.NewString(),
			"sender_id":   uuid.NewString(),
			"receiver_id": receiver.String(),
		},
	})

	assert.Eventually(t, func() bool {
		records := delivery.all()
		return len(records) == 1 &&
			records[0].identity == receiver &&
			records[0].event == dto.EventConnectionRequest
	}, time.Second, 10*time.Millisecond)
}

func TestNotifierPushesAcceptanceToSender(t *testing.T) {
	bus, delivery := newNotifierFixture(t)
	sender := uuid.New()

	publishEvent(t, bus, events.BaseEvent{
		Type: events.TypeConnectionAccepted,
		Data: map[string]interface{}{
			"sender_id":   sender.String(),
			"receiver_id": uuid.NewString(),
		},
	})

	assert.Eventually(t, func() bool {
		records := delivery.all()
		return len(records) == 1 &&
			records[0].identity == sender &&
			records[0].event == dto.EventConnectionAccepted
	}, time.Second, 10*time.Millisecond)
}

func TestNotifierIgnoresUnknownAndMalformedEvents(t *testing.T) {
	bus, delivery := newNotifierFixture(t)

	require.NoError(t, bus.Publish(events.TopicConnections, message.NewMessage(uuid.NewString(), []byte("{broken"))))
	publishEvent(t, bus, events.BaseEvent{Type: "SOMETHING_ELSE", Data: map[string]interface{}{}})
	publishEvent(t, bus, events.BaseEvent{Type: events.TypeConnectionRequested, Data: map[string]interface{}{}})

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, delivery.all())
}

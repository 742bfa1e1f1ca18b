package session

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.uber.org/zap"
)

// TopicCitySelected carries selections that should trigger an auto fetch.
const TopicCitySelected = "session.city_selected"

func stateTopic(sessionID string) string {
	return "session." + sessionID + ".state"
}

type citySelectedEvent struct {
	SessionID string `json:"sessionId"`
	CityID    string `json:"cityId"`
}

// Bus is the in-process event bus between controllers, the auto-fetch
// dispatcher and live views. It implements Notifier.
type Bus struct {
	pubSub *gochannel.GoChannel
	log    *zap.Logger
}

func NewBus(log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)
	return &Bus{pubSub: pubSub, log: log}
}

func (b *Bus) CitySelected(sessionID, cityID string) {
	b.publish(TopicCitySelected, citySelectedEvent{SessionID: sessionID, CityID: cityID})
}

func (b *Bus) StateChanged(sessionID string, st State) {
	b.publish(stateTopic(sessionID), st)
}

func (b *Bus) publish(topic string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		b.log.Error("failed to encode event", zap.String("topic", topic), zap.Error(err))
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := b.pubSub.Publish(topic, msg); err != nil {
		b.log.Warn("failed to publish event", zap.String("topic", topic), zap.Error(err))
	}
}

// SubscribeState streams state snapshots of one session until ctx is done.
// Delivery order is not guaranteed; use State.Version to order snapshots.
func (b *Bus) SubscribeState(ctx context.Context, sessionID string) (<-chan State, error) {
	messages, err := b.pubSub.Subscribe(ctx, stateTopic(sessionID))
	if err != nil {
		return nil, err
	}

	out := make(chan State, 16)
	go func() {
		defer close(out)
		for msg := range messages {
			var st State
			err := json.Unmarshal(msg.Payload, &st)
			msg.Ack()
			if err != nil {
				b.log.Warn("dropping malformed state event", zap.String("session", sessionID), zap.Error(err))
				continue
			}

			select {
			case out <- st:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (b *Bus) subscribeCitySelected(ctx context.Context) (<-chan *message.Message, error) {
	return b.pubSub.Subscribe(ctx, TopicCitySelected)
}

// Close stops the bus; later publishes are dropped.
func (b *Bus) Close() error {
	return b.pubSub.Close()
}

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Publisher subset of the MQTT client used here
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
}

// MQTTNotifier publishes one message per bed transition on <prefix>/beds
type MQTTNotifier struct {
	pub   Publisher
	topic string
	qos   byte
}

func NewMQTTNotifier(pub Publisher, prefix string, qos byte) *MQTTNotifier {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		prefix = "pediatria"
	}
	return &MQTTNotifier{pub: pub, topic: prefix + "/beds", qos: qos}
}

var _ Notifier = (*MQTTNotifier)(nil)

// Topic destination topic
func (m *MQTTNotifier) Topic() string { return m.topic }

func (m *MQTTNotifier) NotifyImport(ctx context.Context, ev ImportCompleted) error {
	for _, tr := range ev.Transitions {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.NotifyBed(ctx, tr); err != nil {
			return err
		}
	}
	return nil
}

func (m *MQTTNotifier) NotifyBed(_ context.Context, tr BedTransition) error {
	payload, err := json.Marshal(tr)
	if err != nil {
		return fmt.Errorf("failed to encode bed transition: %w", err)
	}
	return m.pub.Publish(m.topic, m.qos, false, payload)
}

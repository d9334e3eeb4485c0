package mqttadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/samirrijal/railwatch/internal/core/domain"
	"github.com/samirrijal/railwatch/internal/core/ports"
)

const subscribeTimeout = 10 * time.Second

// Client is the part of mqtt.Client the position source needs.
type Client interface {
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
	Unsubscribe(topics ...string) mqtt.Token
}

// positionMessage is what on-board GPS units publish.
type positionMessage struct {
	DeviceID  string   `json:"device_id"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Timestamp int64    `json:"timestamp"`
}

// PositionTopic returns the topic a device publishes its fixes to.
func PositionTopic(deviceID string) string {
	return fmt.Sprintf("railwatch/device/%s/position", deviceID)
}

// PositionSource implements ports.PositionSource over MQTT.
type PositionSource struct {
	client Client
	qos    byte
}

// NewPositionSource wraps a connected client.
func NewPositionSource(client Client, qos byte) *PositionSource {
	return &PositionSource{client: client, qos: qos}
}

// SubscribePosition delivers each fix for deviceID. Fixes older than the last
// delivered one are dropped so the stream stays most-recent-wins.
func (s *PositionSource) SubscribePosition(ctx context.Context, deviceID string, onUpdate func(domain.GeoPoint)) (ports.Unsubscribe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	topic := PositionTopic(deviceID)
	h := &positionHandler{deviceID: deviceID, onUpdate: onUpdate}

	token := s.client.Subscribe(topic, s.qos, h.handleMessage)
	if !token.WaitTimeout(subscribeTimeout) {
		return nil, fmt.Errorf("mqtt subscribe %s: timed out", topic)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt subscribe %s: %w", topic, err)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			h.close()
			if t := s.client.Unsubscribe(topic); t.WaitTimeout(subscribeTimeout) && t.Error() != nil {
				slog.Warn("mqtt unsubscribe", "topic", topic, "error", t.Error())
			}
		})
	}, nil
}

type positionHandler struct {
	deviceID string
	onUpdate func(domain.GeoPoint)

	mu     sync.Mutex
	last   int64
	closed bool
}

func (h *positionHandler) close() {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
}

func (h *positionHandler) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var raw positionMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		slog.Warn("invalid position message", "topic", msg.Topic(), "error", err)
		return
	}
	if raw.DeviceID != "" && raw.DeviceID != h.deviceID {
		slog.Warn("position message for another device", "topic", msg.Topic(), "device_id", raw.DeviceID)
		return
	}

	h.mu.Lock()
	if h.closed || (raw.Timestamp > 0 && raw.Timestamp < h.last) {
		h.mu.Unlock()
		return
	}
	if raw.Timestamp > 0 {
		h.last = raw.Timestamp
	}
	h.mu.Unlock()

	// Missing coordinates become NaN; the monitor counts and skips them.
	h.onUpdate(domain.GeoPoint{Lat: orNaN(raw.Latitude), Lon: orNaN(raw.Longitude)})
}

func orNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

package natsadapter

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/samirrijal/railwatch/internal/core/domain"
)

// snapshotMessage is the wire form of a full hazard or camera set.
type snapshotMessage struct {
	Kind        domain.EntityKind `json:"kind"`
	Entities    []entityMessage   `json:"entities"`
	PublishedAt time.Time         `json:"published_at"`
}

// inboundSnapshot defers entity decoding so one malformed entity does not
// fail the whole set.
type inboundSnapshot struct {
	Kind        domain.EntityKind `json:"kind"`
	Entities    []json.RawMessage `json:"entities"`
	PublishedAt time.Time         `json:"published_at"`
}

// inboundEntity accepts coordinates of any JSON type.
type inboundEntity struct {
	ID         string          `json:"id"`
	Lat        json.RawMessage `json:"lat"`
	Lon        json.RawMessage `json:"lon"`
	ObservedAt json.RawMessage `json:"observed_at"`
}

// entityMessage keeps coordinates nullable so producers that lose a fix can
// still publish the rest of the set.
type entityMessage struct {
	ID         string    `json:"id"`
	Lat        *float64  `json:"lat"`
	Lon        *float64  `json:"lon"`
	ObservedAt time.Time `json:"observed_at"`
}

// EncodeSnapshot serialises a snapshot of one entity kind.
func EncodeSnapshot(kind domain.EntityKind, entities []domain.TrackedEntity, publishedAt time.Time) ([]byte, error) {
	msg := snapshotMessage{
		Kind:        kind,
		Entities:    make([]entityMessage, 0, len(entities)),
		PublishedAt: publishedAt,
	}
	for _, e := range entities {
		em := entityMessage{ID: e.ID, ObservedAt: e.ObservedAt}
		if e.Position.Valid() {
			lat, lon := e.Position.Lat, e.Position.Lon
			em.Lat, em.Lon = &lat, &lon
		}
		msg.Entities = append(msg.Entities, em)
	}
	return json.Marshal(msg)
}

// DecodeSnapshot parses a snapshot. Missing or non-numeric coordinates decode
// as NaN so the monitor skips that entity rather than treating it as (0, 0).
// An unparseable observed_at decodes as the zero time. Entities that are not
// JSON objects are dropped; the rest of the set is kept.
func DecodeSnapshot(data []byte) (domain.EntityKind, []domain.TrackedEntity, error) {
	var msg inboundSnapshot
	if err := json.Unmarshal(data, &msg); err != nil {
		return "", nil, fmt.Errorf("decode snapshot: %w", err)
	}

	entities := make([]domain.TrackedEntity, 0, len(msg.Entities))
	for _, raw := range msg.Entities {
		var em inboundEntity
		if err := json.Unmarshal(raw, &em); err != nil {
			continue
		}
		entities = append(entities, domain.TrackedEntity{
			Kind:       msg.Kind,
			ID:         em.ID,
			Position:   domain.GeoPoint{Lat: coordinate(em.Lat), Lon: coordinate(em.Lon)},
			ObservedAt: timestamp(em.ObservedAt),
		})
	}
	return msg.Kind, entities, nil
}

// coordinate returns NaN for anything but a JSON number.
func coordinate(raw json.RawMessage) float64 {
	var v float64
	if len(raw) == 0 || string(raw) == "null" || json.Unmarshal(raw, &v) != nil {
		return math.NaN()
	}
	return v
}

func timestamp(raw json.RawMessage) time.Time {
	var t time.Time
	if len(raw) == 0 || json.Unmarshal(raw, &t) != nil {
		return time.Time{}
	}
	return t
}

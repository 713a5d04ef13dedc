// Package eventstore records dev-server session events (resolutions,
// transforms, map changes) in an append-only SQLite log, queryable from the
// admin surface.
package eventstore

import (
	"context"
	"encoding/json"
	"time"
)

// Event types recorded during a serve session.
const (
	TypeSessionStarted   = "session_started"
	TypeMapResolved      = "map_resolved"
	TypeTransformApplied = "transform_applied"
	TypeMapChanged       = "map_changed"
)

// Event is a single recorded occurrence within a serve session.
type Event struct {
	ID        int64             `json:"id"`
	SessionID string            `json:"session_id"`
	Type      string            `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Payload   json.RawMessage   `json:"payload,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Store is an append-only event log.
type Store interface {
	// Append adds a new event to the store.
	Append(ctx context.Context, sessionID, eventType string, payload []byte, metadata map[string]string) error

	// BySession retrieves all events for a session, oldest first.
	BySession(ctx context.Context, sessionID string) ([]Event, error)

	// Recent retrieves the most recent events across sessions, newest first.
	Recent(ctx context.Context, limit int) ([]Event, error)

	// Close releases store resources.
	Close() error
}

// SessionStartedPayload describes a new serve session.
type SessionStartedPayload struct {
	AppType string `json:"app_type"`
	Mode    string `json:"mode"`
	Host    string `json:"host"`
	Port    int    `json:"port"`
}

// MapResolvedPayload describes an import map resolution.
type MapResolvedPayload struct {
	Outcome string `json:"outcome"` // found|none
	Path    string `json:"path,omitempty"`
	MapType string `json:"map_type,omitempty"`
}

// TransformAppliedPayload describes an HTML transform run.
type TransformAppliedPayload struct {
	Document   string `json:"document"`
	TagCount   int    `json:"tag_count"`
	DurationMS int64  `json:"duration_ms"`
}

// MapChangedPayload describes a watched map file change.
type MapChangedPayload struct {
	Path string `json:"path"`
	Op   string `json:"op"`
}

// AppendPayload marshals payload and appends it as an event.
func AppendPayload(ctx context.Context, s Store, sessionID, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.Append(ctx, sessionID, eventType, data, nil)
}

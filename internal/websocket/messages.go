package websocket

import (
	"encoding/json"
	"time"
)

// MessageType identifies the type of WebSocket message.
type MessageType string

const (
	// Server -> Client event types
	TypeBookingCreated   MessageType = "booking.created"
	TypeBookingUpdated   MessageType = "booking.updated"
	TypeBookingCancelled MessageType = "booking.cancelled"
	TypeSyncCompleted    MessageType = "ical.sync_completed"
	TypeSyncFailed       MessageType = "ical.sync_failed"
	TypeSnapshotReloaded MessageType = "rooms.snapshot_reloaded"
	TypeNotification     MessageType = "notification"

	// Client -> Server command types
	TypePing MessageType = "ping"

	// Server -> Client response types
	TypePong MessageType = "pong"
)

// Message represents a WebSocket message envelope.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   any         `json:"payload"`
}

// NewMessage creates a new message with the current timestamp.
func NewMessage(msgType MessageType, payload any) Message {
	return Message{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// JSON serializes the message to JSON bytes.
func (m Message) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// BookingPayload is the payload for booking.* events.
type BookingPayload struct {
	RoomID    string `json:"room_id"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	GuestName string `json:"guest_name,omitempty"`
}

// SyncPayload is the payload for ical.sync_completed events.
type SyncPayload struct {
	RoomID   string `json:"room_id,omitempty"` // empty for sync-all
	Duration string `json:"duration"`
}

// SyncFailedPayload is the payload for ical.sync_failed events.
type SyncFailedPayload struct {
	RoomID  string `json:"room_id,omitempty"`
	Message string `json:"message"`
}

// SnapshotPayload is the payload for rooms.snapshot_reloaded events.
type SnapshotPayload struct {
	Rooms  int    `json:"rooms"`
	Source string `json:"source"`
}

// NotificationPayload is the payload for notification events.
type NotificationPayload struct {
	Level   string `json:"level"` // info, warning, error, success
	Title   string `json:"title"`
	Message string `json:"message"`
}

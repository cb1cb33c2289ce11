package websocket

import (
	"log"
	"time"
)

// EventBroadcaster handles broadcasting WebSocket events.
type EventBroadcaster struct {
	hub *Hub
}

// NewEventBroadcaster creates a new event broadcaster.
func NewEventBroadcaster(hub *Hub) *EventBroadcaster {
	return &EventBroadcaster{hub: hub}
}

// BroadcastBookingCreated announces a newly created booking.
func (b *EventBroadcaster) BroadcastBookingCreated(roomID, checkIn, checkOut, guestName string) {
	b.broadcast(NewMessage(TypeBookingCreated, BookingPayload{
		RoomID:    roomID,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		GuestName: guestName,
	}))
}

// BroadcastBookingUpdated announces edited guest details on a booking.
func (b *EventBroadcaster) BroadcastBookingUpdated(roomID, checkIn, checkOut, guestName string) {
	b.broadcast(NewMessage(TypeBookingUpdated, BookingPayload{
		RoomID:    roomID,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		GuestName: guestName,
	}))
}

// BroadcastBookingCancelled announces a removed booking.
func (b *EventBroadcaster) BroadcastBookingCancelled(roomID, checkIn, checkOut string) {
	b.broadcast(NewMessage(TypeBookingCancelled, BookingPayload{
		RoomID:   roomID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
	}))
}

// BroadcastSyncCompleted announces a finished iCal sync pass.
func (b *EventBroadcaster) BroadcastSyncCompleted(roomID string, took time.Duration) {
	b.broadcast(NewMessage(TypeSyncCompleted, SyncPayload{
		RoomID:   roomID,
		Duration: took.Round(time.Millisecond).String(),
	}))
}

// BroadcastSyncFailed announces a failed iCal sync pass.
func (b *EventBroadcaster) BroadcastSyncFailed(roomID string, err error) {
	b.broadcast(NewMessage(TypeSyncFailed, SyncFailedPayload{
		RoomID:  roomID,
		Message: err.Error(),
	}))
}

// BroadcastSnapshotReloaded announces a refreshed room snapshot.
func (b *EventBroadcaster) BroadcastSnapshotReloaded(rooms int, source string) {
	b.broadcast(NewMessage(TypeSnapshotReloaded, SnapshotPayload{
		Rooms:  rooms,
		Source: source,
	}))
}

// BroadcastNotification sends a notification to all connected clients.
func (b *EventBroadcaster) BroadcastNotification(level, title, message string) {
	b.broadcast(NewMessage(TypeNotification, NotificationPayload{
		Level:   level,
		Title:   title,
		Message: message,
	}))
}

// broadcast sends a message to all connected clients.
func (b *EventBroadcaster) broadcast(msg Message) {
	data, err := msg.JSON()
	if err != nil {
		log.Printf("Error encoding WebSocket message: %v", err)
		return
	}
	b.hub.Broadcast(data)
}

package videohub

import "vidmatch/backend/internal/models"

// Client is the interface for one live connection. It abstracts the
// underlying transport so the hub can manage any client type uniformly and
// tests can run without a socket.
type Client interface {
	// GetConnID returns the transport-level connection id. It is unique for
	// the lifetime of the process and owned by the connection registry.
	GetConnID() string
	// GetUserID returns the authenticated user id attached at handshake time,
	// or an empty string for anonymous sessions.
	GetUserID() string
	// GetRoomID returns the id of the room the client is currently paired
	// into, or an empty string.
	GetRoomID() string
	// SetRoomID assigns or clears the client's room. Called by the hub when a
	// match succeeds or a room is torn down.
	SetRoomID(string)

	// GetSendChannel returns the channel through which the hub delivers
	// outbound events to this client. It is a send-only channel.
	GetSendChannel() chan<- models.Event

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the client's connection and associated channels.
	Close()
}

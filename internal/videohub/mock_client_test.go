package videohub_test

import (
	"vidmatch/backend/internal/models"
)

type MockClient struct {
	connID string
	userID string
	roomID string
	// RecvChannel is what the hub sees as the client's send channel, so
	// tests can assert on delivered events.
	RecvChannel chan models.Event
}

func newMockClient(connID string) *MockClient {
	return &MockClient{
		connID:      connID,
		RecvChannel: make(chan models.Event, 10),
	}
}

func newAuthedMockClient(connID, userID string) *MockClient {
	c := newMockClient(connID)
	c.userID = userID
	return c
}

func (c *MockClient) GetConnID() string {
	return c.connID
}

func (c *MockClient) GetUserID() string {
	return c.userID
}

func (c *MockClient) GetRoomID() string {
	return c.roomID
}

func (c *MockClient) SetRoomID(roomID string) {
	c.roomID = roomID
}

func (c *MockClient) GetSendChannel() chan<- models.Event {
	return c.RecvChannel
}

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	// Not needed for testing
}

// recv drains one event without blocking, returning false when none arrived.
func (c *MockClient) recv() (models.Event, bool) {
	select {
	case ev := <-c.RecvChannel:
		return ev, true
	default:
		return models.Event{}, false
	}
}

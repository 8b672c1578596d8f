package models

import "time"

// Room kinds, kept as a tag for statistics only.
const (
	RoomKindVideoChat = "video-chat"
	RoomKindLegacy    = "legacy"
)

// Participant is one half of a room: the connection plus the profile it
// supplied when it requested the match.
type Participant struct {
	ConnID  string      `json:"connId"`
	Profile ProfileInfo `json:"profile"`
}

// Room is one paired session between exactly two live connections. Rooms are
// process state only; they are never persisted and die with either member.
type Room struct {
	ID           string         `json:"id"`
	Participants [2]Participant `json:"participants"`
	CreatedAt    time.Time      `json:"createdAt"`
	Kind         string         `json:"kind"`
}

// Other returns the participant that is not connID.
func (r *Room) Other(connID string) (Participant, bool) {
	if r.Participants[0].ConnID == connID {
		return r.Participants[1], true
	}
	if r.Participants[1].ConnID == connID {
		return r.Participants[0], true
	}
	return Participant{}, false
}

// Has reports whether connID is a member of the room.
func (r *Room) Has(connID string) bool {
	return r.Participants[0].ConnID == connID || r.Participants[1].ConnID == connID
}

// WaitingEntry is a connection queued because no compatible partner was found
// at request time. Entries have no expiry: a client that never cancels stays
// queued until it disconnects, matching the behaviour the product shipped
// with. EnqueuedAt makes the buildup observable through the stats snapshot.
type WaitingEntry struct {
	ConnID     string       `json:"connId"`
	Profile    ProfileInfo  `json:"profile"`
	Filters    MatchFilters `json:"filters"`
	EnqueuedAt time.Time    `json:"enqueuedAt"`
}

// RoomSummary is the per-room slice of a stats snapshot.
type RoomSummary struct {
	ID        string    `json:"id"`
	UserCount int       `json:"userCount"`
	CreatedAt time.Time `json:"createdAt"`
	Kind      string    `json:"type"`
}

// StatsSnapshot is a read-only view of the hub for monitoring.
type StatsSnapshot struct {
	ConnectedUsers int           `json:"connectedUsers"`
	WaitingUsers   int           `json:"waitingUsers"`
	ActiveRooms    int           `json:"activeRooms"`
	Rooms          []RoomSummary `json:"rooms"`
}

package models

import (
	"encoding/json"
	"errors"
)

// Inbound event kinds accepted by the hub.
const (
	EventRequestMatch = "request-match"
	EventSignal       = "signal"
	EventOffer        = "offer"
	EventAnswer       = "answer"
	EventICECandidate = "ice-candidate"
	EventChatMessage  = "chat-message"
	EventJoinRoom     = "join-room"
	EventLeaveRoom    = "leave-room"
	EventEndCall      = "end-call"
	EventNextMatch    = "next-match"
	EventReport       = "report"
)

// Outbound event kinds emitted by the hub.
const (
	EventMatched             = "matched"
	EventWaiting             = "waiting-for-match"
	EventUserLeft            = "user-left"
	EventPartnerDisconnected = "partner-disconnected"
	EventCallEnded           = "call-ended"
	EventMatchDenied         = "match-denied"
)

// GenderAnyone is the wildcard gender preference.
const GenderAnyone = "Anyone"

// ProfileInfo carries the attributes a client supplies with a match request.
// Nothing here is validated by the hub; profile validation belongs to the
// account layer.
type ProfileInfo struct {
	DisplayName string `json:"displayName,omitempty"`
	Gender      string `json:"gender,omitempty"`
	Location    string `json:"location,omitempty"`
	Age         int    `json:"age,omitempty"`
	Bio         string `json:"bio,omitempty"`
}

// MatchFilters are the per-request pairing preferences. A pairing is valid
// only when each side's filters are satisfied by the other side's profile.
type MatchFilters struct {
	// GenderPreference is a gender value or "Anyone". An empty string is
	// treated as "Anyone" so a request without filters behaves like the
	// wildcard.
	GenderPreference string `json:"gender,omitempty"`
	// SameCountryOnly restricts matches to profiles with the same location.
	SameCountryOnly bool `json:"sameCountryOnly,omitempty"`
}

// Event is the envelope for every frame exchanged over the websocket, in both
// directions. Type selects which of the optional fields are meaningful;
// signaling and chat payloads stay opaque RawMessage bytes because the hub
// only relays them.
type Event struct {
	Type     string          `json:"type"`
	RoomID   string          `json:"roomId,omitempty"`
	SenderID string          `json:"senderId,omitempty"`
	Profile  *ProfileInfo    `json:"profile,omitempty"`
	Filters  *MatchFilters   `json:"filters,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`

	// Outbound-only fields for "matched".
	Partner   *ProfileInfo `json:"partnerInfo,omitempty"`
	Initiator bool         `json:"initiator,omitempty"`

	// Outbound-only reason for "match-denied".
	Reason string `json:"reason,omitempty"`
}

var (
	ErrMissingProfile = errors.New("event: match request without profile")
	ErrMissingFilters = errors.New("event: match request without filters")
	ErrMissingRoomID  = errors.New("event: room event without roomId")
	ErrMissingPayload = errors.New("event: relay event without payload")
)

// Validate checks that the fields required by the event's kind are present.
// Unknown kinds pass; the hub drops them at dispatch.
func (e *Event) Validate() error {
	switch e.Type {
	case EventRequestMatch, EventNextMatch:
		if e.Profile == nil || e.Profile.Gender == "" {
			return ErrMissingProfile
		}
		if e.Filters == nil {
			return ErrMissingFilters
		}
	case EventSignal, EventOffer, EventAnswer, EventICECandidate:
		if e.RoomID == "" {
			return ErrMissingRoomID
		}
		if len(e.Payload) == 0 {
			return ErrMissingPayload
		}
	case EventChatMessage, EventReport:
		if len(e.Payload) == 0 {
			return ErrMissingPayload
		}
	}
	return nil
}

// ReportPayload is the decoded payload of a "report" event.
type ReportPayload struct {
	Reason   string `json:"reason"`
	Severity string `json:"severity,omitempty"`
}

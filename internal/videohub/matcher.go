package videohub

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"vidmatch/backend/internal/models"
)

// ErrAlreadyInRoom is returned when a room would include a connection that is
// already paired. It signals a caller bug: the event router must clear the
// requester's membership before matching.
var ErrAlreadyInRoom = errors.New("videohub: connection is already in a room")

// Compatible decides whether two clients may be paired, given each side's
// filter preferences. The check is symmetric: both gender preferences and
// both same-country constraints must be satisfied. Pure and deterministic.
func Compatible(profileA models.ProfileInfo, filtersA models.MatchFilters, profileB models.ProfileInfo, filtersB models.MatchFilters) bool {
	if !genderAllowed(filtersA, profileB) || !genderAllowed(filtersB, profileA) {
		return false
	}
	if filtersA.SameCountryOnly && profileA.Location != profileB.Location {
		return false
	}
	if filtersB.SameCountryOnly && profileB.Location != profileA.Location {
		return false
	}
	return true
}

func genderAllowed(f models.MatchFilters, p models.ProfileInfo) bool {
	return f.GenderPreference == "" ||
		f.GenderPreference == models.GenderAnyone ||
		f.GenderPreference == p.Gender
}

// MatchService owns the waiting queue and the room set. Both live behind one
// mutex because matching and room creation must appear atomic to concurrent
// match requests: a dequeued waiting client may never be booked into two
// rooms. All state dies with the process.
type MatchService struct {
	mu     sync.Mutex
	queue  []models.WaitingEntry
	rooms  map[string]*models.Room
	member map[string]string // connID -> roomID
}

// NewMatchService creates an empty service.
func NewMatchService() *MatchService {
	return &MatchService{
		rooms:  make(map[string]*models.Room),
		member: make(map[string]string),
	}
}

// MatchResult is the outcome of RequestMatch.
type MatchResult struct {
	Matched bool
	RoomID  string
	Partner models.WaitingEntry
}

// RequestMatch runs the whole match attempt for one connection as a single
// critical section: remove it from the queue, scan for the oldest compatible
// waiting entry, and either create a room with it or append the requester to
// the queue tail. Returns ErrAlreadyInRoom if the connection still has a
// room; the caller must tear that down first.
func (s *MatchService) RequestMatch(connID string, profile models.ProfileInfo, filters models.MatchFilters) (MatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.member[connID]; ok {
		return MatchResult{}, ErrAlreadyInRoom
	}
	s.removeWaitingLocked(connID)

	for i, entry := range s.queue {
		if Compatible(profile, filters, entry.Profile, entry.Filters) {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			room := s.createRoomLocked(
				models.Participant{ConnID: connID, Profile: profile},
				models.Participant{ConnID: entry.ConnID, Profile: entry.Profile},
				models.RoomKindVideoChat,
			)
			return MatchResult{Matched: true, RoomID: room.ID, Partner: entry}, nil
		}
	}

	s.queue = append(s.queue, models.WaitingEntry{
		ConnID:     connID,
		Profile:    profile,
		Filters:    filters,
		EnqueuedAt: time.Now(),
	})
	return MatchResult{}, nil
}

// Enqueue appends an entry to the queue tail. Callers must ensure the
// connection is not already queued or roomed; RequestMatch does this for the
// normal path.
func (s *MatchService) Enqueue(entry models.WaitingEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.EnqueuedAt.IsZero() {
		entry.EnqueuedAt = time.Now()
	}
	s.queue = append(s.queue, entry)
}

// DequeueMatch scans the queue oldest-first and removes and returns the first
// entry compatible with the candidate, or nil if none qualifies. The scan is
// O(n) in queue length, which is fine for the waiting-room sizes this serves
// but is the known scaling limit of the design.
func (s *MatchService) DequeueMatch(profile models.ProfileInfo, filters models.MatchFilters) *models.WaitingEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, entry := range s.queue {
		if Compatible(profile, filters, entry.Profile, entry.Filters) {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return &entry
		}
	}
	return nil
}

// RemoveWaiting removes any queue entry for the connection. Idempotent.
func (s *MatchService) RemoveWaiting(connID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeWaitingLocked(connID)
}

func (s *MatchService) removeWaitingLocked(connID string) bool {
	for i, entry := range s.queue {
		if entry.ConnID == connID {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return true
		}
	}
	return false
}

// CreateRoom pairs two participants into a new room. It fails without side
// effects if either connection is already roomed.
func (s *MatchService) CreateRoom(a, b models.Participant, kind string) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.member[a.ConnID]; ok {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyInRoom, a.ConnID)
	}
	if _, ok := s.member[b.ConnID]; ok {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyInRoom, b.ConnID)
	}
	return s.createRoomLocked(a, b, kind), nil
}

// createRoomLocked assumes both connections are free. The id embeds both
// connection ids plus a timestamp so ids stay unique even if a connection id
// is ever reused.
func (s *MatchService) createRoomLocked(a, b models.Participant, kind string) *models.Room {
	room := &models.Room{
		ID:           fmt.Sprintf("video_%s_%s_%d", a.ConnID, b.ConnID, time.Now().UnixMilli()),
		Participants: [2]models.Participant{a, b},
		CreatedAt:    time.Now(),
		Kind:         kind,
	}
	s.rooms[room.ID] = room
	s.member[a.ConnID] = room.ID
	s.member[b.ConnID] = room.ID
	return room
}

// DestroyRoom removes the room and both membership marks. Idempotent: returns
// nil if the room is already gone.
func (s *MatchService) DestroyRoom(roomID string) *models.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destroyRoomLocked(roomID)
}

func (s *MatchService) destroyRoomLocked(roomID string) *models.Room {
	room, ok := s.rooms[roomID]
	if !ok {
		return nil
	}
	delete(s.rooms, roomID)
	delete(s.member, room.Participants[0].ConnID)
	delete(s.member, room.Participants[1].ConnID)
	return room
}

// RoomOf returns the room the connection belongs to, or nil.
func (s *MatchService) RoomOf(connID string) *models.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	if roomID, ok := s.member[connID]; ok {
		return s.rooms[roomID]
	}
	return nil
}

// PartnerOf resolves the other member of the connection's room. ok is false
// when the connection has no room, which callers treat as a benign race.
func (s *MatchService) PartnerOf(connID string) (partner models.Participant, roomID string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	roomID, member := s.member[connID]
	if !member {
		return models.Participant{}, "", false
	}
	room := s.rooms[roomID]
	partner, _ = room.Other(connID)
	return partner, roomID, true
}

// RemoveConn is the disconnect cascade: drop any waiting entry and destroy
// the connection's room if it has one. Returns the abandoned partner so the
// hub can notify them exactly once.
func (s *MatchService) RemoveConn(connID string) (partner *models.Participant, roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeWaitingLocked(connID)
	id, ok := s.member[connID]
	if !ok {
		return nil, ""
	}
	room := s.destroyRoomLocked(id)
	if room == nil {
		return nil, ""
	}
	other, _ := room.Other(connID)
	return &other, id
}

// WaitingCount returns the queue length.
func (s *MatchService) WaitingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Snapshot returns queue and room counters plus per-room summaries. The
// ConnectedUsers field is left for the hub, which owns the registry.
func (s *MatchService) Snapshot() models.StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	summaries := make([]models.RoomSummary, 0, len(s.rooms))
	for _, room := range s.rooms {
		summaries = append(summaries, models.RoomSummary{
			ID:        room.ID,
			UserCount: len(room.Participants),
			CreatedAt: room.CreatedAt,
			Kind:      room.Kind,
		})
	}
	return models.StatsSnapshot{
		WaitingUsers: len(s.queue),
		ActiveRooms:  len(s.rooms),
		Rooms:        summaries,
	}
}

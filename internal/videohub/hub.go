package videohub

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"vidmatch/backend/internal/models"
	"vidmatch/backend/internal/moderation"
	"vidmatch/backend/internal/storage"
)

// Hub is the connection registry and event router. All registry mutation and
// event dispatch happen on the Run goroutine, so handlers never race each
// other; the Clients map is additionally guarded by a lock so the stats
// endpoint can read it from HTTP goroutines.
type Hub struct {
	Clients map[string]Client

	// Channels
	IncomingCh   chan models.Event
	RegisterCh   chan Client
	UnregisterCh chan Client

	Match   *MatchService
	Storage storage.Storage

	Moderation *moderation.Service

	mu sync.RWMutex
}

// NewHub wires the registry to the match service and storage.
func NewHub(match *MatchService, s storage.Storage) *Hub {
	return &Hub{
		Clients:      make(map[string]Client),
		IncomingCh:   make(chan models.Event),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		Match:        match,
		Storage:      s,
	}
}

// SetModeration attaches the report-handling service. Without it, report
// events are dropped.
func (h *Hub) SetModeration(m *moderation.Service) {
	h.Moderation = m
}

// Run is the main dispatcher loop.
func (h *Hub) Run() {
	log.Println("Hub started.")
	for {
		select {
		case c := <-h.RegisterCh:
			h.addClient(c)
		case c := <-h.UnregisterCh:
			h.removeClient(c)
		case ev := <-h.IncomingCh:
			h.dispatch(ev)
		}
	}
}

func (h *Hub) addClient(c Client) {
	h.mu.Lock()
	h.Clients[c.GetConnID()] = c
	h.mu.Unlock()
	if h.Storage != nil {
		if err := h.Storage.SetOnline(c.GetConnID()); err != nil {
			log.Printf("Failed to mark %s online: %v", c.GetConnID(), err)
		}
	}
	log.Printf("Client connected: %s (user %q)", c.GetConnID(), c.GetUserID())
}

// removeClient runs the full disconnect cascade: drop the connection from
// registry, queue and room, and tell an abandoned partner exactly once.
func (h *Hub) removeClient(c Client) {
	connID := c.GetConnID()

	h.mu.Lock()
	_, known := h.Clients[connID]
	delete(h.Clients, connID)
	h.mu.Unlock()
	if !known {
		return // duplicate unregister, e.g. read and write pumps both failing
	}

	if partner, roomID := h.Match.RemoveConn(connID); partner != nil {
		if pc := h.client(partner.ConnID); pc != nil {
			pc.SetRoomID("")
			h.send(pc, models.Event{Type: models.EventPartnerDisconnected, RoomID: roomID})
		}
	}

	c.Close()
	if h.Storage != nil {
		if err := h.Storage.SetOffline(connID); err != nil {
			log.Printf("Failed to mark %s offline: %v", connID, err)
		}
	}
	log.Printf("Client disconnected: %s", connID)
}

func (h *Hub) dispatch(ev models.Event) {
	c := h.client(ev.SenderID)
	if c == nil {
		return // sender already unregistered
	}
	if err := ev.Validate(); err != nil {
		log.Printf("Dropping malformed %q event from %s: %v", ev.Type, ev.SenderID, err)
		return
	}

	switch ev.Type {
	case models.EventRequestMatch:
		h.handleMatchRequest(c, ev)
	case models.EventSignal, models.EventOffer, models.EventAnswer, models.EventICECandidate:
		h.relayToPartner(c, ev, true)
	case models.EventChatMessage:
		// Resolved by room membership, never by a client-supplied room id.
		h.relayToPartner(c, ev, false)
	case models.EventJoinRoom:
		// Membership is assigned by the matcher; accepted for protocol
		// compatibility and otherwise ignored.
		log.Printf("Ignoring join-room from %s (membership is server-assigned)", ev.SenderID)
	case models.EventLeaveRoom:
		h.teardownRoom(c, models.EventUserLeft)
	case models.EventEndCall:
		h.teardownRoom(c, models.EventCallEnded)
	case models.EventNextMatch:
		h.teardownRoom(c, models.EventUserLeft)
		h.handleMatchRequest(c, ev)
	case models.EventReport:
		h.handleReport(c, ev)
	default:
		log.Printf("Unknown event type %q from %s", ev.Type, ev.SenderID)
	}
}

// handleMatchRequest clears the requester's previous pairing, then either
// pairs it with the oldest compatible waiting client or queues it. The
// requester becomes the signaling initiator on success.
func (h *Hub) handleMatchRequest(c Client, ev models.Event) {
	connID := c.GetConnID()

	if uid := c.GetUserID(); uid != "" && h.Storage != nil {
		banned, err := h.Storage.IsUserBanned(uid)
		if err != nil {
			log.Printf("Ban check failed for %s: %v", uid, err)
		}
		if banned {
			h.send(c, models.Event{Type: models.EventMatchDenied, Reason: "banned"})
			return
		}
	}

	h.teardownRoom(c, models.EventUserLeft)

	res, err := h.Match.RequestMatch(connID, *ev.Profile, *ev.Filters)
	if err != nil {
		// Membership was cleared just above, so this is a contract bug;
		// signal it loudly rather than half-enqueueing.
		log.Printf("ERROR: match request for %s rejected: %v", connID, err)
		return
	}

	if !res.Matched {
		h.send(c, models.Event{Type: models.EventWaiting})
		log.Printf("Client %s added to waiting queue", connID)
		return
	}

	c.SetRoomID(res.RoomID)
	requesterProfile := *ev.Profile
	if pc := h.client(res.Partner.ConnID); pc != nil {
		pc.SetRoomID(res.RoomID)
		h.send(pc, models.Event{
			Type:      models.EventMatched,
			RoomID:    res.RoomID,
			Partner:   &requesterProfile,
			Initiator: false,
		})
	}
	partnerProfile := res.Partner.Profile
	h.send(c, models.Event{
		Type:      models.EventMatched,
		RoomID:    res.RoomID,
		Partner:   &partnerProfile,
		Initiator: true,
	})
	log.Printf("Match: %s <-> %s in room %s", connID, res.Partner.ConnID, res.RoomID)
}

// relayToPartner forwards the payload verbatim to the other room member.
// A sender without a room, or a stale room id, is a benign race and the
// event is silently dropped.
func (h *Hub) relayToPartner(c Client, ev models.Event, checkRoomID bool) {
	partner, roomID, ok := h.Match.PartnerOf(c.GetConnID())
	if !ok {
		return
	}
	if checkRoomID && ev.RoomID != roomID {
		return
	}
	pc := h.client(partner.ConnID)
	if pc == nil {
		return
	}
	h.send(pc, models.Event{
		Type:     ev.Type,
		RoomID:   roomID,
		SenderID: c.GetConnID(),
		Payload:  ev.Payload,
	})
}

// teardownRoom destroys the sender's room, if any, after notifying the
// partner with the given event kind. No-op for unroomed senders.
func (h *Hub) teardownRoom(c Client, kind string) {
	partner, roomID, ok := h.Match.PartnerOf(c.GetConnID())
	if !ok {
		return
	}
	h.Match.DestroyRoom(roomID)
	c.SetRoomID("")
	if pc := h.client(partner.ConnID); pc != nil {
		pc.SetRoomID("")
		h.send(pc, models.Event{Type: kind, RoomID: roomID})
	}
	log.Printf("Room %s destroyed (%s)", roomID, kind)
}

func (h *Hub) handleReport(c Client, ev models.Event) {
	partner, roomID, ok := h.Match.PartnerOf(c.GetConnID())
	if !ok {
		return
	}
	var payload models.ReportPayload
	if err := json.Unmarshal(ev.Payload, &payload); err != nil || payload.Reason == "" {
		log.Printf("Dropping malformed report from %s", c.GetConnID())
		return
	}
	targetUserID := ""
	if pc := h.client(partner.ConnID); pc != nil {
		targetUserID = pc.GetUserID()
	}
	report := &models.Report{
		ReporterConnID: c.GetConnID(),
		TargetConnID:   partner.ConnID,
		ReporterUserID: c.GetUserID(),
		TargetUserID:   targetUserID,
		RoomID:         roomID,
		Reason:         payload.Reason,
		Severity:       payload.Severity,
	}
	if h.Moderation == nil {
		return
	}
	if err := h.Moderation.HandleReport(report); err != nil {
		log.Printf("Failed to process report from %s: %v", c.GetConnID(), err)
	}
}

// Lookup returns the registered client for a connection id.
func (h *Hub) Lookup(connID string) (Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.Clients[connID]
	return c, ok
}

// client is the nil-on-miss variant of Lookup for the dispatch paths.
func (h *Hub) client(connID string) Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.Clients[connID]
}

// send delivers an event to a client without ever blocking the hub loop. A
// client whose send buffer is full simply loses the event; the write pump
// death path cleans the client up.
func (h *Hub) send(c Client, ev models.Event) {
	select {
	case c.GetSendChannel() <- ev:
	default:
		log.Printf("Dropping %q event for slow client %s", ev.Type, c.GetConnID())
	}
}

// Snapshot combines the registry size with the match service counters. Safe
// to call from any goroutine.
func (h *Hub) Snapshot() models.StatsSnapshot {
	h.mu.RLock()
	connected := len(h.Clients)
	h.mu.RUnlock()
	snap := h.Match.Snapshot()
	snap.ConnectedUsers = connected
	return snap
}

// StartStatsPublisher mirrors the snapshot into Redis on the given interval.
func (h *Hub) StartStatsPublisher(interval time.Duration) {
	if h.Storage == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			if err := h.Storage.PublishStats(h.Snapshot()); err != nil {
				log.Printf("Failed to publish stats: %v", err)
			}
		}
	}()
}

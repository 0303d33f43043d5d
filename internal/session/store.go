package session

import (
	"sync"

	"github.com/google/uuid"

	"pairpad/internal/metrics"
	"pairpad/internal/models"
)

// Store is the in-memory registry of live rooms. A single mutex serializes
// every lifecycle operation; at the room counts this service sees, global
// serialization is simpler than per-room locking and rules out lost updates
// on membership. Each operation is one locked step that mutates state and
// returns the clients to notify, so callers broadcast after the lock is
// released.
type Store struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

func NewStore() *Store {
	return &Store{rooms: make(map[string]*Room)}
}

// JoinResult carries what the requester needs plus the peers to notify.
type JoinResult struct {
	RoomID    string
	Doc       models.Document
	IsCreator bool
	Peers     []*Client
}

// Departure records one room a disconnecting client was removed from.
type Departure struct {
	RoomID string
	Peers  []*Client
}

// Create registers a new room with the caller as creator and sole member.
// Room ids come from an independent generator, not the creator's connection
// id, so a room id stays valid after the creator reconnects.
func (s *Store) Create(c *Client) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.rooms[id] = newRoom(id, c)
	metrics.RoomsCreated.Inc()
	metrics.ActiveRooms.Set(float64(len(s.rooms)))
	return id
}

// Join adds the client to an existing room.
func (s *Store) Join(roomID string, c *Client) (JoinResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return JoinResult{}, ErrRoomNotFound
	}
	r.members[c.ID] = c
	return JoinResult{
		RoomID:    roomID,
		Doc:       r.doc,
		IsCreator: false,
		Peers:     r.peers(c.ID),
	}, nil
}

// Rejoin re-establishes membership after a reconnect. It is idempotent: a
// client already in the member set is not duplicated. The creator flag is
// recomputed from current room state on every call.
func (s *Store) Rejoin(roomID string, c *Client) (JoinResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return JoinResult{}, ErrRoomNotFound
	}
	r.members[c.ID] = c
	return JoinResult{
		RoomID:    roomID,
		Doc:       r.doc,
		IsCreator: r.creatorID == c.ID,
		Peers:     r.peers(c.ID),
	}, nil
}

// UpdateCode overwrites one document field and returns the peers to notify,
// excluding the originator. Updates against unknown rooms or unknown field
// names are dropped silently; the operation is fire-and-forget on the wire,
// so there is nobody to answer.
func (s *Store) UpdateCode(roomID, connID, field, value string) []*Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return nil
	}
	if !r.doc.SetField(field, value) {
		return nil
	}
	return r.peers(connID)
}

// Delete removes a room on behalf of its creator and returns every current
// member for the roomDeleted notification. Deletion authority follows the
// creator identity, not current membership; nobody else ever gains it, so a
// room whose creator is gone lives until its member set empties.
func (s *Store) Delete(roomID, connID string) ([]*Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	if r.creatorID != connID {
		return nil, ErrNotCreator
	}
	members := r.peers("")
	delete(s.rooms, roomID)
	metrics.RoomsDeleted.Inc()
	metrics.ActiveRooms.Set(float64(len(s.rooms)))
	return members, nil
}

// Leave removes the client from the room, deleting the room once its member
// set is empty. Removing an identity that is not a member is a no-op, which
// makes an explicit leave racing a disconnect harmless; wasMember tells the
// caller whether to confirm and notify.
func (s *Store) Leave(roomID, connID string) (peers []*Client, wasMember bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return nil, false, ErrRoomNotFound
	}
	if _, ok := r.members[connID]; !ok {
		return nil, false, nil
	}
	delete(r.members, connID)
	peers = r.peers("")
	if len(r.members) == 0 {
		delete(s.rooms, roomID)
		metrics.RoomsDeleted.Inc()
		metrics.ActiveRooms.Set(float64(len(s.rooms)))
	}
	return peers, true, nil
}

// Disconnect applies the leave rule to every room containing the departing
// identity in a single locked scan, so a concurrent explicit leave cannot
// observe a half-removed member.
func (s *Store) Disconnect(connID string) []Departure {
	s.mu.Lock()
	defer s.mu.Unlock()
	var gone []Departure
	for id, r := range s.rooms {
		if _, ok := r.members[connID]; !ok {
			continue
		}
		delete(r.members, connID)
		gone = append(gone, Departure{RoomID: id, Peers: r.peers("")})
		if len(r.members) == 0 {
			delete(s.rooms, id)
			metrics.RoomsDeleted.Inc()
		}
	}
	metrics.ActiveRooms.Set(float64(len(s.rooms)))
	return gone
}

// Has reports whether a room currently exists.
func (s *Store) Has(roomID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.rooms[roomID]
	return ok
}

// MemberCount returns the size of a room's member set, 0 for unknown rooms.
func (s *Store) MemberCount(roomID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return 0
	}
	return len(r.members)
}

// Snapshot returns a copy of a room's document.
func (s *Store) Snapshot(roomID string) (models.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[roomID]
	if !ok {
		return models.Document{}, false
	}
	return r.doc, true
}

// Stats reports live room and member counts for the usage reporter.
func (s *Store) Stats() (rooms, members int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rooms {
		members += len(r.members)
	}
	return len(s.rooms), members
}

// Broadcast sends a frame to every listed client. Sends are fire-and-forget;
// a severed peer simply misses the frame and resyncs on rejoin.
func Broadcast(clients []*Client, frame models.Frame) {
	for _, c := range clients {
		c.Send(frame)
	}
	metrics.FramesBroadcast.Add(float64(len(clients)))
}

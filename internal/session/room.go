package session

import "pairpad/internal/models"

// Room is one collaboration session: the creator identity, the currently
// joined connections and the shared document. Rooms carry no lock of their
// own; every mutation happens inside a Store operation while the store lock
// is held.
type Room struct {
	id        string
	creatorID string
	members   map[string]*Client
	doc       models.Document
}

func newRoom(id string, creator *Client) *Room {
	return &Room{
		id:        id,
		creatorID: creator.ID,
		members:   map[string]*Client{creator.ID: creator},
	}
}

// peers returns every member except the excluded connection id. The slice is
// a snapshot, safe to use after the store lock is released.
func (r *Room) peers(exclude string) []*Client {
	out := make([]*Client, 0, len(r.members))
	for id, c := range r.members {
		if id == exclude {
			continue
		}
		out = append(out, c)
	}
	return out
}

package realtime

import "sync"

// Registry maps a user to their active connection. Entries exist only while
// a connection is open and registered; the map is rebuilt empty on restart.
//
// Registration is last-write-wins: a second connection for the same user
// silently replaces the first, and the first removes nothing when it later
// disconnects. The registry does not validate user identifiers.
type Registry struct {
	mu     sync.Mutex
	byUser map[string]*Connection
}

func NewRegistry() *Registry {
	return &Registry{byUser: make(map[string]*Connection)}
}

func (r *Registry) Register(userID string, conn *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[userID] = conn
}

// Disconnect removes the entry held by conn, if any. A no-op when the user
// has since registered a newer connection.
func (r *Registry) Disconnect(conn *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for userID, c := range r.byUser {
		if c == conn {
			delete(r.byUser, userID)
			break
		}
	}
}

func (r *Registry) Lookup(userID string) (*Connection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.byUser[userID]
	return conn, ok
}

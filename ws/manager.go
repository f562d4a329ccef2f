package ws

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
)

// UserRoom is the room every session of a user joins on connect.
func UserRoom(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// ChatRoom is the room sessions join to follow a conversation.
func ChatRoom(chatID uint) string {
	return fmt.Sprintf("chat:%d", chatID)
}

// Manager tracks live sessions, the latest session per user, and room membership.
type Manager struct {
	mu           sync.RWMutex
	sessions     map[string]*Client            // sessionID -> client
	userSessions map[uint]string               // userID -> latest sessionID
	rooms        map[string]map[string]*Client // room -> sessionID -> client
	sessionRooms map[string]map[string]struct{}
}

func NewManager() *Manager {
	return &Manager{
		sessions:     make(map[string]*Client),
		userSessions: make(map[uint]string),
		rooms:        make(map[string]map[string]*Client),
		sessionRooms: make(map[string]map[string]struct{}),
	}
}

// Attach registers c as the user's current session and joins it to the user room.
// Earlier sessions of the same user stay connected and keep their room memberships.
func (m *Manager) Attach(c *Client) {
	m.mu.Lock()
	m.sessions[c.ID] = c
	m.userSessions[c.UserID] = c.ID
	m.sessionRooms[c.ID] = make(map[string]struct{})
	m.joinLocked(UserRoom(c.UserID), c)
	m.mu.Unlock()
}

// Detach forgets c. If c was the user's current session, the most recent
// remaining session of that user (if any) takes over.
func (m *Manager) Detach(c *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[c.ID]; !ok {
		return
	}
	delete(m.sessions, c.ID)
	for room := range m.sessionRooms[c.ID] {
		m.leaveLocked(room, c.ID)
	}
	delete(m.sessionRooms, c.ID)

	if m.userSessions[c.UserID] == c.ID {
		delete(m.userSessions, c.UserID)
		for id, other := range m.sessions {
			if other.UserID == c.UserID {
				m.userSessions[c.UserID] = id
				break
			}
		}
	}
}

func (m *Manager) Join(room string, c *Client) {
	m.mu.Lock()
	if _, ok := m.sessions[c.ID]; ok {
		m.joinLocked(room, c)
	}
	m.mu.Unlock()
}

func (m *Manager) Leave(room string, c *Client) {
	m.mu.Lock()
	m.leaveLocked(room, c.ID)
	m.mu.Unlock()
}

// Lookup returns the user's directly tracked session.
func (m *Manager) Lookup(userID uint) (*Client, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.userSessions[userID]
	if !ok {
		return nil, false
	}
	c, ok := m.sessions[id]
	return c, ok
}

// Deliver sends payload to every member of room and to the current session of
// directUserID (0 to skip). A session reachable both ways receives it once.
// Returns the number of sessions that accepted the payload.
func (m *Manager) Deliver(room string, directUserID uint, payload []byte) int {
	m.mu.RLock()
	targets := make([]*Client, 0, len(m.rooms[room])+1)
	seen := make(map[string]struct{}, len(m.rooms[room])+1)
	for id, c := range m.rooms[room] {
		seen[id] = struct{}{}
		targets = append(targets, c)
	}
	if directUserID != 0 {
		if id, ok := m.userSessions[directUserID]; ok {
			if _, dup := seen[id]; !dup {
				if c := m.sessions[id]; c != nil {
					targets = append(targets, c)
				}
			}
		}
	}
	m.mu.RUnlock()

	delivered := 0
	for _, c := range targets {
		if err := c.Send(payload); err == nil {
			delivered++
		}
	}
	return delivered
}

func (m *Manager) InRoom(room string, c *Client) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.rooms[room][c.ID]
	return ok
}

func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) IsUserConnected(userID uint) bool {
	_, ok := m.Lookup(userID)
	return ok
}

// Close disconnects every session.
func (m *Manager) Close() {
	m.mu.Lock()
	clients := make([]*Client, 0, len(m.sessions))
	for _, c := range m.sessions {
		clients = append(clients, c)
	}
	m.sessions = make(map[string]*Client)
	m.userSessions = make(map[uint]string)
	m.rooms = make(map[string]map[string]*Client)
	m.sessionRooms = make(map[string]map[string]struct{})
	m.mu.Unlock()

	for _, c := range clients {
		c.Close(websocket.CloseGoingAway, "server shutdown")
	}
}

func (m *Manager) joinLocked(room string, c *Client) {
	members := m.rooms[room]
	if members == nil {
		members = make(map[string]*Client)
		m.rooms[room] = members
	}
	members[c.ID] = c

	memberships := m.sessionRooms[c.ID]
	if memberships == nil {
		memberships = make(map[string]struct{})
		m.sessionRooms[c.ID] = memberships
	}
	memberships[room] = struct{}{}
}

func (m *Manager) leaveLocked(room, sessionID string) {
	members := m.rooms[room]
	if members == nil {
		return
	}
	delete(members, sessionID)
	if len(members) == 0 {
		delete(m.rooms, room)
	}
	if memberships, ok := m.sessionRooms[sessionID]; ok {
		delete(memberships, room)
	}
}

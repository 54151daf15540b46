package game

import (
	"strings"
	"sync"

	"pencil/internal/logger"
)

// Registry owns the active rooms. Lock order is room.mu before Registry.mu;
// the registry never acquires a room lock while holding its own.
type Registry struct {
	mu      sync.RWMutex
	rooms   map[string]*Room
	members map[string]string
	codes   CodeGenerator
}

func NewRegistry(codes CodeGenerator) *Registry {
	return &Registry{
		rooms:   make(map[string]*Room),
		members: make(map[string]string),
		codes:   codes,
	}
}

// NormalizeCode turns user-typed input into registry key form.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (r *Registry) CreateRoom(hostID, hostName string, opts ...RoomOption) *Room {
	host := &Player{ID: hostID, Name: hostName, IsReady: true}

	r.mu.Lock()
	defer r.mu.Unlock()

	code := r.codes.Generate()
	for {
		if _, taken := r.rooms[code]; !taken {
			break
		}
		logger.Debugf("[Registry] Code %s collided, retrying", code)
		code = r.codes.Generate()
	}

	room := newRoom(code, host, opts...)
	r.rooms[code] = room
	r.members[hostID] = code
	logger.Infof("[Room %s] Created by %s", code, hostID)
	return room
}

func (r *Registry) Get(code string) (*Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[NormalizeCode(code)]
	return room, ok
}

// AddPlayer appends a not-ready player. It fails when the room is missing or full.
func (r *Registry) AddPlayer(code, id, name string) bool {
	room, ok := r.Get(code)
	if !ok {
		return false
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	return r.addLocked(room, id, name)
}

// RemovePlayer deletes the player, destroying the room when it empties and
// promoting the earliest remaining player when the host left.
func (r *Registry) RemovePlayer(code, id string) {
	room, ok := r.Get(code)
	if !ok {
		return
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	r.removeLocked(room, id)
}

func (r *Registry) FindRoomOf(participantID string) (*Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	code, ok := r.members[participantID]
	if !ok {
		return nil, false
	}
	room, ok := r.rooms[code]
	return room, ok
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

func (r *Registry) Codes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codes := make([]string, 0, len(r.rooms))
	for code := range r.rooms {
		codes = append(codes, code)
	}
	return codes
}

// addLocked expects room.mu to be held.
func (r *Registry) addLocked(room *Room, id, name string) bool {
	if room.destroyed || len(room.players) >= room.settings.MaxPlayers || room.player(id) != nil {
		return false
	}
	room.players = append(room.players, &Player{ID: id, Name: name})

	r.mu.Lock()
	r.members[id] = room.code
	r.mu.Unlock()

	logger.Infof("[Room %s] Player %s joined (%d/%d)", room.code, id, len(room.players), room.settings.MaxPlayers)
	return true
}

// removeLocked expects room.mu to be held. It reports whether the room was destroyed.
func (r *Registry) removeLocked(room *Room, id string) bool {
	if room.destroyed || !room.removePlayer(id) {
		return room.destroyed
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.members[id] == room.code {
		delete(r.members, id)
	}

	if len(room.players) == 0 {
		room.destroyed = true
		delete(r.rooms, room.code)
		logger.Infof("[Room %s] Last player left, room destroyed", room.code)
		return true
	}

	if room.hostID == id {
		room.hostID = room.players[0].ID
		room.players[0].IsReady = true
		logger.Infof("[Room %s] Host %s left, promoted %s", room.code, id, room.hostID)
	}
	return false
}

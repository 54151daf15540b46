package game

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type Phase int

const (
	PhaseLobby Phase = iota
	PhaseChoosing
	PhaseDrawing
	PhaseRoundResults
	PhaseGameOver
)

var phaseNames = [...]string{"lobby", "choosing", "drawing", "results", "gameOver"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for i, name := range phaseNames {
		if name == string(text) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

const (
	MinPlayers       = 3
	MaxPlayersLimit  = 10
	MinRounds        = 1
	MaxRounds        = 10
	MinRoundSeconds  = 15
	MaxRoundSeconds  = 120
	WordOptionsCount = 3
)

type Settings struct {
	MaxPlayers       int `json:"maxPlayers"`
	TotalRounds      int `json:"totalRounds"`
	RoundTimeSeconds int `json:"roundTime"`
}

func DefaultSettings() Settings {
	return Settings{MaxPlayers: MaxPlayersLimit, TotalRounds: 3, RoundTimeSeconds: MaxRoundSeconds}
}

// SettingsUpdate carries the fields a host asked to change; nil fields are left alone.
type SettingsUpdate struct {
	MaxPlayers  *int `json:"maxPlayers,omitempty"`
	TotalRounds *int `json:"totalRounds,omitempty"`
	RoundTime   *int `json:"roundTime,omitempty"`
}

func (s Settings) RoundTime() time.Duration {
	return time.Duration(s.RoundTimeSeconds) * time.Second
}

type Player struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Score               int    `json:"score"`
	IsReady             bool   `json:"isReady"`
	HasGuessedCorrectly bool   `json:"hasGuessedCorrectly"`
}

// Room is one game session. Every field is guarded by mu; the registry and the
// service lock it for the whole duration of an inbound event or timer fire.
type Room struct {
	mu sync.Mutex

	// Identity
	code         string
	hostID       string
	passwordHash string
	destroyed    bool

	// Configuration
	settings Settings

	// Runtime state
	phase             Phase
	currentRound      int
	currentDrawerID   string
	wordOptions       []string
	secretWord        string
	lastWord          string
	revealedPositions map[int]struct{}
	correctGuessers   map[string]struct{}
	roundStartedAt    time.Time
	turn              uint64

	// Gameplay data
	strokeHistory []json.RawMessage

	// Players, in join order
	players []*Player
}

type RoomOption func(*Room)

// WithPasswordHash makes JoinRoom require a password matching hash.
func WithPasswordHash(hash string) RoomOption {
	return func(r *Room) { r.passwordHash = hash }
}

func newRoom(code string, host *Player, opts ...RoomOption) *Room {
	room := &Room{
		code:              code,
		hostID:            host.ID,
		settings:          DefaultSettings(),
		phase:             PhaseLobby,
		revealedPositions: make(map[int]struct{}),
		correctGuessers:   make(map[string]struct{}),
		players:           make([]*Player, 0, MaxPlayersLimit),
	}
	for _, opt := range opts {
		opt(room)
	}
	room.players = append(room.players, host)
	return room
}

func (r *Room) Code() string {
	return r.code
}

func (r *Room) indexOf(id string) int {
	for i, p := range r.players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (r *Room) player(id string) *Player {
	if i := r.indexOf(id); i >= 0 {
		return r.players[i]
	}
	return nil
}

func (r *Room) playerIDs() []string {
	ids := make([]string, len(r.players))
	for i, p := range r.players {
		ids[i] = p.ID
	}
	return ids
}

// removePlayer drops id from the roster and from the per-round guess ledger.
func (r *Room) removePlayer(id string) bool {
	i := r.indexOf(id)
	if i < 0 {
		return false
	}
	r.players = append(r.players[:i], r.players[i+1:]...)
	delete(r.correctGuessers, id)
	return true
}

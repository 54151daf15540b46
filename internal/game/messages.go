package game

import (
	"encoding/json"
	"slices"
)

type MessageType string

const (
	MsgRoomState      MessageType = "roomState"
	MsgDrawUpdate     MessageType = "drawUpdate"
	MsgCanvasCleared  MessageType = "canvasCleared"
	MsgChatMessage    MessageType = "chatMessage"
	MsgCorrectGuess   MessageType = "correctGuess"
	MsgKicked         MessageType = "kicked"
	MsgCreateRoomDone MessageType = "createRoomResult"
	MsgJoinRoomDone   MessageType = "joinRoomResult"
)

type Message struct {
	Type MessageType `json:"type"`
	Data any         `json:"data,omitempty"`
}

type ChatLine struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Message    string `json:"message"`
	Timestamp  int64  `json:"timestamp"`
}

type CorrectGuess struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Points     int    `json:"points"`
}

type Kicked struct {
	RoomCode string `json:"roomCode"`
}

type Result struct {
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
	RoomCode string `json:"roomCode,omitempty"`
}

// Snapshot is the public view of a room. UnmaskedWord and WordOptions are
// filled for everyone here and stripped per viewer by ForViewer.
type Snapshot struct {
	Code            string            `json:"code"`
	HostID          string            `json:"hostId"`
	Players         []Player          `json:"players"`
	MaxPlayers      int               `json:"maxPlayers"`
	TotalRounds     int               `json:"totalRounds"`
	RoundTime       int               `json:"roundTime"`
	CurrentRound    int               `json:"currentRound"`
	CurrentDrawerID string            `json:"currentDrawerId"`
	Phase           Phase             `json:"gameState"`
	WordOptions     []string          `json:"wordOptions"`
	MaskedWord      string            `json:"maskedWord"`
	UnmaskedWord    string            `json:"unmaskedWord,omitempty"`
	LastWord        string            `json:"lastWord,omitempty"`
	Strokes         []json.RawMessage `json:"strokes"`
	RoundStartTime  int64             `json:"roundStartTime,omitempty"`
	Locked          bool              `json:"locked"`
}

func (e *Engine) Snapshot(room *Room) Snapshot {
	players := make([]Player, len(room.players))
	for i, p := range room.players {
		players[i] = *p
	}
	snap := Snapshot{
		Code:            room.code,
		HostID:          room.hostID,
		Players:         players,
		MaxPlayers:      room.settings.MaxPlayers,
		TotalRounds:     room.settings.TotalRounds,
		RoundTime:       room.settings.RoundTimeSeconds,
		CurrentRound:    room.currentRound,
		CurrentDrawerID: room.currentDrawerID,
		Phase:           room.phase,
		WordOptions:     slices.Clone(room.wordOptions),
		MaskedWord:      e.MaskedWord(room),
		UnmaskedWord:    room.secretWord,
		Strokes:         slices.Clone(room.strokeHistory),
		Locked:          room.passwordHash != "",
	}
	if snap.WordOptions == nil {
		snap.WordOptions = []string{}
	}
	if snap.Strokes == nil {
		snap.Strokes = []json.RawMessage{}
	}
	if room.phase == PhaseRoundResults || room.phase == PhaseGameOver {
		snap.LastWord = room.lastWord
	}
	if !room.roundStartedAt.IsZero() {
		snap.RoundStartTime = room.roundStartedAt.UnixMilli()
	}
	return snap
}

// ForViewer hides the secret word and the word options from everyone but the drawer.
func (s Snapshot) ForViewer(id string) Snapshot {
	if id == s.CurrentDrawerID {
		return s
	}
	s.UnmaskedWord = ""
	s.WordOptions = []string{}
	return s
}

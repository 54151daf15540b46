package transport

import (
	"context"
	"encoding/json"
	"errors"

	"pencil/internal/game"
	"pencil/internal/logger"
)

const maxStrokeBytes = 16 << 10

const (
	EvCreateRoom     = "createRoom"
	EvJoinRoom       = "joinRoom"
	EvLeaveRoom      = "leaveRoom"
	EvToggleReady    = "toggleReady"
	EvUpdateSettings = "updateSettings"
	EvStartGame      = "startGame"
	EvSelectWord     = "selectWord"
	EvDraw           = "draw"
	EvClearCanvas    = "clearCanvas"
	EvSendMessage    = "sendMessage"
	EvNextRound      = "nextRound"
	EvKickPlayer     = "kickPlayer"
)

// GameService is what the router drives. *game.Service implements it.
type GameService interface {
	CreateRoom(participantID, name, password string) (string, error)
	JoinRoom(participantID, code, name, password string) error
	ToggleReady(participantID, code string)
	UpdateSettings(participantID, code string, update game.SettingsUpdate)
	StartGame(ctx context.Context, participantID, code string)
	SelectWord(participantID, code, word string)
	Draw(participantID, code string, stroke json.RawMessage)
	ClearCanvas(participantID, code string)
	SendMessage(participantID, code, text string)
	NextRound(ctx context.Context, participantID, code string)
	KickPlayer(participantID, code, targetID string)
	Disconnect(participantID string)
	RoomCount() int
}

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type roomPayload struct {
	RoomCode string `json:"roomCode"`
}

type createRoomPayload struct {
	PlayerName string `json:"playerName"`
	Password   string `json:"password"`
}

type joinRoomPayload struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
	Password   string `json:"password"`
}

type settingsPayload struct {
	RoomCode string `json:"roomCode"`
	game.SettingsUpdate
}

type selectWordPayload struct {
	RoomCode string `json:"roomCode"`
	Word     string `json:"word"`
}

type drawPayload struct {
	RoomCode string          `json:"roomCode"`
	Stroke   json.RawMessage `json:"stroke"`
}

type messagePayload struct {
	RoomCode string `json:"roomCode"`
	Text     string `json:"text"`
}

type kickPayload struct {
	RoomCode string `json:"roomCode"`
	TargetID string `json:"targetId"`
}

// Router decodes client frames and calls the matching game operation.
// Malformed frames are dropped.
type Router struct {
	game GameService
}

func NewRouter(g GameService) *Router {
	return &Router{game: g}
}

func decode[T any](raw json.RawMessage) (T, bool) {
	var v T
	if len(raw) == 0 {
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, false
	}
	return v, true
}

func (rt *Router) Handle(c *Client, data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		logger.Debugf("[Client %s] Dropping malformed frame: %v", c.id, err)
		return
	}

	pid := c.id
	switch env.Type {
	case EvCreateRoom:
		p, ok := decode[createRoomPayload](env.Data)
		if !ok {
			c.SendMessage(resultMessage(game.MsgCreateRoomDone, "", errBadRequest))
			return
		}
		code, err := rt.game.CreateRoom(pid, p.PlayerName, p.Password)
		c.SendMessage(resultMessage(game.MsgCreateRoomDone, code, err))

	case EvJoinRoom:
		p, ok := decode[joinRoomPayload](env.Data)
		if !ok {
			c.SendMessage(resultMessage(game.MsgJoinRoomDone, "", errBadRequest))
			return
		}
		code := game.NormalizeCode(p.RoomCode)
		err := rt.game.JoinRoom(pid, code, p.PlayerName, p.Password)
		c.SendMessage(resultMessage(game.MsgJoinRoomDone, code, err))

	case EvLeaveRoom:
		rt.game.Disconnect(pid)

	case EvToggleReady:
		if p, ok := decode[roomPayload](env.Data); ok {
			rt.game.ToggleReady(pid, p.RoomCode)
		}

	case EvUpdateSettings:
		if p, ok := decode[settingsPayload](env.Data); ok {
			rt.game.UpdateSettings(pid, p.RoomCode, p.SettingsUpdate)
		}

	case EvStartGame:
		if p, ok := decode[roomPayload](env.Data); ok {
			rt.game.StartGame(c.ctx, pid, p.RoomCode)
		}

	case EvSelectWord:
		if p, ok := decode[selectWordPayload](env.Data); ok {
			rt.game.SelectWord(pid, p.RoomCode, p.Word)
		}

	case EvDraw:
		p, ok := decode[drawPayload](env.Data)
		if !ok || len(p.Stroke) > maxStrokeBytes {
			return
		}
		if !c.drawLimiter.Allow() {
			logger.Debugf("[Client %s] Draw rate limited", pid)
			return
		}
		rt.game.Draw(pid, p.RoomCode, p.Stroke)

	case EvClearCanvas:
		if p, ok := decode[roomPayload](env.Data); ok {
			rt.game.ClearCanvas(pid, p.RoomCode)
		}

	case EvSendMessage:
		p, ok := decode[messagePayload](env.Data)
		if !ok {
			return
		}
		if !c.chatLimiter.Allow() {
			logger.Debugf("[Client %s] Chat rate limited", pid)
			return
		}
		rt.game.SendMessage(pid, p.RoomCode, p.Text)

	case EvNextRound:
		if p, ok := decode[roomPayload](env.Data); ok {
			rt.game.NextRound(c.ctx, pid, p.RoomCode)
		}

	case EvKickPlayer:
		if p, ok := decode[kickPayload](env.Data); ok {
			rt.game.KickPlayer(pid, p.RoomCode, p.TargetID)
		}

	default:
		logger.Debugf("[Client %s] Unknown event %q", pid, env.Type)
	}
}

var errBadRequest = errors.New("bad-request-format")

func resultMessage(kind game.MessageType, code string, err error) game.Message {
	if err != nil {
		return game.Message{Type: kind, Data: game.Result{Success: false, Error: errorCode(err)}}
	}
	return game.Message{Type: kind, Data: game.Result{Success: true, RoomCode: code}}
}

// errorCode exposes only the known game errors to clients.
func errorCode(err error) string {
	for _, known := range []error{
		errBadRequest,
		game.ErrRoomNotFound,
		game.ErrRoomFull,
		game.ErrInvalidName,
		game.ErrOffensiveName,
		game.ErrWrongPassword,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "unknown-error"
}

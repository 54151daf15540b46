package game

import (
	"context"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"pencil/internal/logger"
)

const (
	maxNameLength    = 24
	maxMessageLength = 200
	maxStrokeHistory = 4096
	wordFetchTimeout = 3 * time.Second
)

// Service turns inbound participant events into room mutations. Each event
// runs to completion under its room's lock, timers are re-synced before the
// lock is released, and notifications go out afterwards.
type Service struct {
	registry  *Registry
	engine    *Engine
	scheduler *RoundScheduler
	words     WordSupply
	filter    ContentFilter
	passwords PasswordHasher
	notifier  Notifier
	now       func() time.Time
}

func NewService(registry *Registry, scheduler *RoundScheduler, words WordSupply, filter ContentFilter, passwords PasswordHasher, notifier Notifier) *Service {
	return &Service{
		registry:  registry,
		engine:    NewEngine(),
		scheduler: scheduler,
		words:     words,
		filter:    filter,
		passwords: passwords,
		notifier:  notifier,
		now:       time.Now,
	}
}

type notice struct {
	to  []string
	msg Message
}

// effects collects what participants must be told once the room lock is released.
type effects struct {
	notices []notice
	state   bool
}

func (fx *effects) send(to []string, msg Message) {
	fx.notices = append(fx.notices, notice{to: to, msg: msg})
}

func (s *Service) withRoom(code string, fn func(room *Room, fx *effects)) bool {
	room, ok := s.registry.Get(code)
	if !ok {
		return false
	}
	return s.inRoom(room, fn)
}

func (s *Service) inRoom(room *Room, fn func(room *Room, fx *effects)) bool {
	fx := &effects{}
	var snap Snapshot

	room.mu.Lock()
	if room.destroyed {
		room.mu.Unlock()
		return false
	}
	fn(room, fx)
	if room.destroyed {
		s.scheduler.Cancel(room.code)
		fx.state = false
	} else {
		s.syncTimers(room)
		if fx.state {
			snap = s.engine.Snapshot(room)
		}
	}
	room.mu.Unlock()

	for _, n := range fx.notices {
		if len(n.to) > 0 {
			s.notifier.Notify(n.to, n.msg)
		}
	}
	if fx.state {
		s.broadcastState(snap)
	}
	return true
}

// peek evaluates a read-only precondition under the room lock.
func (s *Service) peek(room *Room, ok func(room *Room) bool) bool {
	room.mu.Lock()
	defer room.mu.Unlock()
	return !room.destroyed && ok(room)
}

func (s *Service) broadcastState(snap Snapshot) {
	for _, p := range snap.Players {
		s.notifier.Notify([]string{p.ID}, Message{Type: MsgRoomState, Data: snap.ForViewer(p.ID)})
	}
}

// syncTimers expects room.mu to be held. A drawing room always has exactly
// one timer set armed for its current turn; any other phase has none.
func (s *Service) syncTimers(room *Room) {
	if room.phase != PhaseDrawing {
		s.scheduler.Cancel(room.code)
		return
	}
	if turn, ok := s.scheduler.ArmedTurn(room.code); ok && turn == room.turn {
		return
	}
	plan := PlanRound(room.settings.RoundTime(), LetterCount(room.secretWord))
	s.scheduler.Arm(room.code, room.turn, plan, s.onTimer)
}

func (s *Service) onTimer(code string, kind TimerKind, turn uint64) {
	s.withRoom(code, func(room *Room, fx *effects) {
		if room.phase != PhaseDrawing || room.turn != turn {
			logger.Debugf("[Room %s] Ignoring stale %s timer for turn %d", code, kind, turn)
			return
		}
		switch kind {
		case TimerRevealLetter:
			fx.state = s.engine.RevealOneLetter(room)
		case TimerRevealCliff:
			fx.state = s.engine.RevealAllButLast(room)
		case TimerRoundEnd:
			logger.Infof("[Room %s] Round time is up for turn %d", code, turn)
			fx.state = s.engine.EndRound(room)
			s.logPhase(room)
		}
	})
}

func (s *Service) logPhase(room *Room) {
	logger.Infof("[Room %s] Phase %s, round %d/%d, drawer %q", room.code, room.phase, room.currentRound, room.settings.TotalRounds, room.currentDrawerID)
}

func (s *Service) validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return "", ErrInvalidName
	}
	if s.filter.IsOffensive(name) {
		return "", ErrOffensiveName
	}
	return name, nil
}

func (s *Service) fetchWords(ctx context.Context, code string) ([]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, wordFetchTimeout)
	defer cancel()

	words, err := s.words.NextWordBatch(ctx, WordOptionsCount)
	if err != nil {
		logger.Warningf("[Room %s] Word supply failed: %v", code, err)
		return nil, false
	}
	if len(words) < WordOptionsCount {
		logger.Warningf("[Room %s] Word supply returned %d words, need %d", code, len(words), WordOptionsCount)
		return nil, false
	}
	return words, true
}

// CreateRoom opens a room with the caller as its ready host and returns its code.
func (s *Service) CreateRoom(participantID, name, password string) (string, error) {
	name, err := s.validateName(name)
	if err != nil {
		return "", err
	}

	var opts []RoomOption
	if password != "" {
		hash, err := s.passwords.Hash(password)
		if err != nil {
			logger.Criticalf("Hashing room password failed: %v", err)
			return "", err
		}
		opts = append(opts, WithPasswordHash(hash))
	}

	s.Disconnect(participantID)
	room := s.registry.CreateRoom(participantID, name, opts...)
	s.inRoom(room, func(room *Room, fx *effects) { fx.state = true })
	return room.code, nil
}

func (s *Service) JoinRoom(participantID, code, name, password string) error {
	name, err := s.validateName(name)
	if err != nil {
		return err
	}
	room, ok := s.registry.Get(code)
	if !ok {
		return ErrRoomNotFound
	}

	// the hash is set before the room is published and never changes
	if room.passwordHash != "" {
		match, err := s.passwords.Compare(room.passwordHash, password)
		if err != nil || !match {
			return ErrWrongPassword
		}
	}

	previous, hadRoom := s.registry.FindRoomOf(participantID)
	if hadRoom && previous == room {
		return nil
	}

	// the previous room is left only once the new one has accepted the player
	joined := false
	found := s.inRoom(room, func(room *Room, fx *effects) {
		joined = s.registry.addLocked(room, participantID, name)
		fx.state = joined
	})
	switch {
	case !found:
		return ErrRoomNotFound
	case !joined:
		logger.Infof("[Room %s] Rejected %s, room is full", room.code, participantID)
		return ErrRoomFull
	}

	if hadRoom {
		s.inRoom(previous, func(room *Room, fx *effects) {
			s.leaveLocked(room, participantID)
			fx.state = true
		})
	}
	return nil
}

func (s *Service) ToggleReady(participantID, code string) {
	s.withRoom(code, func(room *Room, fx *effects) {
		p := room.player(participantID)
		if p == nil || participantID == room.hostID {
			return
		}
		p.IsReady = !p.IsReady
		fx.state = true
	})
}

func (s *Service) UpdateSettings(participantID, code string, update SettingsUpdate) {
	s.withRoom(code, func(room *Room, fx *effects) {
		if participantID != room.hostID {
			return
		}
		fx.state = s.engine.UpdateSettings(room, update)
	})
}

// StartGame fetches the first word batch outside the room lock, then
// re-validates before applying it.
func (s *Service) StartGame(ctx context.Context, participantID, code string) {
	room, ok := s.registry.Get(code)
	if !ok {
		return
	}
	canStart := s.peek(room, func(room *Room) bool {
		return room.hostID == participantID && room.phase == PhaseLobby && len(room.players) >= MinPlayers
	})
	if !canStart {
		return
	}
	words, ok := s.fetchWords(ctx, room.code)
	if !ok {
		return
	}
	s.inRoom(room, func(room *Room, fx *effects) {
		if room.hostID != participantID || !s.engine.StartGame(room, words) {
			return
		}
		fx.state = true
		s.logPhase(room)
	})
}

func (s *Service) SelectWord(participantID, code, word string) {
	s.withRoom(code, func(room *Room, fx *effects) {
		if participantID != room.currentDrawerID {
			return
		}
		if s.engine.SelectWord(room, word, s.now()) {
			fx.state = true
			s.logPhase(room)
		}
	})
}

// Draw records a stroke and relays it to everyone but the drawer. Strokes past
// maxStrokeHistory in one turn are dropped.
func (s *Service) Draw(participantID, code string, stroke json.RawMessage) {
	if len(stroke) == 0 {
		return
	}
	s.withRoom(code, func(room *Room, fx *effects) {
		if participantID != room.currentDrawerID || room.phase != PhaseDrawing {
			return
		}
		if len(room.strokeHistory) >= maxStrokeHistory {
			logger.Debugf("[Room %s] Stroke history full, dropping stroke", room.code)
			return
		}
		room.strokeHistory = append(room.strokeHistory, stroke)
		fx.send(othersThan(room, participantID), Message{Type: MsgDrawUpdate, Data: stroke})
	})
}

func (s *Service) ClearCanvas(participantID, code string) {
	s.withRoom(code, func(room *Room, fx *effects) {
		if participantID != room.currentDrawerID {
			return
		}
		room.strokeHistory = nil
		fx.send(room.playerIDs(), Message{Type: MsgCanvasCleared})
	})
}

// SendMessage treats a non-drawer's message during drawing as a guess first.
// Messages from players who already know the word only reach the others who do.
func (s *Service) SendMessage(participantID, code, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if utf8.RuneCountInString(text) > maxMessageLength {
		text = string([]rune(text)[:maxMessageLength])
	}

	s.withRoom(code, func(room *Room, fx *effects) {
		sender := room.player(participantID)
		if sender == nil {
			return
		}

		if room.phase == PhaseDrawing && participantID != room.currentDrawerID {
			res := s.engine.CheckGuess(room, participantID, text, s.now())
			if res.Correct {
				logger.Infof("[Room %s] %s guessed the word for %d points", room.code, participantID, res.PointsAwarded)
				fx.send(room.playerIDs(), Message{Type: MsgCorrectGuess, Data: CorrectGuess{
					PlayerID:   sender.ID,
					PlayerName: sender.Name,
					Points:     res.PointsAwarded,
				}})
				fx.state = true
				if s.engine.AllGuessed(room) {
					logger.Infof("[Room %s] Everyone guessed, ending round early", room.code)
					s.engine.EndRound(room)
					s.logPhase(room)
				}
				return
			}
		}

		to := room.playerIDs()
		if room.phase == PhaseDrawing && (participantID == room.currentDrawerID || sender.HasGuessedCorrectly) {
			to = insiders(room)
		}
		fx.send(to, Message{Type: MsgChatMessage, Data: ChatLine{
			PlayerID:   sender.ID,
			PlayerName: sender.Name,
			Message:    s.filter.Redact(text),
			Timestamp:  s.now().UnixMilli(),
		}})
	})
}

func (s *Service) NextRound(ctx context.Context, participantID, code string) {
	room, ok := s.registry.Get(code)
	if !ok {
		return
	}
	canAdvance := s.peek(room, func(room *Room) bool {
		return room.hostID == participantID && room.phase == PhaseRoundResults
	})
	if !canAdvance {
		return
	}
	words, ok := s.fetchWords(ctx, room.code)
	if !ok {
		return
	}
	s.inRoom(room, func(room *Room, fx *effects) {
		if room.hostID != participantID || !s.engine.NextRound(room, words) {
			return
		}
		fx.state = true
		s.logPhase(room)
	})
}

func (s *Service) KickPlayer(participantID, code, targetID string) {
	s.withRoom(code, func(room *Room, fx *effects) {
		if participantID != room.hostID || targetID == participantID || room.player(targetID) == nil {
			return
		}
		logger.Infof("[Room %s] Host kicked %s", room.code, targetID)
		fx.send([]string{targetID}, Message{Type: MsgKicked, Data: Kicked{RoomCode: room.code}})
		s.leaveLocked(room, targetID)
		fx.state = true
	})
}

// Disconnect removes the participant from whatever room it is in.
func (s *Service) Disconnect(participantID string) {
	room, ok := s.registry.FindRoomOf(participantID)
	if !ok {
		return
	}
	s.inRoom(room, func(room *Room, fx *effects) {
		s.leaveLocked(room, participantID)
		fx.state = true
	})
}

// leaveLocked expects room.mu to be held. It hands the turn on when the drawer left and
// ends a drawing turn that the departure left with nobody still guessing.
func (s *Service) leaveLocked(room *Room, id string) {
	idx := room.indexOf(id)
	if idx < 0 {
		return
	}
	wasDrawer := room.currentDrawerID == id
	if s.registry.removeLocked(room, id) {
		return
	}
	switch {
	case wasDrawer:
		logger.Infof("[Room %s] Drawer %s left during %s", room.code, id, room.phase)
		s.engine.ReplaceDrawer(room, idx)
		s.logPhase(room)
	case s.engine.AllGuessed(room):
		s.engine.EndRound(room)
		s.logPhase(room)
	}
}

// RoomCount is the number of live rooms.
func (s *Service) RoomCount() int {
	return s.registry.Count()
}

// Close stops every pending round timer.
func (s *Service) Close() {
	s.scheduler.Close()
}

func othersThan(room *Room, id string) []string {
	ids := make([]string, 0, len(room.players))
	for _, p := range room.players {
		if p.ID != id {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// insiders are the drawer plus everyone who solved the current round.
func insiders(room *Room) []string {
	var ids []string
	for _, p := range room.players {
		if _, solved := room.correctGuessers[p.ID]; solved || p.ID == room.currentDrawerID {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

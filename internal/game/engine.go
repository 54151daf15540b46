package game

import (
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"sync/atomic"
	"time"
)

const (
	GuessBasePoints   = 100
	GuessTimeBonus    = 3
	DrawerGuessPoints = 50
)

type GuessResult struct {
	Correct       bool
	PointsAwarded int
}

// Engine holds the room state machine. It performs no I/O and starts no timers.
// Its own state is the letter picker and a turn counter that stays unique
// across rooms so a stale timer can never match a newer turn.
type Engine struct {
	pick  func(n int) int
	turns atomic.Uint64
}

func NewEngine() *Engine {
	return &Engine{pick: rand.IntN}
}

// StartGame moves a lobby with enough players into the first choosing phase.
func (e *Engine) StartGame(room *Room, words []string) bool {
	if room.phase != PhaseLobby || len(room.players) < MinPlayers || len(words) < WordOptionsCount {
		return false
	}
	for _, p := range room.players {
		p.Score = 0
		p.HasGuessedCorrectly = false
	}
	room.currentRound = 1
	room.currentDrawerID = room.players[0].ID
	room.wordOptions = slices.Clone(words[:WordOptionsCount])
	room.secretWord = ""
	room.lastWord = ""
	clear(room.correctGuessers)
	room.phase = PhaseChoosing
	return true
}

func (e *Engine) SelectWord(room *Room, word string, now time.Time) bool {
	if room.phase != PhaseChoosing || !slices.Contains(room.wordOptions, word) {
		return false
	}
	room.secretWord = word
	room.wordOptions = nil
	room.roundStartedAt = now
	clear(room.revealedPositions)
	clear(room.correctGuessers)
	room.strokeHistory = nil
	for _, p := range room.players {
		p.HasGuessedCorrectly = false
	}
	room.turn = e.turns.Add(1)
	room.phase = PhaseDrawing
	return true
}

// CheckGuess scores text against the secret word. Anything that is not a
// first correct guess by a non-drawer leaves the room untouched.
func (e *Engine) CheckGuess(room *Room, playerID, text string, now time.Time) GuessResult {
	if room.secretWord == "" || room.phase != PhaseDrawing || playerID == room.currentDrawerID {
		return GuessResult{}
	}
	if _, solved := room.correctGuessers[playerID]; solved {
		return GuessResult{}
	}
	guesser := room.player(playerID)
	if guesser == nil {
		return GuessResult{}
	}

	guess := NormalizeGuess(text)
	if guess == "" || guess != NormalizeGuess(room.secretWord) {
		return GuessResult{}
	}

	remaining := room.settings.RoundTime() - now.Sub(room.roundStartedAt)
	if remaining < 0 {
		remaining = 0
	}
	points := GuessBasePoints + int(math.Ceil(GuessTimeBonus*remaining.Seconds()))

	guesser.Score += points
	guesser.HasGuessedCorrectly = true
	room.correctGuessers[playerID] = struct{}{}
	if drawer := room.player(room.currentDrawerID); drawer != nil {
		drawer.Score += DrawerGuessPoints
	}
	return GuessResult{Correct: true, PointsAwarded: points}
}

// AllGuessed reports whether every non-drawer has solved the current round.
func (e *Engine) AllGuessed(room *Room) bool {
	if room.phase != PhaseDrawing {
		return false
	}
	for _, p := range room.players {
		if p.ID == room.currentDrawerID {
			continue
		}
		if _, ok := room.correctGuessers[p.ID]; !ok {
			return false
		}
	}
	return true
}

// EndRound closes the drawing phase and hands the next turn to the following
// player. A wrap to the roster start completes a round.
func (e *Engine) EndRound(room *Room) bool {
	if room.phase != PhaseDrawing {
		return false
	}
	next, wrapped := nextInRotation(len(room.players), room.indexOf(room.currentDrawerID))
	e.finishDrawing(room)
	e.advanceTo(room, next, wrapped)
	return true
}

// NextRound offers a fresh batch of words to the drawer picked by EndRound.
func (e *Engine) NextRound(room *Room, words []string) bool {
	if room.phase != PhaseRoundResults || len(words) < WordOptionsCount {
		return false
	}
	if room.player(room.currentDrawerID) == nil {
		return false
	}
	room.wordOptions = slices.Clone(words[:WordOptionsCount])
	room.secretWord = ""
	clear(room.correctGuessers)
	for _, p := range room.players {
		p.HasGuessedCorrectly = false
	}
	room.phase = PhaseChoosing
	return true
}

// ReplaceDrawer repairs the room after the current drawer, formerly at
// departedIndex, has been removed from the roster. It reports whether the
// phase changed.
func (e *Engine) ReplaceDrawer(room *Room, departedIndex int) bool {
	if room.currentDrawerID == "" || len(room.players) == 0 {
		return false
	}
	next, wrapped := successorAfterRemoval(len(room.players), departedIndex)
	before := room.phase
	if room.phase == PhaseDrawing {
		e.finishDrawing(room)
	}
	e.advanceTo(room, next, wrapped)
	if before == PhaseDrawing || room.phase == PhaseGameOver {
		return true
	}
	// choosing and results keep their phase with the new drawer
	room.phase = before
	return false
}

func (e *Engine) finishDrawing(room *Room) {
	room.lastWord = room.secretWord
	room.secretWord = ""
	room.roundStartedAt = time.Time{}
	clear(room.revealedPositions)
}

// advanceTo makes players[next] the drawer and enters results, or game over
// when the wrap pushed the round counter past the configured total.
func (e *Engine) advanceTo(room *Room, next int, wrapped bool) {
	room.currentDrawerID = room.players[next].ID
	if wrapped {
		room.currentRound++
	}
	if room.currentRound > room.settings.TotalRounds {
		room.phase = PhaseGameOver
		room.currentDrawerID = ""
		room.wordOptions = nil
		return
	}
	room.phase = PhaseRoundResults
}

// UpdateSettings clamps every requested value into its valid range. The
// player cap never drops below the current roster size.
func (e *Engine) UpdateSettings(room *Room, update SettingsUpdate) bool {
	if room.phase != PhaseLobby {
		return false
	}
	s := room.settings
	if update.MaxPlayers != nil {
		s.MaxPlayers = clamp(*update.MaxPlayers, max(MinPlayers, len(room.players)), MaxPlayersLimit)
	}
	if update.TotalRounds != nil {
		s.TotalRounds = clamp(*update.TotalRounds, MinRounds, MaxRounds)
	}
	if update.RoundTime != nil {
		s.RoundTimeSeconds = clamp(*update.RoundTime, MinRoundSeconds, MaxRoundSeconds)
	}
	room.settings = s
	return true
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// MaskedWord renders the secret for guessers: spaces and revealed letters are
// shown, everything else is an underscore, and characters are space separated.
func (e *Engine) MaskedWord(room *Room) string {
	if room.secretWord == "" {
		return ""
	}
	runes := []rune(room.secretWord)
	parts := make([]string, len(runes))
	for i, r := range runes {
		_, revealed := room.revealedPositions[i]
		if r == ' ' || revealed {
			parts[i] = string(r)
		} else {
			parts[i] = "_"
		}
	}
	return strings.Join(parts, " ")
}

// RevealOneLetter discloses one random hidden letter, never the last one.
func (e *Engine) RevealOneLetter(room *Room) bool {
	hidden := unrevealed(room)
	if len(hidden) <= 1 {
		return false
	}
	room.revealedPositions[hidden[e.pick(len(hidden))]] = struct{}{}
	return true
}

// RevealAllButLast discloses every hidden letter except the last hidden one.
func (e *Engine) RevealAllButLast(room *Room) bool {
	hidden := unrevealed(room)
	if len(hidden) <= 1 {
		return false
	}
	for _, i := range hidden[:len(hidden)-1] {
		room.revealedPositions[i] = struct{}{}
	}
	return true
}

func unrevealed(room *Room) []int {
	var hidden []int
	for i, r := range []rune(room.secretWord) {
		if r == ' ' {
			continue
		}
		if _, ok := room.revealedPositions[i]; !ok {
			hidden = append(hidden, i)
		}
	}
	return hidden
}

// LetterCount is the number of non-space characters in word.
func LetterCount(word string) int {
	n := 0
	for _, r := range word {
		if r != ' ' {
			n++
		}
	}
	return n
}

// NormalizeGuess lower-cases text and keeps only Latin and Cyrillic letters and digits.
func NormalizeGuess(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r >= 'а' && r <= 'я', r == 'ё':
			b.WriteRune(r)
		}
	}
	return b.String()
}

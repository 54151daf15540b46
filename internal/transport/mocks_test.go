package transport

import (
	"context"
	"encoding/json"
	"time"

	"pencil/internal/game"

	"github.com/stretchr/testify/mock"
)

// --- Connection ---

type MockConnection struct {
	mock.Mock
}

func (m *MockConnection) Write(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockConnection) Ping() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockConnection) Read() ([]byte, error) {
	args := m.Called()
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockConnection) Close() {
	m.Called()
}

// --- GameService ---

type MockGameService struct {
	mock.Mock
}

func (m *MockGameService) CreateRoom(participantID, name, password string) (string, error) {
	args := m.Called(participantID, name, password)
	return args.String(0), args.Error(1)
}

func (m *MockGameService) JoinRoom(participantID, code, name, password string) error {
	args := m.Called(participantID, code, name, password)
	return args.Error(0)
}

func (m *MockGameService) ToggleReady(participantID, code string) {
	m.Called(participantID, code)
}

func (m *MockGameService) UpdateSettings(participantID, code string, update game.SettingsUpdate) {
	m.Called(participantID, code, update)
}

func (m *MockGameService) StartGame(ctx context.Context, participantID, code string) {
	m.Called(ctx, participantID, code)
}

func (m *MockGameService) SelectWord(participantID, code, word string) {
	m.Called(participantID, code, word)
}

func (m *MockGameService) Draw(participantID, code string, stroke json.RawMessage) {
	m.Called(participantID, code, stroke)
}

func (m *MockGameService) ClearCanvas(participantID, code string) {
	m.Called(participantID, code)
}

func (m *MockGameService) SendMessage(participantID, code, text string) {
	m.Called(participantID, code, text)
}

func (m *MockGameService) NextRound(ctx context.Context, participantID, code string) {
	m.Called(ctx, participantID, code)
}

func (m *MockGameService) KickPlayer(participantID, code, targetID string) {
	m.Called(participantID, code, targetID)
}

func (m *MockGameService) Disconnect(participantID string) {
	m.Called(participantID)
}

func (m *MockGameService) RoomCount() int {
	args := m.Called()
	return args.Int(0)
}

// --- TokenManager ---

type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) Generate(participantID string, now time.Time) (string, error) {
	args := m.Called(participantID, now)
	return args.String(0), args.Error(1)
}

func (m *MockTokenManager) Verify(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

func (m *MockTokenManager) MaxAge() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

package transport

import (
	"sync"
	"testing"

	"pencil/internal/game"

	"github.com/stretchr/testify/assert"
)

func noopHandle(*Client, []byte) {}

func TestReadPump(t *testing.T) {
	t.Parallel()

	t.Run("Read Error Releases Once", func(t *testing.T) {
		t.Parallel()
		mockSocket := &MockConnection{}
		mockSocket.On("Read").Return([]byte{}, assert.AnError).Once()
		released := make(chan *Client, 2)
		client := NewClient("id", noopHandle, func(c *Client) { released <- c })

		wg := sync.WaitGroup{}
		wg.Go(func() {
			client.ReadPump(mockSocket)
		})
		wg.Wait()
		client.release()

		assert.Equal(t, client, <-released)
		assert.Empty(t, released)
		assert.Error(t, client.ctx.Err())
		mockSocket.AssertExpectations(t)
	})

	t.Run("Frames Are Handed Over In Order", func(t *testing.T) {
		t.Parallel()
		mockSocket := &MockConnection{}
		mockSocket.On("Read").Return([]byte("a"), nil).Once()
		mockSocket.On("Read").Return([]byte("b"), nil).Once()
		mockSocket.On("Read").Return([]byte{}, assert.AnError).Once()

		var got []string
		client := NewClient("id", func(c *Client, data []byte) {
			got = append(got, string(data))
		}, nil)

		wg := sync.WaitGroup{}
		wg.Go(func() {
			client.ReadPump(mockSocket)
		})
		wg.Wait()

		assert.Equal(t, []string{"a", "b"}, got)
		mockSocket.AssertExpectations(t)
	})

	t.Run("Killed Client Stops Handling", func(t *testing.T) {
		t.Parallel()
		mockSocket := &MockConnection{}
		mockSocket.On("Read").Return([]byte("a"), nil).Once()
		handled := false
		client := NewClient("id", func(*Client, []byte) { handled = true }, nil)
		client.Kill()

		wg := sync.WaitGroup{}
		wg.Go(func() {
			client.ReadPump(mockSocket)
		})
		wg.Wait()

		assert.False(t, handled)
		mockSocket.AssertExpectations(t)
	})
}

func TestWritePump(t *testing.T) {
	t.Parallel()

	t.Run("Context Cancelation Must Release The Goroutine", func(t *testing.T) {
		t.Parallel()
		mockSocket := &MockConnection{}
		mockSocket.On("Close").Return().Once()
		client := NewClient("id", noopHandle, nil)
		wg := sync.WaitGroup{}
		wg.Go(func() {
			client.WritePump(mockSocket)
		})
		client.Kill()
		wg.Wait()
		mockSocket.AssertExpectations(t)
	})

	t.Run("Write Error Releases The Client", func(t *testing.T) {
		t.Parallel()
		mockSocket := &MockConnection{}
		data := []byte{1, 2, 3}
		mockSocket.On("Write", data).Return(assert.AnError).Once()
		mockSocket.On("Close").Return().Once()
		released := make(chan *Client, 1)
		client := NewClient("id", noopHandle, func(c *Client) { released <- c })
		wg := sync.WaitGroup{}
		wg.Go(func() {
			client.WritePump(mockSocket)
		})
		client.Send(data)
		wg.Wait()
		assert.Equal(t, client, <-released)
		mockSocket.AssertExpectations(t)
	})

	t.Run("Correct Data Writing", func(t *testing.T) {
		t.Parallel()
		mockSocket := &MockConnection{}
		data := []byte{1, 2, 3}
		mockSocket.On("Write", data).Return(nil).Once()
		mockSocket.On("Write", data).Return(assert.AnError).Once()
		mockSocket.On("Close").Return().Once()
		client := NewClient("id", noopHandle, nil)
		wg := sync.WaitGroup{}
		wg.Go(func() {
			client.WritePump(mockSocket)
		})
		client.Send(data)
		client.Send(data)
		wg.Wait()
		mockSocket.AssertExpectations(t)
	})

	t.Run("Correct Ping Handling", func(t *testing.T) {
		t.Parallel()
		mockSocket := &MockConnection{}
		mockSocket.On("Ping").Return(nil).Once()
		mockSocket.On("Ping").Return(assert.AnError).Once()
		mockSocket.On("Close").Return().Once()
		client := NewClient("id", noopHandle, nil)
		wg := sync.WaitGroup{}
		wg.Go(func() {
			client.WritePump(mockSocket)
		})
		client.pingChan <- struct{}{}
		client.pingChan <- struct{}{}
		wg.Wait()
		mockSocket.AssertExpectations(t)
	})
}

func TestClient_Send(t *testing.T) {
	t.Run("Full Inbox Drops The Client", func(t *testing.T) {
		client := NewClient("id", noopHandle, nil)
		for range inboxSize {
			assert.True(t, client.Send([]byte("x")))
		}
		assert.False(t, client.Send([]byte("x")))
		assert.Error(t, client.ctx.Err())
		assert.False(t, client.Send([]byte("x")))
	})

	t.Run("SendMessage Encodes JSON", func(t *testing.T) {
		client := NewClient("id", noopHandle, nil)
		assert.True(t, client.SendMessage(game.Message{Type: game.MsgKicked, Data: game.Kicked{RoomCode: "ABCDEF"}}))
		assert.JSONEq(t, `{"type":"kicked","data":{"roomCode":"ABCDEF"}}`, string(<-client.inbox))
	})

	t.Run("Ping Never Blocks", func(t *testing.T) {
		client := NewClient("id", noopHandle, nil)
		client.Ping()
		client.Ping()
		assert.Len(t, client.pingChan, 1)
	})
}

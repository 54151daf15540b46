package transport

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	pongWait     = time.Minute
	PingInterval = 30 * time.Second
	closeWait    = 5 * time.Second
)

// Connection is the socket a client pumps. Only the write pump may call
// Write, Ping and Close.
type Connection interface {
	Write(data []byte) error
	Ping() error
	Read() ([]byte, error)
	Close()
}

type websocketConnection struct {
	socket *websocket.Conn
}

func (wc *websocketConnection) Write(data []byte) error {
	return wc.socket.WriteMessage(websocket.TextMessage, data)
}

func (wc *websocketConnection) Ping() error {
	return wc.socket.WriteMessage(websocket.PingMessage, nil)
}

func (wc *websocketConnection) Read() ([]byte, error) {
	_, p, err := wc.socket.ReadMessage()
	return p, err
}

func (wc *websocketConnection) Close() {
	wc.socket.SetWriteDeadline(time.Now().Add(closeWait))
	wc.socket.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	wc.socket.Close()
}

func NewWebsocketConnection(conn *websocket.Conn, maxMessageSize int64) Connection {
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	return &websocketConnection{conn}
}

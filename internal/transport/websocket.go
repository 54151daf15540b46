package transport

import (
	"net/http"

	"pencil/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const maxFrameBytes = 64 << 10

type gameHandler struct {
	hub      *Hub
	router   *Router
	game     GameService
	upgrader websocket.Upgrader
}

func NewGameHandler(hub *Hub, g GameService) *gameHandler {
	return &gameHandler{
		hub:    hub,
		router: NewRouter(g),
		game:   g,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// origins are already filtered by the server middleware
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// release drops the participant from its room only when the closing client
// was still its live connection.
func (gh *gameHandler) release(c *Client) {
	if gh.hub.Unregister(c) {
		logger.Infof("[Client %s] Disconnected", c.id)
		gh.game.Disconnect(c.id)
	}
}

func (gh *gameHandler) ConnectHandler(ctx *gin.Context) {
	id := ctx.GetString("id")

	if id == "" {
		logger.Criticalf("Participant id missing behind session middleware, ip %s, user agent %q", ctx.ClientIP(), ctx.Request.UserAgent())
		ctx.String(http.StatusInternalServerError, ErrUnknownStr)
		ctx.Abort()
		return
	}

	conn, err := gh.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		logger.Warningf("[Client %s] Websocket upgrade failed: %v", id, err)
		return
	}

	socket := NewWebsocketConnection(conn, maxFrameBytes)
	client := NewClient(id, gh.router.Handle, gh.release)
	gh.hub.Register(client)
	logger.Infof("[Client %s] Connected", id)

	go client.WritePump(socket)
	go client.ReadPump(socket)
}

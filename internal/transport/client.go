package transport

import (
	"context"
	"encoding/json"
	"sync"

	"pencil/internal/game"
	"pencil/internal/logger"

	"golang.org/x/time/rate"
)

const inboxSize = 256

// Client is one live socket of a participant. The read pump hands every
// frame to handle; the write pump drains the inbox.
type Client struct {
	id          string
	ctx         context.Context
	cancelCtx   context.CancelFunc
	inbox       chan []byte
	pingChan    chan struct{}
	chatLimiter *rate.Limiter
	drawLimiter *rate.Limiter

	handle      func(c *Client, data []byte)
	onRelease   func(c *Client)
	releaseOnce sync.Once
}

func NewClient(id string, handle func(c *Client, data []byte), onRelease func(c *Client)) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		id:          id,
		ctx:         ctx,
		cancelCtx:   cancel,
		inbox:       make(chan []byte, inboxSize),
		pingChan:    make(chan struct{}, 1),
		chatLimiter: rate.NewLimiter(2, 5),
		drawLimiter: rate.NewLimiter(60, 120),
		handle:      handle,
		onRelease:   onRelease,
	}
}

func (c *Client) ID() string {
	return c.id
}

// Send queues data without blocking. A client whose inbox is full is
// dropped.
func (c *Client) Send(data []byte) bool {
	if c.ctx.Err() != nil {
		return false
	}
	select {
	case c.inbox <- data:
		return true
	default:
		logger.Warningf("[Client %s] Inbox full, dropping connection", c.id)
		c.cancelCtx()
		return false
	}
}

func (c *Client) SendMessage(msg game.Message) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Criticalf("Marshalling %s failed: %v", msg.Type, err)
		return false
	}
	return c.Send(data)
}

func (c *Client) Ping() {
	select {
	case c.pingChan <- struct{}{}:
	default:
	}
}

// Kill stops both pumps.
func (c *Client) Kill() {
	c.cancelCtx()
}

func (c *Client) release() {
	c.cancelCtx()
	c.releaseOnce.Do(func() {
		if c.onRelease != nil {
			c.onRelease(c)
		}
	})
}

func (c *Client) ReadPump(socket Connection) {
	defer c.release()

	for {
		data, err := socket.Read()
		if err != nil {
			return
		}
		if c.ctx.Err() != nil {
			return
		}
		c.handle(c, data)
	}
}

func (c *Client) WritePump(socket Connection) {
	defer func() {
		c.release()
		socket.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			return
		case data := <-c.inbox:
			if err := socket.Write(data); err != nil {
				return
			}
		case <-c.pingChan:
			if err := socket.Ping(); err != nil {
				return
			}
		}
	}
}

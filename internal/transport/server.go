package transport

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const (
	AppName    = "pencil"
	AppVersion = "1.0.0"
)

type Stats struct {
	Rooms       int
	Connections int
}

// CreateServer returns an engine serving /health and /api/info to anyone and
// every later route only to allowedOrigins.
func CreateServer(allowedOrigins []string, stats func() Stats) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(ctx *gin.Context) {
		s := stats()
		ctx.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"rooms":       s.Rooms,
			"connections": s.Connections,
		})
	})
	r.GET("/api/info", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"name": AppName, "version": AppVersion, "status": "running"})
	})

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")

		if slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func RegisterRoutes(r *gin.Engine, sessions *sessionHandler, games *gameHandler) {
	r.GET("/session", sessions.IssueSessionHandler)
	r.GET("/ws", sessions.RequireSessionMiddleware(2*time.Second), games.ConnectHandler)
}

package transport

import (
	"errors"
	"net/http"
	"time"

	"pencil/internal/domain"
	"pencil/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookie = "session"

var (
	ErrMissingSessionStr = "missing-session"
	ErrExpiredSessionStr = "expired-session"
	ErrUnknownStr        = "unknown-error"
)

type TokenManager interface {
	Generate(participantID string, now time.Time) (string, error)
	Verify(token string) (string, error)
	MaxAge() time.Duration
}

type sessionHandler struct {
	tokens TokenManager
	now    func() time.Time
}

func NewSessionHandler(tokens TokenManager) *sessionHandler {
	return &sessionHandler{tokens: tokens, now: time.Now}
}

// IssueSessionHandler refreshes a valid session cookie, or starts a new
// participant identity when there is none.
func (sh *sessionHandler) IssueSessionHandler(ctx *gin.Context) {
	id := ""
	if token, err := ctx.Cookie(sessionCookie); err == nil {
		if existing, err := sh.tokens.Verify(token); err == nil {
			id = existing
		}
	}
	if id == "" {
		id = uuid.NewString()
	}

	token, err := sh.tokens.Generate(id, sh.now())
	if err != nil {
		logger.Criticalf("Issuing session failed: %v", err)
		ctx.String(http.StatusInternalServerError, ErrUnknownStr)
		ctx.Abort()
		return
	}

	ctx.SetSameSite(http.SameSiteNoneMode)
	ctx.SetCookie(sessionCookie, token, int(sh.tokens.MaxAge().Seconds()), "/", "", true, true)
	ctx.JSON(http.StatusOK, gin.H{"participantId": id})
}

// RequireSessionMiddleware stores the session's participant id under "id".
// Forged tokens are answered after trollTime.
func (sh *sessionHandler) RequireSessionMiddleware(trollTime time.Duration) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie(sessionCookie)
		if err != nil {
			ctx.String(http.StatusUnauthorized, ErrMissingSessionStr)
			ctx.Abort()
			return
		}
		id, err := sh.tokens.Verify(token)

		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidSigningAlg), errors.Is(err, domain.ErrInvalidTokenSignature), errors.Is(err, domain.ErrCorruptedToken):
				logger.Warningf("Rejected forged session from %s: %v", ctx.ClientIP(), err)
				time.Sleep(trollTime)
				ctx.Status(http.StatusInternalServerError)
				ctx.Abort()
			case errors.Is(err, domain.ErrExpiredToken):
				ctx.String(http.StatusUnauthorized, ErrExpiredSessionStr)
				ctx.Abort()
			default:
				logger.Criticalf("Session verification failed: %v", err)
				ctx.String(http.StatusInternalServerError, ErrUnknownStr)
				ctx.Abort()
			}
			return
		}

		ctx.Set("id", id)
		ctx.Next()
	}
}

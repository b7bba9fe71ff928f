package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/podium-live/podium-server/internal/core"
	"github.com/podium-live/podium-server/internal/store"
)

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// EventResponse is one journal entry in the events listing.
type EventResponse struct {
	ID        string    `json:"id"`
	Nick      string    `json:"nick"`
	Kind      string    `json:"kind"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// sessionHandler reports the current room snapshot.
// GET /api/session
func sessionHandler(session *core.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, session.View())
	}
}

// eventsHandler lists recent journal entries, most recent first.
// GET /api/events?limit=N
func eventsHandler(st store.Store, logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 50
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
				return
			}
			limit = n
		}

		events, err := st.ListEvents(c.Request.Context(), limit)
		if err != nil {
			logger.Error().Err(err).Msg("failed to list events")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
			return
		}

		out := make([]EventResponse, 0, len(events))
		for _, ev := range events {
			out = append(out, EventResponse{
				ID:        ev.ID,
				Nick:      ev.Nick,
				Kind:      string(ev.Kind),
				Detail:    ev.Detail,
				CreatedAt: ev.CreatedAt,
			})
		}
		c.JSON(http.StatusOK, out)
	}
}

package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/podium-live/podium-server/internal/config"
	"github.com/podium-live/podium-server/internal/core"
	"github.com/podium-live/podium-server/internal/render"
	"github.com/podium-live/podium-server/internal/store"
)

// NewServer builds the HTTP server: entry page, static assets, status
// API and the websocket endpoint.
func NewServer(session *core.Session, st store.Store, renderer *render.Renderer, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/", entryPageHandler(renderer, logger))
	router.GET("/health", healthHandler)
	router.GET("/ws", WSHandler(session, renderer, logger))
	router.Static("/static", cfg.StaticDir)

	api := router.Group("/api")
	api.GET("/session", sessionHandler(session))
	api.GET("/events", eventsHandler(st, logger))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}

func entryPageHandler(renderer *render.Renderer, logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := renderer.EntryPage()
		if err != nil {
			logger.Error().Err(err).Msg("render entry page")
			c.String(stdhttp.StatusInternalServerError, "internal server error")
			return
		}
		c.Data(stdhttp.StatusOK, "text/html; charset=utf-8", []byte(page))
	}
}

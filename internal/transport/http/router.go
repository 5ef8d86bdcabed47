package http

import (
	"github.com/gin-gonic/gin"

	"github.com/iamasit07/connect4-matrix/internal/transport/http/middleware"
	"github.com/iamasit07/connect4-matrix/internal/transport/websocket"
)

// NewRouter wires the spectator endpoints.
func NewRouter(spectators *SpectatorHandler, ws *websocket.Handler, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())

	router.GET("/health", spectators.Health)

	api := router.Group("/api")
	api.Use(middleware.CORSMiddleware(allowedOrigins))
	{
		api.GET("/board", spectators.GetBoard)
		api.GET("/scores", spectators.GetScores)
		api.GET("/rounds", spectators.GetRounds)
	}

	// Origin is checked by the upgrader
	router.GET("/ws", func(c *gin.Context) {
		ws.HandleWebSocket(c.Writer, c.Request)
	})

	return router
}

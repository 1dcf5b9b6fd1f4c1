// Package http wires the REST surface and static assets onto a gin
// engine. Live coordination goes over the websocket endpoint; these
// routes cover durable state: meetings, chat history, summaries.
package http

import (
	"context"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/screenx/screenx/internal/adapters/signal"
	"github.com/screenx/screenx/internal/config"
	"github.com/screenx/screenx/internal/repo"
)

func genClientToken() string {
	idStr := uuid.NewString()
	return idStr
}

func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, r *repo.Repository, ws *signal.Controller) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if cfg.Mode == "debug" {
		engine.Use(gin.Logger())
	}
	engine.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	engine.Use(sessions.Sessions("ScreenXSessions", store))
	engine.Use(ClientTokenMiddleware())

	engine.Static("/static", cfg.StaticPath)
	engine.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	h := &Handlers{Repo: r, ChatLimit: cfg.ChatLimit}

	api := engine.Group("/api")

	api.POST("/meetings", h.CreateMeeting)
	api.GET("/meetings/:id", h.GetMeeting)
	api.GET("/meetings/:id/participants", h.GetParticipants)
	api.POST("/chat", h.PostChat)
	api.GET("/chat/:id", h.GetChat)
	api.GET("/summary/:id", h.GetSummary)

	api.GET("/ws", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("ct", c.GetString("client_token")).Msg("ws endpoint hit")
		ws.Handle(ctx, c)
	})

	return engine
}

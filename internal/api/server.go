// Package api exposes the HTTP surface: account and player endpoints, admin
// views, and the websocket upgrade path.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/foxhole-game/foxhole/internal/game"
	"github.com/foxhole-game/foxhole/internal/serverlog"
	"github.com/foxhole-game/foxhole/internal/session"
	"github.com/foxhole-game/foxhole/internal/world"
)

const shutdownTimeout = 5 * time.Second

// OnlineCounter reports how many connections are currently bound to a player.
// Satisfied by gateway.Manager.
type OnlineCounter interface {
	Online() int
}

type Server struct {
	addr       string
	maxPlayers int

	players  *game.Registry
	sessions *session.Registry
	world    *world.Store
	online   OnlineCounter
	logs     *serverlog.Ring
	ws       http.Handler

	router *gin.Engine
}

func NewServer(addr string, maxPlayers int, players *game.Registry, sessions *session.Registry, ws *world.Store, online OnlineCounter, logs *serverlog.Ring, socket http.Handler) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		addr:       addr,
		maxPlayers: maxPlayers,
		players:    players,
		sessions:   sessions,
		world:      ws,
		online:     online,
		logs:       logs,
		ws:         socket,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.POST("/register", s.handleRegister)
	api.POST("/login", s.handleLogin)
	api.GET("/player/:username", s.handleGetPlayer)
	api.POST("/player/:username/xp", s.handleGrantXP)
	api.POST("/player/:username/stats", s.handleAllocateStats)
	api.POST("/player/:username/email", s.handleSetEmail)
	api.POST("/player/:username/avatar", s.handleSetAvatar)
	api.GET("/races", s.handleRaces)
	api.GET("/settlements", s.handleSettlements)
	api.GET("/admin/stats", s.handleAdminStats)
	api.GET("/admin/players", s.handleAdminPlayers)
	api.GET("/admin/logs", s.handleAdminLogs)

	if s.ws != nil {
		r.GET("/ws", gin.WrapH(s.ws))
	}

	return r
}

func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	slog.InfoContext(ctx, "http server listening", "addr", s.addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

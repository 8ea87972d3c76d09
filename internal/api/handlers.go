package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/foxhole-game/foxhole/internal/auth"
	"github.com/foxhole-game/foxhole/internal/game"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Race     string `json:"race"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" || req.Race == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("hashing password", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if _, err := s.players.Register(req.Username, hash, game.RaceID(req.Race)); err != nil {
		switch {
		case errors.Is(err, game.ErrDuplicateUsername):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username already exists"})
		case errors.Is(err, game.ErrInvalidRace):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid race"})
		case errors.Is(err, game.ErrInvalidUsername):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid username"})
		default:
			slog.Error("registering player", "username", req.Username, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Character created successfully!"})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	p, err := s.players.Get(req.Username)
	if err != nil || !auth.VerifyPassword(p.PasswordHash, req.Password) {
		slog.Info("login failed", "username", req.Username)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if s.online.Online() >= s.maxPlayers {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": fmt.Sprintf("Server is full (max %d players)", s.maxPlayers),
		})
		return
	}

	token := s.sessions.Create(p.Username, p.IsAdmin)
	slog.Info("login succeeded", "username", p.Username)

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"sessionId": token,
		"player":    p.Public(),
	})
}

func (s *Server) handleGetPlayer(c *gin.Context) {
	p, err := s.players.Get(c.Param("username"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
		return
	}
	c.JSON(http.StatusOK, p.Public())
}

type grantXPRequest struct {
	SessionID string `json:"sessionId"`
	Amount    int    `json:"amount"`
}

func (s *Server) handleGrantXP(c *gin.Context) {
	var req grantXPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be positive"})
		return
	}

	if _, err := s.sessions.Resolve(req.SessionID); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
		return
	}

	p, bonus, err := s.players.GrantXP(c.Param("username"), req.Amount)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"player":  p.Public(),
		"bonusXp": bonus,
	})
}

type allocateStatsRequest struct {
	SessionID    string `json:"sessionId"`
	Strength     int    `json:"strength"`
	Intelligence int    `json:"intelligence"`
	Speed        int    `json:"speed"`
	Luck         int    `json:"luck"`
}

func (s *Server) handleAllocateStats(c *gin.Context) {
	var req allocateStatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	username := c.Param("username")
	if !s.ownSession(c, req.SessionID, username) {
		return
	}

	p, err := s.players.AllocateStats(username, game.Stats{
		Strength:     req.Strength,
		Intelligence: req.Intelligence,
		Speed:        req.Speed,
		Luck:         req.Luck,
	})
	if err != nil {
		switch {
		case errors.Is(err, game.ErrInvalidAllocation), errors.Is(err, game.ErrInsufficientPoints):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, game.ErrPlayerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
		default:
			slog.Error("allocating stats", "username", username, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "player": p.Public()})
}

type setEmailRequest struct {
	SessionID string `json:"sessionId"`
	Email     string `json:"email"`
}

func (s *Server) handleSetEmail(c *gin.Context) {
	var req setEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	username := c.Param("username")
	if !s.ownSession(c, req.SessionID, username) {
		return
	}

	if err := s.players.SetEmail(username, req.Email); err != nil {
		switch {
		case errors.Is(err, game.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "Email already in use"})
		case errors.Is(err, game.ErrPlayerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
		default:
			slog.Error("setting email", "username", username, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type setAvatarRequest struct {
	SessionID string `json:"sessionId"`
	Avatar    string `json:"avatar"`
}

func (s *Server) handleSetAvatar(c *gin.Context) {
	var req setAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Avatar == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	username := c.Param("username")
	if !s.ownSession(c, req.SessionID, username) {
		return
	}

	if err := s.players.SetAvatar(username, req.Avatar); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "avatar": req.Avatar})
}

func (s *Server) handleRaces(c *gin.Context) {
	c.JSON(http.StatusOK, game.Races)
}

func (s *Server) handleSettlements(c *gin.Context) {
	c.JSON(http.StatusOK, s.world.Settlements())
}

func (s *Server) handleAdminStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"totalPlayers":   s.players.Count(),
		"onlinePlayers":  s.online.Online(),
		"activeSessions": s.sessions.Count(),
		"settlements":    s.world.Settlements(),
		"maxPlayers":     s.maxPlayers,
	})
}

func (s *Server) handleAdminPlayers(c *gin.Context) {
	players := s.players.All()
	out := make([]*game.PublicPlayer, 0, len(players))
	for _, p := range players {
		out = append(out, p.Public())
	}
	c.JSON(http.StatusOK, out)
}

// handleAdminLogs is the only admin view behind a gate: the captured server
// log is readable by admin sessions only.
func (s *Server) handleAdminLogs(c *gin.Context) {
	sess, err := s.sessions.Resolve(c.Query("sessionId"))
	if err != nil || !sess.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, s.logs.Entries())
}

// ownSession resolves token and checks it belongs to username, replying 403
// otherwise.
func (s *Server) ownSession(c *gin.Context, token, username string) bool {
	sess, err := s.sessions.Resolve(token)
	if err != nil || !strings.EqualFold(sess.Username, username) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
		return false
	}
	return true
}

package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"CryptoPulse/internal/dashboard"
	"CryptoPulse/internal/model"
)

type selectionRequest struct {
	Asset string `json:"asset" binding:"required"`
}

type userRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
}

func (s *Server) health(c *gin.Context) {
	st := s.dashboard.State()
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"time":      time.Now().UTC(),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
		"dashboard": st.Status,
	})
}

func (s *Server) listAssets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"selection": s.dashboard.State().Selection,
		"assets":    s.catalog.List(),
	})
}

func (s *Server) getDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, s.dashboard.State())
}

func (s *Server) selectAsset(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := s.dashboard.Select(s.catalog.Resolve(req.Asset)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.accepted(c)
}

func (s *Server) refresh(c *gin.Context) {
	if _, err := s.dashboard.Refresh(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	s.accepted(c)
}

func (s *Server) accepted(c *gin.Context) {
	st := s.dashboard.State()
	c.JSON(http.StatusAccepted, gin.H{
		"selection":  st.Selection,
		"generation": st.Generation,
		"status":     st.Status,
	})
}

func (s *Server) setUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := s.dashboard.SetUser(model.User{Name: req.Name, Email: req.Email})
	switch {
	case errors.Is(err, dashboard.ErrUserAlreadySet):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, dashboard.ErrInvalidUser):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	default:
		c.JSON(http.StatusCreated, s.dashboard.State().User)
	}
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/incvoting/voting-api/internal/logger"
	"github.com/incvoting/voting-api/internal/middleware"
	"github.com/incvoting/voting-api/internal/response"
	"github.com/incvoting/voting-api/internal/services"
	"github.com/incvoting/voting-api/internal/storage/postgres"
)

// AdminHandler serves authentication and the destructive admin operations.
type AdminHandler struct {
	auth      *services.AuthService
	voting    *services.VotingService
	tally     *services.TallyService
	optimizer *postgres.QueryOptimizer
	log       *log.Logger
}

func NewAdminHandler(auth *services.AuthService, voting *services.VotingService, tally *services.TallyService, optimizer *postgres.QueryOptimizer) *AdminHandler {
	return &AdminHandler{
		auth:      auth,
		voting:    voting,
		tally:     tally,
		optimizer: optimizer,
		log:       logger.Handler("admin_handler"),
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/admin/login, setting the session cookie on success.
func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "username and password are required")
		return
	}

	token, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			response.UnauthorizedError(c, "Invalid credentials")
			return
		}
		h.log.Error("login failed", "error", err)
		response.InternalServerError(c, "Login failed")
		return
	}

	maxAge := int(h.auth.SessionTTL().Seconds())
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", false, true)

	response.SuccessResponse(c, http.StatusOK, "Logged in", gin.H{
		"token": token,
	})
}

// Logout handles POST /api/admin/logout by expiring the session cookie.
func (h *AdminHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	response.SuccessResponse(c, http.StatusOK, "Logged out", nil)
}

// AuthStatus handles GET /api/admin/auth-status. It sits behind the auth
// middleware, so reaching it means the session is valid.
func (h *AdminHandler) AuthStatus(c *gin.Context) {
	response.SuccessResponse(c, http.StatusOK, "", gin.H{
		"authenticated": true,
		"username":      c.GetString("admin_username"),
	})
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.tally.GetStatistics()
	if err != nil {
		h.log.Error("failed to compute statistics", "error", err)
		response.InternalServerError(c, "Failed to compute statistics")
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", stats)
}

// DbPerformance handles GET /api/admin/db-performance, returning database
// statistics and tuning hints.
func (h *AdminHandler) DbPerformance(c *gin.Context) {
	if h.optimizer == nil {
		response.ErrorResponseWithMessage(c, http.StatusServiceUnavailable, "Database diagnostics are not available")
		return
	}

	metrics, err := h.optimizer.AnalyzePerformance(c.Request.Context())
	if err != nil {
		h.log.Error("failed to analyze database performance", "error", err)
		response.InternalServerError(c, "Failed to analyze database performance")
		return
	}

	indexHints, err := h.optimizer.OptimizeIndexes(c.Request.Context())
	if err != nil {
		h.log.Warn("failed to analyze indexes", "error", err)
	} else {
		metrics.Suggestions = append(metrics.Suggestions, indexHints...)
	}

	response.SuccessResponse(c, http.StatusOK, "", metrics)
}

// ResetVotes handles POST /api/admin/reset-votes, wiping every vote and
// reopening all ballots.
func (h *AdminHandler) ResetVotes(c *gin.Context) {
	if err := h.voting.ResetVotes(); err != nil {
		h.log.Error("failed to reset votes", "error", err)
		response.InternalServerError(c, "Failed to reset votes")
		return
	}

	h.log.Warn("votes reset by admin", "username", c.GetString("admin_username"))
	response.SuccessResponse(c, http.StatusOK, "All votes reset", nil)
}

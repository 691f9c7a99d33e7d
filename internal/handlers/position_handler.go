package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/incvoting/voting-api/internal/logger"
	"github.com/incvoting/voting-api/internal/response"
	"github.com/incvoting/voting-api/internal/services"
)

// PositionHandler serves the admin position catalog endpoints. Positions are
// mostly seeded by migration; this surface exists for late additions.
type PositionHandler struct {
	election *services.ElectionService
	log      *log.Logger
}

func NewPositionHandler(election *services.ElectionService) *PositionHandler {
	return &PositionHandler{
		election: election,
		log:      logger.Handler("position_handler"),
	}
}

type CreatePositionRequest struct {
	Zone         string `json:"zone" binding:"required"`
	Title        string `json:"title" binding:"required"`
	DisplayOrder int    `json:"display_order"`
}

// List handles GET /api/admin/positions
func (h *PositionHandler) List(c *gin.Context) {
	positions, err := h.election.ListPositions()
	if err != nil {
		h.log.Error("failed to list positions", "error", err)
		response.InternalServerError(c, "Failed to list positions")
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", positions)
}

// Create handles POST /api/admin/positions
func (h *PositionHandler) Create(c *gin.Context) {
	var req CreatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "zone and title are required")
		return
	}

	p, err := h.election.CreatePosition(req.Zone, req.Title, req.DisplayOrder)
	if err != nil {
		h.log.Error("failed to create position", "error", err)
		response.BadRequestError(c, err.Error())
		return
	}
	response.SuccessResponse(c, http.StatusCreated, "Position created", p)
}

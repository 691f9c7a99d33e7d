package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/incvoting/voting-api/internal/domain/vote"
	"github.com/incvoting/voting-api/internal/logger"
	"github.com/incvoting/voting-api/internal/response"
	"github.com/incvoting/voting-api/internal/services"
	"github.com/incvoting/voting-api/internal/validation"
)

// VotingHandler serves the delegate-facing endpoints: token verification,
// ballot download, vote submission, and the public results views.
type VotingHandler struct {
	voting   *services.VotingService
	election *services.ElectionService
	tally    *services.TallyService
	log      *log.Logger
}

func NewVotingHandler(voting *services.VotingService, election *services.ElectionService, tally *services.TallyService) *VotingHandler {
	return &VotingHandler{
		voting:   voting,
		election: election,
		tally:    tally,
		log:      logger.Handler("voting_handler"),
	}
}

type VerifyDelegateRequest struct {
	Token string `json:"token" binding:"required"`
}

type VerifyDelegateResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Zone     string `json:"zone"`
	HasVoted bool   `json:"has_voted"`
}

// VerifyDelegate handles POST /api/verify-delegate
func (h *VotingHandler) VerifyDelegate(c *gin.Context) {
	var req VerifyDelegateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "token is required")
		return
	}

	if err := validation.ValidateToken(req.Token); err != nil {
		response.NotFoundError(c, "Invalid or unknown token")
		return
	}

	d, err := h.voting.VerifyDelegate(req.Token)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusOK, "Delegate verified", VerifyDelegateResponse{
		ID:       d.ID.String(),
		Name:     d.Name,
		Zone:     d.Zone,
		HasVoted: d.HasVoted,
	})
}

type SubmitVotesRequest struct {
	Token string            `json:"token" binding:"required"`
	Votes map[string]string `json:"votes" binding:"required"`
}

// SubmitVotes handles POST /api/submit-votes. The votes field maps position
// ids to candidate ids; positions may be skipped but at least one choice is
// required.
func (h *VotingHandler) SubmitVotes(c *gin.Context) {
	var req SubmitVotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "token and votes are required")
		return
	}

	ballot := make(vote.Ballot, len(req.Votes))
	for positionID, candidateID := range req.Votes {
		pid, err := uuid.Parse(positionID)
		if err != nil {
			response.BadRequestError(c, "invalid position id: "+positionID)
			return
		}
		cid, err := uuid.Parse(candidateID)
		if err != nil {
			response.BadRequestError(c, "invalid candidate id: "+candidateID)
			return
		}
		ballot[pid] = cid
	}

	count, err := h.voting.SubmitBallot(req.Token, ballot)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.SuccessResponse(c, http.StatusCreated, "Votes recorded", gin.H{
		"votes_recorded": count,
	})
}

// GetBallot handles GET /api/positions, returning every position with its
// candidates in display order.
func (h *VotingHandler) GetBallot(c *gin.Context) {
	positions, err := h.election.Ballot()
	if err != nil {
		h.log.Error("failed to load ballot", "error", err)
		response.InternalServerError(c, "Failed to load ballot")
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", positions)
}

// GetResults handles GET /api/results with an optional zone filter.
func (h *VotingHandler) GetResults(c *gin.Context) {
	zone := c.Query("zone")

	results, err := h.tally.GetResults(zone)
	if err != nil {
		h.log.Error("failed to compute results", "error", err, "zone", zone)
		response.InternalServerError(c, "Failed to compute results")
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", results)
}

// GetStatistics handles GET /api/statistics.
func (h *VotingHandler) GetStatistics(c *gin.Context) {
	stats, err := h.tally.GetStatistics()
	if err != nil {
		h.log.Error("failed to compute statistics", "error", err)
		response.InternalServerError(c, "Failed to compute statistics")
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", stats)
}

package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/incvoting/voting-api/internal/config"
	"github.com/incvoting/voting-api/internal/domain/election"
	"github.com/incvoting/voting-api/internal/logger"
	"github.com/incvoting/voting-api/internal/response"
	"github.com/incvoting/voting-api/internal/services"
	"github.com/incvoting/voting-api/internal/validation"
)

// CandidateHandler serves the admin candidate management endpoints. Create
// and Update accept multipart forms so a portrait image can ride along.
type CandidateHandler struct {
	election *services.ElectionService
	config   *config.Config
	log      *log.Logger
}

func NewCandidateHandler(election *services.ElectionService, cfg *config.Config) *CandidateHandler {
	return &CandidateHandler{
		election: election,
		config:   cfg,
		log:      logger.Handler("candidate_handler"),
	}
}

// List handles GET /api/admin/candidates with an optional position_id filter.
func (h *CandidateHandler) List(c *gin.Context) {
	positionID := c.Query("position_id")
	if positionID != "" {
		if err := validation.ValidateUUID(positionID, "position_id"); err != nil {
			response.BadRequestError(c, err.Error())
			return
		}
	}

	candidates, err := h.election.ListCandidates(positionID)
	if err != nil {
		h.log.Error("failed to list candidates", "error", err)
		response.InternalServerError(c, "Failed to list candidates")
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", candidates)
}

// Get handles GET /api/admin/candidates/:id
func (h *CandidateHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if err := validation.ValidateUUID(id, "id"); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}

	candidate, err := h.election.GetCandidate(id)
	if err != nil {
		if errors.Is(err, election.ErrCandidateNotFound) {
			response.NotFoundError(c, "Candidate not found")
			return
		}
		h.log.Error("failed to get candidate", "error", err, "id", id)
		response.InternalServerError(c, "Failed to get candidate")
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", candidate)
}

// imageFromForm pulls the optional image file out of a multipart form and
// enforces the configured size limit. A nil reader means no image was sent.
func (h *CandidateHandler) imageFromForm(c *gin.Context) (io.ReadCloser, *multipart.FileHeader, bool) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return nil, nil, true
	}

	if fileHeader.Size > h.config.Media.MaxFileSize {
		response.BadRequestError(c, "image exceeds the maximum allowed size")
		return nil, nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.log.Error("failed to open uploaded image", "error", err)
		response.InternalServerError(c, "Failed to read uploaded image")
		return nil, nil, false
	}
	return file, fileHeader, true
}

// Create handles POST /api/admin/candidates as a multipart form with fields
// position_id, name, gender, community, zone and an optional image.
func (h *CandidateHandler) Create(c *gin.Context) {
	positionID, err := uuid.Parse(c.PostForm("position_id"))
	if err != nil {
		response.BadRequestError(c, "position_id must be a valid UUID")
		return
	}

	name := c.PostForm("name")
	if err := validation.ValidateRequired(name, "name"); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}

	file, fileHeader, ok := h.imageFromForm(c)
	if !ok {
		return
	}

	var (
		image     io.Reader
		imageName string
		imageType string
		imageSize int64
	)
	if file != nil {
		defer file.Close()
		image = file
		imageName = fileHeader.Filename
		imageType = fileHeader.Header.Get("Content-Type")
		imageSize = fileHeader.Size
	}

	candidate, err := h.election.CreateCandidate(
		c.Request.Context(),
		positionID,
		name,
		c.PostForm("gender"),
		c.PostForm("community"),
		c.PostForm("zone"),
		image, imageName, imageType, imageSize,
	)
	if err != nil {
		h.log.Error("failed to create candidate", "error", err)
		response.BadRequestError(c, err.Error())
		return
	}
	response.SuccessResponse(c, http.StatusCreated, "Candidate created", candidate)
}

// Update handles PUT /api/admin/candidates/:id as a multipart form. Omitted
// fields keep their current values; a new image replaces the portrait.
func (h *CandidateHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if err := validation.ValidateUUID(id, "id"); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}

	candidate, err := h.election.GetCandidate(id)
	if err != nil {
		if errors.Is(err, election.ErrCandidateNotFound) {
			response.NotFoundError(c, "Candidate not found")
			return
		}
		h.log.Error("failed to get candidate", "error", err, "id", id)
		response.InternalServerError(c, "Failed to update candidate")
		return
	}

	if v := c.PostForm("name"); v != "" {
		candidate.Name = v
	}
	if v := c.PostForm("gender"); v != "" {
		candidate.Gender = v
	}
	if v := c.PostForm("community"); v != "" {
		candidate.Community = v
	}
	if v := c.PostForm("zone"); v != "" {
		candidate.Zone = v
	}

	file, fileHeader, ok := h.imageFromForm(c)
	if !ok {
		return
	}

	var (
		image     io.Reader
		imageName string
		imageType string
		imageSize int64
	)
	if file != nil {
		defer file.Close()
		image = file
		imageName = fileHeader.Filename
		imageType = fileHeader.Header.Get("Content-Type")
		imageSize = fileHeader.Size
	}

	if err := h.election.UpdateCandidate(c.Request.Context(), candidate, image, imageName, imageType, imageSize); err != nil {
		h.log.Error("failed to update candidate", "error", err, "id", id)
		response.BadRequestError(c, err.Error())
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Candidate updated", candidate)
}

// Delete handles DELETE /api/admin/candidates/:id, removing the candidate and
// any votes cast for them.
func (h *CandidateHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := validation.ValidateUUID(id, "id"); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}

	if err := h.election.DeleteCandidate(id); err != nil {
		if errors.Is(err, election.ErrCandidateNotFound) {
			response.NotFoundError(c, "Candidate not found")
			return
		}
		h.log.Error("failed to delete candidate", "error", err, "id", id)
		response.InternalServerError(c, "Failed to delete candidate")
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Candidate deleted", nil)
}

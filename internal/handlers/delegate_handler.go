package handlers

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/incvoting/voting-api/internal/domain/vote"
	"github.com/incvoting/voting-api/internal/logger"
	"github.com/incvoting/voting-api/internal/response"
	"github.com/incvoting/voting-api/internal/services"
	"github.com/incvoting/voting-api/internal/validation"
)

// DelegateHandler serves the admin delegate registry endpoints.
type DelegateHandler struct {
	delegates *services.DelegateService
	log       *log.Logger
}

func NewDelegateHandler(delegates *services.DelegateService) *DelegateHandler {
	return &DelegateHandler{
		delegates: delegates,
		log:       logger.Handler("delegate_handler"),
	}
}

type CreateDelegateRequest struct {
	Name      string `json:"name" binding:"required"`
	Gender    string `json:"gender"`
	Community string `json:"community"`
	Zone      string `json:"zone" binding:"required"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// List handles GET /api/admin/delegates
func (h *DelegateHandler) List(c *gin.Context) {
	delegates, err := h.delegates.List()
	if err != nil {
		h.log.Error("failed to list delegates", "error", err)
		response.InternalServerError(c, "Failed to list delegates")
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", delegates)
}

// Get handles GET /api/admin/delegates/:id
func (h *DelegateHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if err := validation.ValidateUUID(id, "id"); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}

	d, err := h.delegates.Get(id)
	if err != nil {
		if errors.Is(err, vote.ErrDelegateNotFound) {
			response.NotFoundError(c, "Delegate not found")
			return
		}
		h.log.Error("failed to get delegate", "error", err, "id", id)
		response.InternalServerError(c, "Failed to get delegate")
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", d)
}

// Create handles POST /api/admin/delegates
func (h *DelegateHandler) Create(c *gin.Context) {
	var req CreateDelegateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "name and zone are required")
		return
	}

	var dv validation.DelegateValidation
	if err := dv.ValidateName(req.Name); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}
	if err := dv.ValidateZone(req.Zone); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}
	if err := dv.ValidateOptionalEmail(req.Email); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}

	d, err := h.delegates.Register(req.Name, req.Gender, req.Community, req.Zone, req.Phone, req.Email)
	if err != nil {
		h.log.Error("failed to create delegate", "error", err)
		response.InternalServerError(c, "Failed to create delegate")
		return
	}
	response.SuccessResponse(c, http.StatusCreated, "Delegate created", d)
}

// Update handles PUT /api/admin/delegates/:id. Token and voting state cannot
// be changed through this endpoint.
func (h *DelegateHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if err := validation.ValidateUUID(id, "id"); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}

	var req CreateDelegateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "name and zone are required")
		return
	}

	d, err := h.delegates.Get(id)
	if err != nil {
		if errors.Is(err, vote.ErrDelegateNotFound) {
			response.NotFoundError(c, "Delegate not found")
			return
		}
		h.log.Error("failed to get delegate", "error", err, "id", id)
		response.InternalServerError(c, "Failed to update delegate")
		return
	}

	d.Name = req.Name
	d.Gender = req.Gender
	d.Community = req.Community
	d.Zone = req.Zone
	d.Phone = req.Phone
	d.Email = req.Email

	if err := h.delegates.Update(d); err != nil {
		h.log.Error("failed to update delegate", "error", err, "id", id)
		response.InternalServerError(c, "Failed to update delegate")
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Delegate updated", d)
}

// Delete handles DELETE /api/admin/delegates/:id, removing the delegate and
// any votes they cast.
func (h *DelegateHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := validation.ValidateUUID(id, "id"); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}

	if err := h.delegates.Delete(id); err != nil {
		if errors.Is(err, vote.ErrDelegateNotFound) {
			response.NotFoundError(c, "Delegate not found")
			return
		}
		h.log.Error("failed to delete delegate", "error", err, "id", id)
		response.InternalServerError(c, "Failed to delete delegate")
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Delegate deleted", nil)
}

// ImportCSV handles POST /api/admin/delegates/import with a multipart "file"
// field.
func (h *DelegateHandler) ImportCSV(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequestError(c, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.log.Error("failed to open uploaded file", "error", err)
		response.InternalServerError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	importLog, err := h.delegates.ImportCSV(fileHeader.Filename, file)
	if err != nil {
		h.log.Error("csv import failed", "error", err, "filename", fileHeader.Filename)
		response.BadRequestError(c, err.Error())
		return
	}
	response.SuccessResponse(c, http.StatusCreated, "Delegates imported", importLog)
}

// QRCode handles GET /api/admin/delegates/:id/qr, generating the code on
// first request.
func (h *DelegateHandler) QRCode(c *gin.Context) {
	id := c.Param("id")
	if err := validation.ValidateUUID(id, "id"); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}

	d, url, err := h.delegates.GenerateQRCode(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, vote.ErrDelegateNotFound) {
			response.NotFoundError(c, "Delegate not found")
			return
		}
		h.log.Error("failed to generate qr code", "error", err, "id", id)
		response.InternalServerError(c, "Failed to generate QR code")
		return
	}

	response.SuccessResponse(c, http.StatusOK, "", gin.H{
		"delegate_id": d.ID,
		"token":       d.Token,
		"qr_code_url": url,
		"voting_url":  h.delegates.VotingURL(d.Token),
	})
}

// QRCodeAll handles POST /api/admin/qr-codes/generate, generating codes for
// every delegate. A partial failure still returns the codes that were
// generated, with a 207 and the failure count.
func (h *DelegateHandler) QRCodeAll(c *gin.Context) {
	urls, failed, err := h.delegates.GenerateAllQRCodes(c.Request.Context())
	if err != nil && len(urls) == 0 {
		h.log.Error("failed to generate qr codes", "error", err)
		response.InternalServerError(c, "Failed to generate QR codes")
		return
	}

	payload := gin.H{
		"generated": len(urls),
		"failed":    failed,
		"codes":     urls,
	}
	if err != nil {
		h.log.Warn("qr code batch partially failed", "error", err, "generated", len(urls), "failed", failed)
		response.SuccessResponse(c, http.StatusMultiStatus, "Some QR codes could not be generated", payload)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "QR codes generated", payload)
}

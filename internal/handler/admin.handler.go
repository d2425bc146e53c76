package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"kabb-server/internal/auth"
	"kabb-server/internal/service"
)

type AdminHandler struct {
	licenses service.LicenseService
}

func NewAdminHandler(licenses service.LicenseService) *AdminHandler {
	return &AdminHandler{licenses: licenses}
}

func (h *AdminHandler) PendingLicenses(c *gin.Context) {
	licenses, err := h.licenses.PendingLicenses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]gin.H, 0, len(licenses))
	for _, lic := range licenses {
		items = append(items, gin.H{
			"licenseId":      lic.ID,
			"userId":         lic.UserID,
			"fileName":       lic.FileName,
			"approvalStatus": lic.ApprovalStatus,
			"createdAt":      lic.CreatedAt,
		})
	}
	respondOK(c, "", items)
}

func (h *AdminHandler) ApproveLicense(c *gin.Context) {
	licenseID, err := uuid.Parse(c.Param("licenseId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ApiResponse{Success: false, Message: "invalid license id"})
		return
	}

	outcome, err := h.licenses.Approve(c.Request.Context(), licenseID, auth.UserIDFrom(c), metaFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "license approved", approvalBody(outcome))
}

type rejectLicenseRequest struct {
	Reason string `json:"reason"`
}

func (h *AdminHandler) RejectLicense(c *gin.Context) {
	licenseID, err := uuid.Parse(c.Param("licenseId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ApiResponse{Success: false, Message: "invalid license id"})
		return
	}

	var req rejectLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ApiResponse{Success: false, Message: err.Error()})
		return
	}

	outcome, err := h.licenses.Reject(c.Request.Context(), licenseID, auth.UserIDFrom(c), req.Reason, metaFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "license rejected", approvalBody(outcome))
}

func approvalBody(outcome *service.ApprovalOutcome) gin.H {
	return gin.H{
		"licenseId":       outcome.LicenseID,
		"userId":          outcome.UserID,
		"approvalStatus":  outcome.ApprovalStatus,
		"rejectionReason": outcome.RejectionReason,
		"approvedAt":      outcome.ApprovedAt,
	}
}

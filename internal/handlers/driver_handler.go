package handlers

import (
	"github.com/gin-gonic/gin"

	"uberfriends/internal/models"
	"uberfriends/internal/services"
	"uberfriends/internal/utils"
	"uberfriends/pkg/logger"
)

type DriverHandler struct {
	driverService services.DriverService
	log           *logger.Logger
}

func NewDriverHandler(driverService services.DriverService, log *logger.Logger) *DriverHandler {
	return &DriverHandler{
		driverService: driverService,
		log:           log,
	}
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles a driver reporting back online after a ride. Only the
// transition to available is accepted here; going busy is owned by the
// dispatch claim.
func (h *DriverHandler) UpdateStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "status is required")
		return
	}
	if req.Status != string(models.DriverStatusAvailable) {
		utils.BadRequestResponse(c, "only the available status can be set here")
		return
	}

	driver, changed, err := h.driverService.GoOnline(c.Request.Context(), userID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	message := "driver is now available"
	if !changed {
		message = "driver was already available"
	}

	utils.SuccessResponse(c, message, gin.H{
		"driver_id": driver.ID.Hex(),
		"status":    models.DriverStatusAvailable,
	})
}

package handlers

import (
	"github.com/gin-gonic/gin"

	"uberfriends/internal/services"
	"uberfriends/internal/utils"
	"uberfriends/pkg/logger"
)

type RideHandler struct {
	dispatchService services.DispatchService
	log             *logger.Logger
}

func NewRideHandler(dispatchService services.DispatchService, log *logger.Logger) *RideHandler {
	return &RideHandler{
		dispatchService: dispatchService,
		log:             log,
	}
}

// Locations are pointers so a literal zero coordinate is distinguishable from
// a missing field.
type bookRideRequest struct {
	SourceLocation *int64 `json:"source_location" binding:"required"`
	DestLocation   *int64 `json:"dest_location" binding:"required"`
}

// BookRide answers 200 with driver details when a driver was committed, 202
// when the ride was created but no driver could be assigned yet.
func (h *RideHandler) BookRide(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req bookRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationErrorResponse(c, map[string]string{
			"body": "source_location and dest_location are required",
		})
		return
	}

	result, err := h.dispatchService.Book(c.Request.Context(), userID, *req.SourceLocation, *req.DestLocation)
	if err != nil {
		h.log.WithError(err).WithUserID(userID).Error("Booking failed")
		respondDomainError(c, err)
		return
	}

	if result.Status == utils.BookingStatusWaiting {
		utils.AcceptedResponse(c, utils.ErrNoDriversAvailable, result)
		return
	}

	utils.SuccessResponse(c, "driver assigned", result)
}

func (h *RideHandler) RideHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	entries, err := h.dispatchService.History(c.Request.Context(), userID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	utils.SuccessResponse(c, "ride history", gin.H{"rides": entries})
}

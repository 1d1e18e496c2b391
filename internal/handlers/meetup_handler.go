package handlers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"uberfriends/internal/services"
	"uberfriends/internal/utils"
	"uberfriends/pkg/logger"
)

type MeetupHandler struct {
	meetupService services.MeetupService
	log           *logger.Logger
}

func NewMeetupHandler(meetupService services.MeetupService, log *logger.Logger) *MeetupHandler {
	return &MeetupHandler{
		meetupService: meetupService,
		log:           log,
	}
}

type createMeetupRequest struct {
	MeetupLocation *int64   `json:"meetup_location" binding:"required"`
	Invitees       []string `json:"invitees" binding:"required,min=1"`
}

type respondInviteRequest struct {
	Response       string `json:"response" binding:"required"`
	SourceLocation *int64 `json:"source_location"`
}

func (h *MeetupHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req createMeetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationErrorResponse(c, map[string]string{
			"body": "meetup_location and a non-empty invitees list are required",
		})
		return
	}

	meetup, invited, err := h.meetupService.Create(c.Request.Context(), userID, *req.MeetupLocation, req.Invitees)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	utils.CreatedResponse(c, "meetup created", gin.H{
		"meetup_id":     meetup.ID.Hex(),
		"invites_sent":  invited,
		"meetup_status": meetup.Status,
	})
}

func (h *MeetupHandler) PendingInvites(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	invites, err := h.meetupService.PendingInvites(c.Request.Context(), userID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	utils.SuccessResponse(c, "pending invites", gin.H{"invites": invites})
}

func (h *MeetupHandler) Respond(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	inviteID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid invite id")
		return
	}

	var req respondInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "response is required")
		return
	}

	result, err := h.meetupService.Respond(c.Request.Context(), userID, inviteID, req.Response, req.SourceLocation)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	utils.SuccessResponse(c, "invite "+result.Status, result)
}
